// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package layer keeps named, ordered containers under a root.
//
// Panels share the "panel" layer. Each class of window names its own
// layer with a sort order; containers are created on first use and
// kept sorted ascending by order under the root, so higher orders draw
// on top. Layers with equal order keep creation order.
//
// A layer name maps to exactly one order. Orders come from explicit
// [Spec] values or from declarations (typically the config file);
// [Named] defers to the declaration. Two different orders for one name
// is [ErrLayerConflict].
//
// The manager is not safe for concurrent use.
package layer

import (
	"errors"
	"fmt"
	"math"

	"github.com/bureau-foundation/uiframe/lib/view"
)

// Panel is the name of the layer that holds panels.
const Panel = "panel"

// Inherit as a Spec order means "use the declared order".
const Inherit = math.MinInt

var (
	// ErrLayerConflict is returned when one layer name is given two
	// different orders.
	ErrLayerConflict = errors.New("layer declared with conflicting orders")

	// ErrUndeclared is returned when a spec inherits its order from a
	// declaration that does not exist.
	ErrUndeclared = errors.New("layer order not declared")
)

// Spec names a layer and its sort order.
type Spec struct {
	Name  string
	Order int
}

// Named returns a spec that takes its order from a declaration.
func Named(name string) Spec { return Spec{Name: name, Order: Inherit} }

// PanelSpec is the default panel layer.
var PanelSpec = Spec{Name: Panel, Order: 0}

func (s Spec) String() string {
	if s.Order == Inherit {
		return s.Name + "(inherited)"
	}
	return fmt.Sprintf("%s(%d)", s.Name, s.Order)
}

// Factory creates the container for a new layer.
type Factory func(spec Spec) view.Container

type created struct {
	spec      Spec
	container view.Container
}

// Manager owns the layers under one root container.
type Manager struct {
	root     view.Container
	factory  Factory
	declared map[string]int
	layers   []created
}

// NewManager returns a manager creating layers with factory under
// root.
func NewManager(root view.Container, factory Factory) *Manager {
	return &Manager{
		root:     root,
		factory:  factory,
		declared: make(map[string]int),
	}
}

// Declare records the order of a layer without creating it.
func (m *Manager) Declare(spec Spec) error {
	_, err := m.Resolve(spec)
	return err
}

// Resolve returns spec with its order settled and records the
// declaration.
func (m *Manager) Resolve(spec Spec) (Spec, error) {
	if spec.Name == "" {
		return Spec{}, errors.New("layer name is empty")
	}
	order, declared := m.declared[spec.Name]
	if spec.Order == Inherit {
		if !declared {
			return Spec{}, fmt.Errorf("%w: %s", ErrUndeclared, spec.Name)
		}
		return Spec{Name: spec.Name, Order: order}, nil
	}
	if declared && order != spec.Order {
		return Spec{}, fmt.Errorf("%w: %s is %d, not %d", ErrLayerConflict, spec.Name, order, spec.Order)
	}
	m.declared[spec.Name] = spec.Order
	return spec, nil
}

// Declared reports whether name has an order.
func (m *Manager) Declared(name string) bool {
	_, ok := m.declared[name]
	return ok
}

// Ensure returns the container for spec, creating and inserting it on
// first use.
func (m *Manager) Ensure(spec Spec) (view.Container, error) {
	spec, err := m.Resolve(spec)
	if err != nil {
		return nil, err
	}
	for _, layer := range m.layers {
		if layer.spec.Name == spec.Name {
			return layer.container, nil
		}
	}

	index := 0
	for index < len(m.layers) && m.layers[index].spec.Order <= spec.Order {
		index++
	}
	container := m.factory(spec)
	container.SetActive(true)
	m.root.Insert(index, container)

	m.layers = append(m.layers, created{})
	copy(m.layers[index+1:], m.layers[index:])
	m.layers[index] = created{spec: spec, container: container}
	return container, nil
}

// Container returns the container of a created layer.
func (m *Manager) Container(name string) (view.Container, bool) {
	for _, layer := range m.layers {
		if layer.spec.Name == name {
			return layer.container, true
		}
	}
	return nil, false
}

// Layers returns the created layers in draw order.
func (m *Manager) Layers() []Spec {
	specs := make([]Spec, len(m.layers))
	for i, layer := range m.layers {
		specs[i] = layer.spec
	}
	return specs
}

// Root returns the root container.
func (m *Manager) Root() view.Container { return m.root }
