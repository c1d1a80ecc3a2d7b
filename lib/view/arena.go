// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"
	"slices"
)

// NodeID is a handle to a node in an [Arena]. The zero NodeID never
// resolves.
type NodeID struct {
	index      uint32
	generation uint32
}

// IsZero reports whether id is the zero handle.
func (id NodeID) IsZero() bool { return id.generation == 0 }

func (id NodeID) String() string {
	if id.IsZero() {
		return "node(none)"
	}
	return fmt.Sprintf("node(%d.%d)", id.index, id.generation)
}

// Node is one view in a built tree.
type Node struct {
	ID     NodeID
	View   View
	Visual Visual

	// Parent is the nearest view-carrying ancestor, or zero.
	Parent NodeID

	// Children are the nodes whose Parent is this node, in
	// breadth-first discovery order.
	Children []NodeID

	// AutoDestroy is meaningful on registry roots: when true, release
	// destroys the tree; when false, release only deactivates it.
	AutoDestroy bool
}

// Kind is the kind of the node's view.
func (n *Node) Kind() Kind { return n.View.Kind() }

// Active mirrors the visual's own active flag.
func (n *Node) Active() bool { return n.Visual.Active() }

type slot struct {
	node       *Node
	generation uint32
}

// Arena stores nodes in reusable slots.
type Arena struct {
	slots  []slot
	free   []uint32
	byView map[View]NodeID
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{byView: make(map[View]NodeID)}
}

// Len returns the number of live nodes.
func (a *Arena) Len() int { return len(a.byView) }

// Node resolves id. Returns nil for zero, freed or reused handles.
func (a *Arena) Node(id NodeID) *Node {
	if id.IsZero() || int(id.index) >= len(a.slots) {
		return nil
	}
	s := a.slots[id.index]
	if s.generation != id.generation || s.node == nil {
		return nil
	}
	return s.node
}

// Lookup returns the node that v is attached to.
func (a *Arena) Lookup(v View) (NodeID, bool) {
	id, ok := a.byView[v]
	return id, ok
}

func (a *Arena) allocate(v View, visual Visual) *Node {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	s := &a.slots[index]
	s.generation++
	node := &Node{
		ID:          NodeID{index: index, generation: s.generation},
		View:        v,
		Visual:      visual,
		AutoDestroy: true,
	}
	s.node = node
	a.byView[v] = node.ID
	return node
}

// Build walks root breadth-first and returns a node for every visual
// that carries a view, in discovery order. Views already in the arena
// keep their node and have their Children cleared before relinking.
// Each node is linked to its nearest view-carrying ancestor, which
// may lie above root; such an external parent gains the child once.
//
// The first returned node is root's own node when root carries a
// view. Returns nil when no visual under root carries one.
func (a *Arena) Build(root Visual) []NodeID {
	var (
		collected []*Node
		queue     = []Visual{root}
	)
	for len(queue) > 0 {
		visual := queue[0]
		queue = queue[1:]
		if v := visual.View(); v != nil {
			var node *Node
			if id, ok := a.byView[v]; ok {
				node = a.Node(id)
				node.Visual = visual
				node.Children = node.Children[:0]
			} else {
				node = a.allocate(v, visual)
			}
			collected = append(collected, node)
		}
		queue = append(queue, visual.Children()...)
	}
	if len(collected) == 0 {
		return nil
	}

	ids := make([]NodeID, len(collected))
	for i, node := range collected {
		ids[i] = node.ID
		node.Parent = NodeID{}
		parentID, ok := a.nearestAncestor(node.Visual)
		if !ok {
			continue
		}
		parent := a.Node(parentID)
		node.Parent = parentID
		if !slices.Contains(parent.Children, node.ID) {
			parent.Children = append(parent.Children, node.ID)
		}
	}
	return ids
}

// nearestAncestor walks upward from visual to the first ancestor that
// carries a view and returns its node if that view is in the arena.
func (a *Arena) nearestAncestor(visual Visual) (NodeID, bool) {
	for ancestor := visual.Parent(); ancestor != nil; ancestor = ancestor.Parent() {
		v := ancestor.View()
		if v == nil {
			continue
		}
		id, ok := a.byView[v]
		return id, ok
	}
	return NodeID{}, false
}

// Subtree returns root and every descendant in breadth-first order.
// Returns nil if root does not resolve.
func (a *Arena) Subtree(root NodeID) []NodeID {
	if a.Node(root) == nil {
		return nil
	}
	order := []NodeID{root}
	for i := 0; i < len(order); i++ {
		order = append(order, a.Node(order[i]).Children...)
	}
	return order
}

// Detach unlinks id from its parent. The subtree below id stays intact.
func (a *Arena) Detach(id NodeID) {
	node := a.Node(id)
	if node == nil {
		return
	}
	if parent := a.Node(node.Parent); parent != nil {
		parent.Children = slices.DeleteFunc(parent.Children, func(child NodeID) bool {
			return child == id
		})
	}
	node.Parent = NodeID{}
}

// Free releases the slot of id alone. Callers free a subtree by
// freeing each id returned from Subtree; Detach the root first so no
// live node keeps a handle to it.
func (a *Arena) Free(id NodeID) {
	node := a.Node(id)
	if node == nil {
		return
	}
	delete(a.byView, node.View)
	a.slots[id.index].node = nil
	a.free = append(a.free, id.index)
}
