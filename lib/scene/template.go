// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/uiframe/lib/view"
)

// File is the on-disk form of a template.
type File struct {
	// Kind defaults to the file name without extension.
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Root Node   `yaml:"root" json:"root"`
}

// Node describes one element of a template.
type Node struct {
	Name string `yaml:"name" json:"name"`

	// View names a factory entry whose view is attached to the element.
	View string `yaml:"view,omitempty" json:"view,omitempty"`

	Text     string `yaml:"text,omitempty" json:"text,omitempty"`
	Button   bool   `yaml:"button,omitempty" json:"button,omitempty"`
	Inactive bool   `yaml:"inactive,omitempty" json:"inactive,omitempty"`

	Children []Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// Digest is the BLAKE3 hash of a template's canonical JSON form.
type Digest [32]byte

func (d Digest) String() string { return fmt.Sprintf("%x", d[:8]) }

// Factory creates views by kind.
type Factory map[view.Kind]func() view.View

// Mounter is implemented by views that want their element after the
// template is instantiated, typically to find labels to update.
type Mounter interface {
	Mount(element *Element)
}

// Template instantiates element hierarchies for one kind.
type Template struct {
	Kind   view.Kind
	Root   Node
	Digest Digest

	factory Factory
}

// Instantiate builds a fresh, detached hierarchy.
func (t *Template) Instantiate() view.Visual {
	return t.build(t.Root)
}

func (t *Template) build(node Node) *Element {
	options := []ElementOption{WithText(node.Text)}
	if node.Button {
		options = append(options, WithButton())
	}
	if node.Inactive {
		options = append(options, Inactive())
	}
	children := make([]*Element, len(node.Children))
	for i, child := range node.Children {
		children[i] = t.build(child)
	}
	options = append(options, WithChildren(children...))

	var v view.View
	if node.View != "" {
		if create, ok := t.factory[view.Kind(node.View)]; ok {
			v = create()
			options = append(options, WithView(v))
		}
	}

	element := NewElement(node.Name, options...)
	if mounter, ok := v.(Mounter); ok {
		mounter.Mount(element)
	}
	return element
}

// Parse decodes a template from data. The format follows the
// extension of name: .yaml and .yml are YAML, .json and .jsonc are
// JSON with comments and trailing commas allowed.
func Parse(name string, data []byte) (File, error) {
	var file File
	switch extension := strings.ToLower(filepath.Ext(name)); extension {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return File{}, fmt.Errorf("parsing template %s: %w", name, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return File{}, fmt.Errorf("parsing template %s: %w", name, err)
		}
	default:
		return File{}, fmt.Errorf("template %s: unsupported extension %q", name, extension)
	}
	if file.Kind == "" {
		file.Kind = KindFromPath(name)
	}
	return file, nil
}

// ReadFile reads and parses a template file.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, data)
}

// KindFromPath strips the directory and extension from path.
// "templates/settings.yaml" returns "settings".
func KindFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Validate checks structural rules: every element is named, the root
// carries a view, and every view named is in factory.
func (f File) Validate(factory Factory) error {
	var errs []error
	if f.Kind == "" {
		errs = append(errs, errors.New("template kind is empty"))
	}
	if f.Root.View == "" {
		errs = append(errs, fmt.Errorf("template %s: root element %q has no view", f.Kind, f.Root.Name))
	}
	var walk func(node Node, path string)
	walk = func(node Node, path string) {
		if node.Name == "" {
			errs = append(errs, fmt.Errorf("template %s: unnamed element at %s", f.Kind, path))
		}
		if node.View != "" {
			if _, ok := factory[view.Kind(node.View)]; !ok {
				errs = append(errs, fmt.Errorf("template %s: element %q uses unknown view %q", f.Kind, node.Name, node.View))
			}
		}
		for i, child := range node.Children {
			walk(child, fmt.Sprintf("%s/%d", path, i))
		}
	}
	walk(f.Root, "root")
	return errors.Join(errs...)
}

// Digest hashes the canonical JSON form of f.
func (f File) Digest() Digest {
	canonical, err := json.Marshal(f)
	if err != nil {
		// File holds only strings, bools and slices of itself.
		panic("scene: marshaling template: " + err.Error())
	}
	return Digest(blake3.Sum256(canonical))
}
