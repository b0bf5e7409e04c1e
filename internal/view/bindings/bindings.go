// Package bindings loads user gesture bindings from YAML and applies
// them to a view tree. Each entry maps a gesture kind in a named region
// to an application action; entries are applied on top of the built-in
// defaults, so a user file only needs to list overrides.
package bindings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/inkstorm/internal/input/gesture"
	"github.com/dshills/inkstorm/internal/view"
)

// Binding maps one gesture kind in one region to an action.
// An empty region matches everywhere.
type Binding struct {
	Gesture string `yaml:"gesture"`
	Region  string `yaml:"region"`
	Action  string `yaml:"action"`
}

// Set holds bindings grouped by view name.
type Set map[string][]Binding

// Parse decodes a YAML bindings document.
func Parse(data []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("bindings: parse: %w", err)
	}
	return set, nil
}

// Load reads and parses a bindings file.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bindings: read %s: %w", path, err)
	}
	return Parse(data)
}

// Apply binds every entry onto the named views under root. It fails on
// the first view name not present in the tree or gesture kind it cannot
// parse, leaving earlier applications in place.
func (s Set) Apply(root *view.Node) error {
	for name, bindings := range s {
		node := root.Find(name)
		if node == nil {
			return fmt.Errorf("bindings: no view named %q", name)
		}
		for _, b := range bindings {
			kind, ok := gesture.ParseKind(b.Gesture)
			if !ok {
				return fmt.Errorf("bindings: view %q: unknown gesture kind %q", name, b.Gesture)
			}
			region := b.Region
			if region == "" {
				region = view.RegionAny
			}
			node.Bind(kind, region, view.Action(b.Action))
		}
	}
	return nil
}
