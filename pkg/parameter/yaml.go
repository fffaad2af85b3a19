package parameter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"lexcore-hq/lexcore/pkg/period"
)

// LoadDir loads every .yaml/.yml file under the directory into a single
// parameter tree. Files are merged under one root: nodes with the same path
// merge recursively, leaves and scales replace.
func LoadDir(path string) (*Node, error) {
	root := NewNode("")
	err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isParameterFile(p) {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return &LoadError{Path: p, Cause: err}
		}
		if err := mergeDocument(root, data); err != nil {
			return &LoadError{Path: p, Cause: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

// LoadFS loads parameter files from an fs.FS, for rule sets that embed their
// constants in the binary.
func LoadFS(fsys fs.FS, dir string) (*Node, error) {
	root := NewNode("")
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isParameterFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return &LoadError{Path: p, Cause: err}
		}
		if err := mergeDocument(root, data); err != nil {
			return &LoadError{Path: p, Cause: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func isParameterFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// mergeDocument parses one YAML document and merges it into the root.
//
// A mapping with a "values" key becomes a Leaf, a mapping with a "brackets"
// key becomes a Scale, and any other mapping becomes a Node. A "description"
// key is carried on all three.
func mergeDocument(root *Node, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil
	}
	return mergeMapping(root, doc.Content[0])
}

func mergeMapping(into *Node, mapping *yaml.Node) error {
	if mapping.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping at line %d", mapping.Line)
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		value := mapping.Content[i+1]
		if key == "description" {
			into.Description = value.Value
			continue
		}
		child, err := buildChild(value)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", key, err)
		}
		// Same-named nodes merge so parameter files can split one subtree
		// across files.
		if newNode, ok := child.(*Node); ok {
			if existing, found := into.Child(key); found {
				if existingNode, ok := existing.(*Node); ok {
					for _, name := range newNode.Names() {
						c, _ := newNode.Child(name)
						existingNode.Add(name, c)
					}
					if newNode.Description != "" {
						existingNode.Description = newNode.Description
					}
					continue
				}
			}
		}
		into.Add(key, child)
	}
	return nil
}

func buildChild(value *yaml.Node) (Child, error) {
	if value.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping at line %d", value.Line)
	}

	description := ""
	var valuesNode, bracketsNode *yaml.Node
	for i := 0; i+1 < len(value.Content); i += 2 {
		switch value.Content[i].Value {
		case "description":
			description = value.Content[i+1].Value
		case "values":
			valuesNode = value.Content[i+1]
		case "brackets":
			bracketsNode = value.Content[i+1]
		}
	}

	switch {
	case valuesNode != nil:
		return buildLeaf(description, valuesNode)
	case bracketsNode != nil:
		return buildScale(description, bracketsNode)
	default:
		node := NewNode(description)
		if err := mergeMapping(node, value); err != nil {
			return nil, err
		}
		return node, nil
	}
}

func buildLeaf(description string, values *yaml.Node) (*Leaf, error) {
	if values.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("values must be a date-to-value mapping (line %d)", values.Line)
	}
	leaf := NewLeaf(description)
	for i := 0; i+1 < len(values.Content); i += 2 {
		at, err := period.ParseInstant(values.Content[i].Value)
		if err != nil {
			return nil, fmt.Errorf("invalid effective date %q", values.Content[i].Value)
		}
		var v any
		if err := values.Content[i+1].Decode(&v); err != nil {
			return nil, err
		}
		leaf.Set(at, v)
	}
	return leaf, nil
}

func buildScale(description string, versions *yaml.Node) (*Scale, error) {
	if versions.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("brackets must be a date-to-bracket-list mapping (line %d)", versions.Line)
	}
	scale := NewScale(description)
	for i := 0; i+1 < len(versions.Content); i += 2 {
		at, err := period.ParseInstant(versions.Content[i].Value)
		if err != nil {
			return nil, fmt.Errorf("invalid effective date %q", versions.Content[i].Value)
		}
		var brackets Brackets
		if err := versions.Content[i+1].Decode(&brackets); err != nil {
			return nil, err
		}
		scale.Set(at, brackets)
	}
	return scale, nil
}
