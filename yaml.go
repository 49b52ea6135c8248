package querytpl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SkipTag marks a YAML node as the skip sentinel, e.g. `- !skip`.
const SkipTag = "!skip"

// ArgsFromYAML decodes a YAML sequence into template arguments. Mappings keep
// their document order.
func ArgsFromYAML(data []byte) ([]Arg, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: arguments should be a YAML sequence", root.Line)
	}
	args := make([]Arg, 0, len(root.Content))
	for _, n := range root.Content {
		a, err := argOfNode(n)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

func argOfNode(n *yaml.Node) (Arg, error) {
	if n.Tag == SkipTag {
		return Skip(), nil
	}
	switch n.Kind {
	case yaml.AliasNode:
		return argOfNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]Arg, 0, len(n.Content))
		for _, c := range n.Content {
			a, err := argOfNode(c)
			if err != nil {
				return Arg{}, err
			}
			items = append(items, a)
		}
		return List(items...), nil
	case yaml.MappingNode:
		pairs := make([]Pair, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := argOfNode(n.Content[i+1])
			if err != nil {
				return Arg{}, err
			}
			pairs = append(pairs, Pair{Key: n.Content[i].Value, Value: v})
		}
		return Map(pairs...), nil
	case yaml.ScalarNode:
		return scalarOfNode(n)
	}
	return Arg{}, fmt.Errorf("line %d: %w: yaml node kind %d", n.Line, ErrUnsupportedArgument, n.Kind)
}

func scalarOfNode(n *yaml.Node) (Arg, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Arg{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return Arg{}, err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Arg{}, err
		}
		return Float(f), nil
	case "!!str", "!!binary", "!!timestamp":
		return String(n.Value), nil
	}
	return Arg{}, fmt.Errorf("line %d: %w: yaml tag %s", n.Line, ErrUnsupportedArgument, n.Tag)
}
