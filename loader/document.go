package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a raw entity document: definitions keyed by entity name, each an
// object schema with properties, required, and x-* extension keys. YAML is a
// superset of JSON, so one parser covers both file formats; the yaml.Node tree
// is kept around because declaration order matters for table ordering and Go
// maps discard it.
type Document struct {
	Root map[string]any

	rootProps []string
	defOrder  []string
	propOrder map[string][]string
}

// LoadDocument reads and parses an entity document from disk.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading entity document: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument parses a JSON or YAML entity document.
func ParseDocument(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("unmarshalling document: %w", err)
	}
	root := documentRoot(&node)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document root is not an object")
	}

	value, err := nodeValue(root)
	if err != nil {
		return nil, err
	}
	rootMap, _ := value.(map[string]any)

	doc := &Document{
		Root:      rootMap,
		propOrder: map[string][]string{},
	}
	doc.rootProps = mappingKeys(childNode(root, "properties"))

	defs := childNode(root, "definitions")
	doc.defOrder = mappingKeys(defs)
	if defs != nil && defs.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(defs.Content); i += 2 {
			name := defs.Content[i].Value
			entity := defs.Content[i+1]
			doc.propOrder[name] = mappingKeys(childNode(entity, "properties"))
		}
	}

	return doc, nil
}

// Definitions returns the entity definitions map, never nil.
func (d *Document) Definitions() map[string]any {
	defs, _ := d.Root["definitions"].(map[string]any)
	if defs == nil {
		return map[string]any{}
	}
	return defs
}

// EntityOrder returns entity names in the document's declared ordering: the
// root property listing first, then any remaining definitions in document
// order.
func (d *Document) EntityOrder() []string {
	seen := map[string]bool{}
	var order []string
	for _, name := range d.rootProps {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	for _, name := range d.defOrder {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	return order
}

// PropertyOrder returns the declared property order for one entity.
func (d *Document) PropertyOrder(entity string) []string {
	return d.propOrder[entity]
}

func documentRoot(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0]
	}
	return node
}

func childNode(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func mappingKeys(mapping *yaml.Node) []string {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	return keys
}

// nodeValue converts a yaml.Node subtree into plain Go values with string map
// keys, the shape the constraint resolver walks.
func nodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := nodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[node.Content[i].Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("decoding scalar at line %d: %w", node.Line, err)
		}
		return v, nil
	case yaml.AliasNode:
		return nodeValue(node.Alias)
	default:
		return nil, nil
	}
}
