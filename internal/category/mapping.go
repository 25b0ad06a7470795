package category

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is a named list of extensions.
type Category struct {
	Name       string   `json:"name" yaml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// Mapping is an ordered list of categories. Lookups walk it front to back, so the
// first category listing an extension wins.
type Mapping []Category

// FromMap builds a Mapping from an unordered map, ordering categories by name.
func FromMap(m map[string][]string) Mapping {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Mapping, 0, len(names))
	for _, name := range names {
		out = append(out, Category{Name: name, Extensions: append([]string(nil), m[name]...)})
	}
	return out
}

// ToMap flattens the mapping, losing its order.
func (m Mapping) ToMap() map[string][]string {
	out := make(map[string][]string, len(m))
	for _, c := range m {
		out[c.Name] = append([]string(nil), c.Extensions...)
	}
	return out
}

// Lookup returns the extensions of the named category.
func (m Mapping) Lookup(name string) ([]string, bool) {
	for _, c := range m {
		if c.Name == name {
			return c.Extensions, true
		}
	}
	return nil, false
}

// Names returns category names in order.
func (m Mapping) Names() []string {
	names := make([]string, len(m))
	for i, c := range m {
		names[i] = c.Name
	}
	return names
}

// Add appends ext to the named category, creating the category at the end if needed.
// It reports false if the extension was already listed there.
func (m *Mapping) Add(name, ext string) bool {
	ext = NormalizeExtension(ext)
	for i := range *m {
		c := &(*m)[i]
		if c.Name != name {
			continue
		}
		for _, e := range c.Extensions {
			if e == ext {
				return false
			}
		}
		c.Extensions = append(c.Extensions, ext)
		return true
	}

	*m = append(*m, Category{Name: name, Extensions: []string{ext}})
	return true
}

// Normalize lowercases every extension and makes sure it starts with a dot.
// Empty entries are dropped.
func (m Mapping) Normalize() {
	for i := range m {
		exts := m[i].Extensions[:0]
		for _, e := range m[i].Extensions {
			if e = NormalizeExtension(e); e != "" {
				exts = append(exts, e)
			}
		}
		m[i].Extensions = exts
	}
}

// Clone returns a deep copy.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for i, c := range m {
		out[i] = Category{Name: c.Name, Extensions: append([]string(nil), c.Extensions...)}
	}
	return out
}

// NormalizeExtension turns "JPG", "jpg" or ".Jpg" into ".jpg".
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// UnmarshalYAML decodes a mapping node, keeping the document's key order.
func (m *Mapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("file_types: expected a mapping, got %s", nodeKind(value))
	}

	out := make(Mapping, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("file_types: invalid category name: %w", err)
		}
		var exts []string
		if err := value.Content[i+1].Decode(&exts); err != nil {
			return fmt.Errorf("file_types.%s: %w", name, err)
		}
		out = append(out, Category{Name: name, Extensions: exts})
	}

	*m = out
	return nil
}

// MarshalYAML encodes the mapping as an ordered YAML mapping.
func (m Mapping) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range m {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: c.Name}
		val := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, e := range c.Extensions {
			val.Content = append(val.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e, Style: yaml.DoubleQuotedStyle})
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// MarshalJSON encodes the mapping as a JSON object in category order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		exts := c.Extensions
		if exts == nil {
			exts = []string{}
		}
		val, err := json.Marshal(exts)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object in document order. JSON is valid YAML,
// so the YAML decoder does the ordered walk.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		return m.UnmarshalYAML(node.Content[0])
	}
	return m.UnmarshalYAML(&node)
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "mapping"
	}
}
