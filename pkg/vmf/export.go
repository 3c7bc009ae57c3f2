package vmf

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Export views present a block as an object whose keys keep document order.
// A key holding one scalar or one block maps to that value; a key repeated
// across entries, or holding a list of blocks, maps to an array. Internal
// annotations are included.

type group struct {
	key   string
	items []item
	multi bool
}

type item struct {
	str  string
	node *Node
}

func (n *Node) groups() []group {
	var out []group
	pos := make(map[string]int)
	for _, e := range n.entries {
		i, seen := pos[e.Key]
		if !seen {
			i = len(out)
			pos[e.Key] = i
			out = append(out, group{key: e.Key})
		} else {
			out[i].multi = true
		}
		g := &out[i]
		switch e.Value.kind {
		case KindString:
			g.items = append(g.items, item{str: e.Value.str})
		case KindNode:
			g.items = append(g.items, item{node: e.Value.node})
		case KindList:
			g.multi = true
			for _, c := range e.Value.list {
				g.items = append(g.items, item{node: c})
			}
		}
	}
	return out
}

// Interface converts the block into map[string]any / []any / string values,
// the shape expected by JSON query engines.
func (n *Node) Interface() map[string]any {
	out := make(map[string]any, len(n.entries))
	for _, g := range n.groups() {
		if !g.multi && len(g.items) == 1 {
			out[g.key] = g.items[0].iface()
			continue
		}
		arr := make([]any, len(g.items))
		for i, it := range g.items {
			arr[i] = it.iface()
		}
		out[g.key] = arr
	}
	return out
}

func (it item) iface() any {
	if it.node != nil {
		return it.node.Interface()
	}
	return it.str
}

// MarshalJSON implements json.Marshaler with keys in document order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range n.groups() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if !g.multi && len(g.items) == 1 {
			if err := g.items[0].writeJSON(&buf); err != nil {
				return nil, err
			}
			continue
		}
		buf.WriteByte('[')
		for j, it := range g.items {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(&buf); err != nil {
				return nil, err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (it item) writeJSON(buf *bytes.Buffer) error {
	var (
		data []byte
		err  error
	)
	if it.node != nil {
		data, err = it.node.MarshalJSON()
	} else {
		data, err = json.Marshal(it.str)
	}
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// MarshalYAML implements yaml.Marshaler with keys in document order.
func (n *Node) MarshalYAML() (any, error) {
	return n.yamlNode(), nil
}

func (n *Node) yamlNode() *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, g := range n.groups() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: g.key}
		if !g.multi && len(g.items) == 1 {
			m.Content = append(m.Content, key, g.items[0].yamlNode())
			continue
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range g.items {
			seq.Content = append(seq.Content, it.yamlNode())
		}
		m.Content = append(m.Content, key, seq)
	}
	return m
}

func (it item) yamlNode() *yaml.Node {
	if it.node != nil {
		return it.node.yamlNode()
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: it.str}
}
