// Package vmf reads and writes Valve Map Format documents.
//
// A document is a tree of blocks. Each block holds an ordered list of entries;
// an entry's value is a quoted string, a nested block, or a list of blocks
// sharing the same name. Parse and Marshal round-trip a document losslessly.
package vmf

import (
	"fmt"
	"strconv"
	"strings"
)

// InternalPrefix marks keys that carry derived annotations. Entries whose
// key starts with it are never written by Marshal.
const InternalPrefix = "*"

// Kind identifies which variant a Value holds.
type Kind uint8

// Value kinds.
const (
	KindString Kind = iota // quoted "key" "value" pair
	KindNode               // single nested block
	KindList               // two or more sibling blocks with the same name
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNode:
		return "node"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Value is the tagged union stored under a key.
type Value struct {
	kind Kind
	str  string
	node *Node
	list []*Node
}

// StringValue wraps a scalar.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NodeValue wraps a single block.
func NodeValue(n *Node) Value { return Value{kind: KindNode, node: n} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the scalar. It is empty unless Kind is KindString.
func (v Value) Str() string { return v.str }

// Node returns the block. It is nil unless Kind is KindNode.
func (v Value) Node() *Node { return v.node }

// List returns the blocks. It is nil unless Kind is KindList.
func (v Value) List() []*Node { return v.list }

// Nodes returns the block(s) held by v as a slice: one element for
// KindNode, all elements for KindList, nil for KindString.
func (v Value) Nodes() []*Node {
	switch v.kind {
	case KindNode:
		return []*Node{v.node}
	case KindList:
		return v.list
	default:
		return nil
	}
}

// Entry is a key paired with its value.
type Entry struct {
	Key   string
	Value Value
}

// Node is one block of a document. The zero value is an empty block.
type Node struct {
	entries []Entry
}

// NewNode returns an empty block.
func NewNode() *Node {
	return &Node{}
}

// Len returns the number of entries.
func (n *Node) Len() int { return len(n.entries) }

// Entries returns the entries in insertion order. The slice must not be
// modified.
func (n *Node) Entries() []Entry { return n.entries }

// Keys returns the entry keys in insertion order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.entries))
	for i, e := range n.entries {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the first value stored under key.
func (n *Node) Get(key string) (Value, bool) {
	if i := n.index(key); i >= 0 {
		return n.entries[i].Value, true
	}
	return Value{}, false
}

// String returns the first scalar stored under key.
func (n *Node) String(key string) (string, bool) {
	for _, e := range n.entries {
		if e.Key == key && e.Value.kind == KindString {
			return e.Value.str, true
		}
	}
	return "", false
}

// Int parses the scalar stored under key as an integer.
func (n *Node) Int(key string) (int, error) {
	s, ok := n.String(key)
	if !ok {
		return 0, fmt.Errorf("missing key %q", key)
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("key %q: %w", key, err)
	}
	return v, nil
}

// SetString sets the first scalar under key, or appends one.
func (n *Node) SetString(key, value string) {
	for i, e := range n.entries {
		if e.Key == key && e.Value.kind == KindString {
			n.entries[i].Value.str = value
			return
		}
	}
	n.entries = append(n.entries, Entry{Key: key, Value: StringValue(value)})
}

// AddString appends a scalar even if key already holds one. Repeated keys
// occur in entity output blocks and must survive a round trip.
func (n *Node) AddString(key, value string) {
	n.entries = append(n.entries, Entry{Key: key, Value: StringValue(value)})
}

// Child returns the first block stored under key.
func (n *Node) Child(key string) *Node {
	if nodes := n.Children(key); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// Children returns every block stored under key in document order.
func (n *Node) Children(key string) []*Node {
	if i := n.blockIndex(key); i >= 0 {
		return n.entries[i].Value.Nodes()
	}
	return nil
}

// Append adds child under key. The first block under a key is stored bare;
// a second one promotes the entry to a list.
func (n *Node) Append(key string, child *Node) {
	i := n.blockIndex(key)
	if i < 0 {
		n.entries = append(n.entries, Entry{Key: key, Value: NodeValue(child)})
		return
	}

	v := &n.entries[i].Value
	if v.kind == KindNode {
		v.list = []*Node{v.node, child}
		v.node = nil
		v.kind = KindList
		return
	}
	v.list = append(v.list, child)
}

// RemoveChild removes child from the blocks under key, comparing by
// identity. A list left with one block collapses back to a bare node and an
// emptied entry is dropped. It reports whether child was found.
func (n *Node) RemoveChild(key string, child *Node) bool {
	i := n.blockIndex(key)
	if i < 0 {
		return false
	}

	v := &n.entries[i].Value
	if v.kind == KindNode {
		if v.node != child {
			return false
		}
		n.entries = append(n.entries[:i], n.entries[i+1:]...)
		return true
	}

	for j, c := range v.list {
		if c != child {
			continue
		}
		rest := make([]*Node, 0, len(v.list)-1)
		rest = append(rest, v.list[:j]...)
		rest = append(rest, v.list[j+1:]...)
		switch len(rest) {
		case 0:
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
		case 1:
			*v = NodeValue(rest[0])
		default:
			v.list = rest
		}
		return true
	}
	return false
}

// Delete removes every entry stored under key.
func (n *Node) Delete(key string) {
	kept := n.entries[:0]
	for _, e := range n.entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	n.entries = kept
}

// Walk visits n and every nested block depth-first in document order. The
// name passed to fn is the key the block is stored under ("" for n itself).
// Returning false from fn skips that block's children.
func (n *Node) Walk(fn func(name string, node *Node) bool) {
	n.walk("", fn)
}

func (n *Node) walk(name string, fn func(string, *Node) bool) {
	if !fn(name, n) {
		return
	}
	for _, e := range n.entries {
		for _, c := range e.Value.Nodes() {
			c.walk(e.Key, fn)
		}
	}
}

func (n *Node) index(key string) int {
	for i, e := range n.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

func (n *Node) blockIndex(key string) int {
	for i, e := range n.entries {
		if e.Key == key && e.Value.kind != KindString {
			return i
		}
	}
	return -1
}

// IsInternal reports whether key carries a derived annotation.
func IsInternal(key string) bool {
	return strings.HasPrefix(key, InternalPrefix)
}
