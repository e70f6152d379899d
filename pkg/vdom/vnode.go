package vdom

import (
	"fmt"
	"strconv"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // tagged element with props
	KindText                  // escaped on render
	KindFragment              // children without a wrapper
	KindRaw                   // written verbatim, trusted content only
)

func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	}
	return "Unknown"
}

// VNode is one node of a server-side tree.
type VNode struct {
	Kind     VKind
	Tag      string
	Props    Props
	Children []*VNode
	Key      string // identity among siblings, never rendered
	Text     string // content of text and raw nodes
}

// Props holds element attributes.
type Props map[string]any

// Attr is a single attribute. The zero Attr is skipped.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty reports whether a is the zero Attr.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Raw creates a node whose content is written without escaping.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element. It accepts the same
// child arguments as the element functions.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, c := range children {
		node.appendChild(c)
	}
	return node
}

// If returns node when cond holds and nil otherwise.
func If(cond bool, node *VNode) *VNode {
	if !cond {
		return nil
	}
	return node
}

// Range maps items through fn and drops nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	nodes := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Key identifies a node among its siblings.
func Key(key any) Attr {
	switch k := key.(type) {
	case string:
		return attr("key", k)
	case int:
		return attr("key", strconv.Itoa(k))
	}
	return attr("key", fmt.Sprint(key))
}

// Find returns the first node in the tree, depth first, for which match
// returns true.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	if v == nil {
		return nil
	}
	if match(v) {
		return v
	}
	for _, child := range v.Children {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}
