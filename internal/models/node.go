package models

import "strings"

// Attachment is a component attached to a node, identified by its type name
type Attachment struct {
	Type string `json:"type" yaml:"type" toml:"type"`
}

// Node represents one entity in a scene hierarchy
type Node struct {
	Name        string
	Active      bool
	Attachments []Attachment
	Children    []*Node
	Parent      *Node // back-reference for path reconstruction only
}

// NewNode creates an active node carrying the given component types
func NewNode(name string, types ...string) *Node {
	n := &Node{Name: name, Active: true}
	for _, t := range types {
		n.Attachments = append(n.Attachments, Attachment{Type: t})
	}
	return n
}

// AddChild appends child to n and sets its parent link
func (n *Node) AddChild(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// IsRoot reports whether the node has no parent
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// Root returns the forest root above n
func (n *Node) Root() *Node {
	seen := map[*Node]bool{n: true}
	for n.Parent != nil && !seen[n.Parent] {
		n = n.Parent
		seen[n] = true
	}
	return n
}

// Path returns the slash-delimited path from the forest root to n.
// Format: /Root/Child/.../Node
func (n *Node) Path() string {
	if n == nil {
		return ""
	}

	var names []string
	seen := make(map[*Node]bool)
	for cur := n; cur != nil && !seen[cur]; cur = cur.Parent {
		seen[cur] = true
		names = append(names, cur.Name)
	}

	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(names[i])
	}
	return b.String()
}

// Types returns the attachment type names in declaration order
func (n *Node) Types() []string {
	types := make([]string, 0, len(n.Attachments))
	for _, a := range n.Attachments {
		types = append(types, a.Type)
	}
	return types
}

// Paths converts nodes to their path strings, preserving order
func Paths(nodes []*Node) []string {
	paths := make([]string, 0, len(nodes))
	for _, n := range nodes {
		paths = append(paths, n.Path())
	}
	return paths
}
