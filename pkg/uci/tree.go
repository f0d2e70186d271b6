package uci

import (
	"strconv"
	"strings"
)

// Node is one element of a configuration snapshot: a named config, a section,
// an option, or a list item. Options and list items carry their scalar content
// in Value; configs, sections, and lists carry theirs in Children.
type Node struct {
	Name      string
	Type      string
	Anonymous bool
	Value     string
	Children  []*Node
}

// Child returns the first direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Values returns the scalar contents of the node's children in order. It is
// the usual way to read a list node.
func (n *Node) Values() []string {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	out := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		out = append(out, child.Value)
	}
	return out
}

// Find resolves a dotted path relative to the node. Segments name children;
// the form "@type[n]" selects the n-th anonymous section of that type. A
// missing path yields nil, never an error.
func (n *Node) Find(path string) *Node {
	if n == nil {
		return nil
	}
	current := n
	for _, segment := range splitPath(path) {
		current = resolveSegment(current, segment)
		if current == nil {
			return nil
		}
	}
	return current
}

// Tree is a read-only snapshot of configuration state fetched from the
// backend. Top-level roots are named documents: "uci" for the configuration
// hierarchy plus any auxiliary module roots ("stats", "updater", "time").
type Tree struct {
	Roots []*Node
}

// NewTree assembles a snapshot from the given root nodes.
func NewTree(roots ...*Node) *Tree {
	return &Tree{Roots: roots}
}

// Find resolves a dotted path whose first segment names a root node. Absent
// paths yield nil.
func (t *Tree) Find(path string) *Node {
	if t == nil {
		return nil
	}
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil
	}
	for _, root := range t.Roots {
		if root.Name != segments[0] {
			continue
		}
		if len(segments) == 1 {
			return root
		}
		return root.Find(strings.Join(segments[1:], "."))
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ".")
}

func resolveSegment(node *Node, segment string) *Node {
	if sectionType, index, ok := parseAnonymousSegment(segment); ok {
		n := 0
		for _, child := range node.Children {
			if child.Anonymous && child.Type == sectionType {
				if n == index {
					return child
				}
				n++
			}
		}
		return nil
	}
	return node.Child(segment)
}

func parseAnonymousSegment(segment string) (sectionType string, index int, ok bool) {
	if !strings.HasPrefix(segment, "@") || !strings.HasSuffix(segment, "]") {
		return "", 0, false
	}
	open := strings.IndexByte(segment, '[')
	if open < 2 {
		return "", 0, false
	}
	index, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil || index < 0 {
		return "", 0, false
	}
	return segment[1:open], index, true
}

// ParseBool interprets the truthy spellings used by UCI option values.
// Unrecognised content reads as false.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "on", "true", "yes", "enabled":
		return true
	}
	return false
}

// Root builds a named root node holding the given children.
func Root(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children}
}

// Section builds a named section node of the given type.
func Section(name, sectionType string, children ...*Node) *Node {
	return &Node{Name: name, Type: sectionType, Children: children}
}

// Anonymous builds an anonymous section node of the given type. The name is
// the backend-assigned identifier (for example "cfg043579").
func Anonymous(name, sectionType string, children ...*Node) *Node {
	return &Node{Name: name, Type: sectionType, Anonymous: true, Children: children}
}

// Option builds an option node carrying a scalar value.
func Option(name, value string) *Node {
	return &Node{Name: name, Value: value}
}

// List builds a list node whose children carry the given values in order.
func List(name string, values ...string) *Node {
	node := &Node{Name: name}
	for _, value := range values {
		node.Children = append(node.Children, &Node{Value: value})
	}
	return node
}
