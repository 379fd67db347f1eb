package ir

import "inkanalyzer/internal/syntax"

// HasInkAttrs reports whether any recognized ink! attribute is applied to
// node. Nodes carrying only unknown ink! attributes are transparent to every
// ancestor and descendant walk.
func HasInkAttrs(node *syntax.Node) bool {
	for _, item := range node.Attrs() {
		if attr, ok := ParseAttribute(item); ok && !attr.Kind.IsUnknown() {
			return true
		}
	}
	return false
}

// ClosestInkAncestor returns the nearest strict ancestor of node carrying
// ink! attributes, or nil if there is none.
func ClosestInkAncestor(node *syntax.Node) *syntax.Node {
	if node == nil {
		return nil
	}
	return node.Ancestor(HasInkAttrs)
}

// ClosestAncestorAttrs returns the ink! attributes of the nearest
// ink-attributed ancestor.
func ClosestAncestorAttrs(node *syntax.Node) []*Attribute {
	return InkAttrs(ClosestInkAncestor(node))
}

// ClosestInkDescendants returns the quasi-direct ink! descendants of node:
// ink-attributed descendants with no other ink-attributed node between them
// and node.
func ClosestInkDescendants(node *syntax.Node) []*syntax.Node {
	return closestDescendants(node, func(*syntax.Node) bool { return false })
}

// closestDescendants walks below node, stopping at ink-attributed nodes
// unless peek asks to look through them.
func closestDescendants(node *syntax.Node, peek func(*syntax.Node) bool) []*syntax.Node {
	var out []*syntax.Node
	if node == nil {
		return nil
	}
	node.Walk(func(n *syntax.Node) bool {
		if n.Kind() == syntax.KindAttributeItem || n.IsToken() {
			return false
		}
		if HasInkAttrs(n) {
			out = append(out, n)
			return peek(n)
		}
		return true
	})
	return out
}

// ClosestDescendantAttrs returns the ink! attributes of the quasi-direct ink!
// descendants of node.
func ClosestDescendantAttrs(node *syntax.Node) []*Attribute {
	var out []*Attribute
	for _, n := range ClosestInkDescendants(node) {
		out = append(out, InkAttrs(n)...)
	}
	return out
}

// InkDescendants returns every ink-attributed node below node.
func InkDescendants(node *syntax.Node) []*syntax.Node {
	return closestDescendants(node, func(*syntax.Node) bool { return true })
}

// InkParent returns the nearest ink-attributed ancestor of node if it has
// an attribute of the given kind.
func InkParent(node *syntax.Node, kind AttrKind) *syntax.Node {
	parent := ClosestInkAncestor(node)
	if parent == nil || FindAttr(parent, kind) == nil {
		return nil
	}
	return parent
}
