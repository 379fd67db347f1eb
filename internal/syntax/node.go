package syntax

import (
	"fmt"
	"strings"
)

// Kinds are tree-sitter-rust node types, plus the synthesized whitespace kind.
const (
	KindSourceFile             = "source_file"
	KindWhitespace             = "whitespace"
	KindError                  = "ERROR"
	KindLineComment            = "line_comment"
	KindBlockComment           = "block_comment"
	KindAttributeItem          = "attribute_item"
	KindInnerAttributeItem     = "inner_attribute_item"
	KindAttribute              = "attribute"
	KindTokenTree              = "token_tree"
	KindIdentifier             = "identifier"
	KindTypeIdentifier         = "type_identifier"
	KindScopedIdentifier       = "scoped_identifier"
	KindScopedTypeIdentifier   = "scoped_type_identifier"
	KindGenericType            = "generic_type"
	KindModItem                = "mod_item"
	KindTraitItem              = "trait_item"
	KindImplItem               = "impl_item"
	KindStructItem             = "struct_item"
	KindEnumItem               = "enum_item"
	KindUnionItem              = "union_item"
	KindFunctionItem           = "function_item"
	KindFunctionSignatureItem  = "function_signature_item"
	KindAssociatedType         = "associated_type"
	KindTypeItem               = "type_item"
	KindUseDeclaration         = "use_declaration"
	KindUseList                = "use_list"
	KindScopedUseList          = "scoped_use_list"
	KindUseAsClause            = "use_as_clause"
	KindUseWildcard            = "use_wildcard"
	KindDeclarationList        = "declaration_list"
	KindFieldDeclarationList   = "field_declaration_list"
	KindOrderedFieldDeclList   = "ordered_field_declaration_list"
	KindFieldDeclaration       = "field_declaration"
	KindEnumVariantList        = "enum_variant_list"
	KindEnumVariant            = "enum_variant"
	KindBlock                  = "block"
	KindParameters             = "parameters"
	KindSelfParameter          = "self_parameter"
	KindVisibilityModifier     = "visibility_modifier"
	KindStringLiteral          = "string_literal"
	KindRawStringLiteral       = "raw_string_literal"
	KindCharLiteral            = "char_literal"
	KindIntegerLiteral         = "integer_literal"
	KindBooleanLiteral         = "boolean_literal"
	KindMacroInvocation        = "macro_invocation"
	KindConstItem              = "const_item"
	KindStaticItem             = "static_item"
	KindExternCrateDeclaration = "extern_crate_declaration"
	KindForeignModItem         = "foreign_mod_item"
	KindMacroDefinition        = "macro_definition"
)

var atomicKinds = map[string]bool{
	KindLineComment:      true,
	KindBlockComment:     true,
	KindStringLiteral:    true,
	KindRawStringLiteral: true,
	KindCharLiteral:      true,
}

var containerKinds = map[string]bool{
	KindSourceFile:           true,
	KindDeclarationList:      true,
	KindFieldDeclarationList: true,
	KindEnumVariantList:      true,
	KindBlock:                true,
}

var itemKinds = map[string]bool{
	KindConstItem:              true,
	KindEnumItem:               true,
	KindExternCrateDeclaration: true,
	KindForeignModItem:         true,
	KindFunctionItem:           true,
	KindFunctionSignatureItem:  true,
	KindImplItem:               true,
	KindMacroDefinition:        true,
	KindMacroInvocation:        true,
	KindModItem:                true,
	KindStaticItem:             true,
	KindStructItem:             true,
	KindTraitItem:              true,
	KindTypeItem:               true,
	KindAssociatedType:         true,
	KindUnionItem:              true,
	KindUseDeclaration:         true,
}

func isComment(kind string) bool {
	return kind == KindLineComment || kind == KindBlockComment
}

func isInnerDoc(text string) bool {
	return strings.HasPrefix(text, "//!") || strings.HasPrefix(text, "/*!")
}

func isAttachTarget(container, kind string) bool {
	switch container {
	case KindFieldDeclarationList:
		return kind == KindFieldDeclaration
	case KindEnumVariantList:
		return kind == KindEnumVariant
	}
	return itemKinds[kind]
}

// Node is an element of the tree: an interior node or a token (leaf).
type Node struct {
	kind     string
	field    string
	rng      Range
	named    bool
	parent   *Node
	children []*Node
	index    int
	tokIdx   int
	tree     *Tree
}

func (n *Node) Kind() string {
	return n.kind
}

// Field is the grammar field name the node occupies in its parent, if any.
func (n *Node) Field() string {
	return n.field
}

func (n *Node) Range() Range {
	return n.rng
}

func (n *Node) Tree() *Tree {
	return n.tree
}

func (n *Node) Text() string {
	return n.tree.src[n.rng.Start:n.rng.End]
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) IsToken() bool {
	return len(n.children) == 0 && n.parent != nil
}

// IsTrivia reports whether the node is whitespace or a comment.
func (n *Node) IsTrivia() bool {
	return n.kind == KindWhitespace || isComment(n.kind)
}

func (n *Node) IsComment() bool {
	return isComment(n.kind)
}

// IsItem reports whether the node is a Rust item (module, fn, impl, ...).
func (n *Node) IsItem() bool {
	return itemKinds[n.kind]
}

func (n *Node) ChildByField(name string) *Node {
	for _, c := range n.children {
		if c.field == name {
			return c
		}
	}
	return nil
}

func (n *Node) FirstChildOfKind(kinds ...string) *Node {
	for _, c := range n.children {
		for _, k := range kinds {
			if c.kind == k {
				return c
			}
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kinds ...string) []*Node {
	var out []*Node
	for _, c := range n.children {
		for _, k := range kinds {
			if c.kind == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (n *Node) PrevSibling() *Node {
	if n.parent == nil || n.index == 0 {
		return nil
	}
	return n.parent.children[n.index-1]
}

func (n *Node) NextSibling() *Node {
	if n.parent == nil || n.index+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[n.index+1]
}

func (n *Node) FirstToken() *Node {
	cur := n
	for len(cur.children) > 0 {
		cur = cur.children[0]
	}
	if cur.tokIdx < 0 {
		return nil
	}
	return cur
}

func (n *Node) LastToken() *Node {
	cur := n
	for len(cur.children) > 0 {
		cur = cur.children[len(cur.children)-1]
	}
	if cur.tokIdx < 0 {
		return nil
	}
	return cur
}

// PrevToken returns the token preceding this element in document order.
func (n *Node) PrevToken() *Node {
	first := n.FirstToken()
	if first == nil || first.tokIdx == 0 {
		return nil
	}
	return n.tree.tokens[first.tokIdx-1]
}

// NextToken returns the token following this element in document order.
func (n *Node) NextToken() *Node {
	last := n.LastToken()
	if last == nil || last.tokIdx+1 >= len(n.tree.tokens) {
		return nil
	}
	return n.tree.tokens[last.tokIdx+1]
}

// PrevNonTrivia walks backwards to the closest non-trivia token.
func (n *Node) PrevNonTrivia() *Node {
	for tok := n.PrevToken(); tok != nil; tok = tok.PrevToken() {
		if !tok.IsTrivia() {
			return tok
		}
	}
	return nil
}

// NextNonTrivia walks forwards to the closest non-trivia token.
func (n *Node) NextNonTrivia() *Node {
	for tok := n.NextToken(); tok != nil; tok = tok.NextToken() {
		if !tok.IsTrivia() {
			return tok
		}
	}
	return nil
}

// Ancestor returns the closest strict ancestor satisfying pred.
func (n *Node) Ancestor(pred func(*Node) bool) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if pred(p) {
			return p
		}
	}
	return nil
}

// Walk visits the node's strict descendants in document order. Returning
// false from fn skips the visited node's own descendants.
func (n *Node) Walk(fn func(*Node) bool) {
	for _, c := range n.children {
		if fn(c) {
			c.Walk(fn)
		}
	}
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	return fmt.Sprintf("%s@%d..%d", n.kind, n.rng.Start, n.rng.End)
}
