package syntax

import "strings"

// DefaultIndent is the indentation unit used for generated item children.
const DefaultIndent = "    "

func (n *Node) IsNamed() bool {
	return n.named
}

// Attrs returns the outer attributes applied to an item, field or variant.
// Attributes left dangling in a container are not applied to anything.
func (n *Node) Attrs() []*Node {
	if containerKinds[n.kind] {
		return nil
	}
	return n.ChildrenOfKind(KindAttributeItem)
}

// Name returns the text of the node's name field, if any.
func (n *Node) Name() string {
	if name := n.ChildByField("name"); name != nil {
		return name.Text()
	}
	return ""
}

// Body returns the delimited body of an item: the declaration list of a
// module, trait or impl, the field list of a struct or union, the variant
// list of an enum, or the block of a function.
func (n *Node) Body() *Node {
	body := n.ChildByField("body")
	if body == nil {
		return nil
	}
	switch body.kind {
	case KindDeclarationList, KindFieldDeclarationList, KindEnumVariantList, KindBlock:
		return body
	}
	return nil
}

// ParentItem returns the closest item containing n. An attribute's parent
// item must be the item it is actually applied to.
func ParentItem(n *Node) *Node {
	if n.kind == KindAttributeItem {
		if p := n.parent; p != nil && p.IsItem() {
			return p
		}
		return nil
	}
	return n.Ancestor((*Node).IsItem)
}

// MetaEnd returns the offset right after the last attribute or leading
// comment of the node, or its start when there is none.
func (n *Node) MetaEnd() int {
	end := n.rng.Start
	for _, c := range n.children {
		if c.kind == KindAttributeItem || c.IsTrivia() {
			if c.kind != KindWhitespace {
				end = c.rng.End
			}
			continue
		}
		break
	}
	return end
}

// FirstNonMetaToken returns the first token of the node that is not part of
// an attribute, a comment or whitespace.
func (n *Node) FirstNonMetaToken() *Node {
	for _, c := range n.children {
		if c.kind == KindAttributeItem || c.IsTrivia() {
			continue
		}
		return c.FirstToken()
	}
	return nil
}

var declarationKinds = map[string]bool{
	KindModItem:               true,
	KindTraitItem:             true,
	KindImplItem:              true,
	KindStructItem:            true,
	KindEnumItem:              true,
	KindUnionItem:             true,
	KindFunctionItem:          true,
	KindFunctionSignatureItem: true,
}

// DeclarationRange returns the item's "declaration": everything from the
// first non-meta token up to and including the body's opening brace (or the
// whole remainder for body-less items). Unsupported item kinds return false.
func DeclarationRange(item *Node) (Range, bool) {
	if !declarationKinds[item.kind] {
		return Range{}, false
	}
	first := item.FirstNonMetaToken()
	if first == nil {
		return Range{}, false
	}
	end := item.rng.End
	if body := item.Body(); body != nil {
		if open := body.FirstToken(); open != nil && open.kind == "{" {
			end = open.rng.End
		}
	}
	return NewRange(first.rng.Start, end), true
}

// TerminalToken returns the closing brace of the item's body, or its final
// token (e.g. `;`) when it has no braced body.
func TerminalToken(item *Node) *Node {
	if !declarationKinds[item.kind] {
		return nil
	}
	if body := item.Body(); body != nil {
		if closing := body.LastToken(); closing != nil && closing.kind == "}" {
			return closing
		}
	}
	return item.LastToken()
}

// Indenting returns the indentation preceding the node on its line.
func Indenting(n *Node) string {
	prev := n.PrevSibling()
	if prev == nil || prev.kind != KindWhitespace {
		return ""
	}
	return EndIndenting(prev.Text())
}

// ChildrenIndenting returns the indentation for new children of the node.
func ChildrenIndenting(n *Node) string {
	return Indenting(n) + DefaultIndent
}

// EndIndenting returns the text after the last line break.
func EndIndenting(ws string) string {
	if i := strings.LastIndexByte(ws, '\n'); i >= 0 {
		return ws[i+1:]
	}
	return ws
}

// ApplyIndenting indents every line of text after the first by indent.
// Blank lines are left untouched.
func ApplyIndenting(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
