package analysis

import (
	"strconv"
	"strings"
	"unicode"

	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/syntax"
)

// isPrimaryArg reports whether arg names an entity and therefore leads the
// argument list it is inserted into.
func isPrimaryArg(arg ir.ArgKind) bool {
	switch arg {
	case ir.ArgConstructor, ir.ArgEvent, ir.ArgExtension, ir.ArgImpl, ir.ArgMessage, ir.ArgStorage:
		return true
	}
	return false
}

// argInsertText renders arg for insertion. When the text already continues
// with `=`, only the name is inserted.
func argInsertText(arg ir.ArgKind, next *syntax.Node) (text, snippet string) {
	name := arg.String()
	if next != nil && next.Kind() == "=" {
		return name, name
	}
	switch arg.ValueKind() {
	case ir.ValueU32, ir.ValueU32OrWildcard:
		return name + " = 1", name + " = ${1:1}"
	case ir.ValueIdentString:
		return name + ` = "my_namespace"`, name + ` = "${1:my_namespace}"`
	case ir.ValueString:
		return name + ` = ""`, name + ` = "$1"`
	case ir.ValueBool:
		return name + " = true", name + " = ${1:true}"
	case ir.ValuePath:
		return name + " = crate::", name + " = ${1:crate::}"
	}
	return name, name
}

// argInsertOffsetAndAffixes computes where arg goes inside an existing
// attribute and the separators around it. Unclosed attributes and argument
// lists not delimited by parentheses report false.
func argInsertOffsetAndAffixes(attr *ir.Attribute, arg ir.ArgKind) (offset int, prefix, suffix string, ok bool) {
	if !attr.Closed() {
		return 0, "", "", false
	}
	tt := attr.TokenTree()
	if tt == nil {
		closing := attr.Node.LastToken()
		return closing.Range().Start, "(", ")", true
	}
	open, closing := tt.FirstToken(), tt.LastToken()
	if open == nil || closing == nil || open.Kind() != "(" || closing.Kind() != ")" {
		return 0, "", "", false
	}
	if isPrimaryArg(arg) {
		if next := open.NextNonTrivia(); next != nil && next.Kind() != "," && next.Kind() != ")" {
			suffix = ", "
		}
		return open.Range().End, "", suffix, true
	}
	if prev := closing.PrevNonTrivia(); prev != nil && prev.Kind() != "," && prev.Kind() != "(" {
		prefix = ", "
	}
	return closing.Range().Start, prefix, "", true
}

// extendAttrEdit builds the edit adding arg to attr.
func extendAttrEdit(attr *ir.Attribute, arg ir.ArgKind) (TextEdit, bool) {
	offset, prefix, suffix, ok := argInsertOffsetAndAffixes(attr, arg)
	if !ok {
		return TextEdit{}, false
	}
	_, next := attr.Node.Tree().TokenAtOffset(offset)
	for next != nil && next.IsTrivia() {
		next = next.NextToken()
	}
	text, snippet := argInsertText(arg, next)
	return insertEdit(prefix+text+suffix, offset, prefix+snippet+suffix), true
}

// attrInsertOffset is where a new attribute goes: right before the first
// token of the item proper, after existing attributes and doc comments.
func attrInsertOffset(node *syntax.Node) int {
	if tok := node.FirstNonMetaToken(); tok != nil {
		return tok.Range().Start
	}
	return node.Range().Start
}

// newAttrEdit builds the edit inserting a fresh attribute (`#[ink(...)]` or
// a macro) before node.
func newAttrEdit(node *syntax.Node, attr string) TextEdit {
	offset := attrInsertOffset(node)
	text := attr
	if tokenBefore(node.Tree(), offset) == nil {
		text += "\n"
	}
	return insertEdit(text, offset, text)
}

// itemListStart returns the offset right after the opening brace of list.
func itemListStart(list *syntax.Node) int {
	if open := list.FirstToken(); open != nil && open.Kind() == "{" {
		return open.Range().End
	}
	return list.Range().Start
}

// itemListEnd returns the offset right after the last element of list, or
// after its opening brace when it is empty.
func itemListEnd(list *syntax.Node) int {
	closing := list.LastToken()
	if closing == nil || closing.Kind() != "}" {
		return list.Range().End
	}
	if prev := closing.PrevNonTrivia(); prev != nil && list.Contains(prev) {
		return prev.Range().End
	}
	return closing.Range().Start
}

// coveringAttribute returns the attribute containing r, if any.
func coveringAttribute(tree *syntax.Tree, r syntax.Range) *syntax.Node {
	elem := tree.CoveringElement(r)
	if elem == nil {
		return nil
	}
	if elem.Kind() == syntax.KindAttributeItem {
		return elem
	}
	return elem.Ancestor(func(n *syntax.Node) bool { return n.Kind() == syntax.KindAttributeItem })
}

// focusOffset picks the insertion offset for entity scaffolds requested
// from inside an item body.
func focusOffset(tree *syntax.Tree, r syntax.Range) int {
	elem := tree.CoveringElement(r)
	if elem == nil || !elem.IsToken() || elem.Kind() == syntax.KindWhitespace {
		return r.End
	}
	return elem.Range().End
}

// isDeclarationFocus reports whether r lies on the item's signature or its
// terminal token.
func isDeclarationFocus(item *syntax.Node, r syntax.Range) bool {
	if decl, ok := syntax.DeclarationRange(item); ok && decl.ContainsRange(r) {
		return true
	}
	if term := syntax.TerminalToken(item); term != nil && term.Range().ContainsRange(r) {
		return true
	}
	return false
}

// isBodyFocus reports whether r lies strictly between the item's
// declaration and its terminal token.
func isBodyFocus(item *syntax.Node, r syntax.Range) bool {
	decl, ok := syntax.DeclarationRange(item)
	term := syntax.TerminalToken(item)
	if !ok || term == nil || decl.End >= term.Range().Start {
		return false
	}
	return syntax.NewRange(decl.End, term.Range().Start).ContainsRange(r)
}

// declarationRange is the action anchor for edits on item, falling back to
// the whole item for kinds without a declaration.
func declarationRange(item *syntax.Node) syntax.Range {
	if decl, ok := syntax.DeclarationRange(item); ok {
		return decl
	}
	return item.Range()
}

// contractName returns the name used for generated contract types: the
// storage struct's name, else the module name in CamelCase.
func contractName(c *ir.Contract) string {
	if s := c.Storage(); s != nil && s.Name() != "" {
		return s.Name()
	}
	return camelCase(c.Name())
}

func camelCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// uniqueName appends a numeric suffix to base until no item in list uses it.
func uniqueName(base string, list *syntax.Node) string {
	if list == nil {
		return base
	}
	taken := map[string]bool{}
	list.Walk(func(n *syntax.Node) bool {
		if n.IsItem() || n.Kind() == syntax.KindFieldDeclaration {
			if name := n.Name(); name != "" {
				taken[name] = true
			}
		}
		return !n.IsToken()
	})
	name := base
	for i := 1; taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	return name
}

// renameFirst replaces the first occurrence of from in both renditions.
func renameFirst(text, snippet, from, to string) (string, string) {
	if from == to {
		return text, snippet
	}
	return strings.Replace(text, from, to, 1), strings.Replace(snippet, from, to, 1)
}

// indentEdit indents every line of text and snippet after the first.
func indentEdit(text, snippet, indent string) (string, string) {
	return syntax.ApplyIndenting(text, indent), syntax.ApplyIndenting(snippet, indent)
}

// wrapInImpl nests an item rendition inside a new inherent impl block.
func wrapInImpl(name, text string) string {
	return "impl " + name + " {\n" + syntax.DefaultIndent + syntax.ApplyIndenting(text, syntax.DefaultIndent) + "\n}"
}
