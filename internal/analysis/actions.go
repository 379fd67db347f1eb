package analysis

import (
	"strings"

	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/syntax"
)

// Actions computes the code actions available for the selection r (an empty
// range is a cursor position).
func Actions(f *ir.File, r syntax.Range) []Action {
	tree := f.Tree()
	var actions []Action

	elem := tree.CoveringElement(r)
	switch {
	case elem == nil:
		return nil
	case coveringAttribute(tree, r) != nil:
		// Only extending the focused attribute makes sense in here.
		actions = attributeActions(coveringAttribute(tree, r))
	default:
		if item := syntax.ParentItem(elem); item != nil {
			actions = itemActions(f, item, elem, r)
		} else if elem == f.Root() || elem.Parent() == f.Root() {
			actions = rootActions(f, focusOffset(tree, r))
		}
	}
	return formatActions(actions, tree)
}

// attributeActions offers the arguments that can still be added to the
// focused attribute.
func attributeActions(node *syntax.Node) []Action {
	attr, ok := ir.ParseAttribute(node)
	if !ok || attr.Kind.IsUnknown() || !attr.Closed() {
		return nil
	}
	target := attr.Target()
	if target == nil {
		return nil
	}
	var out []Action
	for _, arg := range argSuggestions(target) {
		edit, ok := extendAttrEdit(attr, arg)
		if !ok {
			continue
		}
		out = append(out, Action{
			Label: argLabel(arg),
			Kind:  ActionRefactor,
			Range: attr.Range(),
			Edits: []TextEdit{edit},
		})
	}
	return out
}

func itemActions(f *ir.File, item, elem *syntax.Node, r syntax.Range) []Action {
	var out []Action
	field := recordField(item, elem)
	decl := isDeclarationFocus(item, r)

	if field != nil || decl {
		target, rng := item, declarationRange(item)
		if field != nil {
			target, rng = field, field.Range()
		}
		out = append(out, macroActions(target, rng)...)
		out = append(out, argActions(target, rng)...)
	}
	if decl || (field == nil && isBodyFocus(item, r)) {
		var offset *int
		if !decl {
			at := focusOffset(f.Tree(), r)
			offset = &at
		}
		out = append(out, entityActions(f, item, offset)...)
	}
	return out
}

// recordField returns the struct or union field containing elem.
func recordField(item, elem *syntax.Node) *syntax.Node {
	if item.Kind() != syntax.KindStructItem && item.Kind() != syntax.KindUnionItem {
		return nil
	}
	field := elem
	if field.Kind() != syntax.KindFieldDeclaration {
		field = elem.Ancestor(func(n *syntax.Node) bool { return n.Kind() == syntax.KindFieldDeclaration })
	}
	if field == nil || field.Parent() == nil || field.Parent().Parent() != item {
		return nil
	}
	return field
}

func macroLabel(k ir.MacroKind) string {
	return "Add ink! " + k.String() + " attribute macro."
}

func argLabel(k ir.ArgKind) string {
	return "Add ink! " + k.String() + " attribute argument."
}

// macroActions offers attribute macros for nodes without ink! attributes.
func macroActions(target *syntax.Node, rng syntax.Range) []Action {
	if ir.HasInkAttrs(target) {
		return nil
	}
	suggestions := ValidMacrosForSyntaxKind(target.Kind())
	suggestions = RemoveDuplicateMacros(suggestions, target)
	suggestions = RemoveInvalidMacrosForParentScope(suggestions, target)

	var out []Action
	for _, k := range suggestions {
		out = append(out, Action{
			Label: macroLabel(k),
			Kind:  ActionRefactor,
			Range: rng,
			Edits: []TextEdit{newAttrEdit(target, "#["+k.Path()+"]")},
		})
	}
	return out
}

// argSuggestions returns the arguments that can be added to target: valid
// siblings of its primary attribute, or everything its syntax kind admits.
func argSuggestions(target *syntax.Node) []ir.ArgKind {
	primary, _ := PrimaryCandidate(ir.InkAttrs(target))
	var suggestions []ir.ArgKind
	if primary != nil {
		suggestions = ValidSiblingArgs(primary.Kind)
	} else {
		suggestions = ValidArgsForSyntaxKind(target.Kind())
	}
	suggestions = RemoveDuplicateArgs(suggestions, target)
	suggestions = RemoveConflictingArgs(suggestions, target)
	if primary == nil || !primary.Kind.IsMacro {
		suggestions = RemoveInvalidArgsForParentScope(suggestions, target)
	}
	return suggestions
}

// argActions offers attribute arguments, extending the primary attribute
// when there is one and adding a new `#[ink(...)]` attribute otherwise.
func argActions(target *syntax.Node, rng syntax.Range) []Action {
	primary, _ := PrimaryCandidate(ir.InkAttrs(target))
	var out []Action
	for _, arg := range argSuggestions(target) {
		if primary != nil {
			edit, ok := extendAttrEdit(primary, arg)
			if !ok {
				continue
			}
			out = append(out, Action{Label: argLabel(arg), Kind: ActionRefactor, Range: primary.Range(), Edits: []TextEdit{edit}})
			continue
		}
		offset := attrInsertOffset(target)
		_, next := target.Tree().TokenAtOffset(offset)
		text, snippet := argInsertText(arg, next)
		edit := newAttrEdit(target, "#[ink("+text+")]")
		edit.Snippet = strings.Replace(edit.Text, "#[ink("+text+")]", "#[ink("+snippet+")]", 1)
		out = append(out, Action{Label: argLabel(arg), Kind: ActionRefactor, Range: rng, Edits: []TextEdit{edit}})
	}
	return out
}

// entityActions offers child entity scaffolds for the item's ink! kind.
func entityActions(f *ir.File, item *syntax.Node, offset *int) []Action {
	var out []Action
	add := func(a Action, ok bool) {
		if ok {
			out = append(out, a)
		}
	}
	switch item.Kind() {
	case syntax.KindModItem:
		if c := ir.NewContract(item); c != nil {
			if c.Storage() == nil {
				add(addStorage(c, ActionRefactor, offset))
			}
			add(addEvent(c, ActionRefactor, offset))
			add(addConstructorToContract(c, ActionRefactor, offset))
			add(addMessageToContract(c, ActionRefactor, offset))
			break
		}
		if isCfgTest(item) {
			add(addInkTest(item, ActionRefactor, offset))
			if isCfgE2ETests(item) {
				add(addInkE2ETest(item, ActionRefactor, offset))
			}
		}
	case syntax.KindImplItem:
		if ir.CanCastImpl(item) || ir.InkParent(item, ir.MacroAttr(ir.MacroContract)) != nil {
			add(addConstructorToImpl(item, ActionRefactor, offset))
			add(addMessageToImpl(item, ActionRefactor, offset))
		}
	case syntax.KindTraitItem:
		primary, _ := PrimaryCandidate(ir.InkAttrs(item))
		if primary == nil {
			break
		}
		switch primary.Kind {
		case ir.MacroAttr(ir.MacroChainExtension):
			ce := ir.NewChainExtension(item)
			if ce.ErrorCode() == nil {
				add(addErrorCode(ce, ActionRefactor, offset))
			}
			add(addExtension(ce, ActionRefactor, offset))
		case ir.MacroAttr(ir.MacroTraitDefinition):
			add(addMessageToTraitDefinition(ir.NewTraitDefinition(item), ActionRefactor, offset))
		}
	case syntax.KindStructItem:
		if ev := ir.NewEvent(item); ev != nil {
			add(addTopic(ev, ActionRefactor, offset))
		}
	}
	return out
}

// cfgAttrs returns the whitespace-free text of the item's `#[cfg(...)]`
// attributes.
func cfgAttrs(item *syntax.Node) []string {
	var out []string
	for _, attr := range item.Attrs() {
		text := strings.Join(strings.Fields(attr.Text()), "")
		if strings.HasPrefix(text, "#[cfg(") {
			out = append(out, text)
		}
	}
	return out
}

func isCfgTest(item *syntax.Node) bool {
	for _, text := range cfgAttrs(item) {
		words := strings.FieldsFunc(text, func(r rune) bool {
			return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
		})
		for _, w := range words {
			if w == "test" {
				return true
			}
		}
	}
	return false
}

func isCfgE2ETests(item *syntax.Node) bool {
	for _, text := range cfgAttrs(item) {
		if strings.Contains(text, `feature="e2e-tests"`) {
			return true
		}
	}
	return false
}

// rootActions offers top-level entities. A file holds at most one contract.
func rootActions(f *ir.File, offset int) []Action {
	rng := syntax.NewRange(offset, offset)
	root := func(label, text, snippet string) Action {
		return Action{Label: label, Kind: ActionRefactor, Range: rng, Edits: []TextEdit{insertEdit(text, offset, snippet)}}
	}
	var out []Action
	if len(f.Contracts()) == 0 {
		out = append(out, root("Add ink! contract `mod`.", contractPlain, contractSnippet))
	}
	return append(out,
		root("Add ink! trait definition `trait`.", traitDefinitionPlain, traitDefinitionSnippet),
		root("Add ink! chain extension `trait`.", chainExtensionPlain, chainExtensionSnippet),
		root("Add ink! storage item.", storageItemPlain, storageItemSnippet),
	)
}
