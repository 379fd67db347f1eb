package analysis

import (
	"strconv"
	"strings"

	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/syntax"
)

// Entity scaffolds. Each add* function inserts at its default location
// unless offset is set, and reports false when the host has no body to
// insert into.

func scaffoldAction(label string, kind ActionKind, rng syntax.Range, offset int, text, snippet, indent string) Action {
	text, snippet = indentEdit(text, snippet, indent)
	return Action{
		Label: label,
		Kind:  kind,
		Range: rng,
		Edits: []TextEdit{insertEdit(text, offset, snippet)},
	}
}

func orDefault(offset *int, def int) int {
	if offset != nil {
		return *offset
	}
	return def
}

func addStorage(c *ir.Contract, kind ActionKind, offset *int) (Action, bool) {
	list := c.ItemList()
	if list == nil {
		return Action{}, false
	}
	text, snippet := renameFirst(storagePlain, storageSnippet, "Storage", contractName(c))
	return scaffoldAction(
		"Add ink! storage `struct`.", kind, declarationRange(c.Node()),
		orDefault(offset, itemListStart(list)), text, snippet, syntax.ChildrenIndenting(c.Node()),
	), true
}

func addEvent(c *ir.Contract, kind ActionKind, offset *int) (Action, bool) {
	list := c.ItemList()
	if list == nil {
		return Action{}, false
	}
	def := itemListStart(list)
	if structs := list.ChildrenOfKind(syntax.KindStructItem); len(structs) > 0 {
		def = structs[len(structs)-1].Range().End
	}
	text, snippet := renameFirst(eventPlain, eventSnippet, "Event", uniqueName(contractName(c)+"Event", list))
	return scaffoldAction(
		"Add ink! event `struct`.", kind, declarationRange(c.Node()),
		orDefault(offset, def), text, snippet, syntax.ChildrenIndenting(c.Node()),
	), true
}

func addConstructorToContract(c *ir.Contract, kind ActionKind, offset *int) (Action, bool) {
	return addCallableToContract(c, kind, offset, "Add ink! constructor `fn`.", constructorPlain, constructorSnippet, "new")
}

func addMessageToContract(c *ir.Contract, kind ActionKind, offset *int) (Action, bool) {
	return addCallableToContract(c, kind, offset, "Add ink! message `fn`.", messagePlain, messageSnippet, "my_message")
}

// addCallableToContract adds a constructor or message to the contract's
// first inherent impl block, wrapping it in a new impl block when there is
// none (or when an explicit offset lies outside every impl block).
func addCallableToContract(c *ir.Contract, kind ActionKind, offset *int, label, plain, snippet, name string) (Action, bool) {
	list := c.ItemList()
	if list == nil {
		return Action{}, false
	}
	rng := declarationRange(c.Node())
	impls := list.ChildrenOfKind(syntax.KindImplItem)

	if offset != nil {
		for _, impl := range impls {
			if body := impl.Body(); body != nil && offsetInList(body, *offset) {
				text, snip := renameFirst(plain, snippet, name, uniqueName(name, body))
				return scaffoldAction(label, kind, rng, *offset, text, snip, syntax.ChildrenIndenting(impl)), true
			}
		}
	} else {
		for _, impl := range impls {
			body := impl.Body()
			if impl.ChildByField("trait") != nil || body == nil {
				continue
			}
			text, snip := renameFirst(plain, snippet, name, uniqueName(name, body))
			return scaffoldAction(label, kind, rng, itemListEnd(body), text, snip, syntax.ChildrenIndenting(impl)), true
		}
	}

	typeName := contractName(c)
	return scaffoldAction(
		label, kind, rng, orDefault(offset, itemListEnd(list)),
		wrapInImpl(typeName, plain), wrapInImpl(typeName, snippet), syntax.ChildrenIndenting(c.Node()),
	), true
}

// offsetInList reports whether offset lies between the braces of list.
func offsetInList(list *syntax.Node, offset int) bool {
	closing := list.LastToken()
	if closing == nil || closing.Kind() != "}" {
		return false
	}
	return itemListStart(list) <= offset && offset <= closing.Range().Start
}

func addConstructorToImpl(impl *syntax.Node, kind ActionKind, offset *int) (Action, bool) {
	return addCallableToImpl(impl, kind, offset, "Add ink! constructor `fn`.", constructorPlain, constructorSnippet, "new")
}

func addMessageToImpl(impl *syntax.Node, kind ActionKind, offset *int) (Action, bool) {
	return addCallableToImpl(impl, kind, offset, "Add ink! message `fn`.", messagePlain, messageSnippet, "my_message")
}

func addCallableToImpl(impl *syntax.Node, kind ActionKind, offset *int, label, plain, snippet, name string) (Action, bool) {
	body := impl.Body()
	if body == nil {
		return Action{}, false
	}
	text, snip := renameFirst(plain, snippet, name, uniqueName(name, body))
	return scaffoldAction(
		label, kind, declarationRange(impl),
		orDefault(offset, itemListEnd(body)), text, snip, syntax.ChildrenIndenting(impl),
	), true
}

func addErrorCode(ce *ir.ChainExtension, kind ActionKind, offset *int) (Action, bool) {
	trait := ce.Trait()
	if trait == nil || trait.Body() == nil {
		return Action{}, false
	}
	return scaffoldAction(
		"Add `ErrorCode` type for ink! chain extension.", kind, declarationRange(trait),
		orDefault(offset, itemListStart(trait.Body())), errorCodePlain, errorCodeSnippet, syntax.ChildrenIndenting(trait),
	), true
}

func addExtension(ce *ir.ChainExtension, kind ActionKind, offset *int) (Action, bool) {
	trait := ce.Trait()
	if trait == nil || trait.Body() == nil {
		return Action{}, false
	}
	body := trait.Body()

	next := uint64(1)
	for _, ext := range ce.Extensions() {
		id, ok := ext.ID()
		if !ok || id.Value == nil {
			continue
		}
		if n, err := strconv.ParseUint(strings.ReplaceAll(id.Value.Text, "_", ""), 0, 32); err == nil && n >= next {
			next = n + 1
		}
	}
	id := strconv.FormatUint(next, 10)
	text := strings.Replace(extensionPlain, "extension = 1", "extension = "+id, 1)
	snippet := strings.Replace(extensionSnippet, "${1:1}", "${1:"+id+"}", 1)
	text, snippet = renameFirst(text, snippet, "my_extension", uniqueName("my_extension", body))
	return scaffoldAction(
		"Add ink! extension `fn`.", kind, declarationRange(trait),
		orDefault(offset, itemListEnd(body)), text, snippet, syntax.ChildrenIndenting(trait),
	), true
}

func addMessageToTraitDefinition(td *ir.TraitDefinition, kind ActionKind, offset *int) (Action, bool) {
	trait := td.Trait()
	if trait == nil || trait.Body() == nil {
		return Action{}, false
	}
	text, snippet := renameFirst(traitMessagePlain, traitMessageSnippet, "my_message", uniqueName("my_message", trait.Body()))
	return scaffoldAction(
		"Add ink! message `fn`.", kind, declarationRange(trait),
		orDefault(offset, itemListEnd(trait.Body())), text, snippet, syntax.ChildrenIndenting(trait),
	), true
}

func addInkTest(mod *syntax.Node, kind ActionKind, offset *int) (Action, bool) {
	return addTestFn(mod, kind, offset, "Add ink! test `fn`.", inkTestPlain, inkTestSnippet)
}

func addInkE2ETest(mod *syntax.Node, kind ActionKind, offset *int) (Action, bool) {
	return addTestFn(mod, kind, offset, "Add ink! e2e test `fn`.", inkE2ETestPlain, inkE2ETestSnippet)
}

func addTestFn(mod *syntax.Node, kind ActionKind, offset *int, label, plain, snippet string) (Action, bool) {
	body := mod.Body()
	if body == nil {
		return Action{}, false
	}
	text, snip := renameFirst(plain, snippet, "it_works", uniqueName("it_works", body))
	return scaffoldAction(
		label, kind, declarationRange(mod),
		orDefault(offset, itemListEnd(body)), text, snip, syntax.ChildrenIndenting(mod),
	), true
}

func addTopic(ev *ir.Event, kind ActionKind, offset *int) (Action, bool) {
	st := ev.Struct()
	if st == nil || st.Body() == nil || st.Body().Kind() != syntax.KindFieldDeclarationList {
		return Action{}, false
	}
	list := st.Body()
	at := orDefault(offset, itemListEnd(list))
	indent := syntax.ChildrenIndenting(st)

	// Commas are outside the formatter's reach, so separate from the
	// previous field here.
	var prefix string
	if before := tokenBefore(st.Tree(), at); before != nil && !before.IsTrivia() {
		switch before.Kind() {
		case "{":
		case ",":
			prefix = "\n" + indent
		default:
			prefix = ",\n" + indent
		}
	}
	text, snippet := renameFirst(topicPlain, topicSnippet, "my_topic", uniqueName("my_topic", list))
	text, snippet = indentEdit(text, snippet, indent)
	return Action{
		Label: "Add ink! topic `field`.",
		Kind:  kind,
		Range: declarationRange(st),
		Edits: []TextEdit{insertEdit(prefix+text, at, prefix+snippet)},
	}, true
}
