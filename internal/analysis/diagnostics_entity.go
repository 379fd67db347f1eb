package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/syntax"
)

func contractDiagnostics(c *ir.Contract) []Diagnostic {
	if c.Module() == nil {
		return []Diagnostic{errorAt(c.Node().Range(),
			fmt.Sprintf("`%s` can only be applied to a `mod` item.", c.Attr().Text()))}
	}
	if c.ItemList() == nil {
		return []Diagnostic{errorAt(declarationRange(c.Node()),
			"ink! contract `mod` must have an inline body.")}
	}

	var out []Diagnostic
	rng := declarationRange(c.Node())

	// 1. Storage
	switch storage := c.StorageDefinitions(); len(storage) {
	case 0:
		var fixes []Action
		if fix, ok := addStorage(c, ActionQuickFix, nil); ok {
			fixes = append(fixes, fix)
		}
		out = append(out, errorAt(rng, "Missing ink! storage definition.", fixes...))
	default:
		for _, s := range storage[1:] {
			out = append(out, errorAt(s.Attr().Range(),
				"Only one ink! storage definition per contract is allowed.",
				removeAttrFix(s.Attr()), removeItemFix(s.Node())))
		}
	}
	for _, s := range c.StorageDefinitions() {
		if s.Struct() == nil {
			out = append(out, structOnly(s.Attr(), s.Node()))
		}
	}
	for _, e := range c.Events() {
		if e.Struct() == nil {
			out = append(out, structOnly(e.Attr(), e.Node()))
		}
	}

	// 2. Constructors and messages, reported together
	var (
		missing []string
		fixes   []Action
	)
	if len(c.Constructors()) == 0 {
		missing = append(missing, "constructor")
		if fix, ok := addConstructorToContract(c, ActionQuickFix, nil); ok {
			fixes = append(fixes, fix)
		}
	}
	if len(c.Messages()) == 0 {
		missing = append(missing, "message")
		if fix, ok := addMessageToContract(c, ActionQuickFix, nil); ok {
			fixes = append(fixes, fix)
		}
	}
	if len(missing) > 0 {
		msg := fmt.Sprintf("An ink! contract must have at least one ink! %s.", strings.Join(missing, " and one ink! "))
		out = append(out, errorAt(rng, msg, fixes...))
	}

	for _, ctor := range c.Constructors() {
		out = append(out, constructorDiagnostics(ctor)...)
	}
	for _, msg := range c.Messages() {
		out = append(out, messageDiagnostics(msg)...)
	}

	// 3. Trait impls
	for _, im := range c.Impls() {
		if im.TraitPath() == "" {
			continue
		}
		for _, attr := range ir.InkAttrs(im.Node()) {
			if arg, ok := attr.Arg(ir.ArgNamespace); ok {
				out = append(out, errorAt(arg.Range,
					"ink! namespace argument is not allowed on trait `impl` blocks.",
					removeArgFix(attr, arg)))
			}
		}
	}
	return out
}

func structOnly(attr *ir.Attribute, node *syntax.Node) Diagnostic {
	return errorAt(node.Range(), fmt.Sprintf("`%s` can only be applied to a `struct` item.", attr.Text()))
}

func fnOnly(attr *ir.Attribute, node *syntax.Node) Diagnostic {
	return errorAt(node.Range(), fmt.Sprintf("`%s` can only be applied to a `fn` item.", attr.Text()))
}

// callableDiagnostics checks what constructors and messages share.
func callableDiagnostics(kind string, attr *ir.Attribute, node, fn, impl *syntax.Node) []Diagnostic {
	if fn == nil {
		return []Diagnostic{fnOnly(attr, node)}
	}
	if impl == nil {
		return []Diagnostic{errorAt(declarationRange(fn),
			fmt.Sprintf("ink! %s must be defined inside an `impl` block.", kind))}
	}
	return nil
}

func constructorDiagnostics(ctor *ir.Constructor) []Diagnostic {
	out := callableDiagnostics("constructor", ctor.Attr(), ctor.Node(), ctor.Fn(), ctor.ParentImpl())
	if ctor.Fn() == nil {
		return out
	}
	if ctor.SelfParam() != "" {
		out = append(out, errorAt(declarationRange(ctor.Fn()), "ink! constructor must not have a `self` receiver."))
	}
	if ctor.ReturnType() == nil {
		out = append(out, errorAt(declarationRange(ctor.Fn()), "ink! constructor must have a return type."))
	}
	return out
}

func messageDiagnostics(msg *ir.Message) []Diagnostic {
	out := callableDiagnostics("message", msg.Attr(), msg.Node(), msg.Fn(), msg.ParentImpl())
	if msg.Fn() == nil {
		return out
	}
	switch msg.SelfParam() {
	case "&self", "&mutself":
	default:
		out = append(out, errorAt(declarationRange(msg.Fn()),
			"ink! message must have a `&self` or `&mut self` receiver."))
	}
	return out
}

// traitFns returns the methods declared in a trait body.
func traitFns(trait *syntax.Node) []*syntax.Node {
	if trait.Body() == nil {
		return nil
	}
	return trait.Body().ChildrenOfKind(syntax.KindFunctionSignatureItem, syntax.KindFunctionItem)
}

func traitDefinitionDiagnostics(td *ir.TraitDefinition) []Diagnostic {
	trait := td.Trait()
	if trait == nil {
		return []Diagnostic{errorAt(td.Node().Range(),
			fmt.Sprintf("`%s` can only be applied to a `trait` item.", td.Attr().Text()))}
	}

	var out []Diagnostic
	if len(td.Messages()) == 0 {
		var fixes []Action
		if fix, ok := addMessageToTraitDefinition(td, ActionQuickFix, nil); ok {
			fixes = append(fixes, fix)
		}
		out = append(out, errorAt(declarationRange(trait),
			"An ink! trait definition must have at least one ink! message.", fixes...))
	}
	for _, fn := range traitFns(trait) {
		if ir.FindAttr(fn, ir.ArgAttr(ir.ArgMessage)) != nil {
			continue
		}
		fix := quickFix("Add `#[ink(message)]`", declarationRange(fn), newAttrEdit(fn, "#[ink(message)]"))
		out = append(out, errorAt(declarationRange(fn),
			"Every method of an ink! trait definition must be an ink! message.", fix))
	}
	return out
}

func chainExtensionDiagnostics(ce *ir.ChainExtension) []Diagnostic {
	trait := ce.Trait()
	if trait == nil {
		return []Diagnostic{errorAt(ce.Node().Range(),
			fmt.Sprintf("`%s` can only be applied to a `trait` item.", ce.Attr().Text()))}
	}

	var out []Diagnostic
	if ce.ErrorCode() == nil {
		var fixes []Action
		if fix, ok := addErrorCode(ce, ActionQuickFix, nil); ok {
			fixes = append(fixes, fix)
		}
		out = append(out, errorAt(declarationRange(trait),
			"Missing `ErrorCode` associated type for ink! chain extension.", fixes...))
	}

	seen := map[uint64]bool{}
	next := uint64(1)
	for _, ext := range ce.Extensions() {
		if ext.Fn() == nil {
			out = append(out, fnOnly(ext.Attr(), ext.Node()))
		}
		arg, ok := ext.ID()
		if !ok || arg.Value == nil {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(strings.ReplaceAll(arg.Value.Text, "_", ""), "u32"), 0, 32)
		if err != nil {
			continue
		}
		if id >= next {
			next = id + 1
		}
		if seen[id] {
			out = append(out, errorAt(arg.Range,
				fmt.Sprintf("Duplicate ink! extension id `%d`. Extension ids must be unique within a chain extension.", id)))
		}
		seen[id] = true
	}

	for _, fn := range traitFns(trait) {
		if ir.FindAttr(fn, ir.ArgAttr(ir.ArgExtension)) != nil {
			continue
		}
		attr := fmt.Sprintf("#[ink(extension = %d)]", next)
		next++
		fix := quickFix("Add `"+attr+"`", declarationRange(fn), newAttrEdit(fn, attr))
		out = append(out, errorAt(declarationRange(fn),
			"Every method of an ink! chain extension must be an ink! extension.", fix))
	}
	return out
}

func storageItemDiagnostics(si *ir.StorageItem) []Diagnostic {
	var out []Diagnostic
	if si.ADT() == nil {
		out = append(out, errorAt(si.Node().Range(),
			fmt.Sprintf("`%s` can only be applied to an `enum`, `struct` or `union` item.", si.Attr().Text())))
	}
	return append(out, noDescendantsDiagnostics("storage item", si.Node())...)
}

func testDiagnostics(e ir.Entity, fn *syntax.Node) []Diagnostic {
	var out []Diagnostic
	if fn == nil {
		out = append(out, fnOnly(e.Attr(), e.Node()))
	}
	kind := "test"
	if e.Kind() == ir.EntityE2ETest {
		kind = "e2e test"
	}
	return append(out, noDescendantsDiagnostics(kind, e.Node())...)
}

// noDescendantsDiagnostics reports every ink! attribute below node.
func noDescendantsDiagnostics(kind string, node *syntax.Node) []Diagnostic {
	var out []Diagnostic
	for _, n := range ir.InkDescendants(node) {
		for _, attr := range ir.InkAttrs(n) {
			if attr.Kind.IsUnknown() {
				continue
			}
			out = append(out, errorAt(attr.Range(),
				fmt.Sprintf("ink! %s cannot contain ink! attributes.", kind),
				removeAttrFix(attr)))
		}
	}
	return out
}
