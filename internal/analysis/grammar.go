package analysis

import (
	"sort"

	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/syntax"
)

// ValidSiblingArgs returns the argument kinds that may be applied next to a
// primary attribute of the given kind, either inside the same attribute or
// in another attribute on the same item.
func ValidSiblingArgs(kind ir.AttrKind) []ir.ArgKind {
	if kind.IsMacro {
		switch kind.Macro {
		case ir.MacroContract:
			return []ir.ArgKind{ir.ArgEnv, ir.ArgKeepAttr}
		case ir.MacroStorageItem:
			return []ir.ArgKind{ir.ArgDerive}
		case ir.MacroTraitDefinition:
			return []ir.ArgKind{ir.ArgKeepAttr, ir.ArgNamespace}
		case ir.MacroE2ETest:
			return []ir.ArgKind{ir.ArgAdditionalContracts, ir.ArgEnvironment, ir.ArgKeepAttr}
		}
		return nil
	}
	switch kind.Arg {
	case ir.ArgEvent:
		return []ir.ArgKind{ir.ArgAnonymous}
	case ir.ArgAnonymous:
		return []ir.ArgKind{ir.ArgEvent}
	case ir.ArgImpl:
		return []ir.ArgKind{ir.ArgNamespace}
	case ir.ArgConstructor, ir.ArgMessage:
		return []ir.ArgKind{ir.ArgDefault, ir.ArgPayable, ir.ArgSelector}
	case ir.ArgEnv:
		return []ir.ArgKind{ir.ArgKeepAttr}
	case ir.ArgExtension:
		return []ir.ArgKind{ir.ArgHandleStatus}
	case ir.ArgKeepAttr:
		return []ir.ArgKind{ir.ArgEnv, ir.ArgNamespace}
	case ir.ArgNamespace:
		return []ir.ArgKind{ir.ArgKeepAttr, ir.ArgImpl}
	case ir.ArgHandleStatus:
		return []ir.ArgKind{ir.ArgExtension}
	case ir.ArgPayable:
		return []ir.ArgKind{ir.ArgConstructor, ir.ArgDefault, ir.ArgMessage, ir.ArgSelector}
	case ir.ArgDefault:
		return []ir.ArgKind{ir.ArgConstructor, ir.ArgMessage, ir.ArgPayable, ir.ArgSelector}
	case ir.ArgSelector:
		return []ir.ArgKind{ir.ArgConstructor, ir.ArgDefault, ir.ArgMessage, ir.ArgPayable}
	}
	return nil
}

var contractScopeArgs = []ir.ArgKind{
	ir.ArgAnonymous, ir.ArgConstructor, ir.ArgDefault, ir.ArgEvent, ir.ArgImpl,
	ir.ArgMessage, ir.ArgNamespace, ir.ArgPayable, ir.ArgSelector, ir.ArgStorage,
}

var callableArgs = []ir.ArgKind{
	ir.ArgConstructor, ir.ArgDefault, ir.ArgMessage, ir.ArgPayable, ir.ArgSelector,
}

// ValidQuasiDirectDescendantArgs returns the argument kinds that may appear
// on the closest ink! descendants of an item with the given attribute kind.
func ValidQuasiDirectDescendantArgs(kind ir.AttrKind) []ir.ArgKind {
	if kind.IsMacro {
		switch kind.Macro {
		case ir.MacroChainExtension:
			return []ir.ArgKind{ir.ArgExtension, ir.ArgHandleStatus}
		case ir.MacroContract:
			return contractScopeArgs
		case ir.MacroTraitDefinition:
			return []ir.ArgKind{ir.ArgDefault, ir.ArgMessage, ir.ArgPayable, ir.ArgSelector}
		}
		return nil
	}
	switch kind.Arg {
	case ir.ArgEvent, ir.ArgAnonymous:
		return []ir.ArgKind{ir.ArgTopic}
	case ir.ArgEnv, ir.ArgKeepAttr:
		return contractScopeArgs
	case ir.ArgImpl, ir.ArgNamespace:
		return callableArgs
	}
	return nil
}

// ValidQuasiDirectDescendantMacros returns the macro kinds that may appear
// on the closest ink! descendants of an item with the given attribute kind.
func ValidQuasiDirectDescendantMacros(kind ir.AttrKind) []ir.MacroKind {
	if kind.IsMacro && kind.Macro == ir.MacroContract {
		return []ir.MacroKind{
			ir.MacroChainExtension, ir.MacroStorageItem, ir.MacroTest,
			ir.MacroTraitDefinition, ir.MacroE2ETest,
		}
	}
	return nil
}

// ValidArgsForSyntaxKind returns the argument kinds that can be applied to a
// syntax node of the given kind at all.
func ValidArgsForSyntaxKind(kind string) []ir.ArgKind {
	switch kind {
	case syntax.KindStructItem:
		return []ir.ArgKind{ir.ArgAnonymous, ir.ArgEvent, ir.ArgStorage}
	case syntax.KindFieldDeclaration:
		return []ir.ArgKind{ir.ArgTopic}
	case syntax.KindFunctionItem, syntax.KindFunctionSignatureItem:
		return []ir.ArgKind{
			ir.ArgConstructor, ir.ArgDefault, ir.ArgExtension, ir.ArgHandleStatus,
			ir.ArgMessage, ir.ArgPayable, ir.ArgSelector,
		}
	case syntax.KindImplItem:
		return []ir.ArgKind{ir.ArgImpl, ir.ArgNamespace}
	}
	return nil
}

// ValidMacrosForSyntaxKind returns the macro kinds that can be applied to a
// syntax node of the given kind at all.
func ValidMacrosForSyntaxKind(kind string) []ir.MacroKind {
	switch kind {
	case syntax.KindModItem:
		return []ir.MacroKind{ir.MacroContract}
	case syntax.KindTraitItem:
		return []ir.MacroKind{ir.MacroChainExtension, ir.MacroTraitDefinition}
	case syntax.KindEnumItem, syntax.KindStructItem, syntax.KindUnionItem:
		return []ir.MacroKind{ir.MacroStorageItem}
	case syntax.KindFunctionItem:
		return []ir.MacroKind{ir.MacroTest, ir.MacroE2ETest}
	}
	return nil
}

// PrimaryCandidate returns the attribute that anchors sibling and scope
// checks for an item: macros first, then arguments by rank, with source
// order breaking ties. Unknown attributes never qualify. isFirst reports
// whether the winner is also the first attribute written.
func PrimaryCandidate(attrs []*ir.Attribute) (primary *ir.Attribute, isFirst bool) {
	type candidate struct {
		order int
		attr  *ir.Attribute
		first bool
	}
	var candidates []candidate
	for i, attr := range attrs {
		if attr.Kind.IsUnknown() {
			continue
		}
		order := 0
		if !attr.Kind.IsMacro {
			order = attr.Kind.Arg.Rank() + 1
		}
		candidates = append(candidates, candidate{order: order, attr: attr, first: i == 0})
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].order < candidates[j].order
	})
	return candidates[0].attr, candidates[0].first
}

// CompletionSuggestions returns the attribute kinds that would complete or
// disambiguate a primary attribute of the given kind (e.g. `event` for a
// lone `anonymous`). Macros are always complete on their own.
func CompletionSuggestions(kind ir.AttrKind) []ir.AttrKind {
	if kind.IsMacro {
		return nil
	}
	switch kind.Arg {
	case ir.ArgAnonymous:
		return []ir.AttrKind{ir.ArgAttr(ir.ArgEvent)}
	case ir.ArgKeepAttr:
		return []ir.AttrKind{ir.MacroAttr(ir.MacroContract), ir.MacroAttr(ir.MacroTraitDefinition)}
	case ir.ArgHandleStatus:
		return []ir.AttrKind{ir.ArgAttr(ir.ArgExtension)}
	case ir.ArgNamespace:
		return []ir.AttrKind{ir.MacroAttr(ir.MacroTraitDefinition), ir.ArgAttr(ir.ArgImpl)}
	case ir.ArgPayable, ir.ArgDefault, ir.ArgSelector:
		return []ir.AttrKind{ir.ArgAttr(ir.ArgConstructor), ir.ArgAttr(ir.ArgMessage)}
	}
	return nil
}

func containsArg(kinds []ir.ArgKind, k ir.ArgKind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}

func containsMacro(kinds []ir.MacroKind, k ir.MacroKind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}

func filterArgs(kinds []ir.ArgKind, keep func(ir.ArgKind) bool) []ir.ArgKind {
	out := make([]ir.ArgKind, 0, len(kinds))
	for _, k := range kinds {
		if keep(k) {
			out = append(out, k)
		}
	}
	return out
}

func filterMacros(kinds []ir.MacroKind, keep func(ir.MacroKind) bool) []ir.MacroKind {
	out := make([]ir.MacroKind, 0, len(kinds))
	for _, k := range kinds {
		if keep(k) {
			out = append(out, k)
		}
	}
	return out
}

// RemoveDuplicateArgs drops suggestions already applied to node.
func RemoveDuplicateArgs(suggestions []ir.ArgKind, node *syntax.Node) []ir.ArgKind {
	var present []ir.ArgKind
	for _, arg := range ir.InkArgs(node) {
		present = append(present, arg.Kind)
	}
	return filterArgs(suggestions, func(k ir.ArgKind) bool { return !containsArg(present, k) })
}

// RemoveDuplicateMacros drops macro suggestions already applied to node.
func RemoveDuplicateMacros(suggestions []ir.MacroKind, node *syntax.Node) []ir.MacroKind {
	var present []ir.MacroKind
	for _, attr := range ir.InkAttrs(node) {
		if attr.Kind.IsMacro {
			present = append(present, attr.Kind.Macro)
		}
	}
	return filterMacros(suggestions, func(k ir.MacroKind) bool { return !containsMacro(present, k) })
}

// RemoveConflictingArgs keeps only valid siblings of node's primary
// attribute, if it has one.
func RemoveConflictingArgs(suggestions []ir.ArgKind, node *syntax.Node) []ir.ArgKind {
	primary, _ := PrimaryCandidate(ir.InkAttrs(node))
	if primary == nil {
		return suggestions
	}
	siblings := ValidSiblingArgs(primary.Kind)
	return filterArgs(suggestions, func(k ir.ArgKind) bool { return containsArg(siblings, k) })
}

// RemoveInvalidArgsForParentScope keeps only arguments allowed by the
// closest ink! ancestor of node. Nothing is filtered when the ancestor's
// scope admits no arguments at all.
func RemoveInvalidArgsForParentScope(suggestions []ir.ArgKind, node *syntax.Node) []ir.ArgKind {
	var valid []ir.ArgKind
	for _, attr := range ir.ClosestAncestorAttrs(node) {
		valid = append(valid, ValidQuasiDirectDescendantArgs(attr.Kind)...)
	}
	if len(valid) == 0 {
		return suggestions
	}
	return filterArgs(suggestions, func(k ir.ArgKind) bool { return containsArg(valid, k) })
}

// RemoveInvalidMacrosForParentScope is the macro counterpart of
// RemoveInvalidArgsForParentScope.
func RemoveInvalidMacrosForParentScope(suggestions []ir.MacroKind, node *syntax.Node) []ir.MacroKind {
	var valid []ir.MacroKind
	for _, attr := range ir.ClosestAncestorAttrs(node) {
		valid = append(valid, ValidQuasiDirectDescendantMacros(attr.Kind)...)
	}
	if len(valid) == 0 {
		return suggestions
	}
	return filterMacros(suggestions, func(k ir.MacroKind) bool { return containsMacro(valid, k) })
}
