package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/syntax"
)

// Diagnostics runs every rule over f and returns the results in document
// order. Quick-fix edits are already formatted.
func Diagnostics(f *ir.File) []Diagnostic {
	var out []Diagnostic

	// 1. Per-attribute rules for every ink! attributed node
	for _, node := range ir.InkDescendants(f.Root()) {
		out = append(out, scopeDiagnostics(node)...)
		out = append(out, siblingDiagnostics(node)...)
		out = append(out, duplicateDiagnostics(node)...)
		out = append(out, valueDiagnostics(node)...)
	}

	// 2. File cardinality
	out = append(out, contractCountDiagnostics(f)...)

	// 3. Entity rules
	for _, c := range f.Contracts() {
		out = append(out, contractDiagnostics(c)...)
	}
	for _, td := range f.TraitDefinitions() {
		out = append(out, traitDefinitionDiagnostics(td)...)
	}
	for _, ce := range f.ChainExtensions() {
		out = append(out, chainExtensionDiagnostics(ce)...)
	}
	for _, si := range f.StorageItems() {
		out = append(out, storageItemDiagnostics(si)...)
	}
	for _, t := range f.Tests() {
		out = append(out, testDiagnostics(t, t.Fn())...)
	}
	for _, t := range f.E2ETests() {
		out = append(out, testDiagnostics(t, t.Fn())...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Range, out[j].Range
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
	for i := range out {
		out[i].QuickFixes = formatActions(out[i].QuickFixes, f.Tree())
	}
	return out
}

func errorAt(r syntax.Range, msg string, fixes ...Action) Diagnostic {
	return Diagnostic{Message: msg, Range: r, Severity: SeverityError, QuickFixes: fixes}
}

func quickFix(label string, rng syntax.Range, edits ...TextEdit) Action {
	return Action{Label: label, Kind: ActionQuickFix, Range: rng, Edits: edits}
}

// removalRange extends r over the line break that follows it, so removing
// a whole line leaves no blank line behind.
func removalRange(tree *syntax.Tree, r syntax.Range) syntax.Range {
	_, next := tree.TokenAtOffset(r.End)
	if next != nil && next.Kind() == syntax.KindWhitespace && next.Range().Start == r.End &&
		strings.Contains(next.Text(), "\n") && next.NextToken() != nil {
		return syntax.NewRange(r.Start, next.Range().End)
	}
	return r
}

func removeAttrFix(attr *ir.Attribute) Action {
	return quickFix(
		fmt.Sprintf("Remove `%s`", attr.Text()), attr.Range(),
		deleteEdit(removalRange(attr.Node.Tree(), attr.Range())),
	)
}

func removeItemFix(node *syntax.Node) Action {
	return quickFix("Remove item", node.Range(), deleteEdit(removalRange(node.Tree(), node.Range())))
}

// removeArgFix removes one argument together with its separating comma, or
// the whole attribute when it is the only argument.
func removeArgFix(attr *ir.Attribute, arg ir.Arg) Action {
	label := fmt.Sprintf("Remove `%s` argument", argText(attr, arg))
	if len(attr.Args) == 1 {
		return quickFix(label, arg.Range, deleteEdit(removalRange(attr.Node.Tree(), attr.Range())))
	}
	tree := attr.Node.Tree()
	_, right := tree.TokenAtOffset(arg.Range.End)
	next := nonTriviaFrom(right)
	if next != nil && next.Kind() == "," {
		// Through the comma and the whitespace after it.
		end := next.Range().End
		if after := nonTriviaFrom(next.NextToken()); after != nil {
			end = after.Range().Start
		}
		return quickFix(label, arg.Range, deleteEdit(syntax.NewRange(arg.Range.Start, end)))
	}
	left, _ := tree.TokenAtOffset(arg.Range.Start)
	for left != nil && left.IsTrivia() {
		left = left.PrevToken()
	}
	if left != nil && left.Kind() == "," {
		return quickFix(label, arg.Range, deleteEdit(syntax.NewRange(left.Range().Start, arg.Range.End)))
	}
	return quickFix(label, arg.Range, deleteEdit(arg.Range))
}

func nonTriviaFrom(tok *syntax.Node) *syntax.Node {
	for tok != nil && tok.IsTrivia() {
		tok = tok.NextToken()
	}
	return tok
}

func argText(attr *ir.Attribute, arg ir.Arg) string {
	return attr.Node.Tree().Text()[arg.Range.Start:arg.Range.End]
}

// scopeDiagnostics checks that every attribute on node is allowed by its
// closest ink! ancestor. Without an ancestor only macros are allowed.
func scopeDiagnostics(node *syntax.Node) []Diagnostic {
	ancestor := ir.ClosestInkAncestor(node)
	ancestorAttrs := ir.InkAttrs(ancestor)
	for _, a := range ancestorAttrs {
		switch a.Kind {
		case ir.MacroAttr(ir.MacroStorageItem), ir.MacroAttr(ir.MacroTest), ir.MacroAttr(ir.MacroE2ETest):
			// Reported by the entity's own descendant rule.
			return nil
		}
	}

	var (
		validArgs   []ir.ArgKind
		validMacros []ir.MacroKind
	)
	for _, a := range ancestorAttrs {
		validArgs = append(validArgs, ValidQuasiDirectDescendantArgs(a.Kind)...)
		validMacros = append(validMacros, ValidQuasiDirectDescendantMacros(a.Kind)...)
	}

	var out []Diagnostic
	for _, attr := range ir.InkAttrs(node) {
		if attr.Kind.IsUnknown() {
			continue
		}
		var msg string
		switch {
		case ancestor == nil:
			if attr.Kind.IsMacro {
				continue
			}
			msg = fmt.Sprintf("ink! %s has no valid ink! scope ancestor.", attr.Kind)
		case attr.Kind.IsMacro && containsMacro(validMacros, attr.Kind.Macro):
			continue
		case !attr.Kind.IsMacro && containsArg(validArgs, attr.Kind.Arg):
			continue
		default:
			if parent, _ := PrimaryCandidate(ancestorAttrs); parent != nil {
				msg = fmt.Sprintf("ink! %s is not allowed inside ink! %s.", attr.Kind, parent.Kind)
			} else {
				msg = fmt.Sprintf("ink! %s has no valid ink! scope ancestor.", attr.Kind)
			}
		}
		out = append(out, errorAt(attr.Range(), msg, removeAttrFix(attr), removeItemFix(node)))
	}
	return out
}

// siblingDiagnostics reports arguments and macros that conflict with the
// node's primary attribute.
func siblingDiagnostics(node *syntax.Node) []Diagnostic {
	attrs := ir.InkAttrs(node)
	primary, _ := PrimaryCandidate(attrs)
	if primary == nil {
		return nil
	}
	siblings := ValidSiblingArgs(primary.Kind)
	hint := completionHint(primary.Kind, node)

	var out []Diagnostic
	for _, attr := range attrs {
		if attr.Kind.IsUnknown() {
			continue
		}
		if attr.Kind.IsMacro && attr != primary {
			if attr.Kind == primary.Kind {
				continue
			}
			msg := fmt.Sprintf("`%s` conflicts with `%s`.", attr.Text(), primary.Text())
			out = append(out, errorAt(attr.Range(), msg, removeAttrFix(attr)))
			continue
		}
		for _, arg := range attr.Args {
			if arg.Kind == ir.ArgUnknown || containsArg(siblings, arg.Kind) {
				continue
			}
			if !primary.Kind.IsMacro && arg.Kind == primary.Kind.Arg {
				continue
			}
			msg := fmt.Sprintf("ink! %s argument conflicts with ink! %s.%s", arg.Kind, primary.Kind, hint)
			out = append(out, errorAt(arg.Range, msg, removeArgFix(attr, arg)))
		}
	}
	return out
}

// completionHint suggests the attributes that would complete an ambiguous
// primary attribute, if none of them is present yet.
func completionHint(kind ir.AttrKind, node *syntax.Node) string {
	suggestions := CompletionSuggestions(kind)
	if len(suggestions) == 0 {
		return ""
	}
	var names []string
	for _, s := range suggestions {
		if s.IsMacro && ir.FindAttr(node, s) != nil {
			return ""
		}
		if !s.IsMacro {
			if _, ok := ir.FindArg(node, s.Arg); ok {
				return ""
			}
		}
		names = append(names, "`"+s.Syntax()+"`")
	}
	return " Did you mean to add " + strings.Join(names, " or ") + "?"
}

// duplicateDiagnostics reports repeated arguments and macros on node.
func duplicateDiagnostics(node *syntax.Node) []Diagnostic {
	var (
		out    []Diagnostic
		args   = map[ir.ArgKind]bool{}
		macros = map[ir.MacroKind]bool{}
	)
	for _, attr := range ir.InkAttrs(node) {
		if attr.Kind.IsMacro {
			if attr.Kind.IsUnknown() {
				continue
			}
			if macros[attr.Kind.Macro] {
				msg := fmt.Sprintf("Duplicate ink! %s attribute macro.", attr.Kind.Macro)
				out = append(out, errorAt(attr.Range(), msg, removeAttrFix(attr)))
			}
			macros[attr.Kind.Macro] = true
		}
		for _, arg := range attr.Args {
			if arg.Kind == ir.ArgUnknown {
				continue
			}
			if args[arg.Kind] {
				msg := fmt.Sprintf("Duplicate ink! %s attribute argument.", arg.Kind)
				out = append(out, errorAt(arg.Range, msg, removeArgFix(attr, arg)))
			}
			args[arg.Kind] = true
		}
	}
	return out
}

var (
	identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	pathRE  = regexp.MustCompile(`^(::)?[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_<][A-Za-z0-9_<>,]*)*(::)?$`)
)

// valueDiagnostics checks argument values against their value shape.
func valueDiagnostics(node *syntax.Node) []Diagnostic {
	var out []Diagnostic
	for _, attr := range ir.InkAttrs(node) {
		for _, arg := range attr.Args {
			if arg.Kind == ir.ArgUnknown {
				continue
			}
			if d, ok := checkArgValue(attr, arg); ok {
				out = append(out, d)
			}
		}
	}
	return out
}

func checkArgValue(attr *ir.Attribute, arg ir.Arg) (Diagnostic, bool) {
	shape := arg.Kind.ValueKind()
	tree := attr.Node.Tree()

	if shape == ir.ValueNone {
		if !arg.HasEq && arg.Value == nil {
			return Diagnostic{}, false
		}
		msg := fmt.Sprintf("ink! %s argument should not have a value.", arg.Kind)
		fix := quickFix(fmt.Sprintf("Remove `%s` argument value", arg.Kind), arg.Range,
			deleteEdit(syntax.NewRange(arg.NameRange.End, arg.Range.End)))
		return errorAt(arg.Range, msg, fix), true
	}

	text, snippet := argInsertText(arg.Kind, nil)
	if !arg.HasEq || arg.Value == nil {
		msg := fmt.Sprintf("ink! %s argument should have a value of type %s.", arg.Kind, shape)
		fix := quickFix(fmt.Sprintf("Add `%s` argument value", arg.Kind), arg.Range,
			replaceEdit(text, arg.Range, snippet))
		return errorAt(arg.Range, msg, fix), true
	}
	if validValue(shape, arg.Value) {
		return Diagnostic{}, false
	}
	msg := fmt.Sprintf("ink! %s argument should have a value of type %s.", arg.Kind, shape)
	fix := quickFix(fmt.Sprintf("Replace `%s` value", tree.Text()[arg.Value.Range.Start:arg.Value.Range.End]), arg.Value.Range,
		replaceEdit(defaultValue(text), arg.Value.Range, defaultValue(snippet)))
	return errorAt(arg.Value.Range, msg, fix), true
}

// defaultValue strips the `name = ` part of a rendered argument.
func defaultValue(rendered string) string {
	if i := strings.Index(rendered, " = "); i >= 0 {
		return rendered[i+3:]
	}
	return rendered
}

func validValue(shape ir.ValueKind, v *ir.Value) bool {
	switch shape {
	case ir.ValueU32:
		return isU32(v.Text)
	case ir.ValueU32OrWildcard:
		return v.Text == "_" || isU32(v.Text)
	case ir.ValueBool:
		return v.Text == "true" || v.Text == "false"
	case ir.ValueString:
		return v.Kind == syntax.KindStringLiteral || v.Kind == syntax.KindRawStringLiteral
	case ir.ValueIdentString:
		if v.Kind != syntax.KindStringLiteral {
			return false
		}
		s, err := strconv.Unquote(v.Text)
		return err == nil && identRE.MatchString(s)
	case ir.ValuePath:
		return pathRE.MatchString(v.Text)
	}
	return false
}

func isU32(text string) bool {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "_", ""), "u32")
	_, err := strconv.ParseUint(text, 0, 32)
	return err == nil
}

// contractCountDiagnostics reports every contract after the first.
func contractCountDiagnostics(f *ir.File) []Diagnostic {
	var out []Diagnostic
	for i, c := range f.Contracts() {
		if i == 0 {
			continue
		}
		out = append(out, errorAt(c.Attr().Range(),
			"Only one ink! contract per file is currently supported.",
			removeAttrFix(c.Attr()), removeItemFix(c.Node()),
		))
	}
	return out
}
