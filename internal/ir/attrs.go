package ir

import (
	"strings"

	"inkanalyzer/internal/syntax"
)

// Value is the value of an attribute argument (e.g. `1` in `selector = 1`).
type Value struct {
	Text  string
	Kind  string
	Range syntax.Range
}

// Arg is one argument of an ink! attribute.
type Arg struct {
	Kind      ArgKind
	Name      string
	Range     syntax.Range
	NameRange syntax.Range
	// HasEq is set when the argument is followed by `=`, even without a value.
	HasEq bool
	Value *Value
}

// Attribute is an ink! attribute occurrence: either a macro (`#[ink::contract]`)
// or an argument list (`#[ink(message, payable)]`).
type Attribute struct {
	Node *syntax.Node
	Kind AttrKind
	Path string
	Args []Arg
}

// ParseAttribute classifies an attribute item. Attributes outside the ink!
// namespaces report false.
func ParseAttribute(node *syntax.Node) (*Attribute, bool) {
	if node == nil || node.Kind() != syntax.KindAttributeItem {
		return nil, false
	}
	meta := node.FirstChildOfKind(syntax.KindAttribute)
	if meta == nil {
		return nil, false
	}
	children := meta.Children()
	if len(children) == 0 {
		return nil, false
	}
	pathNode := children[0]
	path := stripSpace(pathNode.Text())

	attr := &Attribute{Node: node, Path: path}
	if tt := meta.FirstChildOfKind(syntax.KindTokenTree); tt != nil {
		attr.Args = parseArgs(tt)
	}

	if path == "ink" {
		attr.Kind = ArgAttr(bestArgKind(attr.Args))
		return attr, true
	}
	macroKind, ok := MacroKindFromPath(path)
	if !ok {
		return nil, false
	}
	attr.Kind = MacroAttr(macroKind)
	return attr, true
}

// bestArgKind returns the highest ranked argument kind, first in source
// order on ties.
func bestArgKind(args []Arg) ArgKind {
	best := ArgUnknown
	for _, arg := range args {
		if arg.Kind.Rank() < best.Rank() {
			best = arg.Kind
		}
	}
	return best
}

func parseArgs(tt *syntax.Node) []Arg {
	var (
		args    []Arg
		segment []*syntax.Node
	)
	flush := func() {
		if len(segment) > 0 {
			args = append(args, newArg(segment))
		}
		segment = nil
	}
	for _, c := range tt.Children() {
		switch {
		case c.IsTrivia():
		case c.Kind() == "(" || c.Kind() == ")":
		case c.Kind() == ",":
			flush()
		default:
			segment = append(segment, c)
		}
	}
	flush()
	return args
}

func newArg(elems []*syntax.Node) Arg {
	name := elems[0]
	arg := Arg{
		Name:      name.Text(),
		Kind:      ArgKindFromName(name.Text()),
		NameRange: name.Range(),
		Range:     syntax.NewRange(name.Range().Start, elems[len(elems)-1].Range().End),
	}
	rest := elems[1:]
	if len(rest) > 0 && rest[0].Kind() == "=" {
		arg.HasEq = true
		rest = rest[1:]
	}
	if len(rest) > 0 {
		first, last := rest[0], rest[len(rest)-1]
		src := first.Tree().Text()
		kind := first.Kind()
		if len(rest) > 1 {
			kind = "path"
		}
		arg.Value = &Value{
			Text:  stripSpace(src[first.Range().Start:last.Range().End]),
			Kind:  kind,
			Range: syntax.NewRange(first.Range().Start, last.Range().End),
		}
	}
	return arg
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func (a *Attribute) Range() syntax.Range {
	return a.Node.Range()
}

func (a *Attribute) Text() string {
	return a.Node.Text()
}

// Target returns the node the attribute is applied to, or nil for a
// dangling attribute.
func (a *Attribute) Target() *syntax.Node {
	p := a.Node.Parent()
	if p == nil || len(p.Attrs()) == 0 {
		return nil
	}
	return p
}

// TokenTree returns the attribute's argument list, if any.
func (a *Attribute) TokenTree() *syntax.Node {
	meta := a.Node.FirstChildOfKind(syntax.KindAttribute)
	if meta == nil {
		return nil
	}
	return meta.FirstChildOfKind(syntax.KindTokenTree)
}

// Closed reports whether the attribute ends with `]`.
func (a *Attribute) Closed() bool {
	last := a.Node.LastToken()
	return last != nil && last.Kind() == "]"
}

// Arg returns the first argument of the given kind.
func (a *Attribute) Arg(kind ArgKind) (Arg, bool) {
	for _, arg := range a.Args {
		if arg.Kind == kind {
			return arg, true
		}
	}
	return Arg{}, false
}

// InkAttrs returns the ink! attributes applied to node in source order.
func InkAttrs(node *syntax.Node) []*Attribute {
	if node == nil {
		return nil
	}
	var out []*Attribute
	for _, item := range node.Attrs() {
		if attr, ok := ParseAttribute(item); ok {
			out = append(out, attr)
		}
	}
	return out
}

// InkArgs returns every ink! argument applied to node across all its
// attributes.
func InkArgs(node *syntax.Node) []Arg {
	var out []Arg
	for _, attr := range InkAttrs(node) {
		out = append(out, attr.Args...)
	}
	return out
}

// FindAttr returns the first ink! attribute of the given kind on node.
func FindAttr(node *syntax.Node, kind AttrKind) *Attribute {
	for _, attr := range InkAttrs(node) {
		if attr.Kind == kind {
			return attr
		}
	}
	return nil
}

// FindArg returns the first ink! argument of the given kind on node.
func FindArg(node *syntax.Node, kind ArgKind) (Arg, bool) {
	for _, arg := range InkArgs(node) {
		if arg.Kind == kind {
			return arg, true
		}
	}
	return Arg{}, false
}
