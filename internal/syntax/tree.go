package syntax

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Range is a half-open byte range into the source text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// Empty reports whether the range denotes a position rather than a span.
func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) Len() int {
	return r.End - r.Start
}

// ContainsRange reports whether other lies within r (end inclusive).
func (r Range) ContainsRange(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// ContainsOffset reports whether offset lies within r (end inclusive).
func (r Range) ContainsOffset(offset int) bool {
	return r.Start <= offset && offset <= r.End
}

// Tree is an immutable element tree over one snapshot of Rust source text.
// Leaves (tokens) cover the whole text, including synthesized whitespace.
type Tree struct {
	src    string
	root   *Node
	tokens []*Node
}

// Parse builds a Tree from Rust source text. It never fails: text the
// grammar can't make sense of ends up inside ERROR nodes.
func Parse(src string) *Tree {
	t := &Tree{src: src}

	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())
	tsTree, err := parser.ParseCtx(context.Background(), nil, []byte(src))

	var root *Node
	if err == nil && tsTree != nil {
		root = t.convert(tsTree.RootNode())
	}
	if root == nil {
		root = &Node{kind: KindSourceFile}
	}
	root.kind = KindSourceFile
	root.rng = NewRange(0, len(src))

	t.root = root
	t.fillGaps(root)
	t.link(root, nil, 0)
	return t
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) Text() string {
	return t.src
}

// Tokens returns all leaves in document order.
func (t *Tree) Tokens() []*Node {
	return t.tokens
}

// fieldNames lists the grammar fields the analyzer navigates by.
var fieldNames = []string{"name", "body", "trait", "type", "value", "arguments", "path", "alias", "argument", "list", "parameters", "return_type", "type_parameters"}

func (t *Tree) convert(n *sitter.Node) *Node {
	if n == nil || n.IsMissing() {
		return nil
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	if start == end && n.Type() != KindSourceFile {
		return nil
	}

	node := &Node{kind: n.Type(), rng: NewRange(start, end), named: n.IsNamed(), tree: t}
	if n.ChildCount() == 0 || atomicKinds[node.kind] {
		if isComment(node.kind) {
			// Line comments may swallow their line break; keep it as whitespace instead.
			text := t.src[start:end]
			trimmed := strings.TrimRight(text, "\r\n")
			node.rng.End = start + len(trimmed)
		}
		return node
	}

	fields := make(map[Range]string)
	for _, f := range fieldNames {
		if c := n.ChildByFieldName(f); c != nil {
			fields[NewRange(int(c.StartByte()), int(c.EndByte()))] = f
		}
	}

	children := make([]*Node, 0, int(n.ChildCount()))
	for i := 0; i < int(n.ChildCount()); i++ {
		c := t.convert(n.Child(i))
		if c == nil {
			continue
		}
		if f, ok := fields[c.rng]; ok {
			c.field = f
		}
		children = append(children, c)
	}
	if containerKinds[node.kind] {
		children = t.attachLeadingTrivia(node.kind, children)
	}
	node.children = children
	return node
}

// attachLeadingTrivia moves outer attributes and attached comments into the
// item (or field/variant) that follows them, so the item's range covers its
// meta information.
func (t *Tree) attachLeadingTrivia(container string, children []*Node) []*Node {
	out := make([]*Node, 0, len(children))
	var pending []*Node
	for _, c := range children {
		if c.kind == KindAttributeItem || (isComment(c.kind) && !isInnerDoc(t.src[c.rng.Start:c.rng.End])) {
			pending = append(pending, c)
			continue
		}
		if len(pending) > 0 && isAttachTarget(container, c.kind) {
			k := len(pending)
			next := c
			for j := len(pending) - 1; j >= 0; j-- {
				p := pending[j]
				if p.kind != KindAttributeItem && strings.Count(t.src[p.rng.End:next.rng.Start], "\n") > 1 {
					break
				}
				k = j
				next = p
			}
			out = append(out, pending[:k]...)
			if k < len(pending) {
				c.children = append(append([]*Node{}, pending[k:]...), c.children...)
				c.rng.Start = pending[k].rng.Start
			}
			pending = nil
			out = append(out, c)
			continue
		}
		out = append(out, pending...)
		pending = nil
		out = append(out, c)
	}
	return append(out, pending...)
}

// fillGaps materializes the text between children as whitespace tokens.
func (t *Tree) fillGaps(n *Node) {
	if len(n.children) == 0 {
		if n == t.root && n.rng.Len() > 0 {
			n.children = []*Node{t.gap(0, n.rng.End)}
		}
		return
	}
	filled := make([]*Node, 0, len(n.children)*2)
	cur := n.rng.Start
	for _, c := range n.children {
		if c.rng.Start > cur {
			filled = append(filled, t.gap(cur, c.rng.Start))
		}
		t.fillGaps(c)
		filled = append(filled, c)
		if c.rng.End > cur {
			cur = c.rng.End
		}
	}
	if n.rng.End > cur {
		filled = append(filled, t.gap(cur, n.rng.End))
	}
	n.children = filled
}

func (t *Tree) gap(start, end int) *Node {
	kind := KindWhitespace
	if strings.TrimSpace(t.src[start:end]) != "" {
		kind = KindError
	}
	return &Node{kind: kind, rng: NewRange(start, end), tree: t}
}

func (t *Tree) link(n, parent *Node, index int) {
	n.parent = parent
	n.index = index
	n.tree = t
	if len(n.children) == 0 {
		if parent == nil {
			n.tokIdx = -1
			return
		}
		n.tokIdx = len(t.tokens)
		t.tokens = append(t.tokens, n)
		return
	}
	n.tokIdx = -1
	for i, c := range n.children {
		t.link(c, n, i)
	}
}

// TokenAtOffset returns the tokens to the left and right of offset. When
// offset falls strictly inside a token, both results are that token.
func (t *Tree) TokenAtOffset(offset int) (left, right *Node) {
	if len(t.tokens) == 0 || offset < 0 || offset > len(t.src) {
		return nil, nil
	}
	i := sort.Search(len(t.tokens), func(i int) bool {
		return t.tokens[i].rng.End > offset
	})
	if i == len(t.tokens) {
		return t.tokens[len(t.tokens)-1], nil
	}
	tok := t.tokens[i]
	if tok.rng.Start < offset {
		return tok, tok
	}
	if i > 0 {
		left = t.tokens[i-1]
	}
	return left, tok
}

// FocusedToken picks the token a cursor at offset refers to, preferring
// non-trivia tokens and the right side on ties.
func (t *Tree) FocusedToken(offset int) *Node {
	left, right := t.TokenAtOffset(offset)
	switch {
	case left == right:
		return left
	case right != nil && !right.IsTrivia():
		return right
	case left != nil && !left.IsTrivia():
		return left
	case right != nil:
		return right
	}
	return left
}

// CoveringElement returns the deepest element whose range contains r.
func (t *Tree) CoveringElement(r Range) *Node {
	if !t.root.rng.ContainsRange(r) {
		return nil
	}
	cur := t.root
	for {
		var next *Node
		for _, c := range cur.children {
			if c.rng.ContainsRange(r) && (r.Empty() || c.rng.Len() > 0) {
				next = c
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}
