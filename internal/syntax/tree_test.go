package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractSrc = `#[ink::contract]
mod flipper {
    /// Storage.
    #[ink(storage)]
    pub struct Flipper {
        value: bool,
    }

    impl Flipper {
        #[ink(message)]
        pub fn flip(&mut self) {}
    }
}
`

func findFirst(root *Node, kind string) *Node {
	var found *Node
	root.Walk(func(n *Node) bool {
		if found == nil && n.Kind() == kind {
			found = n
		}
		return found == nil
	})
	return found
}

func TestParse_TokensCoverText(t *testing.T) {
	tree := Parse(contractSrc)

	var b strings.Builder
	for _, tok := range tree.Tokens() {
		b.WriteString(tok.Text())
	}
	assert.Equal(t, contractSrc, b.String(), "tokens should reproduce the source text")
	assert.Equal(t, NewRange(0, len(contractSrc)), tree.Root().Range())
}

func TestParse_AttributesBelongToItems(t *testing.T) {
	tree := Parse(contractSrc)

	mod := findFirst(tree.Root(), KindModItem)
	require.NotNil(t, mod)
	require.Len(t, mod.Attrs(), 1)
	assert.Equal(t, "#[ink::contract]", mod.Attrs()[0].Text())
	assert.Equal(t, 0, mod.Range().Start, "item range should include its attributes")
	assert.Equal(t, "flipper", mod.Name())

	st := findFirst(tree.Root(), KindStructItem)
	require.NotNil(t, st)
	require.Len(t, st.Attrs(), 1)
	assert.True(t, strings.HasPrefix(st.Text(), "/// Storage."), "doc comment should be attached")
	assert.Equal(t, "    ", Indenting(st))
	assert.Equal(t, "        ", ChildrenIndenting(st))

	attr := st.Attrs()[0]
	assert.Equal(t, st, ParentItem(attr))
}

func TestParse_DeclarationRange(t *testing.T) {
	tree := Parse(contractSrc)

	fn := findFirst(tree.Root(), KindFunctionItem)
	require.NotNil(t, fn)
	decl, ok := DeclarationRange(fn)
	require.True(t, ok)
	assert.Equal(t, "pub fn flip(&mut self) {", contractSrc[decl.Start:decl.End])

	term := TerminalToken(fn)
	require.NotNil(t, term)
	assert.Equal(t, "}", term.Text())

	use := Parse("use foo::Bar;").Root()
	_, ok = DeclarationRange(findFirst(use, KindUseDeclaration))
	assert.False(t, ok, "use declarations have no declaration range")
}

func TestTree_TokenAtOffset(t *testing.T) {
	src := "mod a {\n}"
	tree := Parse(src)

	t.Run("Inside token", func(t *testing.T) {
		left, right := tree.TokenAtOffset(1)
		require.NotNil(t, left)
		assert.Equal(t, left, right)
		assert.Equal(t, "mod", left.Text())
	})

	t.Run("Between tokens prefers non-trivia", func(t *testing.T) {
		tok := tree.FocusedToken(strings.Index(src, "{") + 1)
		require.NotNil(t, tok)
		assert.Equal(t, "{", tok.Text())

		tok = tree.FocusedToken(strings.Index(src, "}"))
		require.NotNil(t, tok)
		assert.Equal(t, "}", tok.Text())
	})

	t.Run("Empty file", func(t *testing.T) {
		empty := Parse("")
		assert.Nil(t, empty.FocusedToken(0))
		assert.Empty(t, empty.Tokens())
	})
}

func TestApplyIndenting(t *testing.T) {
	got := ApplyIndenting("a {\n    b\n\n}", "  ")
	assert.Equal(t, "a {\n      b\n\n  }", got)
	assert.Equal(t, "  ", EndIndenting("\n\n  "))
}

func TestParse_AttributesInsideFnBody(t *testing.T) {
	src := "fn main() {\n    let keep = 1;\n    #[ink(storage)]\n    struct S {}\n}\n"
	tree := Parse(src)

	block := findFirst(tree.Root(), KindBlock)
	require.NotNil(t, block)
	assert.Nil(t, block.Attrs())

	st := findFirst(tree.Root(), KindStructItem)
	require.NotNil(t, st)
	require.Len(t, st.Attrs(), 1)
	assert.Equal(t, "#[ink(storage)]\n    struct S {}", st.Text())
	assert.Equal(t, st, ParentItem(st.Attrs()[0]))
}
