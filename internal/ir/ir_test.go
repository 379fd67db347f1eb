package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkanalyzer/internal/syntax"
)

const flipperSrc = `#[ink::contract]
mod flipper {
    #[ink(storage)]
    pub struct Flipper {
        value: bool,
    }

    #[ink(event)]
    pub struct Flipped {
        #[ink(topic)]
        by: AccountId,
        value: bool,
    }

    impl Flipper {
        #[ink(constructor)]
        pub fn new(init_value: bool) -> Self {
            Self { value: init_value }
        }

        #[ink(message, payable)]
        pub fn flip(&mut self) {
            self.value = !self.value;
        }

        #[ink(message)]
        pub fn get(&self) -> bool {
            self.value
        }
    }

    #[cfg(test)]
    mod tests {
        #[ink::test]
        fn it_works() {}
    }
}
`

func findNode(root *syntax.Node, kind, name string) *syntax.Node {
	var found *syntax.Node
	root.Walk(func(n *syntax.Node) bool {
		if found == nil && n.Kind() == kind && n.Name() == name {
			found = n
		}
		return found == nil
	})
	return found
}

func TestBuild_Contract(t *testing.T) {
	f := Parse(flipperSrc)

	require.Len(t, f.Contracts(), 1)
	c := f.Contracts()[0]
	assert.Equal(t, "flipper", c.Name())
	require.NotNil(t, c.Module())
	require.NotNil(t, c.ItemList())

	require.NotNil(t, c.Storage())
	assert.Equal(t, "Flipper", c.Storage().Name())
	require.Len(t, c.Events(), 1)
	assert.Equal(t, "Flipped", c.Events()[0].Name())
	assert.Len(t, c.Events()[0].Topics(), 1)
	assert.False(t, c.Events()[0].Anonymous())

	assert.Len(t, c.Constructors(), 1)
	assert.Len(t, c.Messages(), 2)
	require.Len(t, c.Impls(), 1)
	assert.Equal(t, "Flipper", c.Impls()[0].SelfType())
	assert.Empty(t, c.Impls()[0].TraitPath())

	// Tests nested in a contract are still file-level entities.
	require.Len(t, f.Tests(), 1)
	assert.Equal(t, "it_works", f.Tests()[0].Name())
}

func TestBuild_Callables(t *testing.T) {
	f := Parse(flipperSrc)
	c := f.Contracts()[0]

	ctor := c.Constructors()[0]
	assert.Empty(t, ctor.SelfParam())
	assert.NotNil(t, ctor.ReturnType())
	assert.NotNil(t, ctor.ParentImpl())

	flip := c.Messages()[0]
	assert.Equal(t, "flip", flip.Name())
	assert.Equal(t, "&mutself", flip.SelfParam())
	assert.Equal(t, ArgAttr(ArgMessage), flip.Attr().Kind, "message outranks payable")
}

func TestParseAttribute_PrimaryKind(t *testing.T) {
	cases := []struct {
		src  string
		want AttrKind
	}{
		{"#[ink(payable, message)]\nfn a() {}", ArgAttr(ArgMessage)},
		{"#[ink(anonymous, event)]\nstruct A {}", ArgAttr(ArgEvent)},
		{"#[ink(anonymous)]\nstruct A {}", ArgAttr(ArgAnonymous)},
		{"#[ink(keep_attr = \"\", namespace = \"x\")]\nimpl A {}", ArgAttr(ArgNamespace)},
		{"#[ink(selector = 1)]\nfn a() {}", ArgAttr(ArgSelector)},
		{"#[ink(unknown_arg)]\nfn a() {}", ArgAttr(ArgUnknown)},
		{"#[ink::contract(env = crate::E)]\nmod a {}", MacroAttr(MacroContract)},
		{"#[ink_e2e::test]\nfn a() {}", MacroAttr(MacroE2ETest)},
		{"#[ink::foo]\nfn a() {}", MacroAttr(MacroUnknown)},
	}
	for _, tc := range cases {
		tree := syntax.Parse(tc.src)
		item := tree.Root().Children()[0]
		attrs := InkAttrs(item)
		require.Len(t, attrs, 1, tc.src)
		assert.Equal(t, tc.want, attrs[0].Kind, tc.src)
	}
}

func TestParseAttribute_Args(t *testing.T) {
	tree := syntax.Parse("#[ink(message, selector = 0xA, payable)]\nfn a() {}")
	attr := InkAttrs(tree.Root().Children()[0])[0]

	require.Len(t, attr.Args, 3)
	sel, ok := attr.Arg(ArgSelector)
	require.True(t, ok)
	assert.True(t, sel.HasEq)
	require.NotNil(t, sel.Value)
	assert.Equal(t, "0xA", sel.Value.Text)
	assert.True(t, attr.Closed())

	assert.Nil(t, InkAttrs(syntax.Parse("#[derive(Debug)]\nstruct A;").Root().Children()[0]))
}

func TestImpl_TraitDefinition(t *testing.T) {
	src := `#[ink::trait_definition]
pub trait Flip {
    #[ink(message)]
    fn flip(&mut self);
}

mod api {
    pub use super::Flip as Flippable;
}

#[ink::contract]
mod flipper {
    use crate::api::Flippable;

    #[ink(storage)]
    pub struct Flipper {}

    impl Flippable for Flipper {
        #[ink(message)]
        fn flip(&mut self) {}
    }

    impl crate::Flip for Flipper {
        #[ink(message)]
        fn flip(&mut self) {}
    }
}
`
	f := Parse(src)
	require.Len(t, f.TraitDefinitions(), 1)
	assert.Len(t, f.TraitDefinitions()[0].Messages(), 1)

	impls := f.Contracts()[0].Impls()
	require.Len(t, impls, 2)
	for _, im := range impls {
		td := im.TraitDefinition()
		require.NotNil(t, td, im.TraitPath())
		assert.Equal(t, "Flip", td.Name())
	}
}

func TestResolveItem_Bounded(t *testing.T) {
	src := `use self::a::*;
mod a {
    pub use super::*;
}
`
	tree := syntax.Parse(src)
	assert.Nil(t, ResolveItem("Missing", tree.Root().Children()[0], syntax.KindTraitItem))
}

func TestChainExtension(t *testing.T) {
	src := `#[ink::chain_extension]
pub trait Ext {
    type ErrorCode = ();

    #[ink(extension = 1, handle_status = false)]
    fn a();

    #[ink(extension = 2)]
    fn b();
}
`
	f := Parse(src)
	require.Len(t, f.ChainExtensions(), 1)
	ce := f.ChainExtensions()[0]
	assert.NotNil(t, ce.ErrorCode())
	require.Len(t, ce.Extensions(), 2)
	id, ok := ce.Extensions()[0].ID()
	require.True(t, ok)
	assert.Equal(t, "1", id.Value.Text)
}

func TestScope_ClosestAncestorAndDescendants(t *testing.T) {
	f := Parse(flipperSrc)
	root := f.Root()

	flip := findNode(root, syntax.KindFunctionItem, "flip")
	require.NotNil(t, flip)
	anc := ClosestInkAncestor(flip)
	require.NotNil(t, anc)
	assert.Equal(t, syntax.KindModItem, anc.Kind(), "plain impl blocks are transparent")

	mod := findNode(root, syntax.KindModItem, "flipper")
	kinds := map[AttrKind]int{}
	for _, attr := range ClosestDescendantAttrs(mod) {
		kinds[attr.Kind]++
	}
	assert.Equal(t, 1, kinds[ArgAttr(ArgStorage)])
	assert.Equal(t, 2, kinds[ArgAttr(ArgMessage)])
	assert.Zero(t, kinds[ArgAttr(ArgTopic)], "topics sit below an event")
	assert.Len(t, InkDescendants(mod), 7)
}

func TestSummarize(t *testing.T) {
	f := Parse(flipperSrc)
	snap := Summarize(f, "lib.rs")

	require.Len(t, snap.Entities, 1)
	contract := snap.Entities[0]
	assert.Equal(t, "contract", contract.Kind)
	assert.Equal(t, 1, contract.Evidence.StartLine)

	kinds := map[string]bool{}
	for _, c := range contract.Children {
		kinds[c.Kind] = true
	}
	assert.True(t, kinds["storage"])
	assert.True(t, kinds["event"])
	assert.True(t, kinds["impl"])
	assert.True(t, kinds["test"])
	assert.False(t, kinds["message"], "messages are reported under their impl")

	_, err := json.Marshal(snap)
	require.NoError(t, err)
}

func TestScope_UnknownAttributesAreTransparent(t *testing.T) {
	src := "#[ink::contract]\nmod c {\n    #[ink::foo]\n    mod inner {\n        #[ink(whatever)]\n        mod deeper {\n            #[ink(event)]\n            pub struct E {}\n        }\n    }\n}\n"
	f := Parse(src)
	root := f.Root()

	inner := findNode(root, syntax.KindModItem, "inner")
	require.NotNil(t, inner)
	assert.False(t, HasInkAttrs(inner))
	assert.NotEmpty(t, InkAttrs(inner))

	ev := findNode(root, syntax.KindStructItem, "E")
	require.NotNil(t, ev)
	anc := ClosestInkAncestor(ev)
	require.NotNil(t, anc)
	assert.Equal(t, "c", anc.Name())

	c := findNode(root, syntax.KindModItem, "c")
	assert.Equal(t, []*syntax.Node{ev}, ClosestInkDescendants(c))
}
