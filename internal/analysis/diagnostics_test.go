package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkanalyzer/internal/ir"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func messages(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

func TestDiagnostics_ValidFixtures(t *testing.T) {
	for _, name := range []string{"erc20.rs", "flipper.rs", "flipper_trait.rs", "rand_extension.rs"} {
		t.Run(name, func(t *testing.T) {
			diags := New(readFixture(t, name)).Diagnostics()
			assert.Empty(t, diags, messages(diags))
		})
	}
}

func TestDiagnostics_MutatedFixtures(t *testing.T) {
	tests := []struct {
		fixture string
		remove  string
		want    int
	}{
		{"erc20.rs", "#[ink::contract]", 10},
		{"erc20.rs", "#[ink(storage)]", 1},
		{"erc20.rs", "#[ink(constructor)]", 1},
		{"erc20.rs", "#[ink(message)]", 1},
		{"flipper.rs", "#[ink::contract]", 5},
		{"flipper_trait.rs", "#[ink::trait_definition]", 2},
		{"flipper_trait.rs", "#[ink(message)]", 3},
		{"rand_extension.rs", "type ErrorCode = RandomReadErr;", 1},
		{"rand_extension.rs", "#[ink::chain_extension]", 2},
	}
	for _, tt := range tests {
		t.Run(tt.fixture+" without "+tt.remove, func(t *testing.T) {
			src := strings.ReplaceAll(readFixture(t, tt.fixture), tt.remove, "")
			diags := New(src).Diagnostics()
			assert.Len(t, diags, tt.want, messages(diags))
			for _, d := range diags {
				assert.Equal(t, SeverityError, d.Severity)
			}
		})
	}
}

func TestDiagnostics_MissingStorage(t *testing.T) {
	src := `#[ink::contract] mod c { #[ink(event)] struct E{} }`
	diags := New(src).Diagnostics()

	var storage []Diagnostic
	for _, d := range diags {
		if strings.Contains(strings.ToLower(d.Message), "storage") {
			storage = append(storage, d)
		}
	}
	require.Len(t, storage, 1, messages(diags))
	require.Len(t, storage[0].QuickFixes, 1)
	assert.Contains(t, storage[0].QuickFixes[0].Edits[0].Text, "#[ink(storage)]")
	assert.Equal(t, ActionQuickFix, storage[0].QuickFixes[0].Kind)

	fixed := Apply(src, storage[0].QuickFixes[0].Edits)
	assert.NotNil(t, ir.Parse(fixed).Contracts()[0].Storage())
}

func TestDiagnostics_MissingCallablesAreAggregated(t *testing.T) {
	src := "#[ink::contract]\nmod c {\n    #[ink(storage)]\n    pub struct C {}\n}\n"
	diags := New(src).Diagnostics()
	require.Len(t, diags, 1, messages(diags))
	assert.Contains(t, diags[0].Message, "constructor")
	assert.Contains(t, diags[0].Message, "message")
	assert.NotContains(t, diags[0].Message, "storage")
	require.Len(t, diags[0].QuickFixes, 2)

	fixed := Apply(src, diags[0].QuickFixes[0].Edits)
	diags = New(fixed).Diagnostics()
	require.Len(t, diags, 1, messages(diags))
	assert.Contains(t, diags[0].Message, "message")
	assert.NotContains(t, diags[0].Message, "constructor")
}

func TestDiagnostics_OrphanedMessage(t *testing.T) {
	src := "struct A;\n\nimpl A {\n    #[ink(message)]\n    fn f(&self) {}\n}\n"
	diags := New(src).Diagnostics()
	require.Len(t, diags, 1, messages(diags))

	d := diags[0]
	assert.Contains(t, d.Message, "message has no valid ink! scope ancestor")
	assert.Equal(t, "#[ink(message)]", src[d.Range.Start:d.Range.End])
	require.Len(t, d.QuickFixes, 2)
	assert.Equal(t, "Remove `#[ink(message)]`", d.QuickFixes[0].Label)
	assert.Equal(t, "Remove item", d.QuickFixes[1].Label)

	assert.Equal(t, "struct A;\n\nimpl A {\n    fn f(&self) {}\n}\n", Apply(src, d.QuickFixes[0].Edits))
	assert.Equal(t, "struct A;\n\nimpl A {\n    }\n", Apply(src, d.QuickFixes[1].Edits))
}

func TestDiagnostics_ContractCount(t *testing.T) {
	contract := func(name string) string {
		return "#[ink::contract]\nmod " + name + " {\n" +
			"    #[ink(storage)]\n    pub struct S {}\n\n" +
			"    impl S {\n" +
			"        #[ink(constructor)]\n        pub fn new() -> Self { Self {} }\n\n" +
			"        #[ink(message)]\n        pub fn get(&self) {}\n" +
			"    }\n}\n"
	}
	for n := 1; n <= 3; n++ {
		var src strings.Builder
		for i := 0; i < n; i++ {
			src.WriteString(contract("c" + string(rune('a'+i))))
		}
		diags := New(src.String()).Diagnostics()
		count := 0
		for _, d := range diags {
			if strings.HasPrefix(d.Message, "Only one ink! contract per file") {
				count++
				require.Len(t, d.QuickFixes, 2)
				assert.Equal(t, "Remove `#[ink::contract]`", d.QuickFixes[0].Label)
			}
		}
		assert.Equal(t, n-1, count, messages(diags))
	}
}

func TestDiagnostics_AttributeRules(t *testing.T) {
	wrap := func(body string) string {
		return "#[ink::contract]\nmod c {\n    #[ink(storage)]\n    pub struct C {}\n\n    impl C {\n" +
			"        #[ink(constructor)]\n        pub fn new() -> Self { Self {} }\n\n" +
			body + "\n    }\n}\n"
	}
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{
			name:    "conflicting argument",
			src:     wrap("        #[ink(message, anonymous)]\n        pub fn a(&self) {}"),
			message: "ink! anonymous argument conflicts with ink! message.",
		},
		{
			name:    "duplicate argument",
			src:     wrap("        #[ink(message, payable, payable)]\n        pub fn a(&self) {}"),
			message: "Duplicate ink! payable attribute argument.",
		},
		{
			name:    "unexpected value",
			src:     wrap("        #[ink(message = 1)]\n        pub fn a(&self) {}"),
			message: "ink! message argument should not have a value.",
		},
		{
			name:    "missing value",
			src:     wrap("        #[ink(message, selector)]\n        pub fn a(&self) {}"),
			message: "ink! selector argument should have a value of type u32 or `_`.",
		},
		{
			name:    "wrong literal",
			src:     wrap("        #[ink(message, selector = true)]\n        pub fn a(&self) {}"),
			message: "ink! selector argument should have a value of type u32 or `_`.",
		},
		{
			name:    "message receiver",
			src:     wrap("        #[ink(message)]\n        pub fn a() {}"),
			message: "ink! message must have a `&self` or `&mut self` receiver.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := New(tt.src).Diagnostics()
			require.Len(t, diags, 1, messages(diags))
			assert.Equal(t, tt.message, diags[0].Message)
		})
	}

	t.Run("wildcard selector", func(t *testing.T) {
		diags := New(wrap("        #[ink(message, selector = _)]\n        pub fn a(&self) {}")).Diagnostics()
		assert.Empty(t, diags, messages(diags))
	})

	t.Run("unknown arguments are inert", func(t *testing.T) {
		diags := New(wrap("        #[ink(message, whatever)]\n        pub fn a(&self) {}")).Diagnostics()
		assert.Empty(t, diags, messages(diags))
	})
}

func TestDiagnostics_RemoveArgFix(t *testing.T) {
	src := "#[ink(event, anonymous, anonymous)]\npub struct E {}\n"
	diags := duplicateDiagnostics(ir.Parse(src).Root().Children()[0])
	require.Len(t, diags, 1)
	require.Len(t, diags[0].QuickFixes, 1)
	assert.Equal(t, "#[ink(event, anonymous)]\npub struct E {}\n", Apply(src, diags[0].QuickFixes[0].Edits))
}

func TestDiagnostics_StorageItem(t *testing.T) {
	src := "#[ink::storage_item]\nfn not_an_adt() {}\n\n#[ink::storage_item]\npub struct S {\n    #[ink(topic)]\n    value: bool,\n}\n"
	diags := New(src).Diagnostics()
	require.Len(t, diags, 2, messages(diags))
	assert.Equal(t, "`#[ink::storage_item]` can only be applied to an `enum`, `struct` or `union` item.", diags[0].Message)
	assert.Empty(t, diags[0].QuickFixes)
	assert.Equal(t, "ink! storage item cannot contain ink! attributes.", diags[1].Message)
}

func TestDiagnostics_ChainExtensionIDs(t *testing.T) {
	src := "#[ink::chain_extension]\npub trait Ext {\n    type ErrorCode = ();\n\n" +
		"    #[ink(extension = 1)]\n    fn a();\n\n" +
		"    #[ink(extension = 1)]\n    fn b();\n\n" +
		"    fn c();\n}\n"
	diags := New(src).Diagnostics()
	require.Len(t, diags, 2, messages(diags))
	assert.Contains(t, diags[0].Message, "Duplicate ink! extension id `1`")
	assert.Equal(t, "Every method of an ink! chain extension must be an ink! extension.", diags[1].Message)

	fixed := Apply(src, diags[1].QuickFixes[0].Edits)
	assert.Contains(t, fixed, "    #[ink(extension = 2)]\n    fn c();")
}

func TestDiagnostics_DocumentOrder(t *testing.T) {
	src := strings.ReplaceAll(readFixture(t, "erc20.rs"), "#[ink::contract]", "")
	diags := New(src).Diagnostics()
	for i := 1; i < len(diags); i++ {
		assert.LessOrEqual(t, diags[i-1].Range.Start, diags[i].Range.Start)
	}
}

func TestDiagnostics_UnknownAttributesAreInert(t *testing.T) {
	contract := func(items string) string {
		return "#[ink::contract]\nmod c {\n" + items +
			"    impl C {\n" +
			"        #[ink(constructor)]\n        pub fn new() -> Self { Self {} }\n\n" +
			"        #[ink(message)]\n        pub fn get(&self) {}\n" +
			"    }\n}\n"
	}
	storage := "    #[ink(storage)]\n    pub struct C {}\n\n"
	tests := []struct {
		name     string
		src      string
		messages []string
	}{
		{
			name:     "unknown argument on the ancestor",
			src:      "#[ink(foo)]\nmod m {\n    #[ink(storage)]\n    struct S {}\n}\n",
			messages: []string{"ink! storage has no valid ink! scope ancestor."},
		},
		{
			name: "unknown macro on a nested module",
			src:  contract(storage + "    #[ink::foo]\n    mod inner {\n        fn helper() {}\n    }\n\n"),
		},
		{
			name: "unknown macro between the contract and a descendant",
			src:  contract(storage + "    #[ink::foo]\n    mod inner {\n        #[ink(event)]\n        pub struct E {}\n    }\n\n"),
		},
		{
			name: "unknown sibling attribute",
			src:  contract("    #[ink(foo)]\n" + storage),
		},
		{
			name:     "unknown macro above a misplaced argument",
			src:      contract(storage + "    #[ink::foo]\n    mod inner {\n        #[ink(topic)]\n        pub struct T {}\n    }\n\n"),
			messages: []string{"ink! topic is not allowed inside ink! contract."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags []Diagnostic
			require.NotPanics(t, func() { diags = New(tt.src).Diagnostics() })
			assert.Equal(t, tt.messages, messages(diags))
		})
	}
}

func TestDiagnostics_ItemInsideFnBody(t *testing.T) {
	src := "fn main() {\n    let keep = 1;\n    #[ink(storage)]\n    struct S {}\n}\n"
	diags := New(src).Diagnostics()
	require.Len(t, diags, 1, messages(diags))

	d := diags[0]
	assert.Equal(t, "ink! storage has no valid ink! scope ancestor.", d.Message)
	assert.Equal(t, "#[ink(storage)]", src[d.Range.Start:d.Range.End])
	require.Len(t, d.QuickFixes, 2)

	assert.Equal(t, "fn main() {\n    let keep = 1;\n    struct S {}\n}\n", Apply(src, d.QuickFixes[0].Edits))
	assert.Equal(t, "fn main() {\n    let keep = 1;\n    }\n", Apply(src, d.QuickFixes[1].Edits))
}
