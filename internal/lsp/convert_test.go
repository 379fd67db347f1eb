package lsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"inkanalyzer/internal/analysis"
	"inkanalyzer/internal/syntax"
)

func TestConverter_Positions(t *testing.T) {
	// `é` is two bytes but one UTF-16 unit, `😀` four bytes and two units.
	text := "// é😀\nfn f() {}\n"
	c := NewConverter("/tmp/lib.rs", text)

	fn := strings.Index(text, "fn")
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, c.Position(fn))

	end := strings.Index(text, "\n")
	assert.Equal(t, protocol.Position{Line: 0, Character: 6}, c.Position(end))
	assert.Equal(t, end, c.Offset(protocol.Position{Line: 0, Character: 6}))
	assert.Equal(t, end, c.Offset(protocol.Position{Line: 0, Character: 99}))

	r := syntax.NewRange(3, fn+2)
	assert.Equal(t, r, c.FromRange(c.Range(r)))
}

func TestConverter_Diagnostics(t *testing.T) {
	src := "struct A;\n\nimpl A {\n    #[ink(message)]\n    fn f(&self) {}\n}\n"
	diags := analysis.New(src).Diagnostics()
	require.Len(t, diags, 1)

	c := NewConverter("/tmp/lib.rs", src)
	wire := c.Diagnostics(diags)
	require.Len(t, wire, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, wire[0].Severity)
	assert.Equal(t, "inkanalyzer", wire[0].Source)
	assert.Equal(t, protocol.Position{Line: 3, Character: 4}, wire[0].Range.Start)

	fixes := c.QuickFixes(diags)
	require.Len(t, fixes, 2)
	assert.Equal(t, protocol.QuickFix, fixes[0].Kind)
	assert.True(t, fixes[0].IsPreferred)
	require.Len(t, fixes[0].Diagnostics, 1)
	require.NotNil(t, fixes[0].Edit)
	require.Len(t, fixes[0].Edit.Changes, 1)
	for u, edits := range fixes[0].Edit.Changes {
		assert.Equal(t, string(c.URI()), string(u))
		require.Len(t, edits, 1)
		assert.Equal(t, "", edits[0].NewText)
	}
}

func TestConverter_CompletionItems(t *testing.T) {
	src := "#[ink(message, sel)]\nfn f(&self) {}\n"
	completions := analysis.New(src).Completions(strings.Index(src, "sel") + 3)
	require.Len(t, completions, 1)

	items := NewConverter("/tmp/lib.rs", src).CompletionItems(completions)
	require.Len(t, items, 1)
	assert.Equal(t, "selector", items[0].Label)
	assert.Equal(t, protocol.InsertTextFormatSnippet, items[0].InsertTextFormat)
	require.NotNil(t, items[0].TextEdit)
	assert.Equal(t, "selector = ${1:1}", items[0].TextEdit.NewText)
}

func TestConverter_CodeActions(t *testing.T) {
	src := "#[ink::contract]\nmod c {}\n"
	actions := analysis.New(src).Actions(syntax.NewRange(17, 17))
	require.NotEmpty(t, actions)

	wire := NewConverter("/tmp/lib.rs", src).CodeActions(actions)
	require.Len(t, wire, len(actions))
	for i, a := range wire {
		assert.Equal(t, actions[i].Label, a.Title)
		assert.Equal(t, protocol.Refactor, a.Kind)
		assert.Empty(t, a.Diagnostics)
	}
}
