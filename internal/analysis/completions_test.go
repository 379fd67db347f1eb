package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkanalyzer/internal/syntax"
)

func TestCompletions_ArgumentName(t *testing.T) {
	src := "#[ink(me)]\nfn f() {}\n"
	offset := strings.Index(src, "me") + 2
	completions := New(src).Completions(offset)

	require.Len(t, completions, 1, labels(completions))
	assert.Equal(t, "message", completions[0].Label)
	assert.Equal(t, "#[ink(message)]\nfn f() {}\n", Apply(src, completions[0].Edits))
}

func TestCompletions_ArgumentValue(t *testing.T) {
	src := "#[ink(message, sel)]\nfn f(&self) {}\n"
	offset := strings.Index(src, "sel") + 3
	completions := New(src).Completions(offset)

	require.Len(t, completions, 1, labels(completions))
	edit := completions[0].Edits[0]
	assert.Equal(t, "selector = 1", edit.Text)
	assert.Equal(t, "selector = ${1:1}", edit.Snippet)
	assert.Equal(t, syntax.NewRange(offset-3, offset), edit.Range)
}

func TestCompletions_Siblings(t *testing.T) {
	src := "#[ink::contract]\nmod c {\n    #[ink(event, )]\n    pub struct E {}\n}\n"
	offset := strings.Index(src, "event, ") + len("event, ")
	completions := New(src).Completions(offset)
	assert.Equal(t, []string{"anonymous"}, labels(completions))

	src = "#[ink::contract]\nmod c {\n    #[ink()]\n    pub struct E {}\n}\n"
	offset = strings.Index(src, "#[ink(") + len("#[ink(")
	completions = New(src).Completions(offset)
	assert.Equal(t, []string{"anonymous", "event", "storage"}, labels(completions))
}

func TestCompletions_MacroPath(t *testing.T) {
	src := "#[ink::con]\nmod c {}\n"
	offset := strings.Index(src, "con") + 3
	completions := New(src).Completions(offset)

	require.Len(t, completions, 1, labels(completions))
	assert.Equal(t, "ink::contract", completions[0].Label)
	assert.Equal(t, "#[ink::contract]\nmod c {}\n", Apply(src, completions[0].Edits))
}

func TestCompletions_Nothing(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		marker string
	}{
		{"argument value", "#[ink(message, selector = 1)]\nfn f(&self) {}\n", "= 1"},
		{"foreign attribute", "#[derive(Debug)]\nstruct A {}\n", "Deb"},
		{"outside attributes", "fn f() {}\n", "fn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset := strings.Index(tt.src, tt.marker) + len(tt.marker)
			assert.Empty(t, New(tt.src).Completions(offset))
		})
	}
}
