package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"inkanalyzer/internal/ir"
)

func TestMermaid(t *testing.T) {
	src := "#[ink::contract]\nmod c {\n    #[ink(storage)]\n    pub struct C {}\n\n    #[ink(event)]\n    pub struct E {}\n}\n"
	out := Mermaid(ir.Summarize(ir.Parse(src), "lib.rs"))

	assert.True(t, strings.HasPrefix(out, "```mermaid\ngraph TD\n"))
	assert.True(t, strings.HasSuffix(out, "```\n"))
	assert.Contains(t, out, `contract_0["contract c (L`)
	assert.Contains(t, out, `contract_0_storage_0["storage C (L`)
	assert.Contains(t, out, "    contract_0 --> contract_0_storage_0\n")
	assert.Contains(t, out, "    contract_0 --> contract_0_event_1\n")
}

func TestMermaid_Empty(t *testing.T) {
	assert.Equal(t, "```mermaid\ngraph TD\n```\n", Mermaid(ir.Snapshot{}))
}

func TestSanitizeMermaidID(t *testing.T) {
	assert.Equal(t, "trait_definition", sanitizeMermaidID("trait_definition"))
	assert.Equal(t, "e2e_test", sanitizeMermaidID("E2E-Test"))
	assert.Equal(t, "n_1x", sanitizeMermaidID("1x"))
	assert.Equal(t, "node", sanitizeMermaidID("  "))
}
