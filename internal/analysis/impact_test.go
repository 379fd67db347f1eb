package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkanalyzer/internal/git"
	"inkanalyzer/internal/ir"
)

func TestAnalyzeImpact_MessageBody(t *testing.T) {
	f := ir.Parse(readFixture(t, "flipper.rs"))
	report := NewImpactAnalyzer(f).AnalyzeImpact(git.ChangedFile{
		Path:         "flipper.rs",
		ChangedLines: []int{26},
	})

	require.Len(t, report.DirectlyAffected, 1)
	msg, ok := report.DirectlyAffected[0].(*ir.Message)
	require.True(t, ok)
	assert.Equal(t, "flip", msg.Name())

	require.Len(t, report.IndirectlyAffected, 2)
	assert.IsType(t, &ir.Impl{}, report.IndirectlyAffected[0])
	assert.IsType(t, &ir.Contract{}, report.IndirectlyAffected[1])
}

func TestAnalyzeImpact_TraitImplementors(t *testing.T) {
	src := `#[ink::trait_definition]
pub trait Flip {
    #[ink(message)]
    fn flip(&mut self);
}

#[ink::contract]
mod flipper {
    #[ink(storage)]
    pub struct Flipper {}

    impl crate::Flip for Flipper {
        #[ink(message)]
        fn flip(&mut self) {}
    }
}
`
	f := ir.Parse(src)
	report := NewImpactAnalyzer(f).AnalyzeImpact(git.ChangedFile{Path: "lib.rs", ChangedLines: []int{4}})

	require.Len(t, report.DirectlyAffected, 1)
	assert.IsType(t, &ir.Message{}, report.DirectlyAffected[0])

	require.Len(t, report.IndirectlyAffected, 2)
	assert.IsType(t, &ir.TraitDefinition{}, report.IndirectlyAffected[0])
	assert.IsType(t, &ir.Impl{}, report.IndirectlyAffected[1])
}

func TestAnalyzeImpact_Untouched(t *testing.T) {
	f := ir.Parse(readFixture(t, "flipper.rs"))
	report := NewImpactAnalyzer(f).AnalyzeImpact(git.ChangedFile{Path: "flipper.rs", ChangedLines: []int{1}})
	assert.Empty(t, report.DirectlyAffected)
	assert.Empty(t, report.IndirectlyAffected)
}
