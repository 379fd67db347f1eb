// Package analysis implements the ink! semantic checks and code actions on
// top of the entity IR.
package analysis

import (
	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/syntax"
)

// Analysis is one analysis session over a snapshot of source text. It is
// not safe to share across text changes: build a new one instead.
type Analysis struct {
	file *ir.File
}

func New(src string) *Analysis {
	return &Analysis{file: ir.Parse(src)}
}

func (a *Analysis) File() *ir.File {
	return a.file
}

func (a *Analysis) Diagnostics() []Diagnostic {
	return Diagnostics(a.file)
}

func (a *Analysis) Actions(r syntax.Range) []Action {
	return Actions(a.file, r)
}

func (a *Analysis) Completions(offset int) []Action {
	return Completions(a.file, offset)
}
