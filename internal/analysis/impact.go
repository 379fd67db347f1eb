package analysis

import (
	"inkanalyzer/internal/git"
	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/syntax"
)

// ImpactReport summarizes the ink! entities affected by changes to one file.
type ImpactReport struct {
	DirectlyAffected   []ir.Entity
	IndirectlyAffected []ir.Entity
}

// ImpactAnalyzer maps changed lines onto the entities of a parsed file.
type ImpactAnalyzer struct {
	file  *ir.File
	lines *syntax.LineIndex
}

func NewImpactAnalyzer(f *ir.File) *ImpactAnalyzer {
	return &ImpactAnalyzer{file: f, lines: syntax.NewLineIndex(f.Text())}
}

// AnalyzeImpact identifies the entities touched by change. Entities that
// enclose a touched entity, and impl blocks implementing a touched trait
// definition, are indirectly affected.
func (a *ImpactAnalyzer) AnalyzeImpact(change git.ChangedFile) *ImpactReport {
	report := &ImpactReport{
		DirectlyAffected:   []ir.Entity{},
		IndirectlyAffected: []ir.Entity{},
	}

	seenDirect := make(map[*syntax.Node]bool)
	seenIndirect := make(map[*syntax.Node]bool)
	key := func(e ir.Entity) *syntax.Node { return e.Node() }

	// 1. Find Direct Impacts (innermost touched entities)
	parents := map[ir.Entity]ir.Entity{}
	var visit func(e, parent ir.Entity) bool
	visit = func(e, parent ir.Entity) bool {
		if parent != nil {
			parents[e] = parent
		}
		if !a.isAffected(e, change.ChangedLines) {
			return false
		}
		childTouched := false
		for _, c := range ir.Children(e) {
			if visit(c, e) {
				childTouched = true
			}
		}
		if !childTouched && !seenDirect[key(e)] {
			report.DirectlyAffected = append(report.DirectlyAffected, e)
			seenDirect[key(e)] = true
		}
		return true
	}
	for _, e := range a.file.Entities() {
		visit(e, nil)
	}

	// 2. Find Indirect Impacts (enclosing entities)
	addIndirect := func(e ir.Entity) {
		if !seenDirect[key(e)] && !seenIndirect[key(e)] {
			report.IndirectlyAffected = append(report.IndirectlyAffected, e)
			seenIndirect[key(e)] = true
		}
	}
	for _, e := range report.DirectlyAffected {
		for p := parents[e]; p != nil; p = parents[p] {
			addIndirect(p)
		}
	}

	// 3. Impl blocks implementing a touched trait definition
	touched := append(append([]ir.Entity{}, report.DirectlyAffected...), report.IndirectlyAffected...)
	for _, e := range touched {
		td, ok := e.(*ir.TraitDefinition)
		if !ok {
			continue
		}
		for _, c := range a.file.Contracts() {
			for _, im := range c.Impls() {
				if def := im.TraitDefinition(); def != nil && def.Node() == td.Node() {
					addIndirect(im)
				}
			}
		}
	}

	return report
}

func (a *ImpactAnalyzer) isAffected(e ir.Entity, lines []int) bool {
	r := e.Node().Range()
	start, _ := a.lines.LineCol(r.Start)
	end, _ := a.lines.LineCol(r.End)
	for _, line := range lines {
		// Diff lines are 1-based.
		if line-1 >= start && line-1 <= end {
			return true
		}
	}
	return false
}
