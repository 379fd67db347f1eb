package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"inkanalyzer/internal/analysis"
	"inkanalyzer/internal/crawler"
	"inkanalyzer/internal/git"
	"inkanalyzer/internal/ir"
)

// changedFilesStage lists the Rust files changed since ref that still exist
// and match the configured globs, and reports the ink! entities each change
// affects.
func (s *Scanner) changedFilesStage(cr *crawler.Crawler, root, ref string) ([]string, error) {
	changes, err := git.ChangedSince(root, ref, ".rs")
	if err != nil {
		return nil, fmt.Errorf("failed to get git changes: %w", err)
	}
	if len(changes) == 0 {
		return nil, nil
	}
	fmt.Fprintf(s.out, "📝 Detected %d changed Rust files since %s.\n", len(changes), ref)

	var paths []string
	for _, change := range changes {
		ok, err := cr.Matches(change.Path)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(change.Path)))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", change.Path, err)
		}
		s.impactAnalysisStage(string(data), change)
		paths = append(paths, change.Path)
	}
	return paths, nil
}

func (s *Scanner) impactAnalysisStage(src string, change git.ChangedFile) {
	analyzer := analysis.NewImpactAnalyzer(ir.Parse(src))
	report := analyzer.AnalyzeImpact(change)
	if len(report.DirectlyAffected) == 0 {
		return
	}

	fmt.Fprintf(s.out, "🔍 %s\n", change.Path)
	fmt.Fprintf(s.out, "  -> %d entities directly affected\n", len(report.DirectlyAffected))
	fmt.Fprintf(s.out, "  -> %d entities indirectly affected (enclosing or implementing)\n", len(report.IndirectlyAffected))
	for _, e := range report.DirectlyAffected {
		s.logger.Debug("affected",
			zap.String("path", change.Path),
			zap.String("kind", e.Kind().String()),
			zap.String("name", e.Node().Name()))
	}
}
