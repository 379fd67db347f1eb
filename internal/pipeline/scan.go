package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"inkanalyzer/internal/analysis"
	"inkanalyzer/internal/config"
	"inkanalyzer/internal/crawler"
	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/report"
	"inkanalyzer/internal/storage"
	"inkanalyzer/internal/syntax"
)

// Scanner analyzes the ink! sources of a project and records the results.
type Scanner struct {
	cfg    *config.Config
	store  storage.Store
	logger *zap.Logger
	out    io.Writer
}

type Options struct {
	// Root is the project directory. Stored paths are relative to it.
	Root string
	// Since restricts the scan to files changed relative to a git ref.
	Since string
	// Force re-analyzes files whose content hash did not change.
	Force bool
}

type Result struct {
	RunID  int64
	Files  []report.FileReport
	Errors int
}

func NewScanner(cfg *config.Config, store storage.Store, logger *zap.Logger, out io.Writer) *Scanner {
	if out == nil {
		out = io.Discard
	}
	return &Scanner{cfg: cfg, store: store, logger: logger, out: out}
}

func (s *Scanner) Run(ctx context.Context, opts Options) (*Result, error) {
	root := opts.Root
	if root == "" {
		root = s.cfg.Project.Root
	}

	// 1. Collect files
	paths, err := s.collectStage(root, opts.Since)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		fmt.Fprintln(s.out, "✅ No ink! sources to check.")
	}

	runID, err := s.store.BeginRun(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	// 2. Analyze concurrently
	start := time.Now()
	results, err := s.analyzeStage(ctx, root, paths, opts.Force)
	if err != nil {
		return nil, err
	}

	// 3. Persist sequentially
	res := &Result{RunID: runID}
	cached := 0
	for _, r := range results {
		if err := s.store.SaveFileResult(ctx, runID, r.file); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", r.file.Path, err)
		}
		for _, d := range r.file.Diagnostics {
			if d.Severity == string(analysis.SeverityError) {
				res.Errors++
			}
		}
		if r.cached {
			cached++
		}
		res.Files = append(res.Files, report.FileReport{
			Path:        r.file.Path,
			ContentHash: r.file.ContentHash,
			Cached:      r.cached,
			Entities:    r.file.Snapshot.Entities,
			Diagnostics: r.file.Diagnostics,
		})
	}
	if err := s.store.FinishRun(ctx, runID, len(results), res.Errors); err != nil {
		return nil, fmt.Errorf("failed to finish run: %w", err)
	}

	fmt.Fprintf(s.out, "📊 Checked %d files (%d unchanged) in %v, %d errors.\n",
		len(results), cached, time.Since(start).Round(time.Millisecond), res.Errors)
	s.logger.Info("scan finished",
		zap.Int64("run", runID),
		zap.Int("files", len(results)),
		zap.Int("cached", cached),
		zap.Int("errors", res.Errors))
	return res, nil
}

func (s *Scanner) collectStage(root, since string) ([]string, error) {
	cr := crawler.NewCrawler(s.cfg.Project.Include, s.cfg.Project.Exclude)
	if since != "" {
		return s.changedFilesStage(cr, root, since)
	}

	fmt.Fprintf(s.out, "📂 Scanning directory: %s\n", root)
	var paths []string
	err := cr.ScanProject(root, func(path string) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

type fileOutcome struct {
	file   *storage.FileResult
	cached bool
}

func (s *Scanner) analyzeStage(ctx context.Context, root string, paths []string, force bool) ([]fileOutcome, error) {
	// Indices are unique per goroutine, so results need no lock.
	results := make([]fileOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Scan.Workers))

	for i, rel := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", rel, err)
			}
			hash := storage.HashContent(data)

			if !force {
				prev, err := s.store.CachedFile(gctx, rel)
				if err != nil {
					return fmt.Errorf("failed to load cached result of %s: %w", rel, err)
				}
				if prev != nil && prev.ContentHash == hash {
					s.logger.Debug("unchanged", zap.String("path", rel))
					results[i] = fileOutcome{file: prev, cached: true}
					return nil
				}
			}

			results[i] = fileOutcome{file: AnalyzeFile(rel, string(data))}
			s.logger.Debug("analyzed", zap.String("path", rel), zap.Int("diagnostics", len(results[i].file.Diagnostics)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AnalyzeFile runs the diagnostics and builds the IR snapshot of one file.
func AnalyzeFile(path, src string) *storage.FileResult {
	a := analysis.New(src)
	return &storage.FileResult{
		Path:        path,
		ContentHash: storage.HashContent([]byte(src)),
		Snapshot:    ir.Summarize(a.File(), path),
		Diagnostics: DiagnosticRecords(path, src, a.Diagnostics()),
	}
}

// DiagnosticRecords converts diagnostics to 1-based line and byte column
// positions.
func DiagnosticRecords(path, src string, diags []analysis.Diagnostic) []storage.DiagnosticRecord {
	lines := syntax.NewLineIndex(src)
	out := make([]storage.DiagnosticRecord, 0, len(diags))
	for _, d := range diags {
		line, col := lines.LineCol(d.Range.Start)
		endLine, endCol := lines.LineCol(d.Range.End)
		out = append(out, storage.DiagnosticRecord{
			Path:      path,
			Line:      line + 1,
			Column:    col + 1,
			EndLine:   endLine + 1,
			EndColumn: endCol + 1,
			Severity:  string(d.Severity),
			Message:   d.Message,
		})
	}
	return out
}
