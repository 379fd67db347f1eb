package crawler

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Crawler scans a directory for Rust source files.
type Crawler struct {
	include []string
	exclude []string
	ignored []string
}

// NewCrawler creates a crawler matching root-relative paths against the
// include and exclude globs (doublestar syntax, e.g. `**/*.rs`).
func NewCrawler(include, exclude []string) *Crawler {
	return &Crawler{
		include: include,
		exclude: exclude,
		ignored: []string{".git", "target", "node_modules"},
	}
}

// ScanProject walks root and streams every matching file path to onFile,
// preventing large memory buildup. Paths passed to onFile are joined with
// root. An error from onFile stops the walk.
func (c *Crawler) ScanProject(root string, onFile func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			if path == root {
				return nil
			}
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		ok, err := c.Matches(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return onFile(path)
	})
}

// Matches reports whether a slash-separated relative path is included and
// not excluded.
func (c *Crawler) Matches(rel string) (bool, error) {
	for _, pattern := range append(append([]string{}, c.include...), c.exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return false, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	included := false
	for _, pattern := range c.include {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		if matched {
			included = true
			break
		}
	}
	if !included {
		return false, nil
	}
	for _, pattern := range c.exclude {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}
	return true, nil
}
