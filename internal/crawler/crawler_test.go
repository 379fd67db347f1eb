package crawler

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("// "+p), 0o644))
	}
}

func TestCrawler_ScanProject(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"lib.rs",
		"flipper/lib.rs",
		"flipper/Cargo.toml",
		"erc20/src/lib.rs",
		"erc20/generated/abi.rs",
		"target/debug/build.rs",
		".git/hooks/hook.rs",
	)

	c := NewCrawler([]string{"**/*.rs"}, []string{"**/generated/**"})

	var found []string
	err := c.ScanProject(root, func(path string) error {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		found = append(found, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)

	sort.Strings(found)
	assert.Equal(t, []string{"erc20/src/lib.rs", "flipper/lib.rs", "lib.rs"}, found)
}

func TestCrawler_Matches(t *testing.T) {
	c := NewCrawler([]string{"contracts/**/*.rs"}, []string{"**/tests/**"})

	tests := []struct {
		path string
		want bool
	}{
		{"contracts/flipper/lib.rs", true},
		{"contracts/lib.rs", true},
		{"contracts/flipper/tests/e2e.rs", false},
		{"src/lib.rs", false},
		{"contracts/flipper/Cargo.toml", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := c.Matches(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NewCrawler([]string{"[unclosed"}, nil).Matches("lib.rs")
	assert.Error(t, err)
}

func TestCrawler_StopsOnCallbackError(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.rs", "b.rs")

	calls := 0
	err := NewCrawler([]string{"*.rs"}, nil).ScanProject(root, func(string) error {
		calls++
		return os.ErrClosed
	})
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.Equal(t, 1, calls)
}
