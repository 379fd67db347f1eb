package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ChangedFile is one file of a diff with the 1-based lines it touches in
// the new version.
type ChangedFile struct {
	Path         string
	ChangedLines []int
}

// ChangedSince returns the files with the given suffix that changed in dir
// since ref. Files deleted since ref are left out.
func ChangedSince(dir, ref, suffix string) ([]ChangedFile, error) {
	cmd := exec.Command("git", "-C", dir, "diff", "-U0", "--no-renames", ref)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff %s failed: %w", ref, err)
	}
	return parseDiff(output, suffix)
}

// diffParser accumulates the files of a unified diff, one section at a time.
type diffParser struct {
	suffix  string
	out     []ChangedFile
	current *ChangedFile
	deleted bool
}

func (p *diffParser) flush() {
	if p.current != nil && !p.deleted && strings.HasSuffix(p.current.Path, p.suffix) {
		p.out = append(p.out, *p.current)
	}
	p.current = nil
	p.deleted = false
}

func (p *diffParser) line(l string) {
	switch {
	case strings.HasPrefix(l, "diff --git "):
		p.flush()
		// diff --git a/<old> b/<new>
		if i := strings.LastIndex(l, " b/"); i >= 0 {
			p.current = &ChangedFile{Path: l[i+len(" b/"):], ChangedLines: []int{}}
		}
	case p.current == nil:
	case strings.HasPrefix(l, "deleted file mode"), l == "+++ /dev/null":
		p.deleted = true
	case strings.HasPrefix(l, "@@ "):
		start, count, ok := parseHunkHeader(l)
		if !ok {
			return
		}
		if count == 0 {
			// A pure deletion touches no new line; the line it sits after
			// stands in for it.
			p.current.ChangedLines = append(p.current.ChangedLines, start)
			return
		}
		for i := range count {
			p.current.ChangedLines = append(p.current.ChangedLines, start+i)
		}
	}
}

// parseHunkHeader reads the new-side range of `@@ -a[,b] +c[,d] @@`.
func parseHunkHeader(l string) (start, count int, ok bool) {
	fields := strings.Fields(l)
	if len(fields) < 4 || !strings.HasPrefix(fields[2], "+") {
		return 0, 0, false
	}
	startText, countText, hasCount := strings.Cut(fields[2][1:], ",")
	start, err := strconv.Atoi(startText)
	if err != nil {
		return 0, 0, false
	}
	count = 1
	if hasCount {
		if count, err = strconv.Atoi(countText); err != nil {
			return 0, 0, false
		}
	}
	return start, count, true
}

func parseDiff(output []byte, suffix string) ([]ChangedFile, error) {
	p := &diffParser{suffix: suffix}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read diff: %w", err)
	}
	p.flush()
	return p.out, nil
}
