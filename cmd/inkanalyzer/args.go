package main

import (
	"fmt"
	"strconv"
	"strings"

	"inkanalyzer/internal/syntax"
)

// parseRange parses `offset` or `start:end` byte offsets within a text of
// length n.
func parseRange(s string, n int) (syntax.Range, error) {
	startText, endText, hasEnd := strings.Cut(s, ":")
	start, err := strconv.Atoi(startText)
	if err != nil {
		return syntax.Range{}, fmt.Errorf("bad offset %q: %w", startText, err)
	}
	end := start
	if hasEnd {
		if end, err = strconv.Atoi(endText); err != nil {
			return syntax.Range{}, fmt.Errorf("bad offset %q: %w", endText, err)
		}
	}
	if start < 0 || end < start || end > n {
		return syntax.Range{}, fmt.Errorf("range %d:%d outside of 0:%d", start, end, n)
	}
	return syntax.NewRange(start, end), nil
}
