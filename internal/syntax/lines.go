package syntax

import "sort"

// LineIndex maps byte offsets to zero-based line/column pairs.
type LineIndex struct {
	text   string
	starts []int
}

func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// LineCol returns the zero-based line of offset and its byte column.
func (li *LineIndex) LineCol(offset int) (line, col int) {
	offset = clamp(offset, 0, len(li.text))
	line = sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return line, offset - li.starts[line]
}

// LineText returns the text of the given zero-based line without its line
// break.
func (li *LineIndex) LineText(line int) string {
	if line < 0 || line >= len(li.starts) {
		return ""
	}
	end := len(li.text)
	if line+1 < len(li.starts) {
		end = li.starts[line+1] - 1
	}
	return li.text[li.starts[line]:end]
}

// Offset converts a zero-based line and byte column back to an offset.
func (li *LineIndex) Offset(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.starts) {
		return len(li.text)
	}
	return clamp(li.starts[line]+col, 0, len(li.text))
}

func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
