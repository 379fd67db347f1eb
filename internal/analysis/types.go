package analysis

import (
	"sort"

	"inkanalyzer/internal/syntax"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type ActionKind string

const (
	ActionRefactor ActionKind = "refactor"
	ActionQuickFix ActionKind = "quickfix"
)

// TextEdit replaces Range with Text. An empty range denotes an insertion.
// Snippet, when set, carries the same edit with editor tab stops and
// placeholders (e.g. `${1:my_namespace}`).
type TextEdit struct {
	Text    string       `json:"text"`
	Range   syntax.Range `json:"range"`
	Snippet string       `json:"snippet,omitempty"`
}

func insertEdit(text string, offset int, snippet string) TextEdit {
	return TextEdit{Text: text, Range: syntax.NewRange(offset, offset), Snippet: snippet}
}

func deleteEdit(r syntax.Range) TextEdit {
	return TextEdit{Range: r}
}

func replaceEdit(text string, r syntax.Range, snippet string) TextEdit {
	return TextEdit{Text: text, Range: r, Snippet: snippet}
}

// Action is a code change offered to the user.
type Action struct {
	Label string       `json:"label"`
	Kind  ActionKind   `json:"kind"`
	Range syntax.Range `json:"range"`
	Edits []TextEdit   `json:"edits"`
}

type Diagnostic struct {
	Message    string       `json:"message"`
	Range      syntax.Range `json:"range"`
	Severity   Severity     `json:"severity"`
	QuickFixes []Action     `json:"quickfixes,omitempty"`
}

// Apply applies non-overlapping edits to text. Edits are applied back to
// front so earlier offsets stay valid.
func Apply(text string, edits []TextEdit) string {
	sorted := append([]TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start > sorted[j].Range.Start
	})
	for _, e := range sorted {
		if e.Range.Start < 0 || e.Range.End > len(text) || e.Range.Start > e.Range.End {
			continue
		}
		text = text[:e.Range.Start] + e.Text + text[e.Range.End:]
	}
	return text
}
