package analysis

import (
	"strings"

	"inkanalyzer/internal/syntax"
)

// formatEdits adjusts line breaks and indenting of insertions so the edited
// source is laid out without a separate formatting pass.
func formatEdits(edits []TextEdit, tree *syntax.Tree) []TextEdit {
	out := make([]TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, formatEdit(e, tree))
	}
	return out
}

func formatActions(actions []Action, tree *syntax.Tree) []Action {
	for i := range actions {
		actions[i].Edits = formatEdits(actions[i].Edits, tree)
	}
	return actions
}

func formatEdit(edit TextEdit, tree *syntax.Tree) TextEdit {
	// Deletes are left alone.
	if edit.Text == "" {
		return edit
	}
	before := tokenBefore(tree, edit.Range.Start)
	if before == nil {
		return edit
	}
	after := tokenAfter(tree, edit.Range.End)

	var prefix, suffix string
	switch before.Kind() {
	case syntax.KindWhitespace:
		ws := before.Text()
		if after != nil && after.Kind() != syntax.KindWhitespace &&
			strings.Contains(ws, "\n") && !strings.HasSuffix(ws, "\n") {
			suffix = "\n" + syntax.EndIndenting(ws)
		}
	case "{":
		if !strings.HasPrefix(edit.Text, "\n") {
			prefix = "\n"
			if !startsWithBlank(edit.Text) {
				if item := before.Ancestor((*syntax.Node).IsItem); item != nil {
					prefix += syntax.ChildrenIndenting(item)
				}
			}
		}
		if after != nil &&
			(after.Kind() != syntax.KindWhitespace || !startsWithTwoNewlines(after.Text())) &&
			!strings.HasSuffix(edit.Text, "\n\n") {
			suffix = "\n"
			if !strings.HasPrefix(after.Text(), "\n") {
				suffix += "\n"
			}
		}
	case ";", "}":
		if !strings.HasPrefix(edit.Text, "\n") {
			prefix = "\n\n"
			if !startsWithBlank(edit.Text) {
				if item := before.Ancestor((*syntax.Node).IsItem); item != nil {
					prefix += syntax.Indenting(item)
				}
			}
		}
	}

	if prefix == "" && suffix == "" {
		return edit
	}
	edit.Text = prefix + edit.Text + suffix
	if edit.Snippet != "" {
		edit.Snippet = prefix + edit.Snippet + suffix
	}
	return edit
}

// tokenBefore returns the token ending at or before offset.
func tokenBefore(tree *syntax.Tree, offset int) *syntax.Node {
	left, _ := tree.TokenAtOffset(offset)
	if left == nil || left.Range().End > offset {
		return nil
	}
	return left
}

// tokenAfter returns the token starting at or after offset.
func tokenAfter(tree *syntax.Tree, offset int) *syntax.Node {
	_, right := tree.TokenAtOffset(offset)
	if right == nil || right.Range().Start < offset {
		return nil
	}
	return right
}

func startsWithBlank(s string) bool {
	return strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\t")
}

// startsWithTwoNewlines reports whether text starts with at least two line
// breaks, ignoring other whitespace around them.
func startsWithTwoNewlines(text string) bool {
	n := 0
	for _, r := range text {
		switch r {
		case '\n':
			n++
			if n == 2 {
				return true
			}
		case ' ', '\t', '\r', '\v', '\f':
		default:
			return false
		}
	}
	return false
}
