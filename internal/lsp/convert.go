// Package lsp converts analysis results into Language Server Protocol wire
// types. Positions are UTF-16 based, as the protocol requires.
package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"inkanalyzer/internal/analysis"
	"inkanalyzer/internal/syntax"
)

const source = "inkanalyzer"

// Converter maps byte offsets of one document to protocol positions.
type Converter struct {
	uri   uri.URI
	lines *syntax.LineIndex
}

func NewConverter(path, text string) *Converter {
	return &Converter{uri: uri.File(path), lines: syntax.NewLineIndex(text)}
}

func (c *Converter) URI() uri.URI {
	return c.uri
}

func (c *Converter) Position(offset int) protocol.Position {
	line, col := c.lines.LineCol(offset)
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(utf16Len(c.lines.LineText(line)[:col])),
	}
}

// Offset is the inverse of Position. Characters past the end of a line
// clamp to the line end.
func (c *Converter) Offset(pos protocol.Position) int {
	text := c.lines.LineText(int(pos.Line))
	units, col := 0, 0
	for col < len(text) && units < int(pos.Character) {
		r, size := utf8.DecodeRuneInString(text[col:])
		units += utf16.RuneLen(r)
		col += size
	}
	return c.lines.Offset(int(pos.Line), col)
}

func (c *Converter) Range(r syntax.Range) protocol.Range {
	return protocol.Range{Start: c.Position(r.Start), End: c.Position(r.End)}
}

func (c *Converter) FromRange(r protocol.Range) syntax.Range {
	return syntax.NewRange(c.Offset(r.Start), c.Offset(r.End))
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

func (c *Converter) TextEdits(edits []analysis.TextEdit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, protocol.TextEdit{Range: c.Range(e.Range), NewText: e.Text})
	}
	return out
}

func severity(s analysis.Severity) protocol.DiagnosticSeverity {
	if s == analysis.SeverityWarning {
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}

func (c *Converter) Diagnostics(diags []analysis.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, protocol.Diagnostic{
			Range:    c.Range(d.Range),
			Severity: severity(d.Severity),
			Source:   source,
			Message:  d.Message,
		})
	}
	return out
}

// workspaceChanges adds edits for u to changes.
func workspaceChanges[K ~string](changes map[K][]protocol.TextEdit, u uri.URI, edits []protocol.TextEdit) map[K][]protocol.TextEdit {
	if changes == nil {
		changes = make(map[K][]protocol.TextEdit)
	}
	changes[K(u)] = append(changes[K(u)], edits...)
	return changes
}

func (c *Converter) codeAction(a analysis.Action, diag *protocol.Diagnostic) protocol.CodeAction {
	kind := protocol.Refactor
	if a.Kind == analysis.ActionQuickFix {
		kind = protocol.QuickFix
	}
	edit := &protocol.WorkspaceEdit{}
	edit.Changes = workspaceChanges(edit.Changes, c.uri, c.TextEdits(a.Edits))

	action := protocol.CodeAction{Title: a.Label, Kind: kind, Edit: edit}
	if diag != nil {
		action.Diagnostics = []protocol.Diagnostic{*diag}
		action.IsPreferred = true
	}
	return action
}

// CodeActions converts refactor actions.
func (c *Converter) CodeActions(actions []analysis.Action) []protocol.CodeAction {
	out := make([]protocol.CodeAction, 0, len(actions))
	for _, a := range actions {
		out = append(out, c.codeAction(a, nil))
	}
	return out
}

// QuickFixes converts the quick-fixes of every diagnostic, each linked to
// the diagnostic it resolves.
func (c *Converter) QuickFixes(diags []analysis.Diagnostic) []protocol.CodeAction {
	var out []protocol.CodeAction
	wire := c.Diagnostics(diags)
	for i, d := range diags {
		for _, fix := range d.QuickFixes {
			out = append(out, c.codeAction(fix, &wire[i]))
		}
	}
	return out
}

// CompletionItems converts completions. Edits that carry a snippet are sent
// in snippet format.
func (c *Converter) CompletionItems(completions []analysis.Action) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(completions))
	for _, a := range completions {
		if len(a.Edits) == 0 {
			continue
		}
		e := a.Edits[0]
		item := protocol.CompletionItem{
			Label:            a.Label,
			Kind:             protocol.CompletionItemKindProperty,
			InsertTextFormat: protocol.InsertTextFormatPlainText,
			TextEdit:         &protocol.TextEdit{Range: c.Range(e.Range), NewText: e.Text},
		}
		if e.Snippet != "" {
			item.InsertTextFormat = protocol.InsertTextFormatSnippet
			item.TextEdit.NewText = e.Snippet
		}
		out = append(out, item)
	}
	return out
}
