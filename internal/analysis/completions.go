package analysis

import (
	"strings"

	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/syntax"
)

// Completions suggests macro names on an ink! attribute path and argument
// names inside an ink! attribute's argument list.
func Completions(f *ir.File, offset int) []Action {
	tree := f.Tree()
	attrNode := coveringAttribute(tree, syntax.NewRange(offset, offset))
	if attrNode == nil {
		return nil
	}
	target := attrNode.Parent()
	if target == nil || len(target.Attrs()) == 0 {
		return nil
	}
	meta := attrNode.FirstChildOfKind(syntax.KindAttribute)
	if meta == nil || len(meta.Children()) == 0 {
		return nil
	}
	path := meta.Children()[0]

	if path.Range().ContainsOffset(offset) {
		return macroCompletions(target, path, offset)
	}
	if tt := meta.FirstChildOfKind(syntax.KindTokenTree); tt != nil &&
		tt.Range().Start < offset && offset < tt.Range().End {
		if _, ok := ir.ParseAttribute(attrNode); !ok {
			return nil
		}
		return argCompletions(tree, target, offset)
	}
	return nil
}

func macroCompletions(target, path *syntax.Node, offset int) []Action {
	typed := strings.Join(strings.Fields(path.Tree().Text()[path.Range().Start:offset]), "")
	if !strings.HasPrefix("ink::", typed) && !strings.HasPrefix("ink_e2e::", typed) &&
		!strings.HasPrefix(typed, "ink::") && !strings.HasPrefix(typed, "ink_e2e::") {
		return nil
	}
	suggestions := ValidMacrosForSyntaxKind(target.Kind())
	suggestions = RemoveDuplicateMacros(suggestions, target)
	suggestions = RemoveInvalidMacrosForParentScope(suggestions, target)

	var out []Action
	for _, k := range suggestions {
		if !strings.HasPrefix(k.Path(), typed) {
			continue
		}
		out = append(out, Action{
			Label: k.Path(),
			Kind:  ActionRefactor,
			Range: path.Range(),
			Edits: []TextEdit{replaceEdit(k.Path(), path.Range(), k.Path())},
		})
	}
	return out
}

func argCompletions(tree *syntax.Tree, target *syntax.Node, offset int) []Action {
	// The word under the cursor, if any.
	wordRange := syntax.NewRange(offset, offset)
	left, right := tree.TokenAtOffset(offset)
	switch {
	case left != nil && left.Kind() == syntax.KindIdentifier && left.Range().End >= offset:
		wordRange = left.Range()
	case right != nil && right.Kind() == syntax.KindIdentifier && right.Range().Start == offset:
		wordRange = right.Range()
	}

	// Only argument names are completed, i.e. right after `(` or `,`.
	prev, _ := tree.TokenAtOffset(wordRange.Start)
	for prev != nil && prev.IsTrivia() {
		prev = prev.PrevToken()
	}
	if prev == nil || (prev.Kind() != "(" && prev.Kind() != ",") {
		return nil
	}

	typed := tree.Text()[wordRange.Start:offset]
	_, after := tree.TokenAtOffset(wordRange.End)
	next := nonTriviaFrom(after)

	var out []Action
	for _, arg := range argSuggestions(target) {
		if !strings.HasPrefix(arg.String(), typed) {
			continue
		}
		text, snippet := argInsertText(arg, next)
		out = append(out, Action{
			Label: arg.String(),
			Kind:  ActionRefactor,
			Range: wordRange,
			Edits: []TextEdit{replaceEdit(text, wordRange, snippet)},
		})
	}
	return out
}
