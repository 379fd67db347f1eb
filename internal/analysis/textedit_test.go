package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"inkanalyzer/internal/syntax"
)

func TestFormatEdit(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		at     func(src string) int
		text   string
		want   string
		result string
	}{
		{
			name:   "after opening brace",
			src:    "mod c {}",
			at:     func(src string) int { return strings.Index(src, "{") + 1 },
			text:   "struct A;",
			want:   "\n    struct A;\n\n",
			result: "mod c {\n    struct A;\n\n}",
		},
		{
			name:   "after opening brace followed by a blank line",
			src:    "mod c {\n\n    struct A;\n}",
			at:     func(src string) int { return strings.Index(src, "{") + 1 },
			text:   "struct B;",
			want:   "\n    struct B;",
			result: "mod c {\n    struct B;\n\n    struct A;\n}",
		},
		{
			name: "after opening brace with leading line break",
			src:  "mod c {\n}",
			at:   func(src string) int { return strings.Index(src, "{") + 1 },
			text: "\n    struct A;",
			want: "\n    struct A;\n",
		},
		{
			name:   "after semicolon",
			src:    "mod c {\n    struct A;\n}",
			at:     func(src string) int { return strings.Index(src, ";") + 1 },
			text:   "struct B;",
			want:   "\n\n    struct B;",
			result: "mod c {\n    struct A;\n\n    struct B;\n}",
		},
		{
			name:   "after closing brace",
			src:    "mod c {\n    fn a() {}\n}",
			at:     func(src string) int { return strings.Index(src, "}") + 1 },
			text:   "fn b() {}",
			want:   "\n\n    fn b() {}",
			result: "mod c {\n    fn a() {}\n\n    fn b() {}\n}",
		},
		{
			name:   "at the end of an indenting line break",
			src:    "mod c {\n    struct A;\n}",
			at:     func(src string) int { return strings.Index(src, "struct") },
			text:   "#[derive(Debug)]",
			want:   "#[derive(Debug)]\n    ",
			result: "mod c {\n    #[derive(Debug)]\n    struct A;\n}",
		},
		{
			name: "inside whitespace",
			src:  "mod c {\n    struct A;\n}",
			at:   func(src string) int { return strings.Index(src, "struct") - 2 },
			text: "x",
			want: "x",
		},
		{
			name: "start of file",
			src:  "struct A;",
			at:   func(string) int { return 0 },
			text: "#[ink::storage_item]\n",
			want: "#[ink::storage_item]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := syntax.Parse(tt.src)
			edit := formatEdit(insertEdit(tt.text, tt.at(tt.src), ""), tree)
			assert.Equal(t, tt.want, edit.Text)
			if tt.result != "" {
				assert.Equal(t, tt.result, Apply(tt.src, []TextEdit{edit}))
			}
		})
	}
}

func TestFormatEdit_Snippet(t *testing.T) {
	src := "mod c {\n    struct A;\n}"
	tree := syntax.Parse(src)
	edit := formatEdit(insertEdit("struct B;", strings.Index(src, ";")+1, "struct ${1:B};"), tree)
	assert.Equal(t, "\n\n    struct B;", edit.Text)
	assert.Equal(t, "\n\n    struct ${1:B};", edit.Snippet)
}

func TestFormatEdit_DeletesUntouched(t *testing.T) {
	src := "mod c {\n    struct A;\n}"
	del := deleteEdit(syntax.NewRange(strings.Index(src, "struct"), strings.Index(src, ";")+1))
	assert.Equal(t, del, formatEdit(del, syntax.Parse(src)))
}
