package ir

import "inkanalyzer/internal/syntax"

// SchemaVersion is bumped whenever the JSON shape of Snapshot changes.
const SchemaVersion = "1"

// Evidence describes where an entity claim originated in source code.
type Evidence struct {
	Filepath    string `json:"filepath"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	StartColumn int    `json:"start_column,omitempty"`
	EndColumn   int    `json:"end_column,omitempty"`
}

// EntityIR is the serializable view of one ink! entity.
type EntityIR struct {
	Kind     string     `json:"kind"`
	Name     string     `json:"name,omitempty"`
	Attr     string     `json:"attr,omitempty"`
	Args     []string   `json:"args,omitempty"`
	Evidence Evidence   `json:"evidence"`
	Children []EntityIR `json:"children,omitempty"`
}

// Snapshot is the persisted IR view of one file.
type Snapshot struct {
	Version  string     `json:"version"`
	Filepath string     `json:"filepath"`
	Entities []EntityIR `json:"entities"`
}

// Summarize builds the serializable view of f. Lines are 1-based.
func Summarize(f *File, filepath string) Snapshot {
	lines := syntax.NewLineIndex(f.Text())
	snap := Snapshot{Version: SchemaVersion, Filepath: filepath, Entities: []EntityIR{}}
	for _, e := range f.Entities() {
		snap.Entities = append(snap.Entities, summarizeEntity(e, filepath, lines))
	}
	return snap
}

func summarizeEntity(e Entity, filepath string, lines *syntax.LineIndex) EntityIR {
	out := EntityIR{
		Kind:     e.Kind().String(),
		Name:     e.Node().Name(),
		Evidence: evidenceFor(e.Node().Range(), filepath, lines),
	}
	if attr := e.Attr(); attr != nil {
		out.Attr = stripSpace(attr.Text())
		for _, arg := range attr.Args {
			out.Args = append(out.Args, arg.Name)
		}
	}
	if im, ok := e.(*Impl); ok && out.Name == "" {
		out.Name = im.SelfType()
	}
	for _, c := range Children(e) {
		out.Children = append(out.Children, summarizeEntity(c, filepath, lines))
	}
	return out
}

func evidenceFor(r syntax.Range, filepath string, lines *syntax.LineIndex) Evidence {
	sl, sc := lines.LineCol(r.Start)
	el, ec := lines.LineCol(r.End)
	return Evidence{
		Filepath:    filepath,
		StartLine:   sl + 1,
		EndLine:     el + 1,
		StartColumn: sc + 1,
		EndColumn:   ec + 1,
	}
}
