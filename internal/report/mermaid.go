package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"inkanalyzer/internal/ir"
)

var invalidIDChars = regexp.MustCompile(`[^a-z0-9_]`)

// Mermaid renders the entity hierarchy of a snapshot as a mermaid flowchart.
func Mermaid(snap ir.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("graph TD\n")

	var walk func(parent string, entities []ir.EntityIR)
	walk = func(parent string, entities []ir.EntityIR) {
		for i, e := range entities {
			id := sanitizeMermaidID(e.Kind) + "_" + strconv.Itoa(i)
			if parent != "" {
				id = parent + "_" + id
			}
			sb.WriteString(fmt.Sprintf("    %s[%q]\n", id, entityLabel(e)))
			if parent != "" {
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", parent, id))
			}
			walk(id, e.Children)
		}
	}
	walk("", snap.Entities)

	sb.WriteString("```\n")
	return sb.String()
}

func entityLabel(e ir.EntityIR) string {
	label := e.Kind
	if e.Name != "" {
		label += " " + e.Name
	}
	return fmt.Sprintf("%s (L%d)", label, e.Evidence.StartLine)
}

func sanitizeMermaidID(v string) string {
	v = strings.TrimSpace(strings.ToLower(v))
	v = invalidIDChars.ReplaceAllString(strings.ReplaceAll(v, "-", "_"), "_")
	if v == "" {
		return "node"
	}
	if v[0] >= '0' && v[0] <= '9' {
		v = "n_" + v
	}
	return v
}
