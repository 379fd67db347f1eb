// Package report writes scan results as a JSON document validated against
// an embedded JSON schema.
package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"inkanalyzer/internal/ir"
	"inkanalyzer/internal/storage"
)

const SchemaVersion = "v1"

//go:embed report.schema.json
var schemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

type Report struct {
	SchemaVersion string       `json:"schema_version"`
	Root          string       `json:"root"`
	RunID         int64        `json:"run_id,omitempty"`
	GeneratedAt   time.Time    `json:"generated_at"`
	Files         []FileReport `json:"files"`
	Summary       Summary      `json:"summary"`
}

type FileReport struct {
	Path        string                     `json:"path"`
	ContentHash string                     `json:"content_hash"`
	Cached      bool                       `json:"cached,omitempty"`
	Entities    []ir.EntityIR              `json:"entities,omitempty"`
	Diagnostics []storage.DiagnosticRecord `json:"diagnostics"`
}

type Summary struct {
	Files    int `json:"files"`
	Cached   int `json:"cached"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// New assembles a report and its summary from per-file results.
func New(root string, runID int64, files []FileReport) *Report {
	r := &Report{
		SchemaVersion: SchemaVersion,
		Root:          root,
		RunID:         runID,
		GeneratedAt:   time.Now().UTC(),
		Files:         []FileReport{},
	}
	for _, f := range files {
		if f.Diagnostics == nil {
			f.Diagnostics = []storage.DiagnosticRecord{}
		}
		r.Files = append(r.Files, f)
		r.Summary.Files++
		if f.Cached {
			r.Summary.Cached++
		}
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case "error":
				r.Summary.Errors++
			case "warning":
				r.Summary.Warnings++
			}
		}
	}
	return r
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("report.schema.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("report.schema.json")
	})
	return compiledSchema, schemaErr
}

// Validate checks the JSON form of r against the report schema.
func (r *Report) Validate() error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("failed to compile report schema: %w", err)
	}

	var v any
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report for schema validation: %w", err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize report for schema validation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("report schema validation failed: %w", err)
	}
	return nil
}

// Save validates r and writes it to path.
func (r *Report) Save(path string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
