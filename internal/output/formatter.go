package output

import (
	"time"

	"github.com/julianshen/dotnetdocs/internal/manager"
	"github.com/julianshen/dotnetdocs/internal/model"
)

// Summary holds the outcome of one generation run.
type Summary struct {
	RunID      string            `json:"run_id"`
	Formats    []string          `json:"formats"`
	Assemblies []AssemblySummary `json:"assemblies"`
	Files      []string          `json:"files,omitempty"`
	Pruned     []string          `json:"pruned,omitempty"`
	Failures   []FailureLog      `json:"failures,omitempty"`
	DurationMs int64             `json:"duration_ms"`
}

// AssemblySummary counts what was documented for one assembly.
type AssemblySummary struct {
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	Namespaces int    `json:"namespaces"`
	Types      int    `json:"types"`
	Members    int    `json:"members"`
}

// FailureLog records an assembly that did not finish.
type FailureLog struct {
	Assembly string `json:"assembly,omitempty"`
	Error    string `json:"error"`
}

// NewSummary converts a manager result.
func NewSummary(res *manager.Result, formats []string, elapsed time.Duration) *Summary {
	s := &Summary{Formats: formats, DurationMs: elapsed.Milliseconds()}
	if res == nil {
		return s
	}
	s.RunID = res.RunID
	s.Files = res.Files
	s.Pruned = res.Pruned
	for _, asm := range res.Assemblies {
		s.Assemblies = append(s.Assemblies, summarize(asm))
	}
	for _, f := range res.Failures {
		s.Failures = append(s.Failures, FailureLog{Assembly: f.Input.AssemblyPath, Error: f.Err.Error()})
	}
	return s
}

func summarize(asm *model.DocAssembly) AssemblySummary {
	a := AssemblySummary{Name: asm.Name, Version: asm.Version, Namespaces: len(asm.Namespaces)}
	for _, ns := range asm.Namespaces {
		a.Types += len(ns.Types)
		for _, t := range ns.Types {
			a.Members += len(t.Members)
		}
	}
	return a
}

// Formatter formats a Summary into output bytes.
type Formatter interface {
	Format(s *Summary) ([]byte, error)
}

// New returns the formatter for name ("json" or "markdown").
func New(name string) (Formatter, bool) {
	switch name {
	case "json":
		return NewJSONFormatter(), true
	case "markdown", "md", "":
		return NewMarkdownFormatter(), true
	}
	return nil, false
}
