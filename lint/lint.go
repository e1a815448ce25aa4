// Copyright © 2025 The luavet authors

// Package lint provides the analyzer framework wrapping luavet's
// variable-usage checks.
//
// The design follows go vet: each check is an independent Analyzer that
// receives a parsed chunk and reports diagnostics.  The framework handles
// parsing, running analyzers, collecting results, and formatting output.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/luavet/luavet/ast"
	"github.com/luavet/luavet/parser"
	"github.com/luavet/luavet/parser/token"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "unused-local").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Chunk is the parsed source file.
	Chunk *ast.Chunk

	// Globals are extra predefined names beyond the Lua standard
	// environment (from CLI flags or config).
	Globals []string

	// diagnostics collects reported findings.
	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// Reportf is a convenience for reporting a diagnostic at a position.
func (p *Pass) Reportf(source *token.Location, format string, args ...interface{}) {
	d := Diagnostic{
		Message: fmt.Sprintf(format, args...),
	}
	if source != nil {
		d.Pos = Position{File: source.File, Line: source.Line, Col: source.Col}
	}
	p.Report(d)
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line:col: message (analyzer).
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer

	// Globals are extra predefined names made available to every pass.
	Globals []string
}

// LintFile parses and analyzes a single source file and returns all
// diagnostics sorted by position.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	chunk, err := parser.ParseFile(filename, source)
	if err != nil {
		return nil, err
	}

	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Chunk:    chunk,
			Globals:  l.Globals,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		// Set file on diagnostics that don't have one
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos.File == "" {
				pass.diagnostics[i].Pos.File = filename
			}
		}
		all = append(all, pass.diagnostics...)
	}

	// Sort by file, then line, then column; stable so diagnostics at one
	// position keep analyzer order.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Pos.File != all[j].Pos.File {
			return all[i].Pos.File < all[j].Pos.File
		}
		if all[i].Pos.Line != all[j].Pos.Line {
			return all[i].Pos.Line < all[j].Pos.Line
		}
		return all[i].Pos.Col < all[j].Pos.Col
	})

	return all, nil
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerGlobal,
		AnalyzerRedefined,
		AnalyzerUnused,
	}
}
