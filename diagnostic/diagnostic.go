// Copyright © 2025 The luavet authors

// Package diagnostic renders annotated source snippets for luavet CLI
// output.  It is independent of the lint and check packages so any
// command can use it without import cycles.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic is a single message with an optional highlighted source span.
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     Span
}
