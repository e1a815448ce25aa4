// Copyright © 2025 The luavet authors

package cmd

import (
	"fmt"
	"os"

	"github.com/luavet/luavet/diagnostic"
	"github.com/luavet/luavet/lint"
)

// colorMode translates the --color flag into a renderer color mode.
// An unrecognized value is a bad invocation.
func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "auto", "":
		return diagnostic.ColorAuto
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		fmt.Fprintf(os.Stderr, "luavet: invalid --color value %q (want auto, always, or never)\n", colorFlag)
		os.Exit(2)
		return diagnostic.ColorNever
	}
}

// renderDiagnostics prints lint findings to stderr as annotated source
// snippets.
func renderDiagnostics(diags []lint.Diagnostic) {
	r := &diagnostic.Renderer{Color: colorMode()}
	out := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, diagnostic.Diagnostic{
			Severity: renderSeverity(d.Severity),
			Message:  d.Message,
			Span: diagnostic.Span{
				File:  d.Pos.File,
				Line:  d.Pos.Line,
				Col:   d.Pos.Col,
				Label: d.Analyzer,
			},
		})
	}
	if err := r.RenderAll(os.Stderr, out); err != nil {
		fmt.Fprintln(os.Stderr, "luavet:", err)
		os.Exit(2)
	}
}

func renderSeverity(s lint.Severity) diagnostic.Severity {
	switch s {
	case lint.SeverityError:
		return diagnostic.SeverityError
	case lint.SeverityInfo:
		return diagnostic.SeverityNote
	default:
		return diagnostic.SeverityWarning
	}
}
