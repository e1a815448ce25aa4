// Copyright © 2025 The luavet authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Renderer formats diagnostics as annotated source snippets:
//
//	warning: unused variable 'x'
//	  --> main.lua:3:7
//	    |
//	  3 |  local x = 1
//	    |        ^ unused-local
//	    |
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	r.writeSpan(ew, d.Span, p)

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter captures the first write error and short-circuits subsequent
// writes, avoiding a check on every fmt.Fprintf.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	sevColor := p.boldCyan
	switch d.Severity {
	case SeverityError:
		sevColor = p.boldRed
	case SeverityWarning:
		sevColor = p.yellow
	}
	ew.printf("%s%s%s:%s %s%s%s\n",
		sevColor, p.bold, d.Severity, p.reset,
		p.bold, d.Message, p.reset)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source := r.readSourceLine(span.File, span.Line)
	if source == "" {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	lineStr := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(lineStr))

	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)

	// Tabs are expanded so the underline lines up with the source.
	displaySource := strings.ReplaceAll(source, "\t", "    ")
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineStr, p.reset, displaySource)

	col := span.Col
	if col <= 0 {
		col = 1
	}
	endCol := span.EndCol
	if endCol <= 0 {
		endCol = identEnd(source, col)
	}
	if endCol < col {
		endCol = col
	}

	prefix := ""
	if col > 1 && col-1 <= len(source) {
		prefix = source[:col-1]
	}
	underPad := strings.Repeat(" ", displayWidth(prefix))
	underline := strings.Repeat("^", endCol-col+1)

	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset, underPad, p.boldRed, underline, p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.printf("\n")
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 || file == "" || file == "<stdin>" {
		return ""
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return scanner.Text()
		}
	}
	return ""
}

// identEnd finds the 1-based end column of the Lua identifier starting at
// col.  Used when the caller does not supply an explicit end column.
func identEnd(source string, col int) int {
	if col <= 0 || col > len(source) {
		return col
	}
	end := col - 1 // 0-based
	for end < len(source) {
		c := source[end]
		if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			end++
			continue
		}
		break
	}
	if end == col-1 {
		return col // not an identifier character; underline one column
	}
	return end
}

// displayWidth returns the display width of a string with tabs expanded
// to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter extracts an *os.File from a writer for terminal
// detection.  Returns nil when the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
