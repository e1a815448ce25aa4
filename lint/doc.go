// Copyright © 2025 The luavet authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns formatted documentation for all analyzers, suitable
// for embedding in CLI help text.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		summary := strings.SplitN(a.Doc, "\n", 2)[0]
		b.WriteString(indent.String(wordwrap.String(summary, 68), 4))
		b.WriteString("\n\n")
	}
	return b.String()
}
