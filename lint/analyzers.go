// Copyright © 2025 The luavet authors

package lint

import (
	"fmt"

	"github.com/luavet/luavet/check"
)

// runCheck executes the variable-usage checker with only the given
// options enabled and reports every event through the pass.  Each
// analyzer gets a fresh checker so the analyzers stay independent.
func runCheck(pass *Pass, opts *check.Options, format string) error {
	if pass.Globals != nil {
		opts.Globals = append(check.DefaultGlobals(), pass.Globals...)
	}
	report, err := check.New(opts).Check(pass.Chunk)
	if err != nil {
		return err
	}
	for _, ev := range report.Events {
		pass.Report(Diagnostic{
			Pos:     Position{Line: ev.Line, Col: ev.Col},
			Message: fmt.Sprintf(format, ev.Name),
		})
	}
	return nil
}

// AnalyzerGlobal reports accesses to names that are neither local nor part
// of the predefined environment.
var AnalyzerGlobal = &Analyzer{
	Name: "undeclared-global",
	Doc: "Report accesses to undeclared global variables.\n\n" +
		"A name that resolves to no local declaration and is not part of the " +
		"Lua standard environment is usually a typo or a missing local. Extend " +
		"the recognized set with --globals or the globals key in .luavet.yaml.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		return runCheck(pass, &check.Options{
			CheckRedefined: check.Bool(false),
			CheckUnused:    check.Bool(false),
		}, "accessing undefined variable '%s'")
	},
}

// AnalyzerRedefined reports a local declared twice in the same scope.
var AnalyzerRedefined = &Analyzer{
	Name: "redefined-local",
	Doc: "Report locals that shadow an earlier declaration in the same scope.\n\n" +
		"Redeclaring a name within one scope silently replaces the previous " +
		"binding. The diagnostic points at the second declaration.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		return runCheck(pass, &check.Options{
			CheckGlobal: check.Bool(false),
			CheckUnused: check.Bool(false),
		}, "variable '%s' was previously defined in the same scope")
	},
}

// AnalyzerUnused reports locals that are declared but never used.  The
// discard name _ is exempt.
var AnalyzerUnused = &Analyzer{
	Name: "unused-local",
	Doc: "Report locals that are declared but never used.\n\n" +
		"Rename a deliberately ignored variable to _ to suppress the " +
		"diagnostic.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		return runCheck(pass, &check.Options{
			CheckGlobal:    check.Bool(false),
			CheckRedefined: check.Bool(false),
		}, "unused variable '%s'")
	},
}
