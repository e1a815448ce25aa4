// Copyright © 2025 The luavet authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luavet/luavet/lint"
)

var (
	checkJSON     bool
	checkChecks   string
	checkListAll  bool
	checkExcludes []string
	checkGlobals  []string
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files...]",
	Short: "Run variable-usage checks on Lua source files",
	Long: `Run variable-usage checks on Lua source files.

Each check is an independent analyzer that examines the parsed syntax
tree and reports diagnostics. With no files, reads from stdin. With
files, analyzes each file and reports all findings.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable or unparsable files)

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `Examples:
  luavet check file.lua                       # Check a single file
  luavet check *.lua                          # Check multiple files
  luavet check --json file.lua                # Output diagnostics as JSON
  luavet check --checks=unused-local file.lua # Run only specific checks
  luavet check --globals=describe --globals=it spec.lua
  luavet check --exclude='vendor' ./...       # Exclude a directory
  cat file.lua | luavet check                 # Check from stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		if checkListAll {
			for _, name := range lint.AnalyzerNames() {
				fmt.Println(name)
			}
			return
		}

		analyzers := lint.DefaultAnalyzers()
		if checkChecks != "" {
			selected := make(map[string]bool)
			for _, name := range strings.Split(checkChecks, ",") {
				selected[strings.TrimSpace(name)] = true
			}
			var filtered []*lint.Analyzer
			for _, a := range analyzers {
				if selected[a.Name] {
					filtered = append(filtered, a)
					delete(selected, a.Name)
				}
			}
			for name := range selected {
				fmt.Fprintf(os.Stderr, "luavet check: unknown check: %s\n", name)
				os.Exit(2)
			}
			analyzers = filtered
		}

		l := &lint.Linter{
			Analyzers: analyzers,
			Globals:   configuredGlobals(),
		}

		if len(args) == 0 {
			if err := checkStdin(l); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			return
		}

		expanded, err := expandArgs(args, checkExcludes)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		var allDiags []lint.Diagnostic
		for _, path := range expanded {
			diags, err := checkFile(l, path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			allDiags = append(allDiags, diags...)
		}

		if len(allDiags) == 0 {
			return
		}

		if checkJSON {
			if err := lint.FormatJSON(os.Stdout, allDiags); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		} else {
			renderDiagnostics(allDiags)
		}
		os.Exit(1)
	},
}

// configuredGlobals merges extra predefined names from the config file
// with the --globals flag values.
func configuredGlobals() []string {
	globals := viper.GetStringSlice("globals")
	return append(globals, checkGlobals...)
}

func checkStdin(l *lint.Linter) error {
	src, err := readStdin()
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	diags, err := l.LintFile(src, "<stdin>")
	if err != nil {
		return err
	}
	if len(diags) == 0 {
		return nil
	}
	if checkJSON {
		if err := lint.FormatJSON(os.Stdout, diags); err != nil {
			return err
		}
	} else {
		renderDiagnostics(diags)
	}
	os.Exit(1)
	return nil
}

func checkFile(l *lint.Linter, path string) ([]lint.Diagnostic, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l.LintFile(src, path)
}

func readStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output diagnostics as JSON.")
	checkCmd.Flags().StringVar(&checkChecks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	checkCmd.Flags().BoolVar(&checkListAll, "list", false,
		"List available checks and exit.")
	checkCmd.Flags().StringArrayVar(&checkExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	checkCmd.Flags().StringArrayVar(&checkGlobals, "globals", nil,
		"Extra predefined global name (may be repeated).")
}
