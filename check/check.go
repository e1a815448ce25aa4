// Copyright © 2025 The luavet authors

// Package check implements scope-aware variable-usage analysis for Lua.
//
// A Checker walks a parsed chunk tracking lexical scopes and reports three
// defect kinds: access to an undeclared (global) name, redefinition of a
// local within its scope, and locals that are declared but never used.
// Checkers are single-use: construct one per chunk with New and call Check
// once.  Concurrent analyses of independent chunks need independent
// Checkers.
package check

import (
	"fmt"
	"sort"

	"github.com/luavet/luavet/ast"
)

// Kind classifies a reported Event.
type Kind int

const (
	KindGlobal    Kind = iota // access to an undeclared name
	KindRedefined             // same-scope redefinition of a local
	KindUnused                // local declared but never used
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindRedefined:
		return "redefined"
	case KindUnused:
		return "unused"
	default:
		return "unknown"
	}
}

// Event is a single variable-usage finding.  Line and Col are 1-based and
// locate the first character of the offending identifier.
type Event struct {
	Kind Kind
	Name string
	Line int
	Col  int
}

// Report is the finalized result of one analysis run: events in ascending
// (line, column) order plus per-kind counters.  N is the total count.
type Report struct {
	Events []Event

	N         int
	Global    int
	Redefined int
	Unused    int
}

// Options is the caller-facing partial configuration.  Nil boolean fields
// keep their default of true; a nil Globals slice keeps the default Lua
// standard environment (DefaultGlobals).
type Options struct {
	CheckGlobal    *bool
	CheckRedefined *bool
	CheckUnused    *bool

	// Globals lists the names treated as predefined.  It replaces the
	// default set entirely; use append(check.DefaultGlobals(), ...) to
	// extend rather than replace.
	Globals []string
}

// Bool returns a pointer suitable for the Options boolean fields.
func Bool(v bool) *bool {
	return &v
}

// config is the fully resolved, immutable form of Options.
type config struct {
	checkGlobal    bool
	checkRedefined bool
	checkUnused    bool
	globals        map[string]bool
}

func resolve(opts *Options) config {
	conf := config{
		checkGlobal:    true,
		checkRedefined: true,
		checkUnused:    true,
	}
	if opts == nil {
		opts = &Options{}
	}
	if opts.CheckGlobal != nil {
		conf.checkGlobal = *opts.CheckGlobal
	}
	if opts.CheckRedefined != nil {
		conf.checkRedefined = *opts.CheckRedefined
	}
	if opts.CheckUnused != nil {
		conf.checkUnused = *opts.CheckUnused
	}
	names := opts.Globals
	if names == nil {
		names = DefaultGlobals()
	}
	conf.globals = make(map[string]bool, len(names))
	for _, name := range names {
		conf.globals[name] = true
	}
	return conf
}

// blank is the conventional discard identifier; it is never reported
// unused.
const blank = "_"

// binding associates a name with its declaring identifier and whether any
// reference resolved to it.
type binding struct {
	node *ast.Ident
	used bool
}

// scope maps names to their live bindings within one lexical scope.
type scope map[string]*binding

// Checker tracks nested scopes during a walk and records events.  It
// implements ast.Visitor.
type Checker struct {
	conf   config
	scopes []scope
	events []Event
}

// New returns a Checker for a single analysis run.
func New(opts *Options) *Checker {
	return &Checker{conf: resolve(opts)}
}

// Check analyzes the chunk and returns the finalized report.  It fails
// only when the traversal breaks the balanced scope contract, which
// indicates a bug in the walker, not in the analyzed source.
func (c *Checker) Check(chunk *ast.Chunk) (*Report, error) {
	ast.Walk(c, chunk)
	if depth := len(c.scopes); depth != 0 {
		return nil, fmt.Errorf("check: unbalanced scope traversal (depth %d after walk)", depth)
	}

	// Events were recorded in traversal order; reorder into source
	// order.  The sort must be stable with a strict comparator so events
	// at identical positions keep their relative order.
	sort.SliceStable(c.events, func(i, j int) bool {
		if c.events[i].Line != c.events[j].Line {
			return c.events[i].Line < c.events[j].Line
		}
		return c.events[i].Col < c.events[j].Col
	})

	report := &Report{Events: c.events, N: len(c.events)}
	for _, ev := range c.events {
		switch ev.Kind {
		case KindGlobal:
			report.Global++
		case KindRedefined:
			report.Redefined++
		case KindUnused:
			report.Unused++
		}
	}
	return report, nil
}

func (c *Checker) emit(kind Kind, id *ast.Ident) {
	c.events = append(c.events, Event{
		Kind: kind,
		Name: id.Name,
		Line: id.Source.Line,
		Col:  id.Source.Col,
	})
}

// EnterScope implements ast.Visitor.
func (c *Checker) EnterScope(ast.Node) {
	c.scopes = append(c.scopes, scope{})
}

// ExitScope implements ast.Visitor.  Unused bindings are reported before
// the scope's bindings become unreachable.
func (c *Checker) ExitScope(ast.Node) {
	top := c.scopes[len(c.scopes)-1]
	if c.conf.checkUnused {
		for name, b := range top {
			if !b.used && name != blank {
				c.emit(KindUnused, b.node)
			}
		}
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// Declare implements ast.Visitor.  Redeclaring a name within a scope is
// reported at the new declaration and replaces the prior binding outright;
// the prior binding's usage state is discarded with it, so only the most
// recent declaration is tracked from here on.
func (c *Checker) Declare(id *ast.Ident) {
	top := c.scopes[len(c.scopes)-1]
	if c.conf.checkRedefined {
		if _, ok := top[id.Name]; ok {
			c.emit(KindRedefined, id)
		}
	}
	top[id.Name] = &binding{node: id}
}

// Reference implements ast.Visitor.  Resolution is innermost-first so a
// reference marks exactly the binding it would resolve to at runtime.
func (c *Checker) Reference(id *ast.Ident) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if b, ok := c.scopes[i][id.Name]; ok {
			b.used = true
			return
		}
	}
	if c.conf.checkGlobal && !c.conf.globals[id.Name] {
		c.emit(KindGlobal, id)
	}
}
