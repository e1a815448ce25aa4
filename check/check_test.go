// Copyright © 2025 The luavet authors

package check

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luavet/luavet/ast"
	"github.com/luavet/luavet/parser"
)

func analyze(t *testing.T, opts *Options, src string) *Report {
	t.Helper()
	chunk, err := parser.ParseFile("test.lua", []byte(src))
	require.NoError(t, err)
	report, err := New(opts).Check(chunk)
	require.NoError(t, err)
	return report
}

// eventString renders an event compactly for expectation tables.
func eventString(ev Event) string {
	return fmt.Sprintf("%s %s %d:%d", ev.Kind, ev.Name, ev.Line, ev.Col)
}

func eventStrings(report *Report) []string {
	out := make([]string, len(report.Events))
	for i, ev := range report.Events {
		out[i] = eventString(ev)
	}
	return out
}

func TestCheckClean(t *testing.T) {
	report := analyze(t, nil, `
local x = 1
print(x)
`)
	assert.Empty(t, report.Events)
	assert.Equal(t, 0, report.N)
}

func TestCheckGlobalAccess(t *testing.T) {
	report := analyze(t, nil, `print(undeclared)`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, "global undeclared 1:7", eventString(report.Events[0]))
	assert.Equal(t, 1, report.Global)
}

func TestCheckGlobalWrite(t *testing.T) {
	// Writing to an undeclared name is a global access too.
	report := analyze(t, nil, `score = 1`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, KindGlobal, report.Events[0].Kind)
	assert.Equal(t, "score", report.Events[0].Name)
}

func TestCheckDefaultGlobalsRecognized(t *testing.T) {
	report := analyze(t, nil, `
print(tostring(1))
local t = setmetatable({}, {})
for k, v in pairs(t) do print(k, v) end
`)
	assert.Empty(t, report.Events)
}

func TestCheckCustomGlobals(t *testing.T) {
	opts := &Options{Globals: append(DefaultGlobals(), "describe", "it")}
	report := analyze(t, opts, `describe(it)`)
	assert.Empty(t, report.Events)

	// A bare Globals list replaces the default set entirely.
	report = analyze(t, &Options{Globals: []string{"describe"}}, `describe(print)`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, "print", report.Events[0].Name)
}

func TestCheckRedefined(t *testing.T) {
	report := analyze(t, nil, `
local x = 1
local x = 2
print(x)
`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, "redefined x 3:7", eventString(report.Events[0]))
	assert.Equal(t, 1, report.Redefined)
}

func TestCheckShadowingIsNotRedefinition(t *testing.T) {
	report := analyze(t, nil, `
local x = 1
do
  local x = 2
  print(x)
end
print(x)
`)
	assert.Empty(t, report.Events)
}

func TestCheckUnused(t *testing.T) {
	report := analyze(t, nil, `local x = 1`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, "unused x 1:7", eventString(report.Events[0]))
	assert.Equal(t, 1, report.Unused)
}

func TestCheckBlankExemptFromUnused(t *testing.T) {
	report := analyze(t, nil, `
for _, v in ipairs({}) do
  print(v)
end
local _ = f()
`)
	// Only the undeclared f is reported; both _ bindings are exempt.
	require.Len(t, report.Events, 1)
	assert.Equal(t, KindGlobal, report.Events[0].Kind)
	assert.Equal(t, "f", report.Events[0].Name)
}

func TestCheckRedefineDiscardsPriorUsage(t *testing.T) {
	// The second declaration replaces the first binding wholesale: the
	// earlier use of x does not carry over, so the new x is unused.
	report := analyze(t, nil, `
local x = 1
print(x)
local x = 2
`)
	want := []string{
		"redefined x 4:7",
		"unused x 4:7",
	}
	assert.Equal(t, want, eventStrings(report))
	assert.Equal(t, 1, report.Redefined)
	assert.Equal(t, 1, report.Unused)
}

func TestCheckUseAfterRedefineMarksNewBinding(t *testing.T) {
	report := analyze(t, nil, `
local x = 1
local x = 2
print(x)
`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, KindRedefined, report.Events[0].Kind)
}

func TestCheckInnermostResolution(t *testing.T) {
	// The inner reference marks only the inner binding; the outer x stays
	// unused.
	report := analyze(t, nil, `
local x = 1
do
  local x = 2
  print(x)
end
`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, "unused x 2:7", eventString(report.Events[0]))
}

func TestCheckLocalInitSeesOuterBinding(t *testing.T) {
	// local x = x references the enclosing x, not the one being declared.
	report := analyze(t, nil, `
local x = 1
do
  local x = x
  print(x)
end
`)
	assert.Empty(t, report.Events)
}

func TestCheckRepeatUntilSeesBodyLocals(t *testing.T) {
	report := analyze(t, nil, `
repeat
  local done = true
until done
`)
	assert.Empty(t, report.Events)
}

func TestCheckNumericForRangeInOuterScope(t *testing.T) {
	// The loop variable is not visible in its own range expressions.
	report := analyze(t, nil, `
for i = 1, i do
  print(i)
end
`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, KindGlobal, report.Events[0].Kind)
	assert.Equal(t, "i", report.Events[0].Name)
	assert.Equal(t, 2, report.Events[0].Line)
}

func TestCheckLocalFunctionRecursion(t *testing.T) {
	report := analyze(t, nil, `
local function fact(n)
  if n <= 1 then return 1 end
  return n * fact(n - 1)
end
print(fact(5))
`)
	assert.Empty(t, report.Events)
}

func TestCheckGlobalFunctionNameIsGlobalWrite(t *testing.T) {
	report := analyze(t, nil, `
function helper()
end
`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, KindGlobal, report.Events[0].Kind)
	assert.Equal(t, "helper", report.Events[0].Name)
}

func TestCheckMethodDeclSelf(t *testing.T) {
	// The implicit self parameter is a declared local; unused self on a
	// method that never uses it is exempt only via use, so it reports.
	report := analyze(t, nil, `
local obj = {}
function obj:touch()
  self.dirty = true
end
`)
	assert.Empty(t, report.Events)
}

func TestCheckFunctionParams(t *testing.T) {
	report := analyze(t, nil, `
local f = function(a, b)
  return a
end
print(f)
`)
	require.Len(t, report.Events, 1)
	assert.Equal(t, "unused b 2:23", eventString(report.Events[0]))
}

func TestCheckFieldNamesNotReferences(t *testing.T) {
	report := analyze(t, nil, `
local t = { count = 0 }
t.count = t.count + 1
print(t.count)
`)
	assert.Empty(t, report.Events)
}

func TestCheckEventsSortedByPosition(t *testing.T) {
	report := analyze(t, nil, `
local unused_z = 1
print(aaa)
print(bbb)
local unused_a = 2
`)
	// Unused events surface at scope exit, after the global events, but the
	// report is reordered into source order.
	want := []string{
		"unused unused_z 2:7",
		"global aaa 3:7",
		"global bbb 4:7",
		"unused unused_a 5:7",
	}
	assert.Equal(t, want, eventStrings(report))
	assert.Equal(t, 4, report.N)
	assert.Equal(t, 2, report.Global)
	assert.Equal(t, 2, report.Unused)
}

func TestCheckSortStableAtSamePosition(t *testing.T) {
	// A redefinition of a never-used local yields two events at the same
	// identifier; recording order (redefined before unused) must survive
	// the sort.
	report := analyze(t, nil, `
local x = 1
print(x)
local x = 2
`)
	require.Len(t, report.Events, 2)
	assert.Equal(t, KindRedefined, report.Events[0].Kind)
	assert.Equal(t, KindUnused, report.Events[1].Kind)
	assert.Equal(t, report.Events[0].Line, report.Events[1].Line)
	assert.Equal(t, report.Events[0].Col, report.Events[1].Col)
}

func TestCheckOptionToggles(t *testing.T) {
	src := `
local x = 1
local x = 2
print(y)
`
	t.Run("globals off", func(t *testing.T) {
		report := analyze(t, &Options{CheckGlobal: Bool(false)}, src)
		for _, ev := range report.Events {
			assert.NotEqual(t, KindGlobal, ev.Kind)
		}
		assert.Equal(t, 0, report.Global)
	})
	t.Run("redefined off", func(t *testing.T) {
		report := analyze(t, &Options{CheckRedefined: Bool(false)}, src)
		for _, ev := range report.Events {
			assert.NotEqual(t, KindRedefined, ev.Kind)
		}
	})
	t.Run("unused off", func(t *testing.T) {
		report := analyze(t, &Options{CheckUnused: Bool(false)}, src)
		for _, ev := range report.Events {
			assert.NotEqual(t, KindUnused, ev.Kind)
		}
	})
	t.Run("all off", func(t *testing.T) {
		report := analyze(t, &Options{
			CheckGlobal:    Bool(false),
			CheckRedefined: Bool(false),
			CheckUnused:    Bool(false),
		}, src)
		assert.Empty(t, report.Events)
	})
}

func TestCheckNilOptionsDefaultEnabled(t *testing.T) {
	report := analyze(t, nil, `
local x = 1
local x = 2
print(y)
`)
	assert.Equal(t, 1, report.Global)
	assert.Equal(t, 1, report.Redefined)
	assert.Equal(t, 1, report.Unused)
	assert.Equal(t, 3, report.N)
}

func TestCheckUnbalancedTraversal(t *testing.T) {
	c := New(nil)
	// Simulate a broken walker leaving a scope open.
	c.EnterScope(nil)
	_, err := c.Check(&ast.Chunk{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbalanced scope traversal")
}

func TestDefaultGlobalsCopy(t *testing.T) {
	g := DefaultGlobals()
	require.NotEmpty(t, g)
	g[0] = "mutated"
	assert.NotEqual(t, g[0], DefaultGlobals()[0])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "global", KindGlobal.String())
	assert.Equal(t, "redefined", KindRedefined.String())
	assert.Equal(t, "unused", KindUnused.String())
}
