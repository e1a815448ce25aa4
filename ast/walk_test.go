// Copyright © 2025 The luavet authors

package ast

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luavet/luavet/parser/token"
)

// eventRecorder captures the visitor callback sequence as readable strings
// and tracks the scope depth to verify balance.
type eventRecorder struct {
	events   []string
	depth    int
	maxDepth int
}

func (r *eventRecorder) EnterScope(Node) {
	r.depth++
	if r.depth > r.maxDepth {
		r.maxDepth = r.depth
	}
	r.events = append(r.events, "enter")
}

func (r *eventRecorder) ExitScope(Node) {
	r.depth--
	r.events = append(r.events, "exit")
}

func (r *eventRecorder) Declare(id *Ident) {
	r.events = append(r.events, fmt.Sprintf("declare %s", id.Name))
}

func (r *eventRecorder) Reference(id *Ident) {
	r.events = append(r.events, fmt.Sprintf("ref %s", id.Name))
}

func ident(name string) *Ident {
	return &Ident{Source: &token.Location{File: "test.lua", Line: 1, Col: 1}, Name: name}
}

func walkEvents(t *testing.T, chunk *Chunk) []string {
	t.Helper()
	r := &eventRecorder{}
	Walk(r, chunk)
	require.Equal(t, 0, r.depth, "unbalanced scopes")
	return r.events
}

func TestWalkLocalDeclaresAfterRHS(t *testing.T) {
	// local x = x must reference the outer x before declaring the new one.
	chunk := &Chunk{Stmts: []Stmt{
		&LocalStmt{Names: []*Ident{ident("x")}, Exprs: []Expr{ident("x")}},
	}}
	assert.Equal(t, []string{"enter", "ref x", "declare x", "exit"}, walkEvents(t, chunk))
}

func TestWalkDoBlockScope(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&DoStmt{Body: &Block{Stmts: []Stmt{
			&LocalStmt{Names: []*Ident{ident("a")}},
		}}},
	}}
	assert.Equal(t, []string{"enter", "enter", "declare a", "exit", "exit"}, walkEvents(t, chunk))
}

func TestWalkRepeatCondInBodyScope(t *testing.T) {
	// The until condition is walked before exiting the body scope so it can
	// see locals declared inside the loop.
	chunk := &Chunk{Stmts: []Stmt{
		&RepeatStmt{
			Body: &Block{Stmts: []Stmt{
				&LocalStmt{Names: []*Ident{ident("done")}},
			}},
			Cond: ident("done"),
		},
	}}
	assert.Equal(t, []string{"enter", "enter", "declare done", "ref done", "exit", "exit"}, walkEvents(t, chunk))
}

func TestWalkNumericForRangeOutsideLoopScope(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&NumericForStmt{
			Name:   ident("i"),
			Start:  ident("lo"),
			Finish: ident("hi"),
			Body:   &Block{Stmts: []Stmt{&CallStmt{Call: &CallExpr{Fn: ident("f"), Args: []Expr{ident("i")}}}}},
		},
	}}
	want := []string{"enter", "ref lo", "ref hi", "enter", "declare i", "ref f", "ref i", "exit", "exit"}
	assert.Equal(t, want, walkEvents(t, chunk))
}

func TestWalkGenericForDeclaresAllNames(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&GenericForStmt{
			Names: []*Ident{ident("k"), ident("v")},
			Exprs: []Expr{&CallExpr{Fn: ident("pairs"), Args: []Expr{ident("t")}}},
			Body:  &Block{},
		},
	}}
	want := []string{"enter", "ref pairs", "ref t", "enter", "declare k", "declare v", "exit", "exit"}
	assert.Equal(t, want, walkEvents(t, chunk))
}

func TestWalkFuncExprParams(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&LocalStmt{
			Names: []*Ident{ident("f")},
			Exprs: []Expr{&FuncExpr{
				Params: []*Ident{ident("a"), ident("b")},
				Body:   &Block{Stmts: []Stmt{&ReturnStmt{Exprs: []Expr{ident("a")}}}},
			}},
		},
	}}
	want := []string{"enter", "enter", "declare a", "declare b", "ref a", "exit", "declare f", "exit"}
	assert.Equal(t, want, walkEvents(t, chunk))
}

func TestWalkLocalFunctionRecursion(t *testing.T) {
	// local function f declares f before walking the body so the body can
	// recurse.
	chunk := &Chunk{Stmts: []Stmt{
		&FuncStmt{
			Name:    ident("f"),
			IsLocal: true,
			Func: &FuncExpr{Body: &Block{Stmts: []Stmt{
				&CallStmt{Call: &CallExpr{Fn: ident("f")}},
			}}},
		},
	}}
	want := []string{"enter", "declare f", "enter", "ref f", "exit", "exit"}
	assert.Equal(t, want, walkEvents(t, chunk))
}

func TestWalkGlobalFunctionReferencesName(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&FuncStmt{
			Name: ident("f"),
			Func: &FuncExpr{Body: &Block{}},
		},
	}}
	want := []string{"enter", "ref f", "enter", "exit", "exit"}
	assert.Equal(t, want, walkEvents(t, chunk))
}

func TestWalkAssignTargetsAreReferences(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&AssignStmt{
			Targets: []Expr{ident("x"), &DotExpr{X: ident("t"), Name: "field"}},
			Exprs:   []Expr{ident("y"), ident("z")},
		},
	}}
	want := []string{"enter", "ref x", "ref t", "ref y", "ref z", "exit"}
	assert.Equal(t, want, walkEvents(t, chunk))
}

func TestWalkDotExprSkipsFieldName(t *testing.T) {
	// t.x references only t; the field name is not a variable.
	chunk := &Chunk{Stmts: []Stmt{
		&CallStmt{Call: &CallExpr{Fn: &DotExpr{X: ident("t"), Name: "x"}}},
	}}
	assert.Equal(t, []string{"enter", "ref t", "exit"}, walkEvents(t, chunk))
}

func TestWalkIndexExprWalksBoth(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&CallStmt{Call: &CallExpr{Fn: &IndexExpr{X: ident("t"), Index: ident("k")}}},
	}}
	assert.Equal(t, []string{"enter", "ref t", "ref k", "exit"}, walkEvents(t, chunk))
}

func TestWalkTableFields(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&LocalStmt{
			Names: []*Ident{ident("t")},
			Exprs: []Expr{&TableExpr{Fields: []TableField{
				{Name: "a", Value: ident("x")},
				{Key: ident("k"), Value: ident("v")},
				{Value: ident("e")},
			}}},
		},
	}}
	want := []string{"enter", "ref x", "ref k", "ref v", "ref e", "declare t", "exit"}
	assert.Equal(t, want, walkEvents(t, chunk))
}

func TestWalkIfElseChain(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&IfStmt{
			Cond: ident("a"),
			Then: &Block{Stmts: []Stmt{&LocalStmt{Names: []*Ident{ident("x")}}}},
			Else: &IfStmt{
				Cond: ident("b"),
				Then: &Block{},
				Else: &Block{Stmts: []Stmt{&LocalStmt{Names: []*Ident{ident("y")}}}},
			},
		},
	}}
	want := []string{
		"enter",
		"ref a", "enter", "declare x", "exit",
		"ref b", "enter", "exit",
		"enter", "declare y", "exit",
		"exit",
	}
	assert.Equal(t, want, walkEvents(t, chunk))
}

func TestWalkMethodCall(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&CallStmt{Call: &MethodCallExpr{Recv: ident("obj"), Method: "run", Args: []Expr{ident("n")}}},
	}}
	assert.Equal(t, []string{"enter", "ref obj", "ref n", "exit"}, walkEvents(t, chunk))
}

func TestWalkScopeDepth(t *testing.T) {
	chunk := &Chunk{Stmts: []Stmt{
		&DoStmt{Body: &Block{Stmts: []Stmt{
			&DoStmt{Body: &Block{Stmts: []Stmt{
				&DoStmt{Body: &Block{}},
			}}},
		}}},
	}}
	r := &eventRecorder{}
	Walk(r, chunk)
	assert.Equal(t, 0, r.depth)
	assert.Equal(t, 4, r.maxDepth)
}
