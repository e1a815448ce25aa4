// Copyright © 2025 The luavet authors

// Package ast declares the syntax-tree node types for Lua source and a
// scope-aware depth-first walker over them.
//
// Nodes are explicit structs per syntactic category.  Every node carries
// the Location of its first token (1-based line and column, see the token
// package).  Trees are built by the parser package and are not mutated by
// consumers.
package ast

import "github.com/luavet/luavet/parser/token"

// Node is implemented by all syntax-tree nodes.
type Node interface {
	// Loc returns the source location of the node's first token.
	Loc() *token.Location
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Chunk is a parsed source file.  Its body statements execute in one
// top-level scope.
type Chunk struct {
	Name  string // source file name
	Stmts []Stmt
}

func (c *Chunk) Loc() *token.Location {
	if len(c.Stmts) > 0 {
		return c.Stmts[0].Loc()
	}
	return &token.Location{File: c.Name, Line: 1, Col: 1}
}

// Block is a statement list delimited by a scope-introducing construct
// (do/end, loop and branch bodies).
type Block struct {
	Source *token.Location
	Stmts  []Stmt
}

func (b *Block) Loc() *token.Location { return b.Source }

// ---- statements ----

// LocalStmt declares local variables: local a, b = e1, e2.
// The initializer expressions are evaluated before the names are bound.
type LocalStmt struct {
	Source *token.Location
	Names  []*Ident
	Exprs  []Expr
}

// AssignStmt assigns to one or more lvalues: a, t.x = e1, e2.
type AssignStmt struct {
	Targets []Expr // *Ident, *IndexExpr, or *DotExpr
	Exprs   []Expr
}

// CallStmt is a function or method call in statement position.
type CallStmt struct {
	Call Expr // *CallExpr or *MethodCallExpr
}

// DoStmt is an explicit do ... end block.
type DoStmt struct {
	Source *token.Location
	Body   *Block
}

// WhileStmt is while cond do ... end.
type WhileStmt struct {
	Source *token.Location
	Cond   Expr
	Body   *Block
}

// RepeatStmt is repeat ... until cond.  The condition is evaluated inside
// the body's scope, per Lua semantics.
type RepeatStmt struct {
	Source *token.Location
	Body   *Block
	Cond   Expr
}

// IfStmt is if cond then ... [elseif ...] [else ...] end.  An elseif
// clause is represented as a nested IfStmt in Else.
type IfStmt struct {
	Source *token.Location
	Cond   Expr
	Then   *Block
	Else   Node // *IfStmt (elseif), *Block (else), or nil
}

// NumericForStmt is for i = start, finish [, step] do ... end.
type NumericForStmt struct {
	Source *token.Location
	Name   *Ident
	Start  Expr
	Finish Expr
	Step   Expr // nil when omitted
	Body   *Block
}

// GenericForStmt is for a, b in exprs do ... end.
type GenericForStmt struct {
	Source *token.Location
	Names  []*Ident
	Exprs  []Expr
	Body   *Block
}

// FuncStmt is a function declaration statement:
//
//	function name(...) ... end
//	function tbl.field(...) ... end
//	function tbl:method(...) ... end
//	local function name(...) ... end
//
// For the local form Name is an *Ident and IsLocal is true.  Method
// declarations (colon form) get an implicit self parameter.
type FuncStmt struct {
	Source  *token.Location
	Name    Expr // *Ident or *DotExpr chain
	IsLocal bool
	Func    *FuncExpr
}

// ReturnStmt is return [exprs].
type ReturnStmt struct {
	Source *token.Location
	Exprs  []Expr
}

// BreakStmt is break.
type BreakStmt struct {
	Source *token.Location
}

func (s *LocalStmt) Loc() *token.Location      { return s.Source }
func (s *AssignStmt) Loc() *token.Location     { return s.Targets[0].Loc() }
func (s *CallStmt) Loc() *token.Location       { return s.Call.Loc() }
func (s *DoStmt) Loc() *token.Location         { return s.Source }
func (s *WhileStmt) Loc() *token.Location      { return s.Source }
func (s *RepeatStmt) Loc() *token.Location     { return s.Source }
func (s *IfStmt) Loc() *token.Location         { return s.Source }
func (s *NumericForStmt) Loc() *token.Location { return s.Source }
func (s *GenericForStmt) Loc() *token.Location { return s.Source }
func (s *FuncStmt) Loc() *token.Location       { return s.Source }
func (s *ReturnStmt) Loc() *token.Location     { return s.Source }
func (s *BreakStmt) Loc() *token.Location      { return s.Source }

func (*LocalStmt) stmtNode()      {}
func (*AssignStmt) stmtNode()     {}
func (*CallStmt) stmtNode()       {}
func (*DoStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*RepeatStmt) stmtNode()     {}
func (*IfStmt) stmtNode()         {}
func (*NumericForStmt) stmtNode() {}
func (*GenericForStmt) stmtNode() {}
func (*FuncStmt) stmtNode()       {}
func (*ReturnStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()      {}

// ---- expressions ----

// Ident is an identifier occurrence: a variable name in declaration or
// expression position.  Field names and table keys are NOT Idents; they
// are stored as plain strings on their parent nodes.
type Ident struct {
	Source *token.Location
	Name   string
}

// BasicLit is a literal: nil, true, false, a number, a string, or `...`.
type BasicLit struct {
	Source *token.Location
	Kind   token.Type // NIL, TRUE, FALSE, NUMBER, STRING, or ELLIPSIS
	Value  string
}

// FuncExpr is a function literal.  The parameters and body share one
// scope.
type FuncExpr struct {
	Source   *token.Location
	Params   []*Ident
	IsVararg bool
	Body     *Block
}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Op  token.Type
	LHS Expr
	RHS Expr
}

// UnaryExpr is a unary operation: not, #, or unary minus.
type UnaryExpr struct {
	Source  *token.Location
	Op      token.Type
	Operand Expr
}

// CallExpr is fn(args), fn"s", or fn{...}.
type CallExpr struct {
	Fn   Expr
	Args []Expr
}

// MethodCallExpr is recv:name(args).  The method name is a field access,
// not a variable reference.
type MethodCallExpr struct {
	Recv   Expr
	Method string
	Args   []Expr
}

// IndexExpr is x[index].
type IndexExpr struct {
	X     Expr
	Index Expr
}

// DotExpr is x.name.  Name is a field, not a variable reference.
type DotExpr struct {
	X    Expr
	Name string
}

// ParenExpr is a parenthesized expression.  Kept distinct because
// parentheses truncate multiple values in Lua.
type ParenExpr struct {
	Source *token.Location
	X      Expr
}

// TableExpr is a table constructor { ... }.
type TableExpr struct {
	Source *token.Location
	Fields []TableField
}

// TableField is one entry of a table constructor.  Exactly one of the
// following field forms is populated:
//
//	[Key] = Value   array-style keyed entry (Key non-nil)
//	Name  = Value   record entry (Name non-empty; not a variable)
//	Value           positional entry
type TableField struct {
	Key   Expr
	Name  string
	Value Expr
}

func (e *Ident) Loc() *token.Location          { return e.Source }
func (e *BasicLit) Loc() *token.Location       { return e.Source }
func (e *FuncExpr) Loc() *token.Location       { return e.Source }
func (e *BinaryExpr) Loc() *token.Location     { return e.LHS.Loc() }
func (e *UnaryExpr) Loc() *token.Location      { return e.Source }
func (e *CallExpr) Loc() *token.Location       { return e.Fn.Loc() }
func (e *MethodCallExpr) Loc() *token.Location { return e.Recv.Loc() }
func (e *IndexExpr) Loc() *token.Location      { return e.X.Loc() }
func (e *DotExpr) Loc() *token.Location        { return e.X.Loc() }
func (e *ParenExpr) Loc() *token.Location      { return e.Source }
func (e *TableExpr) Loc() *token.Location      { return e.Source }

func (*Ident) exprNode()          {}
func (*BasicLit) exprNode()       {}
func (*FuncExpr) exprNode()       {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*IndexExpr) exprNode()      {}
func (*DotExpr) exprNode()        {}
func (*ParenExpr) exprNode()      {}
func (*TableExpr) exprNode()      {}
