// Copyright © 2025 The luavet authors

package ast

// Visitor receives scope and variable events during a Walk.  Walk
// guarantees that EnterScope/ExitScope calls are balanced and that events
// within a scope arrive in source order.
type Visitor interface {
	// EnterScope is called when the walk enters a scope-introducing node
	// (chunk, block, function body, loop body).
	EnterScope(node Node)

	// ExitScope is called when the walk leaves the node passed to the
	// matching EnterScope.
	ExitScope(node Node)

	// Declare is called for each local-variable declaration: local
	// statements, function parameters, local function names, and loop
	// control variables.
	Declare(name *Ident)

	// Reference is called for each identifier used in expression or
	// assignment-target position.
	Reference(name *Ident)
}

// Walk performs a depth-first traversal of the chunk, invoking v's
// callbacks at scope boundaries and identifier occurrences.  The walk
// mirrors Lua's scoping rules: initializers are walked before the names
// they initialize are declared, repeat-until conditions see the loop
// body's scope, and for-loop range expressions are evaluated outside the
// loop's scope.
func Walk(v Visitor, chunk *Chunk) {
	v.EnterScope(chunk)
	walkStmts(v, chunk.Stmts)
	v.ExitScope(chunk)
}

func walkBlock(v Visitor, b *Block) {
	v.EnterScope(b)
	walkStmts(v, b.Stmts)
	v.ExitScope(b)
}

func walkStmts(v Visitor, stmts []Stmt) {
	for _, s := range stmts {
		walkStmt(v, s)
	}
}

func walkStmt(v Visitor, s Stmt) {
	switch s := s.(type) {
	case *LocalStmt:
		// RHS first: local x = x refers to the enclosing x.
		walkExprs(v, s.Exprs)
		for _, name := range s.Names {
			v.Declare(name)
		}
	case *AssignStmt:
		for _, target := range s.Targets {
			walkExpr(v, target)
		}
		walkExprs(v, s.Exprs)
	case *CallStmt:
		walkExpr(v, s.Call)
	case *DoStmt:
		walkBlock(v, s.Body)
	case *WhileStmt:
		walkExpr(v, s.Cond)
		walkBlock(v, s.Body)
	case *RepeatStmt:
		// The until condition can read locals declared in the body.
		v.EnterScope(s)
		walkStmts(v, s.Body.Stmts)
		walkExpr(v, s.Cond)
		v.ExitScope(s)
	case *IfStmt:
		walkExpr(v, s.Cond)
		walkBlock(v, s.Then)
		switch e := s.Else.(type) {
		case *IfStmt:
			walkStmt(v, e)
		case *Block:
			walkBlock(v, e)
		}
	case *NumericForStmt:
		walkExpr(v, s.Start)
		walkExpr(v, s.Finish)
		if s.Step != nil {
			walkExpr(v, s.Step)
		}
		v.EnterScope(s)
		v.Declare(s.Name)
		walkStmts(v, s.Body.Stmts)
		v.ExitScope(s)
	case *GenericForStmt:
		walkExprs(v, s.Exprs)
		v.EnterScope(s)
		for _, name := range s.Names {
			v.Declare(name)
		}
		walkStmts(v, s.Body.Stmts)
		v.ExitScope(s)
	case *FuncStmt:
		if s.IsLocal {
			// The name is visible inside the body, allowing recursion.
			v.Declare(s.Name.(*Ident))
			walkExpr(v, s.Func)
		} else {
			walkExpr(v, s.Name)
			walkExpr(v, s.Func)
		}
	case *ReturnStmt:
		walkExprs(v, s.Exprs)
	case *BreakStmt:
	}
}

func walkExprs(v Visitor, exprs []Expr) {
	for _, e := range exprs {
		walkExpr(v, e)
	}
}

func walkExpr(v Visitor, e Expr) {
	switch e := e.(type) {
	case *Ident:
		v.Reference(e)
	case *BasicLit:
	case *FuncExpr:
		v.EnterScope(e)
		for _, p := range e.Params {
			v.Declare(p)
		}
		walkStmts(v, e.Body.Stmts)
		v.ExitScope(e)
	case *BinaryExpr:
		walkExpr(v, e.LHS)
		walkExpr(v, e.RHS)
	case *UnaryExpr:
		walkExpr(v, e.Operand)
	case *CallExpr:
		walkExpr(v, e.Fn)
		walkExprs(v, e.Args)
	case *MethodCallExpr:
		walkExpr(v, e.Recv)
		walkExprs(v, e.Args)
	case *IndexExpr:
		walkExpr(v, e.X)
		walkExpr(v, e.Index)
	case *DotExpr:
		walkExpr(v, e.X)
	case *ParenExpr:
		walkExpr(v, e.X)
	case *TableExpr:
		for _, f := range e.Fields {
			if f.Key != nil {
				walkExpr(v, f.Key)
			}
			walkExpr(v, f.Value)
		}
	}
}
