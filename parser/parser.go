// Copyright © 2025 The luavet authors

// Package parser implements a recursive-descent parser for Lua 5.1 source,
// producing ast trees for analysis.
package parser

import (
	"bytes"
	"fmt"

	"github.com/luavet/luavet/ast"
	"github.com/luavet/luavet/parser/token"
)

// Parser is a Lua parser.  It reads tokens from a token.Source and builds
// an ast.Chunk.
type Parser struct {
	name string
	src  token.Source
	tok  *token.Token
}

// New initializes a Parser reading tokens from src for the named stream.
func New(name string, src token.Source) *Parser {
	return &Parser{name: name, src: src}
}

// ParseFile parses a complete source buffer.
func ParseFile(name string, src []byte) (*ast.Chunk, error) {
	s := token.NewScanner(name, bytes.NewReader(src))
	return New(name, s).ParseChunk()
}

// parseError carries a parse failure through panic/recover so the
// recursive descent doesn't thread error returns through every
// production.  It never escapes ParseChunk.
type parseError struct {
	err error
}

func (p *Parser) errorf(loc *token.Location, format string, v ...interface{}) {
	panic(parseError{&token.LocationError{
		Err:    fmt.Errorf(format, v...),
		Source: loc,
	}})
}

// ParseChunk parses the whole token stream as a chunk.
func (p *Parser) ParseChunk() (chunk *ast.Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			chunk, err = nil, perr.err
		}
	}()

	p.next()
	chunk = &ast.Chunk{Name: p.name}
	chunk.Stmts = p.parseStmts(token.EOF)
	p.expect(token.EOF)
	return chunk, nil
}

// next advances to the following token.  Scanner errors abort the parse.
func (p *Parser) next() {
	p.src.Scan()
	p.tok = p.src.Token()
	if p.tok.Type == token.ERROR {
		p.errorf(p.tok.Source, "%s", p.tok.Text)
	}
}

// accept consumes the current token if it has the given type.
func (p *Parser) accept(typ token.Type) bool {
	if p.tok.Type != typ {
		return false
	}
	p.next()
	return true
}

// expect consumes a token of the given type or fails the parse.
func (p *Parser) expect(typ token.Type) *token.Token {
	tok := p.tok
	if tok.Type != typ {
		p.errorf(tok.Source, "'%s' expected near '%s'", typ, p.tokenText())
		return nil
	}
	if typ != token.EOF {
		p.next()
	}
	return tok
}

func (p *Parser) tokenText() string {
	if p.tok.Type == token.EOF {
		return "<eof>"
	}
	return p.tok.Text
}

// blockEnd reports whether the current token terminates a block.
func (p *Parser) blockEnd() bool {
	switch p.tok.Type {
	case token.EOF, token.END, token.ELSE, token.ELSEIF, token.UNTIL:
		return true
	}
	return false
}

// parseStmts parses statements until a block terminator.  The argument is
// only documentation of the expected closer; callers consume it.
func (p *Parser) parseStmts(_ token.Type) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.blockEnd() {
		if p.accept(token.SEMI) {
			continue
		}
		stmt := p.parseStmt()
		stmts = append(stmts, stmt)
		switch stmt.(type) {
		case *ast.ReturnStmt, *ast.BreakStmt:
			// return and break close a block in Lua 5.1.
			p.accept(token.SEMI)
			return stmts
		}
	}
	return stmts
}

// parseBlock parses statements terminated by the given closer and
// consumes the closer.
func (p *Parser) parseBlock(closer token.Type) *ast.Block {
	b := &ast.Block{Source: p.tok.Source}
	b.Stmts = p.parseStmts(closer)
	p.expect(closer)
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	loc := p.tok.Source
	switch p.tok.Type {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		p.next()
		cond := p.parseExpr()
		p.expect(token.DO)
		return &ast.WhileStmt{Source: loc, Cond: cond, Body: p.parseBlock(token.END)}
	case token.DO:
		p.next()
		return &ast.DoStmt{Source: loc, Body: p.parseBlock(token.END)}
	case token.FOR:
		return p.parseFor()
	case token.REPEAT:
		p.next()
		body := &ast.Block{Source: p.tok.Source}
		body.Stmts = p.parseStmts(token.UNTIL)
		p.expect(token.UNTIL)
		return &ast.RepeatStmt{Source: loc, Body: body, Cond: p.parseExpr()}
	case token.FUNCTION:
		return p.parseFuncStmt()
	case token.LOCAL:
		return p.parseLocal()
	case token.RETURN:
		p.next()
		ret := &ast.ReturnStmt{Source: loc}
		if !p.blockEnd() && p.tok.Type != token.SEMI {
			ret.Exprs = p.parseExprList()
		}
		return ret
	case token.BREAK:
		p.next()
		return &ast.BreakStmt{Source: loc}
	}
	return p.parseExprStmt()
}

func (p *Parser) parseIf() ast.Stmt {
	loc := p.expect(token.IF).Source
	stmt := &ast.IfStmt{Source: loc, Cond: p.parseExpr()}
	p.expect(token.THEN)
	stmt.Then = &ast.Block{Source: p.tok.Source, Stmts: p.parseStmts(token.END)}
	switch p.tok.Type {
	case token.ELSEIF:
		stmt.Else = p.parseElseif()
	case token.ELSE:
		p.next()
		stmt.Else = &ast.Block{Source: p.tok.Source, Stmts: p.parseStmts(token.END)}
		p.expect(token.END)
	default:
		p.expect(token.END)
	}
	return stmt
}

// parseElseif parses an elseif clause as a nested IfStmt and consumes the
// final end.
func (p *Parser) parseElseif() *ast.IfStmt {
	loc := p.expect(token.ELSEIF).Source
	stmt := &ast.IfStmt{Source: loc, Cond: p.parseExpr()}
	p.expect(token.THEN)
	stmt.Then = &ast.Block{Source: p.tok.Source, Stmts: p.parseStmts(token.END)}
	switch p.tok.Type {
	case token.ELSEIF:
		stmt.Else = p.parseElseif()
	case token.ELSE:
		p.next()
		stmt.Else = &ast.Block{Source: p.tok.Source, Stmts: p.parseStmts(token.END)}
		p.expect(token.END)
	default:
		p.expect(token.END)
	}
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	loc := p.expect(token.FOR).Source
	first := p.parseIdent()
	if p.accept(token.ASSIGN) {
		stmt := &ast.NumericForStmt{Source: loc, Name: first}
		stmt.Start = p.parseExpr()
		p.expect(token.COMMA)
		stmt.Finish = p.parseExpr()
		if p.accept(token.COMMA) {
			stmt.Step = p.parseExpr()
		}
		p.expect(token.DO)
		stmt.Body = p.parseBlock(token.END)
		return stmt
	}

	stmt := &ast.GenericForStmt{Source: loc, Names: []*ast.Ident{first}}
	for p.accept(token.COMMA) {
		stmt.Names = append(stmt.Names, p.parseIdent())
	}
	p.expect(token.IN)
	stmt.Exprs = p.parseExprList()
	p.expect(token.DO)
	stmt.Body = p.parseBlock(token.END)
	return stmt
}

func (p *Parser) parseFuncStmt() ast.Stmt {
	loc := p.expect(token.FUNCTION).Source
	var name ast.Expr = p.parseIdent()
	for p.accept(token.DOT) {
		field := p.expect(token.IDENT)
		name = &ast.DotExpr{X: name, Name: field.Text}
	}
	method := false
	if p.accept(token.COLON) {
		field := p.expect(token.IDENT)
		name = &ast.DotExpr{X: name, Name: field.Text}
		method = true
	}
	fn := p.parseFuncBody(loc, method)
	return &ast.FuncStmt{Source: loc, Name: name, Func: fn}
}

func (p *Parser) parseLocal() ast.Stmt {
	loc := p.expect(token.LOCAL).Source
	if p.accept(token.FUNCTION) {
		name := p.parseIdent()
		fn := p.parseFuncBody(loc, false)
		return &ast.FuncStmt{Source: loc, Name: name, IsLocal: true, Func: fn}
	}

	stmt := &ast.LocalStmt{Source: loc, Names: []*ast.Ident{p.parseIdent()}}
	for p.accept(token.COMMA) {
		stmt.Names = append(stmt.Names, p.parseIdent())
	}
	if p.accept(token.ASSIGN) {
		stmt.Exprs = p.parseExprList()
	}
	return stmt
}

// parseFuncBody parses a parameter list and function body.  Method
// declarations get an implicit self parameter bound at the declaration
// site.
func (p *Parser) parseFuncBody(loc *token.Location, method bool) *ast.FuncExpr {
	fn := &ast.FuncExpr{Source: loc}
	if method {
		fn.Params = append(fn.Params, &ast.Ident{Source: loc, Name: "self"})
	}
	p.expect(token.LPAREN)
	for p.tok.Type != token.RPAREN {
		if p.tok.Type == token.ELLIPSIS {
			p.next()
			fn.IsVararg = true
			break
		}
		fn.Params = append(fn.Params, p.parseIdent())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	fn.Body = p.parseBlock(token.END)
	return fn
}

// parseExprStmt parses an assignment or a call statement.
func (p *Parser) parseExprStmt() ast.Stmt {
	loc := p.tok.Source
	first := p.parsePrefixExpr()
	if p.tok.Type != token.ASSIGN && p.tok.Type != token.COMMA {
		switch first.(type) {
		case *ast.CallExpr, *ast.MethodCallExpr:
			return &ast.CallStmt{Call: first}
		}
		p.errorf(loc, "syntax error near '%s'", p.tokenText())
	}

	stmt := &ast.AssignStmt{Targets: []ast.Expr{first}}
	for p.accept(token.COMMA) {
		stmt.Targets = append(stmt.Targets, p.parsePrefixExpr())
	}
	for _, target := range stmt.Targets {
		switch target.(type) {
		case *ast.Ident, *ast.IndexExpr, *ast.DotExpr:
		default:
			p.errorf(target.Loc(), "cannot assign to this expression")
		}
	}
	p.expect(token.ASSIGN)
	stmt.Exprs = p.parseExprList()
	return stmt
}

func (p *Parser) parseIdent() *ast.Ident {
	tok := p.expect(token.IDENT)
	return &ast.Ident{Source: tok.Source, Name: tok.Text}
}

func (p *Parser) parseExprList() []ast.Expr {
	exprs := []ast.Expr{p.parseExpr()}
	for p.accept(token.COMMA) {
		exprs = append(exprs, p.parseExpr())
	}
	return exprs
}

// Binary operator priorities, after the reference Lua parser.  A
// right-associative operator has a lower right priority so that climbing
// recurses into it.
type opPriority struct {
	left  int
	right int
}

var binaryPriority = map[token.Type]opPriority{
	token.OR:      {1, 1},
	token.AND:     {2, 2},
	token.LT:      {3, 3},
	token.GT:      {3, 3},
	token.LE:      {3, 3},
	token.GE:      {3, 3},
	token.NE:      {3, 3},
	token.EQ:      {3, 3},
	token.CONCAT:  {5, 4}, // right associative
	token.PLUS:    {6, 6},
	token.MINUS:   {6, 6},
	token.STAR:    {7, 7},
	token.SLASH:   {7, 7},
	token.PERCENT: {7, 7},
	token.CARET:   {10, 9}, // right associative
}

const unaryPriority = 8

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinaryExpr(0)
}

func (p *Parser) parseBinaryExpr(limit int) ast.Expr {
	lhs := p.parseUnaryExpr()
	for {
		prio, ok := binaryPriority[p.tok.Type]
		if !ok || prio.left <= limit {
			return lhs
		}
		op := p.tok.Type
		p.next()
		rhs := p.parseBinaryExpr(prio.right)
		lhs = &ast.BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	switch p.tok.Type {
	case token.NOT, token.HASH, token.MINUS:
		loc := p.tok.Source
		op := p.tok.Type
		p.next()
		return &ast.UnaryExpr{Source: loc, Op: op, Operand: p.parseBinaryExpr(unaryPriority)}
	}
	return p.parseSimpleExpr()
}

func (p *Parser) parseSimpleExpr() ast.Expr {
	loc := p.tok.Source
	switch p.tok.Type {
	case token.NIL, token.TRUE, token.FALSE, token.NUMBER, token.STRING, token.ELLIPSIS:
		lit := &ast.BasicLit{Source: loc, Kind: p.tok.Type, Value: p.tok.Text}
		p.next()
		return lit
	case token.FUNCTION:
		p.next()
		return p.parseFuncBody(loc, false)
	case token.LBRACE:
		return p.parseTable()
	}
	return p.parsePrefixExpr()
}

// parsePrefixExpr parses a primary expression followed by any number of
// index, field, call, and method-call suffixes.
func (p *Parser) parsePrefixExpr() ast.Expr {
	loc := p.tok.Source
	var expr ast.Expr
	switch p.tok.Type {
	case token.IDENT:
		expr = p.parseIdent()
	case token.LPAREN:
		p.next()
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		expr = &ast.ParenExpr{Source: loc, X: inner}
	default:
		p.errorf(loc, "unexpected symbol near '%s'", p.tokenText())
	}

	for {
		switch p.tok.Type {
		case token.DOT:
			p.next()
			field := p.expect(token.IDENT)
			expr = &ast.DotExpr{X: expr, Name: field.Text}
		case token.LBRACKET:
			p.next()
			index := p.parseExpr()
			p.expect(token.RBRACKET)
			expr = &ast.IndexExpr{X: expr, Index: index}
		case token.COLON:
			p.next()
			method := p.expect(token.IDENT)
			expr = &ast.MethodCallExpr{Recv: expr, Method: method.Text, Args: p.parseCallArgs()}
		case token.LPAREN, token.STRING, token.LBRACE:
			expr = &ast.CallExpr{Fn: expr, Args: p.parseCallArgs()}
		default:
			return expr
		}
	}
}

// parseCallArgs parses the three Lua call argument forms: a parenthesized
// list, a single string literal, or a single table constructor.
func (p *Parser) parseCallArgs() []ast.Expr {
	switch p.tok.Type {
	case token.STRING:
		lit := &ast.BasicLit{Source: p.tok.Source, Kind: token.STRING, Value: p.tok.Text}
		p.next()
		return []ast.Expr{lit}
	case token.LBRACE:
		return []ast.Expr{p.parseTable()}
	}
	p.expect(token.LPAREN)
	if p.accept(token.RPAREN) {
		return nil
	}
	args := p.parseExprList()
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseTable() ast.Expr {
	loc := p.expect(token.LBRACE).Source
	table := &ast.TableExpr{Source: loc}
	for p.tok.Type != token.RBRACE {
		table.Fields = append(table.Fields, p.parseTableField())
		if !p.accept(token.COMMA) && !p.accept(token.SEMI) {
			break
		}
	}
	p.expect(token.RBRACE)
	return table
}

func (p *Parser) parseTableField() ast.TableField {
	switch p.tok.Type {
	case token.LBRACKET:
		p.next()
		key := p.parseExpr()
		p.expect(token.RBRACKET)
		p.expect(token.ASSIGN)
		return ast.TableField{Key: key, Value: p.parseExpr()}
	case token.IDENT:
		// Distinguish `name = value` from a plain expression starting
		// with an identifier.
		if p.src.Peek().Type == token.ASSIGN {
			name := p.expect(token.IDENT)
			p.expect(token.ASSIGN)
			return ast.TableField{Name: name.Text, Value: p.parseExpr()}
		}
	}
	return ast.TableField{Value: p.parseExpr()}
}
