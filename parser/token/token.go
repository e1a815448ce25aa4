// Copyright © 2025 The luavet authors

// Package token defines the lexical tokens of Lua source and a streaming
// scanner that produces them.
package token

import "fmt"

// Source is an abstract stream of tokens which allows one token lookahead.
type Source interface {
	// Token returns the current token.  Token returns nil if Scan has not
	// been called.
	Token() *Token
	// Peek returns the next token in the stream.  At the end of the stream
	// Peek returns an EOF token.
	Peek() *Token
	// Scan advances the token stream if possible.  If there are no tokens
	// remaining Scan returns false.
	Scan() bool
}

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

type Type uint

// Type constants used by the luavet lexer/parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	// Atomic expressions & literals
	IDENT
	NUMBER
	STRING

	COMMENT

	// Keywords
	AND
	BREAK
	DO
	ELSE
	ELSEIF
	END
	FALSE
	FOR
	FUNCTION
	IF
	IN
	LOCAL
	NIL
	NOT
	OR
	REPEAT
	RETURN
	THEN
	TRUE
	UNTIL
	WHILE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	CARET
	HASH
	EQ
	NE
	LE
	GE
	LT
	GT
	ASSIGN
	CONCAT
	ELLIPSIS

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	SEMI
	COLON
	COMMA
	DOT

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:  "invalid",
		ERROR:    "error",
		EOF:      "EOF",
		IDENT:    "identifier",
		NUMBER:   "number",
		STRING:   "string",
		COMMENT:  "comment",
		AND:      "and",
		BREAK:    "break",
		DO:       "do",
		ELSE:     "else",
		ELSEIF:   "elseif",
		END:      "end",
		FALSE:    "false",
		FOR:      "for",
		FUNCTION: "function",
		IF:       "if",
		IN:       "in",
		LOCAL:    "local",
		NIL:      "nil",
		NOT:      "not",
		OR:       "or",
		REPEAT:   "repeat",
		RETURN:   "return",
		THEN:     "then",
		TRUE:     "true",
		UNTIL:    "until",
		WHILE:    "while",
		PLUS:     "+",
		MINUS:    "-",
		STAR:     "*",
		SLASH:    "/",
		PERCENT:  "%",
		CARET:    "^",
		HASH:     "#",
		EQ:       "==",
		NE:       "~=",
		LE:       "<=",
		GE:       ">=",
		LT:       "<",
		GT:       ">",
		ASSIGN:   "=",
		CONCAT:   "..",
		ELLIPSIS: "...",
		LPAREN:   "(",
		RPAREN:   ")",
		LBRACE:   "{",
		RBRACE:   "}",
		LBRACKET: "[",
		RBRACKET: "]",
		SEMI:     ";",
		COLON:    ":",
		COMMA:    ",",
		DOT:      ".",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// keywords maps reserved words to their token types.
var keywords = map[string]Type{
	"and":      AND,
	"break":    BREAK,
	"do":       DO,
	"else":     ELSE,
	"elseif":   ELSEIF,
	"end":      END,
	"false":    FALSE,
	"for":      FOR,
	"function": FUNCTION,
	"if":       IF,
	"in":       IN,
	"local":    LOCAL,
	"nil":      NIL,
	"not":      NOT,
	"or":       OR,
	"repeat":   REPEAT,
	"return":   RETURN,
	"then":     THEN,
	"true":     TRUE,
	"until":    UNTIL,
	"while":    WHILE,
}

// Lookup returns the keyword type for an identifier's text, or IDENT.
func Lookup(text string) Type {
	if typ, ok := keywords[text]; ok {
		return typ
	}
	return IDENT
}

// Location identifies a position in a source stream.  Line and Col both
// start at 1; a Location always refers to the first character of the token
// it is attached to.
type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset within the stream
	Line int    // line number (1-based)
	Col  int    // column number (1-based)
}

func (loc *Location) String() string {
	switch {
	case loc.Line == 0:
		return loc.File
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LocationError decorates an error with a source location.
type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
