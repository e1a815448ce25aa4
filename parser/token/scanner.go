// Copyright © 2025 The luavet authors

package token

import (
	"fmt"
	"io"
)

// Scanner tokenizes Lua source.  It implements the Source interface with
// one token of lookahead.
type Scanner struct {
	name string
	src  []byte

	pos  int
	line int
	col  int

	tok    *Token
	peeked *Token
}

// NewScanner initializes a Scanner that reads all source from r.  A read
// failure surfaces as an ERROR token on the first Scan.
func NewScanner(name string, r io.Reader) *Scanner {
	s := &Scanner{
		name: name,
		line: 1,
		col:  1,
	}
	src, err := io.ReadAll(r)
	if err != nil {
		s.peeked = s.errorf("reading source: %v", err)
		return s
	}
	s.src = src
	return s
}

// Token returns the current token, nil before the first Scan.
func (s *Scanner) Token() *Token {
	return s.tok
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() *Token {
	if s.peeked == nil {
		s.peeked = s.next()
	}
	return s.peeked
}

// Scan advances to the next token.  It returns false once the stream is
// exhausted, leaving an EOF token current.
func (s *Scanner) Scan() bool {
	if s.peeked != nil {
		s.tok = s.peeked
		s.peeked = nil
	} else {
		s.tok = s.next()
	}
	return s.tok.Type != EOF && s.tok.Type != ERROR
}

// loc captures the location of the next unread character.
func (s *Scanner) loc() *Location {
	return &Location{
		File: s.name,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}

func (s *Scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) ch() byte {
	return s.src[s.pos]
}

// peekAt returns the byte at offset n past the current position, or 0.
func (s *Scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

// advance consumes one byte, tracking line and column counters.
func (s *Scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func (s *Scanner) token(typ Type, text string, loc *Location) *Token {
	return &Token{Type: typ, Text: text, Source: loc}
}

func (s *Scanner) errorf(format string, v ...interface{}) *Token {
	return &Token{
		Type:   ERROR,
		Text:   fmt.Sprintf(format, v...),
		Source: s.loc(),
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameCont(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func (s *Scanner) next() *Token {
	for {
		s.skipSpace()
		loc := s.loc()
		if s.eof() {
			return s.token(EOF, "", loc)
		}

		c := s.ch()
		switch {
		case isNameStart(c):
			return s.scanName(loc)
		case isDigit(c):
			return s.scanNumber(loc)
		case c == '.' && isDigit(s.peekAt(1)):
			return s.scanNumber(loc)
		case c == '\'' || c == '"':
			return s.scanString(loc)
		}

		if c == '-' && s.peekAt(1) == '-' {
			// Comments are lexically insignificant to luavet and are
			// dropped here rather than surfaced to the parser.
			if tok := s.scanComment(loc); tok.Type == ERROR {
				return tok
			}
			continue
		}
		if c == '[' {
			if level, ok := s.longBracketLevel(); ok {
				return s.scanLongString(loc, level)
			}
		}
		return s.scanOperator(loc)
	}
}

func (s *Scanner) skipSpace() {
	for !s.eof() {
		switch s.ch() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return
		}
	}
}

func (s *Scanner) scanName(loc *Location) *Token {
	start := s.pos
	for !s.eof() && isNameCont(s.ch()) {
		s.advance()
	}
	text := string(s.src[start:s.pos])
	return s.token(Lookup(text), text, loc)
}

func (s *Scanner) scanNumber(loc *Location) *Token {
	start := s.pos
	if s.ch() == '0' && (s.peekAt(1) == 'x' || s.peekAt(1) == 'X') {
		s.advance()
		s.advance()
		if s.eof() || !isHexDigit(s.ch()) {
			return s.errorf("malformed number near '%s'", s.src[start:s.pos])
		}
		for !s.eof() && isHexDigit(s.ch()) {
			s.advance()
		}
		return s.token(NUMBER, string(s.src[start:s.pos]), loc)
	}
	for !s.eof() && isDigit(s.ch()) {
		s.advance()
	}
	if !s.eof() && s.ch() == '.' {
		s.advance()
		for !s.eof() && isDigit(s.ch()) {
			s.advance()
		}
	}
	if !s.eof() && (s.ch() == 'e' || s.ch() == 'E') {
		s.advance()
		if !s.eof() && (s.ch() == '+' || s.ch() == '-') {
			s.advance()
		}
		if s.eof() || !isDigit(s.ch()) {
			return s.errorf("malformed number near '%s'", s.src[start:s.pos])
		}
		for !s.eof() && isDigit(s.ch()) {
			s.advance()
		}
	}
	return s.token(NUMBER, string(s.src[start:s.pos]), loc)
}

// scanString reads a single or double quoted string.  Escape sequences are
// consumed but not decoded; luavet never needs string values.
func (s *Scanner) scanString(loc *Location) *Token {
	start := s.pos
	quote := s.advance()
	for !s.eof() {
		c := s.ch()
		if c == '\n' {
			return s.errorf("unfinished string")
		}
		s.advance()
		if c == quote {
			return s.token(STRING, string(s.src[start:s.pos]), loc)
		}
		if c == '\\' && !s.eof() {
			s.advance()
		}
	}
	return s.errorf("unfinished string")
}

// longBracketLevel detects an opening long bracket `[`, `[=[`, `[==[`, ...
// at the current position without consuming input.  It returns the level
// (number of '=' signs) and whether a long bracket is present.
func (s *Scanner) longBracketLevel() (int, bool) {
	if s.ch() != '[' {
		return 0, false
	}
	level := 0
	for s.peekAt(1+level) == '=' {
		level++
	}
	if s.peekAt(1+level) != '[' {
		return 0, false
	}
	return level, true
}

// consumeLongBracketBody consumes input after an opening long bracket of
// the given level, up to and including the matching closing bracket.  It
// returns false if the closing bracket is missing.
func (s *Scanner) consumeLongBracketBody(level int) bool {
	// Consume the opening bracket characters themselves.
	for i := 0; i < level+2; i++ {
		s.advance()
	}
	for !s.eof() {
		if s.ch() != ']' {
			s.advance()
			continue
		}
		closes := 0
		for s.peekAt(1+closes) == '=' {
			closes++
		}
		if closes == level && s.peekAt(1+closes) == ']' {
			for i := 0; i < level+2; i++ {
				s.advance()
			}
			return true
		}
		s.advance()
	}
	return false
}

func (s *Scanner) scanLongString(loc *Location, level int) *Token {
	start := s.pos
	if !s.consumeLongBracketBody(level) {
		return s.errorf("unfinished long string")
	}
	return s.token(STRING, string(s.src[start:s.pos]), loc)
}

func (s *Scanner) scanComment(loc *Location) *Token {
	start := s.pos
	s.advance() // -
	s.advance() // -
	if !s.eof() && s.ch() == '[' {
		if level, ok := s.longBracketLevel(); ok {
			if !s.consumeLongBracketBody(level) {
				return s.errorf("unfinished long comment")
			}
			return s.token(COMMENT, string(s.src[start:s.pos]), loc)
		}
	}
	for !s.eof() && s.ch() != '\n' {
		s.advance()
	}
	return s.token(COMMENT, string(s.src[start:s.pos]), loc)
}

func (s *Scanner) scanOperator(loc *Location) *Token {
	c := s.advance()
	switch c {
	case '+':
		return s.token(PLUS, "+", loc)
	case '-':
		return s.token(MINUS, "-", loc)
	case '*':
		return s.token(STAR, "*", loc)
	case '/':
		return s.token(SLASH, "/", loc)
	case '%':
		return s.token(PERCENT, "%", loc)
	case '^':
		return s.token(CARET, "^", loc)
	case '#':
		return s.token(HASH, "#", loc)
	case '(':
		return s.token(LPAREN, "(", loc)
	case ')':
		return s.token(RPAREN, ")", loc)
	case '{':
		return s.token(LBRACE, "{", loc)
	case '}':
		return s.token(RBRACE, "}", loc)
	case '[':
		return s.token(LBRACKET, "[", loc)
	case ']':
		return s.token(RBRACKET, "]", loc)
	case ';':
		return s.token(SEMI, ";", loc)
	case ':':
		return s.token(COLON, ":", loc)
	case ',':
		return s.token(COMMA, ",", loc)
	case '=':
		if !s.eof() && s.ch() == '=' {
			s.advance()
			return s.token(EQ, "==", loc)
		}
		return s.token(ASSIGN, "=", loc)
	case '~':
		if !s.eof() && s.ch() == '=' {
			s.advance()
			return s.token(NE, "~=", loc)
		}
		return s.errorf("unexpected symbol near '~'")
	case '<':
		if !s.eof() && s.ch() == '=' {
			s.advance()
			return s.token(LE, "<=", loc)
		}
		return s.token(LT, "<", loc)
	case '>':
		if !s.eof() && s.ch() == '=' {
			s.advance()
			return s.token(GE, ">=", loc)
		}
		return s.token(GT, ">", loc)
	case '.':
		if !s.eof() && s.ch() == '.' {
			s.advance()
			if !s.eof() && s.ch() == '.' {
				s.advance()
				return s.token(ELLIPSIS, "...", loc)
			}
			return s.token(CONCAT, "..", loc)
		}
		return s.token(DOT, ".", loc)
	}
	return s.errorf("unexpected symbol near '%c'", c)
}
