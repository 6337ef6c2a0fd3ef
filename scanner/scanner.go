package scanner

import (
	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/token"
)

type Scanner struct {
	source string
	tokens []token.Token
	diags  *diag.Collector

	start   int
	current int
	line    int
}

func New(source string, diags *diag.Collector) *Scanner {
	if diags == nil {
		diags = diag.New(nil, nil)
	}

	return &Scanner{source: source, diags: diags, line: 1}
}

// Scan tokenizes the whole source. Lexical errors are reported and skipped,
// so the result is always terminated by a single Eof token.
func (s *Scanner) Scan() []token.Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}

	s.tokens = append(s.tokens, token.New(token.Eof, "", "", s.line))

	return s.tokens
}

func (s *Scanner) scanToken() {
	c := s.advance()

	switch c {
	// one-character tokens
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)

	// two or one character tokens
	case '!':
		s.addToken(s.pick('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.pick('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.pick('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.pick('=', token.GreaterEqual, token.Greater))

	// multiple character tokens
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else if s.match('*') {
			s.blockComment()
		} else {
			s.addToken(token.Slash)
		}

	// special characters
	case ' ', '\t', '\r':
	case '\n':
		s.line++

	// literals
	case '"':
		s.string()

	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			s.diags.Report(diag.Scan, s.line, "Unexpected character.")
		}
	}
}

func (s *Scanner) pick(next byte, two, one token.Kind) token.Kind {
	if s.match(next) {
		return two
	}

	return one
}

func (s *Scanner) blockComment() {
	for !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}

		if s.peek() == '*' && s.peekNext() == '/' {
			// eat comment
			s.advance()
			s.advance()
			return
		}

		s.advance()
	}

	s.diags.Report(diag.Scan, s.line, "Unterminated block comment.")
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	text := s.source[s.start:s.current]
	kind, ok := keywords[text]
	if !ok {
		kind = token.Identifier
	}

	s.addToken(kind)
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()

		for isDigit(s.peek()) {
			s.advance()
		}
	}

	s.addLiteral(token.Number, s.source[s.start:s.current])
}

func (s *Scanner) string() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}

		s.advance()
	}

	if s.isAtEnd() {
		s.diags.Report(diag.Scan, s.line, "Unterminated string.")
		return
	}

	s.advance()
	s.addLiteral(token.String, s.source[s.start+1:s.current-1])
}

func (s *Scanner) addToken(kind token.Kind) {
	s.addLiteral(kind, "")
}

func (s *Scanner) addLiteral(kind token.Kind, literal string) {
	lexeme := s.source[s.start:s.current]

	s.tokens = append(s.tokens, token.New(kind, lexeme, literal, s.line))
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}

	s.current++
	return true
}

func (s *Scanner) advance() byte {
	curr := s.current
	s.current++
	return s.source[curr]
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return '\000'
	}

	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return '\000'
	}

	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}
