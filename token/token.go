package token

import "fmt"

// Token is a single lexeme produced by the scanner. Literal holds the raw
// literal text for strings (without quotes) and numbers, and is empty for
// every other kind.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal string
	Line    int
}

func New(kind Kind, lexeme string, literal string, line int) Token {
	return Token{kind, lexeme, literal, line}
}

func (t Token) String() string {
	return fmt.Sprintf("{Kind(%v), Literal(%s), Lexeme(%s), Line(%d)}", t.Kind, t.Literal, t.Lexeme, t.Line)
}
