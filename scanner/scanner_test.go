package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/token"
)

const (
	TestBasicInput = "123 * 123"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}

	return out
}

func TestBasic(t *testing.T) {
	tokens := New(TestBasicInput, nil).Scan()

	require.Equal(t, []token.Kind{token.Number, token.Star, token.Number, token.Eof}, kinds(tokens))
	assert.Equal(t, "123", tokens[0].Literal)
	assert.Equal(t, "*", tokens[1].Lexeme)
	assert.Empty(t, tokens[1].Literal)
}

func TestKeywordsAndOperators(t *testing.T) {
	tokens := New("var x = !a != b <= c; print x;", nil).Scan()

	assert.Equal(t, []token.Kind{
		token.Var, token.Identifier, token.Equal, token.Bang, token.Identifier,
		token.BangEqual, token.Identifier, token.LessEqual, token.Identifier, token.Semicolon,
		token.Print, token.Identifier, token.Semicolon, token.Eof,
	}, kinds(tokens))
}

func TestStringAndNumberLiterals(t *testing.T) {
	tokens := New(`"hello world" 3.25 7.`, nil).Scan()

	require.Len(t, tokens, 5)
	assert.Equal(t, "hello world", tokens[0].Literal)
	assert.Equal(t, `"hello world"`, tokens[0].Lexeme)
	assert.Equal(t, "3.25", tokens[1].Literal)
	assert.Equal(t, "7", tokens[2].Literal)
	assert.Equal(t, token.Dot, tokens[3].Kind)
}

func TestCommentsAndLines(t *testing.T) {
	src := "// line comment\n/* block\ncomment */ a\n\"multi\nline\" b"
	tokens := New(src, nil).Scan()

	require.Len(t, tokens, 4)
	assert.Equal(t, 3, tokens[0].Line)
	assert.Equal(t, 5, tokens[1].Line)
	assert.Equal(t, 5, tokens[2].Line)
}

func TestLexicalErrorsContinue(t *testing.T) {
	c := diag.New(nil, nil)
	tokens := New("a @ b\n\"open", c).Scan()

	assert.Equal(t, []token.Kind{token.Identifier, token.Identifier, token.Eof}, kinds(tokens))
	require.Len(t, c.Errors(), 2)
	assert.Equal(t, "[line 1] Error: Unexpected character.", c.Errors()[0].Error())
	assert.Equal(t, "[line 2] Error: Unterminated string.", c.Errors()[1].Error())
}
