package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/scanner"
	"github.com/havrydotdev/treelox/token"
)

func parse(t *testing.T, src string) (*ast.Program, *diag.Collector) {
	t.Helper()

	diags := diag.New(nil, nil)
	tokens := scanner.New(src, diags).Scan()
	require.False(t, diags.HadError(), "scan errors: %v", diags.Errors())

	return New(tokens, diags).Parse(), diags
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"precedence", "1 + 2 * 3;", "(+ 1 (* 2 3))"},
		{"left associative", "1 - 2 - 3;", "(- (- 1 2) 3)"},
		{"grouping", "(1 + 2) * 3;", "(* (group (+ 1 2)) 3)"},
		{"comparison below term", "1 + 2 < 4 == true;", "(== (< (+ 1 2) 4) true)"},
		{"assignment right associative", "a = b = 3;", "(assign a (assign b 3))"},
		{"and binds tighter than or", "a or b and c;", "(or a (and b c))"},
		{"unary chain", "!-x;", "(! (- x))"},
		{"curried call", "f(1)(2, 3);", "(call (call f 1) 2 3)"},
		{"string literal", `print "hi";`, `(print "hi")`},
		{"var without initializer", "var x;", "(var x)"},
		{"var with initializer", "var x = nil;", "(var x nil)"},
		{"if else", "if (a) print 1; else print 2;", "(if a (print 1) (print 2))"},
		{"dangling else", "if (a) if (b) print 1; else print 2;", "(if a (if b (print 1) (print 2)))"},
		{"while", "while (x) x = x - 1;", "(while x (assign x (- x 1)))"},
		{"function", "fun add(a, b) { return a + b; }", "(fun add (a b) (return (+ a b)))"},
		{"bare return", "fun f() { return; }", "(fun f () (return))"},
		{"block", "{ var a = 1; print a; }", "(block (var a 1) (print a))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, diags := parse(t, tt.src)
			require.False(t, diags.HadError(), "%v", diags.Errors())
			assert.Equal(t, tt.want, ast.PrintProgram(prog))
		})
	}
}

func TestForDesugarsToWhile(t *testing.T) {
	prog, diags := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, diags.HadError())

	assert.Equal(t, "(block (var i 0) (while (< i 3) (block (print i) (assign i (+ i 1)))))", ast.PrintProgram(prog))

	require.Len(t, prog.Stmts, 1)
	outer, ok := prog.Arena.Stmt(prog.Stmts[0]).(ast.Block)
	require.True(t, ok)
	require.Len(t, outer.Stmts, 2)
	_, ok = prog.Arena.Stmt(outer.Stmts[1]).(ast.While)
	assert.True(t, ok)
}

func TestForWithoutClauses(t *testing.T) {
	prog, diags := parse(t, "for (;;) print 1;")
	require.False(t, diags.HadError())

	assert.Equal(t, "(while true (print 1))", ast.PrintProgram(prog))
}

func TestForExpressionInitializer(t *testing.T) {
	prog, diags := parse(t, "for (i = 0; i < 2;) print i;")
	require.False(t, diags.HadError())

	assert.Equal(t, "(block (assign i 0) (while (< i 2) (print i)))", ast.PrintProgram(prog))
}

func TestReportsIndependentErrorsInOnePass(t *testing.T) {
	prog, diags := parse(t, "print 1 +;\nvar ok = 1;\nprint (2;\nprint ok;")

	errs := diags.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "[line 1] Error: Expect expression.", errs[0].Error())
	assert.Equal(t, "[line 3] Error: Expect ')' after expression.", errs[1].Error())
	assert.Equal(t, diag.Parse, errs[0].Stage)
	require.NotNil(t, errs[0].Token)
	assert.Equal(t, token.Semicolon, errs[0].Token.Kind)

	assert.Equal(t, "(var ok 1)\n(print ok)", ast.PrintProgram(prog))
}

func TestRecoversInsideBlock(t *testing.T) {
	prog, diags := parse(t, "{ print ; print 2; }")

	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, "(block (print 2))", ast.PrintProgram(prog))
}

func TestInvalidAssignmentTargetIsNotFatal(t *testing.T) {
	prog, diags := parse(t, "1 + 2 = 3;\nprint 4;")

	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, "[line 1] Error: Invalid assignment target.", diags.Errors()[0].Error())
	assert.Equal(t, "=", diags.Errors()[0].Token.Lexeme)
	assert.Equal(t, "(+ 1 2)\n(print 4)", ast.PrintProgram(prog))
}

func TestArgumentLimitIsDiagnosticOnly(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "1"
	}

	prog, diags := parse(t, "f("+strings.Join(args, ", ")+");")

	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, "[line 1] Error: Can't have more than 255 arguments.", diags.Errors()[0].Error())

	require.Len(t, prog.Stmts, 1)
	stmt := prog.Arena.Stmt(prog.Stmts[0]).(ast.ExprStmt)
	call := prog.Arena.Expr(stmt.Expr).(ast.Call)
	assert.Len(t, call.Args, 256)
}

func TestParameterLimitIsDiagnosticOnly(t *testing.T) {
	params := make([]string, 256)
	for i := range params {
		params[i] = "p" + strings.Repeat("x", i)
	}

	prog, diags := parse(t, "fun f("+strings.Join(params, ", ")+") {}")

	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, "[line 1] Error: Can't have more than 255 parameters.", diags.Errors()[0].Error())
	fn := prog.Arena.Stmt(prog.Stmts[0]).(ast.Function)
	assert.Len(t, fn.Params, 256)
}

func TestMissingEofIsTolerated(t *testing.T) {
	tokens := []token.Token{
		token.New(token.Print, "print", "", 1),
		token.New(token.Number, "1", "1", 1),
		token.New(token.Semicolon, ";", "", 1),
	}

	prog := New(tokens, nil).Parse()
	assert.Equal(t, "(print 1)", ast.PrintProgram(prog))

	empty := New(nil, nil).Parse()
	assert.Empty(t, empty.Stmts)
}
