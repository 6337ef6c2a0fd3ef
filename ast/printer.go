package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// PrintExpr renders an expression as a Lisp-like s-expression, e.g.
// (+ 1 (* 2 3)).
func PrintExpr(a *Arena, id ExprID) string {
	switch e := a.Expr(id).(type) {
	case Literal:
		return printLiteral(e)
	case Grouping:
		return parenthesize("group", PrintExpr(a, e.Inner))
	case Unary:
		return parenthesize(e.Op.Lexeme, PrintExpr(a, e.Right))
	case Binary:
		return parenthesize(e.Op.Lexeme, PrintExpr(a, e.Left), PrintExpr(a, e.Right))
	case Logical:
		return parenthesize(e.Op.Lexeme, PrintExpr(a, e.Left), PrintExpr(a, e.Right))
	case Variable:
		return e.Name.Lexeme
	case Assign:
		return parenthesize(fmt.Sprintf("assign %s", e.Name.Lexeme), PrintExpr(a, e.Value))
	case Call:
		parts := []string{PrintExpr(a, e.Callee)}
		for _, arg := range e.Args {
			parts = append(parts, PrintExpr(a, arg))
		}

		return parenthesize("call", parts...)
	}

	return "<?>"
}

func PrintStmt(a *Arena, id StmtID) string {
	switch s := a.Stmt(id).(type) {
	case ExprStmt:
		return PrintExpr(a, s.Expr)
	case Print:
		return parenthesize("print", PrintExpr(a, s.Expr))
	case Var:
		if s.Init == NoExpr {
			return parenthesize("var " + s.Name.Lexeme)
		}

		return parenthesize("var "+s.Name.Lexeme, PrintExpr(a, s.Init))
	case Block:
		return parenthesize("block", printStmts(a, s.Stmts)...)
	case If:
		if s.Else == NoStmt {
			return parenthesize("if", PrintExpr(a, s.Cond), PrintStmt(a, s.Then))
		}

		return parenthesize("if", PrintExpr(a, s.Cond), PrintStmt(a, s.Then), PrintStmt(a, s.Else))
	case While:
		return parenthesize("while", PrintExpr(a, s.Cond), PrintStmt(a, s.Body))
	case Function:
		params := make([]string, 0, len(s.Params))
		for _, p := range s.Params {
			params = append(params, p.Lexeme)
		}

		parts := append([]string{"(" + strings.Join(params, " ") + ")"}, printStmts(a, s.Body)...)
		return parenthesize("fun "+s.Name.Lexeme, parts...)
	case Return:
		if s.Value == NoExpr {
			return parenthesize("return")
		}

		return parenthesize("return", PrintExpr(a, s.Value))
	}

	return "<?>"
}

// PrintProgram renders every top-level statement on its own line.
func PrintProgram(p *Program) string {
	return strings.Join(printStmts(p.Arena, p.Stmts), "\n")
}

func printStmts(a *Arena, ids []StmtID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, PrintStmt(a, id))
	}

	return out
}

func printLiteral(l Literal) string {
	switch l.Kind {
	case LitTrue:
		return "true"
	case LitFalse:
		return "false"
	case LitNumber:
		return strconv.FormatFloat(l.Number, 'f', -1, 64)
	case LitString:
		return `"` + l.Str + `"`
	}

	return "nil"
}

func parenthesize(name string, parts ...string) string {
	b := strings.Builder{}

	b.WriteByte('(')
	b.WriteString(name)
	for _, part := range parts {
		b.WriteByte(' ')
		b.WriteString(part)
	}

	b.WriteByte(')')

	return b.String()
}
