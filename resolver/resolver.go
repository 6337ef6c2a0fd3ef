// Package resolver performs the static scope pass. For every local
// variable reference it records how many scopes separate the reference from
// its declaration, so closures see the binding visible where they were
// defined rather than where they are called.
package resolver

import (
	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/token"
)

// Table maps Variable and Assign expressions to their lexical distance.
// Expressions without an entry are globals.
type Table struct {
	distances map[ast.ExprID]int
}

func (t *Table) Distance(id ast.ExprID) (int, bool) {
	if t == nil {
		return 0, false
	}

	d, ok := t.distances[id]
	return d, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.distances)
}

type functionKind int

const (
	noFunction functionKind = iota
	inFunction
)

// scope maps a name to whether its declaration has finished.
type scope map[string]bool

type Resolver struct {
	arena   *ast.Arena
	diags   *diag.Collector
	scopes  []scope
	current functionKind
	table   *Table
}

func New(diags *diag.Collector) *Resolver {
	if diags == nil {
		diags = diag.New(nil, nil)
	}

	return &Resolver{diags: diags}
}

// Resolve walks the whole program. Errors are reported to the collector
// and do not stop the walk.
func (r *Resolver) Resolve(prog *ast.Program) *Table {
	r.arena = prog.Arena
	r.scopes = nil
	r.current = noFunction
	r.table = &Table{distances: make(map[ast.ExprID]int)}

	r.resolveStmts(prog.Stmts)

	return r.table
}

func (r *Resolver) resolveStmts(stmts []ast.StmtID) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(id ast.StmtID) {
	switch s := r.arena.Stmt(id).(type) {
	case ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case ast.Var:
		r.declare(s.Name)
		if s.Init != ast.NoExpr {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case ast.Function:
		// defined before the body so the function can call itself
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, inFunction)
	case ast.ExprStmt:
		r.resolveExpr(s.Expr)
	case ast.Print:
		r.resolveExpr(s.Expr)
	case ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != ast.NoStmt {
			r.resolveStmt(s.Else)
		}
	case ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	case ast.Return:
		if r.current == noFunction {
			r.diags.ReportAt(diag.Resolve, s.Keyword, "Can't return from top-level code.")
		}

		if s.Value != ast.NoExpr {
			r.resolveExpr(s.Value)
		}
	}
}

func (r *Resolver) resolveFunction(fn ast.Function, kind functionKind) {
	enclosing := r.current
	r.current = kind
	defer func() { r.current = enclosing }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}

	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(id ast.ExprID) {
	switch e := r.arena.Expr(id).(type) {
	case ast.Variable:
		if len(r.scopes) > 0 {
			if ready, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !ready {
				r.diags.ReportAt(diag.Resolve, e.Name, "Can't read local variable in its own initializer.")
			}
		}

		r.resolveLocal(id, e.Name)
	case ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(id, e.Name)
	case ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case ast.Unary:
		r.resolveExpr(e.Right)
	case ast.Grouping:
		r.resolveExpr(e.Inner)
	case ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case ast.Literal:
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	s := r.scopes[len(r.scopes)-1]
	if _, ok := s[name.Lexeme]; ok {
		r.diags.ReportAt(diag.Resolve, name, "Already a variable with this name in this scope.")
	}

	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}

	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(id ast.ExprID, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.table.distances[id] = len(r.scopes) - 1 - i
			return
		}
	}
}
