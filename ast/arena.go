package ast

// Arena owns every node of a single parse. Handles are indexes into it and
// stay valid for the arena's lifetime.
type Arena struct {
	exprs []Expr
	stmts []Stmt
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) NewExpr(e Expr) ExprID {
	a.exprs = append(a.exprs, e)
	return ExprID(len(a.exprs) - 1)
}

func (a *Arena) NewStmt(s Stmt) StmtID {
	a.stmts = append(a.stmts, s)
	return StmtID(len(a.stmts) - 1)
}

// Expr panics on a handle that was not issued by this arena.
func (a *Arena) Expr(id ExprID) Expr {
	return a.exprs[id]
}

// Stmt panics on a handle that was not issued by this arena.
func (a *Arena) Stmt(id StmtID) Stmt {
	return a.stmts[id]
}

func (a *Arena) ExprCount() int {
	return len(a.exprs)
}

func (a *Arena) StmtCount() int {
	return len(a.stmts)
}

// Program is the output of one parse: the arena plus the top-level
// statements in source order.
type Program struct {
	Arena *Arena
	Stmts []StmtID
}
