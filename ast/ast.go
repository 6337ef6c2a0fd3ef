// Package ast defines the closed set of expression and statement nodes.
// All nodes produced by one parse live in an Arena and refer to each other
// through ExprID and StmtID handles.
package ast

import "github.com/havrydotdev/treelox/token"

type ExprID int32

type StmtID int32

const (
	NoExpr ExprID = -1
	NoStmt StmtID = -1
)

// Expr is implemented only by the node types in this package.
type Expr interface {
	exprNode()
}

// Stmt is implemented only by the node types in this package.
type Stmt interface {
	stmtNode()
}

type LiteralKind int

const (
	LitNil LiteralKind = iota
	LitTrue
	LitFalse
	LitNumber
	LitString
)

type Literal struct {
	Kind   LiteralKind
	Number float64
	Str    string
}

type Grouping struct {
	Inner ExprID
}

type Unary struct {
	Op    token.Token
	Right ExprID
}

type Binary struct {
	Left  ExprID
	Op    token.Token
	Right ExprID
}

type Logical struct {
	Left  ExprID
	Op    token.Token
	Right ExprID
}

type Variable struct {
	Name token.Token
}

type Assign struct {
	Name  token.Token
	Value ExprID
}

// Call keeps the closing paren for error reporting.
type Call struct {
	Callee ExprID
	Paren  token.Token
	Args   []ExprID
}

func (Literal) exprNode()  {}
func (Grouping) exprNode() {}
func (Unary) exprNode()    {}
func (Binary) exprNode()   {}
func (Logical) exprNode()  {}
func (Variable) exprNode() {}
func (Assign) exprNode()   {}
func (Call) exprNode()     {}

type ExprStmt struct {
	Expr ExprID
}

type Print struct {
	Expr ExprID
}

// Var has Init == NoExpr when declared without an initializer.
type Var struct {
	Name token.Token
	Init ExprID
}

type Block struct {
	Stmts []StmtID
}

// If has Else == NoStmt when there is no else branch.
type If struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type While struct {
	Cond ExprID
	Body StmtID
}

type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []StmtID
}

// Return has Value == NoExpr for a bare return.
type Return struct {
	Keyword token.Token
	Value   ExprID
}

func (ExprStmt) stmtNode() {}
func (Print) stmtNode()    {}
func (Var) stmtNode()      {}
func (Block) stmtNode()    {}
func (If) stmtNode()       {}
func (While) stmtNode()    {}
func (Function) stmtNode() {}
func (Return) stmtNode()   {}
