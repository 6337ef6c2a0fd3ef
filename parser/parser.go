package parser

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/diag"
	"github.com/havrydotdev/treelox/token"
)

const maxArgs = 255

// errParse unwinds the current declaration after the error has already
// been reported to the collector.
var errParse = errors.New("parse error")

type Parser struct {
	current int
	tokens  []token.Token
	arena   *ast.Arena
	diags   *diag.Collector
}

// New expects tokens to end with an Eof token, as produced by the scanner.
func New(tokens []token.Token, diags *diag.Collector) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.Eof {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}

		tokens = append(slices.Clone(tokens), token.New(token.Eof, "", "", line))
	}

	if diags == nil {
		diags = diag.New(nil, nil)
	}

	return &Parser{tokens: tokens, arena: ast.NewArena(), diags: diags}
}

// Parse never stops at the first error: failed declarations are dropped,
// the parser resynchronizes and keeps going.
func (p *Parser) Parse() *ast.Program {
	var stmts []ast.StmtID
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.synchronize()
			continue
		}

		stmts = append(stmts, stmt)
	}

	return &ast.Program{Arena: p.arena, Stmts: stmts}
}

func (p *Parser) declaration() (ast.StmtID, error) {
	switch {
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) function(kind string) (ast.StmtID, error) {
	name, err := p.consume(token.Identifier, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return ast.NoStmt, err
	}

	_, err = p.consume(token.LeftParen, fmt.Sprintf("Expect '(' after %s name.", kind))
	if err != nil {
		return ast.NoStmt, err
	}

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}

			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return ast.NoStmt, err
			}

			params = append(params, param)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	_, err = p.consume(token.RightParen, "Expect ')' after parameters.")
	if err != nil {
		return ast.NoStmt, err
	}

	_, err = p.consume(token.LeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind))
	if err != nil {
		return ast.NoStmt, err
	}

	body, err := p.blockStmts()
	if err != nil {
		return ast.NoStmt, err
	}

	return p.arena.NewStmt(ast.Function{Name: name, Params: params, Body: body}), nil
}

func (p *Parser) varDeclaration() (ast.StmtID, error) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return ast.NoStmt, err
	}

	init := ast.NoExpr
	if p.match(token.Equal) {
		init, err = p.expression()
		if err != nil {
			return ast.NoStmt, err
		}
	}

	_, err = p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	if err != nil {
		return ast.NoStmt, err
	}

	return p.arena.NewStmt(ast.Var{Name: name, Init: init}), nil
}

func (p *Parser) statement() (ast.StmtID, error) {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		return p.block()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (ast.StmtID, error) {
	value, err := p.expression()
	if err != nil {
		return ast.NoStmt, err
	}

	_, err = p.consume(token.Semicolon, "Expect ';' after value.")
	if err != nil {
		return ast.NoStmt, err
	}

	return p.arena.NewStmt(ast.Print{Expr: value}), nil
}

func (p *Parser) returnStatement() (ast.StmtID, error) {
	keyword := p.previous()

	value := ast.NoExpr
	var err error
	if !p.check(token.Semicolon) {
		value, err = p.expression()
		if err != nil {
			return ast.NoStmt, err
		}
	}

	_, err = p.consume(token.Semicolon, "Expect ';' after return value.")
	if err != nil {
		return ast.NoStmt, err
	}

	return p.arena.NewStmt(ast.Return{Keyword: keyword, Value: value}), nil
}

// forStatement desugars into
//
//	{ init; while (cond) { body; incr; } }
//
// leaving out the blocks whose parts are missing.
func (p *Parser) forStatement() (ast.StmtID, error) {
	_, err := p.consume(token.LeftParen, "Expect '(' after 'for'.")
	if err != nil {
		return ast.NoStmt, err
	}

	init := ast.NoStmt
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}

	if err != nil {
		return ast.NoStmt, err
	}

	cond := ast.NoExpr
	if !p.check(token.Semicolon) {
		cond, err = p.expression()
		if err != nil {
			return ast.NoStmt, err
		}
	}

	_, err = p.consume(token.Semicolon, "Expect ';' after loop condition.")
	if err != nil {
		return ast.NoStmt, err
	}

	incr := ast.NoExpr
	if !p.check(token.RightParen) {
		incr, err = p.expression()
		if err != nil {
			return ast.NoStmt, err
		}
	}

	_, err = p.consume(token.RightParen, "Expect ')' after for clauses.")
	if err != nil {
		return ast.NoStmt, err
	}

	body, err := p.statement()
	if err != nil {
		return ast.NoStmt, err
	}

	if incr != ast.NoExpr {
		step := p.arena.NewStmt(ast.ExprStmt{Expr: incr})
		body = p.arena.NewStmt(ast.Block{Stmts: []ast.StmtID{body, step}})
	}

	if cond == ast.NoExpr {
		cond = p.arena.NewExpr(ast.Literal{Kind: ast.LitTrue})
	}

	body = p.arena.NewStmt(ast.While{Cond: cond, Body: body})

	if init != ast.NoStmt {
		body = p.arena.NewStmt(ast.Block{Stmts: []ast.StmtID{init, body}})
	}

	return body, nil
}

func (p *Parser) whileStatement() (ast.StmtID, error) {
	_, err := p.consume(token.LeftParen, "Expect '(' after 'while'.")
	if err != nil {
		return ast.NoStmt, err
	}

	cond, err := p.expression()
	if err != nil {
		return ast.NoStmt, err
	}

	_, err = p.consume(token.RightParen, "Expect ')' after condition.")
	if err != nil {
		return ast.NoStmt, err
	}

	body, err := p.statement()
	if err != nil {
		return ast.NoStmt, err
	}

	return p.arena.NewStmt(ast.While{Cond: cond, Body: body}), nil
}

func (p *Parser) ifStatement() (ast.StmtID, error) {
	_, err := p.consume(token.LeftParen, "Expect '(' after 'if'.")
	if err != nil {
		return ast.NoStmt, err
	}

	cond, err := p.expression()
	if err != nil {
		return ast.NoStmt, err
	}

	_, err = p.consume(token.RightParen, "Expect ')' after if condition.")
	if err != nil {
		return ast.NoStmt, err
	}

	then, err := p.statement()
	if err != nil {
		return ast.NoStmt, err
	}

	_else := ast.NoStmt
	if p.match(token.Else) {
		_else, err = p.statement()
		if err != nil {
			return ast.NoStmt, err
		}
	}

	return p.arena.NewStmt(ast.If{Cond: cond, Then: then, Else: _else}), nil
}

// blockStmts parses declarations up to and including the closing brace.
// A broken declaration inside the block is recovered from locally.
func (p *Parser) blockStmts() ([]ast.StmtID, error) {
	var stmts []ast.StmtID
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.synchronize()
			continue
		}

		stmts = append(stmts, stmt)
	}

	_, err := p.consume(token.RightBrace, "Expect '}' after block.")
	if err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *Parser) block() (ast.StmtID, error) {
	stmts, err := p.blockStmts()
	if err != nil {
		return ast.NoStmt, err
	}

	return p.arena.NewStmt(ast.Block{Stmts: stmts}), nil
}

func (p *Parser) expressionStatement() (ast.StmtID, error) {
	expr, err := p.expression()
	if err != nil {
		return ast.NoStmt, err
	}

	_, err = p.consume(token.Semicolon, "Expect ';' after expression.")
	if err != nil {
		return ast.NoStmt, err
	}

	return p.arena.NewStmt(ast.ExprStmt{Expr: expr}), nil
}

func (p *Parser) expression() (ast.ExprID, error) {
	return p.assignment()
}

// assignment reports a bad target but still hands back the left side, so
// the rest of the statement parses normally.
func (p *Parser) assignment() (ast.ExprID, error) {
	expr, err := p.or()
	if err != nil {
		return ast.NoExpr, err
	}

	if p.match(token.Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return ast.NoExpr, err
		}

		if v, ok := p.arena.Expr(expr).(ast.Variable); ok {
			return p.arena.NewExpr(ast.Assign{Name: v.Name, Value: value}), nil
		}

		p.errorAt(equals, "Invalid assignment target.")
	}

	return expr, nil
}

func (p *Parser) or() (ast.ExprID, error) {
	return p.logical(p.and, token.Or)
}

func (p *Parser) and() (ast.ExprID, error) {
	return p.logical(p.equality, token.And)
}

func (p *Parser) logical(next func() (ast.ExprID, error), kind token.Kind) (ast.ExprID, error) {
	expr, err := next()
	if err != nil {
		return ast.NoExpr, err
	}

	for p.match(kind) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return ast.NoExpr, err
		}

		expr = p.arena.NewExpr(ast.Logical{Left: expr, Op: op, Right: right})
	}

	return expr, nil
}

// binary parses one left-associative precedence level.
func (p *Parser) binary(next func() (ast.ExprID, error), kinds ...token.Kind) (ast.ExprID, error) {
	expr, err := next()
	if err != nil {
		return ast.NoExpr, err
	}

	for p.match(kinds...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return ast.NoExpr, err
		}

		expr = p.arena.NewExpr(ast.Binary{Left: expr, Op: op, Right: right})
	}

	return expr, nil
}

func (p *Parser) equality() (ast.ExprID, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.ExprID, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.ExprID, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.ExprID, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

func (p *Parser) unary() (ast.ExprID, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return ast.NoExpr, err
		}

		return p.arena.NewExpr(ast.Unary{Op: op, Right: right}), nil
	}

	return p.call()
}

func (p *Parser) call() (ast.ExprID, error) {
	expr, err := p.primary()
	if err != nil {
		return ast.NoExpr, err
	}

	for p.match(token.LeftParen) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return ast.NoExpr, err
		}
	}

	return expr, nil
}

func (p *Parser) finishCall(callee ast.ExprID) (ast.ExprID, error) {
	var args []ast.ExprID

	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}

			arg, err := p.expression()
			if err != nil {
				return ast.NoExpr, err
			}

			args = append(args, arg)

			if !p.match(token.Comma) {
				break
			}
		}
	}

	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return ast.NoExpr, err
	}

	return p.arena.NewExpr(ast.Call{Callee: callee, Paren: paren, Args: args}), nil
}

func (p *Parser) primary() (ast.ExprID, error) {
	switch {
	case p.match(token.Identifier):
		return p.arena.NewExpr(ast.Variable{Name: p.previous()}), nil
	case p.match(token.False):
		return p.arena.NewExpr(ast.Literal{Kind: ast.LitFalse}), nil
	case p.match(token.True):
		return p.arena.NewExpr(ast.Literal{Kind: ast.LitTrue}), nil
	case p.match(token.Nil):
		return p.arena.NewExpr(ast.Literal{Kind: ast.LitNil}), nil
	case p.match(token.String):
		return p.arena.NewExpr(ast.Literal{Kind: ast.LitString, Str: p.previous().Literal}), nil
	case p.match(token.Number):
		num, err := strconv.ParseFloat(p.previous().Literal, 64)
		if err != nil {
			return ast.NoExpr, p.errorAt(p.previous(), "Invalid number literal.")
		}

		return p.arena.NewExpr(ast.Literal{Kind: ast.LitNumber, Number: num}), nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return ast.NoExpr, err
		}

		_, err = p.consume(token.RightParen, "Expect ')' after expression.")
		if err != nil {
			return ast.NoExpr, err
		}

		return p.arena.NewExpr(ast.Grouping{Inner: expr}), nil
	}

	return ast.NoExpr, p.errorAt(p.peek(), "Expect expression.")
}

// synchronize method moves cursor
// to the next statement
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}

		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}

		p.advance()
	}
}

func (p *Parser) errorAt(tok token.Token, message string) error {
	p.diags.ReportAt(diag.Parse, tok, message)
	return errParse
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}

	return p.peek(), p.errorAt(p.peek(), message)
}

func (p *Parser) match(kinds ...token.Kind) bool {
	if slices.ContainsFunc(kinds, p.check) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}

	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.Eof
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}
