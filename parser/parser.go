// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// A recursive descent parser is a top-down parser: it starts from the
// top grammar rule (a whole program) and works its way down into nested
// sub-expressions before reaching the leaves of the syntax tree (the
// terminal tokens).
package parser

import (
	"fmt"

	"turtle/ast"
	"turtle/token"
)

var comparisonOperators = map[token.TokenType]ast.Operator{
	token.EQ:  ast.CmpEQ,
	token.NEQ: ast.CmpNEQ,
	token.LT:  ast.CmpLT,
	token.GT:  ast.CmpGT,
	token.LEQ: ast.CmpLEQ,
	token.GEQ: ast.CmpGEQ,
}

var termTokenTypes = []token.TokenType{token.PLUS, token.MINUS}
var factorTokenTypes = []token.TokenType{token.STAR}

// Parser turns a finished token stream (see the lexer package) into an
// *ast.Program. It holds no state beyond its position in that stream, so
// a fresh Parser is created per file.
type Parser struct {
	tokens   []token.Token
	position int
}

// NOTE: the parser's position always points at the *next* unconsumed
// token; previous() looks one token behind it.

// Make creates a Parser over a complete token stream (normally the result
// of lexer.Scan, always ending in an EOF token).
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, position: 0}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) checkType(tt token.TokenType) bool {
	if p.isFinished() {
		return tt == token.EOF
	}
	return p.peek().Type == tt
}

func (p *Parser) isMatch(tokenTypes ...token.TokenType) bool {
	for _, tt := range tokenTypes {
		if p.checkType(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past the current token if it has type tt, otherwise
// returns a SyntaxError carrying the offending token's position.
func (p *Parser) consume(tt token.TokenType, errorMessage string) (token.Token, error) {
	if p.checkType(tt) {
		return p.advance(), nil
	}
	current := p.peek()
	return token.Token{}, CreateSyntaxError(current.Line, current.Column, errorMessage)
}

// ParseProgram parses the entire token stream into an *ast.Program:
// global variable declarations, then function definitions, then the
// program body — in that fixed order, mirroring the shape
// compiler.Translator.TranslateProgram expects. The first syntax error
// aborts parsing, since spec.md §7 treats every error as fatal and the
// driver has no use for a partially built program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	globals, err := p.globalVarDecls()
	if err != nil {
		return nil, err
	}

	funcs, err := p.funDecls()
	if err != nil {
		return nil, err
	}

	body, err := p.stmtsUntil(token.EOF)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.EOF, "expected end of input after program body"); err != nil {
		return nil, err
	}

	return &ast.Program{Globals: globals, Funcs: funcs, Body: body}, nil
}

func (p *Parser) globalVarDecls() ([]ast.VarDec, error) {
	var decls []ast.VarDec
	for p.checkType(token.VAR) {
		dec, err := p.varDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, dec)
	}
	return decls, nil
}

// varDecl parses "var" IDENTIFIER [ "=" expr ] ";". Init is nil when there
// is no initializer, matching ast.VarDec's documented meaning.
func (p *Parser) varDecl() (ast.VarDec, error) {
	p.advance() // "var"
	name, err := p.consume(token.IDENTIFIER, "expected variable name after 'var'")
	if err != nil {
		return ast.VarDec{}, err
	}

	var init ast.Expr
	if p.isMatch(token.ASSIGN) {
		init, err = p.expr()
		if err != nil {
			return ast.VarDec{}, err
		}
	}

	if _, err := p.consume(token.SEMI, "expected ';' after variable declaration"); err != nil {
		return ast.VarDec{}, err
	}
	return ast.VarDec{Name: name, Init: init}, nil
}

func (p *Parser) funDecls() ([]ast.FunDec, error) {
	var funcs []ast.FunDec
	for p.checkType(token.FUN) {
		fn, err := p.funDecl()
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, fn)
	}
	return funcs, nil
}

// funDecl parses "fun" IDENTIFIER "(" [ IDENTIFIER { "," IDENTIFIER } ] ")"
// "{" { varDecl } { stmt } "}". Local declarations must precede the body's
// other statements, the same declare-before-use block shape spec.md's
// data model assumes for ast.FunDec.Locals vs ast.FunDec.Body.
func (p *Parser) funDecl() (ast.FunDec, error) {
	p.advance() // "fun"
	name, err := p.consume(token.IDENTIFIER, "expected function name after 'fun'")
	if err != nil {
		return ast.FunDec{}, err
	}

	if _, err := p.consume(token.LPAREN, "expected '(' after function name"); err != nil {
		return ast.FunDec{}, err
	}
	var params []token.Token
	if !p.checkType(token.RPAREN) {
		for {
			param, err := p.consume(token.IDENTIFIER, "expected parameter name")
			if err != nil {
				return ast.FunDec{}, err
			}
			params = append(params, param)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after parameter list"); err != nil {
		return ast.FunDec{}, err
	}

	if _, err := p.consume(token.LBRACE, "expected '{' before function body"); err != nil {
		return ast.FunDec{}, err
	}
	locals, err := p.localVarDecls()
	if err != nil {
		return ast.FunDec{}, err
	}
	body, err := p.stmtsUntil(token.RBRACE)
	if err != nil {
		return ast.FunDec{}, err
	}
	if _, err := p.consume(token.RBRACE, "expected '}' after function body"); err != nil {
		return ast.FunDec{}, err
	}

	return ast.FunDec{Name: name, Params: params, Locals: locals, Body: body}, nil
}

func (p *Parser) localVarDecls() ([]ast.VarDec, error) {
	var decls []ast.VarDec
	for p.checkType(token.VAR) {
		dec, err := p.varDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, dec)
	}
	return decls, nil
}

// block parses "{" { stmt } "}" and returns the enclosed statements
// directly: the turtle AST has no separate block node, since If/While
// already carry a []ast.Stmt for their branches/body.
func (p *Parser) block() ([]ast.Stmt, error) {
	if _, err := p.consume(token.LBRACE, "expected '{'"); err != nil {
		return nil, err
	}
	stmts, err := p.stmtsUntil(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RBRACE, "expected '}'"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) stmtsUntil(end token.TokenType) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.checkType(end) && !p.isFinished() {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) stmt() (ast.Stmt, error) {
	switch {
	case p.checkType(token.UP):
		tok := p.advance()
		return ast.Up{Token: tok}, p.expectSemi()
	case p.checkType(token.DOWN):
		tok := p.advance()
		return ast.Down{Token: tok}, p.expectSemi()
	case p.checkType(token.MOVE):
		return p.moveStmt()
	case p.checkType(token.READ):
		return p.readStmt()
	case p.checkType(token.IF):
		return p.ifStmt()
	case p.checkType(token.WHILE):
		return p.whileStmt()
	case p.checkType(token.RETURN):
		return p.returnStmt()
	case p.checkType(token.IDENTIFIER) && p.peekNextIs(token.ASSIGN):
		return p.assignStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) peekNextIs(tt token.TokenType) bool {
	if p.position+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.position+1].Type == tt
}

func (p *Parser) expectSemi() error {
	_, err := p.consume(token.SEMI, "expected ';'")
	return err
}

func (p *Parser) moveStmt() (ast.Stmt, error) {
	tok := p.advance() // "move"
	if _, err := p.consume(token.LPAREN, "expected '(' after 'move'"); err != nil {
		return nil, err
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.COMMA, "expected ',' between move's arguments"); err != nil {
		return nil, err
	}
	y, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after move's arguments"); err != nil {
		return nil, err
	}
	return ast.Move{Token: tok, X: x, Y: y}, p.expectSemi()
}

func (p *Parser) readStmt() (ast.Stmt, error) {
	tok := p.advance() // "read"
	name, err := p.consume(token.IDENTIFIER, "expected variable name after 'read'")
	if err != nil {
		return nil, err
	}
	return ast.Read{Token: tok, Var: name}, p.expectSemi()
}

func (p *Parser) assignStmt() (ast.Stmt, error) {
	name := p.advance() // IDENTIFIER
	p.advance()          // "="
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return ast.Assign{Var: name, Value: value}, p.expectSemi()
}

// ifStmt parses "if" "(" comparison ")" block [ "else" block ].
func (p *Parser) ifStmt() (ast.Stmt, error) {
	tok := p.advance() // "if"
	if _, err := p.consume(token.LPAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	test, err := p.comparison()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}

	var elseBranch []ast.Stmt
	if p.isMatch(token.ELSE) {
		elseBranch, err = p.block()
		if err != nil {
			return nil, err
		}
	}

	return ast.If{Token: tok, Test: test, Then: then, Else: elseBranch}, nil
}

// whileStmt parses "while" "(" comparison ")" block. Only CmpEQ/CmpLT
// survive into compiler.Translator.translateWhile unrewritten; other
// comparison spellings are accepted here at the grammar level and
// rejected later as a semantic error, exactly as spec.md's error kind 6
// describes.
func (p *Parser) whileStmt() (ast.Stmt, error) {
	tok := p.advance() // "while"
	if _, err := p.consume(token.LPAREN, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	test, err := p.comparison()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.While{Token: tok, Test: test, Body: body}, nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	tok := p.advance() // "return"
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return ast.Return{Token: tok, Value: value}, p.expectSemi()
}

// exprStmt parses a comma-separated expression list terminated by ';'.
// A single bare call (e.g. "foo(1, 2);") becomes a CallStmt; anything
// else becomes an ExprList, matching ast.ExprList's documented quirk of
// never popping its results off the stack.
func (p *Parser) exprStmt() (ast.Stmt, error) {
	tok := p.peek()
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	exprs := []ast.Expr{first}
	for p.isMatch(token.COMMA) {
		next, err := p.expr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
	}
	if err := p.expectSemi(); err != nil {
		return nil, err
	}

	if len(exprs) == 1 {
		if call, ok := exprs[0].(ast.Call); ok {
			return ast.CallStmt{Func: call.Func, Args: call.Args}, nil
		}
	}
	return ast.ExprList{Token: tok, Exprs: exprs}, nil
}

// comparison parses the single comparison expression If/While tests
// require: expr CmpOp expr. Unlike the arithmetic grammar, comparisons do
// not nest or chain.
func (p *Parser) comparison() (ast.Op, error) {
	left, err := p.expr()
	if err != nil {
		return ast.Op{}, err
	}
	opTok := p.peek()
	operator, ok := comparisonOperators[opTok.Type]
	if !ok {
		return ast.Op{}, CreateSyntaxError(opTok.Line, opTok.Column, "expected a comparison operator")
	}
	p.advance()
	right, err := p.expr()
	if err != nil {
		return ast.Op{}, err
	}
	return ast.Op{Operator: operator, Token: opTok, Left: left, Right: right}, nil
}

// expr is the entry point for the arithmetic grammar and the lowest
// precedence level: addTerm { ("+"|"-") addTerm }.
func (p *Parser) expr() (ast.Expr, error) {
	left, err := p.addTerm()
	if err != nil {
		return nil, err
	}
	for p.isMatch(termTokenTypes...) {
		opTok := p.previous()
		operator := ast.Add
		if opTok.Type == token.MINUS {
			operator = ast.Sub
		}
		right, err := p.addTerm()
		if err != nil {
			return nil, err
		}
		left = ast.Op{Operator: operator, Token: opTok, Left: left, Right: right}
	}
	return left, nil
}

// addTerm is the multiplicative precedence level: factor { "*" factor }.
func (p *Parser) addTerm() (ast.Expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.isMatch(factorTokenTypes...) {
		opTok := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = ast.Op{Operator: ast.Mul, Token: opTok, Left: left, Right: right}
	}
	return left, nil
}

// factor parses "-" factor | primary. Unary negation builds an Op with a
// nil Left, the pinned shape compiler.Translator's expression dispatch
// expects (see SPEC_FULL.md's Open Question Decisions).
func (p *Parser) factor() (ast.Expr, error) {
	if p.isMatch(token.MINUS) {
		opTok := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		return ast.Op{Operator: ast.Neg, Token: opTok, Left: nil, Right: right}, nil
	}
	return p.primary()
}

// primary parses an integer literal, a variable reference, a call, or a
// parenthesized expression.
func (p *Parser) primary() (ast.Expr, error) {
	if p.checkType(token.INT) {
		tok := p.advance()
		return ast.Int{Token: tok, Value: tok.Literal}, nil
	}

	if p.checkType(token.IDENTIFIER) {
		name := p.advance()
		if p.isMatch(token.LPAREN) {
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RPAREN, "expected ')' after call arguments"); err != nil {
				return nil, err
			}
			return ast.Call{Func: name, Args: args}, nil
		}
		return ast.Var{Name: name}, nil
	}

	if p.isMatch(token.LPAREN) {
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "expected ')' to close grouping"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	current := p.peek()
	return nil, CreateSyntaxError(current.Line, current.Column, fmt.Sprintf("unexpected token %q", current.Lexeme))
}

func (p *Parser) argList() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.checkType(token.RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.isMatch(token.COMMA) {
			break
		}
	}
	return args, nil
}
