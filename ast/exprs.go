package ast

import "turtle/token"

// Expr is the interface implemented by every expression node. Expressions
// always produce a value.
type Expr interface {
	Accept(v ExprVisitor) any
	Pos() token.Token
}

// ExprVisitor is implemented by anything that walks expression nodes (the
// compiler's translator, an AST printer, ...).
type ExprVisitor interface {
	VisitVar(e Var) any
	VisitInt(e Int) any
	VisitCall(e Call) any
	VisitOp(e Op) any
}

// Var reads a previously declared variable's value.
type Var struct {
	Name token.Token
}

func (e Var) Accept(v ExprVisitor) any { return v.VisitVar(e) }
func (e Var) Pos() token.Token         { return e.Name }

// Int is an integer literal.
type Int struct {
	Token token.Token
	Value int64
}

func (e Int) Accept(v ExprVisitor) any { return v.VisitInt(e) }
func (e Int) Pos() token.Token         { return e.Token }

// Call is a function call used as an expression: it leaves the callee's
// return value on the stack.
type Call struct {
	Func token.Token
	Args []Expr
}

func (e Call) Accept(v ExprVisitor) any { return v.VisitCall(e) }
func (e Call) Pos() token.Token         { return e.Func }

// Op is a binary (or, for Neg, unary) operator expression. Left is nil for
// unary negation: the translator treats a nil operand as a no-op emit,
// which is exactly how the single-operand Neg case degenerates from the
// general "emit left, emit right, emit operator" shape (see
// compiler.Translator.translateExpr).
type Op struct {
	Operator Operator
	Token    token.Token // the operator token, for diagnostics
	Left     Expr
	Right    Expr
}

func (e Op) Accept(v ExprVisitor) any { return v.VisitOp(e) }
func (e Op) Pos() token.Token         { return e.Token }
