// Package ast defines the turtle language's abstract syntax tree. Statement
// and expression nodes follow the visitor pattern (an Accept method per
// node, one Visit method per node kind on the relevant visitor interface),
// the same shape the teacher package uses for its own expression grammar.
package ast

import "turtle/token"

// Program is the root of a compilation unit: zero or more global variable
// declarations, zero or more function definitions, and a body (the `main`
// block) that runs after all functions have been made callable.
type Program struct {
	Globals []VarDec
	Funcs   []FunDec
	Body    []Stmt
}

// VarDec is a variable declaration, global or local depending on where it
// appears. Init is nil for a declaration with no initializer.
type VarDec struct {
	Name token.Token
	Init Expr
}

// FunDec is a function definition: a name, its parameters, its local
// variable declarations, and its body statements.
type FunDec struct {
	Name   token.Token
	Params []token.Token
	Locals []VarDec
	Body   []Stmt
}

// Operator identifies an arithmetic or comparison operator carried by an
// OpExpr. Comparisons are only meaningful as the direct test expression of
// an If or While statement; encountered anywhere else they are a compiler
// bug (see compiler.Translator's expression lowering).
type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Neg

	CmpEQ
	CmpNEQ
	CmpLT
	CmpGT
	CmpLEQ
	CmpGEQ
)

func (o Operator) IsComparison() bool {
	return o >= CmpEQ
}

func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Neg:
		return "neg"
	case CmpEQ:
		return "=="
	case CmpNEQ:
		return "!="
	case CmpLT:
		return "<"
	case CmpGT:
		return ">"
	case CmpLEQ:
		return "<="
	case CmpGEQ:
		return ">="
	default:
		return "?"
	}
}
