package ast

import "turtle/token"

// Stmt is the interface implemented by every statement node. Statements do
// not produce a value.
type Stmt interface {
	Accept(v StmtVisitor) any
	Pos() token.Token
}

// StmtVisitor is implemented by anything that walks statement nodes.
type StmtVisitor interface {
	VisitUp(s Up) any
	VisitDown(s Down) any
	VisitMove(s Move) any
	VisitRead(s Read) any
	VisitAssign(s Assign) any
	VisitIf(s If) any
	VisitWhile(s While) any
	VisitReturn(s Return) any
	VisitCallStmt(s CallStmt) any
	VisitExprList(s ExprList) any
}

// Up lifts the pen.
type Up struct{ Token token.Token }

func (s Up) Accept(v StmtVisitor) any { return v.VisitUp(s) }
func (s Up) Pos() token.Token         { return s.Token }

// Down lowers the pen.
type Down struct{ Token token.Token }

func (s Down) Accept(v StmtVisitor) any { return v.VisitDown(s) }
func (s Down) Pos() token.Token         { return s.Token }

// Move moves the turtle by (X, Y), drawing if the pen is down.
type Move struct {
	Token token.Token
	X, Y  Expr
}

func (s Move) Accept(v StmtVisitor) any { return v.VisitMove(s) }
func (s Move) Pos() token.Token         { return s.Token }

// Read reads a value from the program's input channel into Var.
type Read struct {
	Token token.Token
	Var   token.Token
}

func (s Read) Accept(v StmtVisitor) any { return v.VisitRead(s) }
func (s Read) Pos() token.Token         { return s.Token }

// Assign stores the value of Value into Var.
type Assign struct {
	Var   token.Token
	Value Expr
}

func (s Assign) Accept(v StmtVisitor) any { return v.VisitAssign(s) }
func (s Assign) Pos() token.Token         { return s.Var }

// If is both if-then and if-then-else: Else is nil for the then-only form.
// Test must be a comparison Op (CmpEQ/CmpNEQ/CmpLT/CmpGT/CmpLEQ/CmpGEQ);
// anything else is a parser/AST invariant violation caught by the
// translator.
type If struct {
	Token token.Token
	Test  Op
	Then  []Stmt
	Else  []Stmt // nil when there is no else branch
}

func (s If) Accept(v StmtVisitor) any { return v.VisitIf(s) }
func (s If) Pos() token.Token         { return s.Token }

// While loops while Test holds. Test must already be CmpEQ or CmpLT: unlike
// If, While's test is not rewritten through the NEQ/GT/LEQ/GEQ table (see
// compiler.Translator.translateWhile).
type While struct {
	Token token.Token
	Test  Op
	Body  []Stmt
}

func (s While) Accept(v StmtVisitor) any { return v.VisitWhile(s) }
func (s While) Pos() token.Token         { return s.Token }

// Return is only valid inside a function body.
type Return struct {
	Token token.Token
	Value Expr
}

func (s Return) Accept(v StmtVisitor) any { return v.VisitReturn(s) }
func (s Return) Pos() token.Token         { return s.Token }

// CallStmt is a function call used as a statement. With compiler.Options
// Strict the Pop after the call removes the arguments and the return slot
// (P+1); without it the Pop removes only the arguments (P) and the return
// value stays on the stack.
type CallStmt struct {
	Func token.Token
	Args []Expr
}

func (s CallStmt) Accept(v StmtVisitor) any { return v.VisitCallStmt(s) }
func (s CallStmt) Pos() token.Token         { return s.Func }

// ExprList is a statement consisting of a comma-separated sequence of
// expressions, each translated in order. Nothing pops their results off the
// stack afterward; this mirrors the original translator exactly and is a
// known quirk of this statement form, not a bug to be fixed here.
type ExprList struct {
	Token token.Token
	Exprs []Expr
}

func (s ExprList) Accept(v StmtVisitor) any { return v.VisitExprList(s) }
func (s ExprList) Pos() token.Token         { return s.Token }
