package compiler

import "turtle/ast"

// translateIf purely-syntactically rewrites NEQ/GT/LEQ/GEQ tests down to EQ
// or LT (§4.6) and recurses on the rewritten statement, stopping at the EQ/LT
// base case to emit the actual branch. Anything else reaching here is a
// parser/AST invariant violation: the parser only ever builds If nodes with
// a comparison Op as Test.
func (t *Translator) translateIf(s ast.If) error {
	switch s.Test.Operator {
	case ast.CmpEQ, ast.CmpLT:
		return t.emitIf(s)

	case ast.CmpNEQ:
		rewritten := s
		rewritten.Test = ast.Op{Operator: ast.CmpEQ, Token: s.Test.Token, Left: s.Test.Left, Right: s.Test.Right}
		rewritten.Then, rewritten.Else = s.Else, s.Then
		return t.translateIf(rewritten)

	case ast.CmpGT:
		rewritten := s
		rewritten.Test = ast.Op{Operator: ast.CmpLT, Token: s.Test.Token, Left: s.Test.Right, Right: s.Test.Left}
		return t.translateIf(rewritten)

	case ast.CmpLEQ:
		inner := ast.If{
			Token: s.Token,
			Test:  ast.Op{Operator: ast.CmpEQ, Token: s.Test.Token, Left: s.Test.Left, Right: s.Test.Right},
			Then:  s.Then,
			Else:  s.Else,
		}
		outer := ast.If{
			Token: s.Token,
			Test:  ast.Op{Operator: ast.CmpLT, Token: s.Test.Token, Left: s.Test.Left, Right: s.Test.Right},
			Then:  s.Then,
			Else:  []ast.Stmt{inner},
		}
		return t.translateIf(outer)

	case ast.CmpGEQ:
		rewritten := s
		rewritten.Test = ast.Op{Operator: ast.CmpLEQ, Token: s.Test.Token, Left: s.Test.Right, Right: s.Test.Left}
		return t.translateIf(rewritten)

	default:
		return t.errorf(s.Token, "unknown comparison operator %q in if statement", s.Test.Operator.String())
	}
}

// emitIf is the base case: Test is already CmpEQ or CmpLT. See §4.6's
// emission pattern. Else is nil for a then-only if.
func (t *Translator) emitIf(s ast.If) error {
	if err := t.emitComparisonTest(s.Test); err != nil {
		return err
	}

	jThen := t.emitBranchOn(s.Test.Operator)
	jEnd := t.instrs.EmitJump(0)

	lThen := t.instrs.NextIndex()
	t.instrs.Backpatch(jThen, lThen)
	if err := t.translateStmts(s.Then); err != nil {
		return err
	}

	if s.Else == nil {
		lEnd := t.instrs.NextIndex()
		t.instrs.Backpatch(jEnd, lEnd)
		return nil
	}

	jAfterThen := t.instrs.EmitJump(0)
	lElse := t.instrs.NextIndex()
	t.instrs.Backpatch(jEnd, lElse)
	if err := t.translateStmts(s.Else); err != nil {
		return err
	}
	lEnd := t.instrs.NextIndex()
	t.instrs.Backpatch(jAfterThen, lEnd)
	return nil
}

// translateWhile does not go through the §4.6 rewrite table: only CmpEQ and
// CmpLT tests are accepted directly, matching the original translator's
// while-loop path, which has no transform_* counterpart to its if-statement
// siblings.
func (t *Translator) translateWhile(s ast.While) error {
	if s.Test.Operator != ast.CmpEQ && s.Test.Operator != ast.CmpLT {
		return t.errorf(s.Token, "unknown comparison operator %q in while statement", s.Test.Operator.String())
	}

	lTest := t.instrs.NextIndex()
	if err := t.emitComparisonTest(s.Test); err != nil {
		return err
	}

	jBegin := t.emitBranchOn(s.Test.Operator)
	jEnd := t.instrs.EmitJump(0)

	lBegin := t.instrs.NextIndex()
	t.instrs.Backpatch(jBegin, lBegin)
	if err := t.translateStmts(s.Body); err != nil {
		return err
	}

	jTest := t.instrs.EmitJump(0)
	lEnd := t.instrs.NextIndex()
	t.instrs.Backpatch(jEnd, lEnd)
	t.instrs.Backpatch(jTest, lTest)
	return nil
}

// emitComparisonTest lowers a's and b's evaluation plus the Sub/Test/Pop 1
// triple shared by if and while, in that exact order (§4.6).
func (t *Translator) emitComparisonTest(test ast.Op) error {
	if err := t.translateExpr(test.Left); err != nil {
		return err
	}
	if err := t.translateExpr(test.Right); err != nil {
		return err
	}
	t.instrs.EmitSub()
	t.instrs.EmitTest()
	t.instrs.EmitPop(1)
	return nil
}

func (t *Translator) emitBranchOn(op ast.Operator) int {
	if op == ast.CmpEQ {
		return t.instrs.EmitJeq(0)
	}
	return t.instrs.EmitJlt(0)
}
