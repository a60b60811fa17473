package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"turtle/ast"
	"turtle/compiler"
	"turtle/token"
	"turtle/vm"
)

func ident(name string) token.Token {
	return token.New(token.IDENTIFIER, name, 1, 1)
}

func intLit(v int64) ast.Int {
	return ast.Int{Token: token.NewInt("", v, 1, 1), Value: v}
}

func compile(t *testing.T, prog *ast.Program) compiler.Instructions {
	t.Helper()
	tr := compiler.NewTranslator(compiler.Options{})
	err := tr.TranslateProgram(prog)
	assert.NoError(t, err)
	return tr.Instructions()
}

func TestGlobalInitializationAndAssignment(t *testing.T) {
	// var x = 5
	// x = x + 3
	prog := &ast.Program{
		Globals: []ast.VarDec{{Name: ident("x"), Init: intLit(5)}},
		Body: []ast.Stmt{
			ast.Assign{
				Var: ident("x"),
				Value: ast.Op{
					Operator: ast.Add,
					Left:     ast.Var{Name: ident("x")},
					Right:    intLit(3),
				},
			},
		},
	}

	ins := compile(t, prog)
	machine := vm.New(nil)
	err := machine.Run(ins)
	assert.NoError(t, err)

	v, ok := machine.Global(1)
	assert.True(t, ok)
	assert.Equal(t, int64(8), v)
}

func TestMoveTracksPenState(t *testing.T) {
	// up
	// move(1, 1)     -- no segment, pen up
	// down
	// move(2, 3)     -- segment at (3, 4)
	// move(-1, -1)   -- segment at (2, 3)
	prog := &ast.Program{
		Body: []ast.Stmt{
			ast.Up{},
			ast.Move{X: intLit(1), Y: intLit(1)},
			ast.Down{},
			ast.Move{X: intLit(2), Y: intLit(3)},
			ast.Move{X: intLit(-1), Y: intLit(-1)},
		},
	}

	ins := compile(t, prog)
	machine := vm.New(nil)
	err := machine.Run(ins)
	assert.NoError(t, err)

	assert.Equal(t, []vm.Point{{X: 3, Y: 4}, {X: 2, Y: 3}}, machine.Segments())
}

func TestReadFeedsGlobal(t *testing.T) {
	// var x
	// read x
	prog := &ast.Program{
		Globals: []ast.VarDec{{Name: ident("x")}},
		Body:    []ast.Stmt{ast.Read{Var: ident("x")}},
	}

	ins := compile(t, prog)
	machine := vm.New([]int64{42})
	err := machine.Run(ins)
	assert.NoError(t, err)

	v, ok := machine.Global(1)
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestReadPastEndOfInputIsRuntimeError(t *testing.T) {
	prog := &ast.Program{
		Globals: []ast.VarDec{{Name: ident("x")}},
		Body:    []ast.Stmt{ast.Read{Var: ident("x")}},
	}

	ins := compile(t, prog)
	machine := vm.New(nil)
	err := machine.Run(ins)
	assert.Error(t, err)
}

func TestIfEqualBranchesThen(t *testing.T) {
	// var x = 0
	// if (1 == 1) x = 9 else x = 1
	prog := &ast.Program{
		Globals: []ast.VarDec{{Name: ident("x"), Init: intLit(0)}},
		Body: []ast.Stmt{
			ast.If{
				Test: ast.Op{Operator: ast.CmpEQ, Left: intLit(1), Right: intLit(1)},
				Then: []ast.Stmt{ast.Assign{Var: ident("x"), Value: intLit(9)}},
				Else: []ast.Stmt{ast.Assign{Var: ident("x"), Value: intLit(1)}},
			},
		},
	}

	ins := compile(t, prog)
	machine := vm.New(nil)
	err := machine.Run(ins)
	assert.NoError(t, err)

	v, ok := machine.Global(1)
	assert.True(t, ok)
	assert.Equal(t, int64(9), v)
}

func TestIfRewritesGreaterThan(t *testing.T) {
	// var x = 0
	// if (2 > 1) x = 7
	prog := &ast.Program{
		Globals: []ast.VarDec{{Name: ident("x"), Init: intLit(0)}},
		Body: []ast.Stmt{
			ast.If{
				Test: ast.Op{Operator: ast.CmpGT, Left: intLit(2), Right: intLit(1)},
				Then: []ast.Stmt{ast.Assign{Var: ident("x"), Value: intLit(7)}},
			},
		},
	}

	ins := compile(t, prog)
	machine := vm.New(nil)
	err := machine.Run(ins)
	assert.NoError(t, err)

	v, ok := machine.Global(1)
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)
}

func TestWhileLoopCountsDown(t *testing.T) {
	// var x = 3
	// var total = 0
	// while (0 < x) { total = total + x; x = x - 1 }
	prog := &ast.Program{
		Globals: []ast.VarDec{
			{Name: ident("x"), Init: intLit(3)},
			{Name: ident("total"), Init: intLit(0)},
		},
		Body: []ast.Stmt{
			ast.While{
				Test: ast.Op{Operator: ast.CmpLT, Left: intLit(0), Right: ast.Var{Name: ident("x")}},
				Body: []ast.Stmt{
					ast.Assign{
						Var: ident("total"),
						Value: ast.Op{
							Operator: ast.Add,
							Left:     ast.Var{Name: ident("total")},
							Right:    ast.Var{Name: ident("x")},
						},
					},
					ast.Assign{
						Var: ident("x"),
						Value: ast.Op{
							Operator: ast.Sub,
							Left:     ast.Var{Name: ident("x")},
							Right:    intLit(1),
						},
					},
				},
			},
		},
	}

	ins := compile(t, prog)
	machine := vm.New(nil)
	err := machine.Run(ins)
	assert.NoError(t, err)

	total, ok := machine.Global(2)
	assert.True(t, ok)
	assert.Equal(t, int64(6), total)

	x, ok := machine.Global(1)
	assert.True(t, ok)
	assert.Equal(t, int64(0), x)
}

func TestFunctionCallWithArgsAndReturnValue(t *testing.T) {
	// var result
	// fun add(a, b) { return a + b }
	// result = add(4, 5)
	prog := &ast.Program{
		Globals: []ast.VarDec{{Name: ident("result")}},
		Body: []ast.Stmt{
			ast.Assign{Var: ident("result"), Value: ast.Call{Func: ident("add"), Args: []ast.Expr{intLit(4), intLit(5)}}},
		},
		Funcs: []ast.FunDec{
			{
				Name:   ident("add"),
				Params: []token.Token{ident("a"), ident("b")},
				Body: []ast.Stmt{
					ast.Return{Value: ast.Op{
						Operator: ast.Add,
						Left:     ast.Var{Name: ident("a")},
						Right:    ast.Var{Name: ident("b")},
					}},
				},
			},
		},
	}

	ins := compile(t, prog)
	machine := vm.New(nil)
	err := machine.Run(ins)
	assert.NoError(t, err)

	result, ok := machine.Global(1)
	assert.True(t, ok)
	assert.Equal(t, int64(9), result)
}

func TestForwardFunctionReferenceResolves(t *testing.T) {
	// var result
	// fun caller() { return callee() }
	// fun callee() { return 11 }
	// result = caller()
	prog := &ast.Program{
		Globals: []ast.VarDec{{Name: ident("result")}},
		Body: []ast.Stmt{
			ast.Assign{Var: ident("result"), Value: ast.Call{Func: ident("caller")}},
		},
		Funcs: []ast.FunDec{
			{
				Name: ident("caller"),
				Body: []ast.Stmt{
					ast.Return{Value: ast.Call{Func: ident("callee")}},
				},
			},
			{
				Name: ident("callee"),
				Body: []ast.Stmt{
					ast.Return{Value: intLit(11)},
				},
			},
		},
	}

	ins := compile(t, prog)
	machine := vm.New(nil)
	err := machine.Run(ins)
	assert.NoError(t, err)

	result, ok := machine.Global(1)
	assert.True(t, ok)
	assert.Equal(t, int64(11), result)
}

func TestCallStatementNonStrictLeavesGlobalsIntact(t *testing.T) {
	// var after = 1
	// fun bump() { return 1 }
	// bump()
	prog := &ast.Program{
		Globals: []ast.VarDec{{Name: ident("after"), Init: intLit(1)}},
		Funcs: []ast.FunDec{
			{Name: ident("bump"), Body: []ast.Stmt{ast.Return{Value: intLit(1)}}},
		},
		Body: []ast.Stmt{
			ast.CallStmt{Func: ident("bump")},
		},
	}

	ins := compile(t, prog)
	machine := vm.New(nil)
	err := machine.Run(ins)
	assert.NoError(t, err)

	after, ok := machine.Global(1)
	assert.True(t, ok)
	assert.Equal(t, int64(1), after)
}
