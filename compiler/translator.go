// Package compiler implements the turtle language's semantic analysis and
// code-generation pass: the AST walker that resolves names against the
// variable and function environments, validates call arity and statement
// shape, emits a stack-machine instruction stream, backpatches forward
// jumps and forward function calls, and lowers rich comparisons down to the
// VM's native Jeq/Jlt tests.
package compiler

import (
	"fmt"

	"turtle/ast"
	"turtle/symtab"
	"turtle/token"
)

// Options controls compile-time policy decisions the source language leaves
// open (see SPEC_FULL.md's Open Question Decisions).
type Options struct {
	// Strict makes a parameter or local that shadows a global a compile
	// error and changes the Pop width emitted after a statement-context call
	// from P to P+1. Without Strict, shadowing is accepted and no warning is
	// printed.
	Strict bool
}

// pendingRef is a forward reference to a function whose address was not yet
// known at the call site: the Jsr emit index paired with the target
// function's symbol. Resolved in one pass after all bodies are translated.
type pendingRef struct {
	jsrIndex int
	target   symtab.Symbol
}

// Translator holds all compile-time state for one program translation. It
// is created fresh per invocation (see NewTranslator) so that translating
// several files in a process is cleanly re-entrant.
type Translator struct {
	opts Options

	symbols *symtab.Store
	vars    *symtab.VarEnv
	funcs   *symtab.FuncEnv

	instrs Instructions

	pending []pendingRef

	// retOffset is the FP-relative slot a Return statement must store into
	// before Rts. Zero outside any function body, where Return is invalid.
	retOffset int

	nextGlobal int
}

// NewTranslator creates an empty translator ready to compile one program.
func NewTranslator(opts Options) *Translator {
	return &Translator{
		opts:    opts,
		symbols: symtab.NewStore(),
		vars:    symtab.NewVarEnv(),
		funcs:   symtab.NewFuncEnv(),
	}
}

// Instructions returns the translator's finished instruction buffer. Only
// meaningful after TranslateProgram has returned successfully.
func (t *Translator) Instructions() Instructions {
	return t.instrs
}

func (t *Translator) errorf(pos token.Token, format string, args ...any) error {
	return CreateSemanticError(pos.Line, pos.Column, fmt.Sprintf(format, args...))
}

// TranslateProgram runs the full driver sequence from SPEC_FULL.md: globals,
// a Jump over the function bodies, the function bodies themselves, forward
// reference resolution, the program body, the backpatched jump target, and
// a trailing Halt.
func (t *Translator) TranslateProgram(prog *ast.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(SemanticError); ok {
				err = se
				return
			}
			if de, ok := r.(DeveloperError); ok {
				err = de
				return
			}
			panic(r)
		}
	}()

	if err := t.translateGlobals(prog.Globals); err != nil {
		return err
	}

	jumpIdx := t.instrs.EmitJump(0)

	if err := t.translateFunctions(prog.Funcs); err != nil {
		return err
	}

	t.resolvePendingReferences()

	bodyStart := t.instrs.NextIndex()

	if err := t.translateStmts(prog.Body); err != nil {
		return err
	}

	t.instrs.Backpatch(jumpIdx, bodyStart)
	t.instrs.EmitHalt()

	if !t.vars.AtGlobalOnly() {
		panic(DeveloperError{Message: "variable environment left with open local scopes at end of translation"})
	}
	if t.retOffset != 0 {
		panic(DeveloperError{Message: "retOffset left non-zero at end of translation"})
	}
	return nil
}

// translateGlobals emits each global's initializer in declaration order and
// nothing else: the pushed value itself becomes the GP-relative storage
// slot, since nothing else has pushed onto the stack yet. There is no
// separate Store_GP — see TestTranslateProgramGlobalDeclarationAndAssignment
// and translateLocals for the parallel local case.
func (t *Translator) translateGlobals(decls []ast.VarDec) error {
	for _, dec := range decls {
		sym := t.symbols.Intern(dec.Name.Lexeme)
		if _, found := t.vars.FindInTopScope(sym); found {
			return t.errorf(dec.Name, "redefinition of global variable %q", dec.Name.Lexeme)
		}

		if err := t.translateInitializer(dec.Init); err != nil {
			return err
		}

		t.nextGlobal++
		t.vars.Insert(sym, &symtab.VarEntry{Sym: sym, Scope: symtab.Global, Index: t.nextGlobal})
	}
	return nil
}

// translateInitializer emits a declaration's initializer expression, or
// Loadi 0 when the declaration has none, per §4.5's "the values are left on
// the stack to initialize storage" rule, which presumes one value is always
// produced.
func (t *Translator) translateInitializer(init ast.Expr) error {
	if init == nil {
		t.instrs.EmitLoadi(0)
		return nil
	}
	return t.translateExpr(init)
}

func (t *Translator) translateFunctions(funcs []ast.FunDec) error {
	seen := make(map[symtab.Symbol]bool, len(funcs))
	for _, fn := range funcs {
		sym := t.symbols.Intern(fn.Name.Lexeme)
		if seen[sym] {
			return t.errorf(fn.Name, "redefinition of function %q", fn.Name.Lexeme)
		}
		seen[sym] = true
	}

	for _, fn := range funcs {
		sym := t.symbols.Intern(fn.Name.Lexeme)
		t.funcs.Insert(sym, len(fn.Params))
	}

	for _, fn := range funcs {
		if err := t.translateFunctionBody(fn); err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) translateFunctionBody(fn ast.FunDec) error {
	sym := t.symbols.Intern(fn.Name.Lexeme)
	numParams := len(fn.Params)

	t.funcs.SetAddress(sym, t.instrs.NextIndex())

	t.vars.EnterScope()
	defer t.vars.LeaveScope()

	for i, param := range fn.Params {
		paramSym := t.symbols.Intern(param.Lexeme)
		offset := -numParams - 1 + i
		if _, found := t.vars.FindInTopScope(paramSym); found {
			return t.errorf(param, "duplicate parameter %q", param.Lexeme)
		}
		if entry, found := t.vars.Find(paramSym); found && entry.Scope == symtab.Global && t.opts.Strict {
			return t.errorf(param, "parameter %q shadows a global", param.Lexeme)
		}
		t.vars.Insert(paramSym, &symtab.VarEntry{Sym: paramSym, Scope: symtab.Local, Index: offset})
	}

	t.retOffset = -numParams - 2
	defer func() { t.retOffset = 0 }()

	if err := t.translateLocals(fn.Locals); err != nil {
		return err
	}

	if err := t.translateStmts(fn.Body); err != nil {
		return err
	}

	t.instrs.EmitRts()
	return nil
}

// translateLocals mirrors translateGlobals within a function frame: each
// local's initializer push becomes its FP-relative storage slot directly,
// with no separate Store_FP.
func (t *Translator) translateLocals(decls []ast.VarDec) error {
	offset := 0
	for _, dec := range decls {
		sym := t.symbols.Intern(dec.Name.Lexeme)
		if _, found := t.vars.FindInTopScope(sym); found {
			return t.errorf(dec.Name, "redefinition of local variable %q", dec.Name.Lexeme)
		}
		if entry, found := t.vars.Find(sym); found && entry.Scope == symtab.Global {
			if t.opts.Strict {
				return t.errorf(dec.Name, "local variable %q shadows a global", dec.Name.Lexeme)
			}
			// Non-strict: shadowing a global is permitted; a real compiler
			// would warn here.
		}

		if err := t.translateInitializer(dec.Init); err != nil {
			return err
		}

		offset++
		t.vars.Insert(sym, &symtab.VarEntry{Sym: sym, Scope: symtab.Local, Index: offset})
	}
	return nil
}

func (t *Translator) resolvePendingReferences() {
	for _, ref := range t.pending {
		entry, ok := t.funcs.Find(ref.target)
		if !ok || entry.Address == 0 {
			panic(DeveloperError{Message: "unresolved forward function reference at end of translation"})
		}
		t.instrs.Backpatch(ref.jsrIndex, entry.Address)
	}
}

func (t *Translator) translateStmts(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := t.translateStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) translateStmt(s ast.Stmt) error {
	sv := &stmtTranslator{t: t}
	if err, ok := s.Accept(sv).(error); ok {
		return err
	}
	return nil
}

// stmtTranslator implements ast.StmtVisitor, dispatching each statement kind
// to its lowering per §4.5/§4.6.
type stmtTranslator struct {
	t *Translator
}

func (sv *stmtTranslator) VisitUp(s ast.Up) any {
	sv.t.instrs.EmitUp()
	return nil
}

func (sv *stmtTranslator) VisitDown(s ast.Down) any {
	sv.t.instrs.EmitDown()
	return nil
}

func (sv *stmtTranslator) VisitMove(s ast.Move) any {
	if err := sv.t.translateExpr(s.X); err != nil {
		return err
	}
	if err := sv.t.translateExpr(s.Y); err != nil {
		return err
	}
	sv.t.instrs.EmitMove()
	return nil
}

func (sv *stmtTranslator) VisitRead(s ast.Read) any {
	entry, ok := sv.t.vars.Find(sv.t.symbols.Intern(s.Var.Lexeme))
	if !ok {
		return sv.t.errorf(s.Var, "undefined variable %q", s.Var.Lexeme)
	}
	if entry.Scope == symtab.Global {
		sv.t.instrs.EmitReadGP(entry.Index)
	} else {
		sv.t.instrs.EmitReadFP(entry.Index)
	}
	return nil
}

func (sv *stmtTranslator) VisitAssign(s ast.Assign) any {
	entry, ok := sv.t.vars.Find(sv.t.symbols.Intern(s.Var.Lexeme))
	if !ok {
		return sv.t.errorf(s.Var, "undefined variable %q", s.Var.Lexeme)
	}
	if err := sv.t.translateExpr(s.Value); err != nil {
		return err
	}
	if entry.Scope == symtab.Global {
		sv.t.instrs.EmitStoreGP(entry.Index)
	} else {
		sv.t.instrs.EmitStoreFP(entry.Index)
	}
	return nil
}

func (sv *stmtTranslator) VisitReturn(s ast.Return) any {
	if !sv.t.vars.InScope() {
		return sv.t.errorf(s.Token, "return statement outside of a function body")
	}
	if err := sv.t.translateExpr(s.Value); err != nil {
		return err
	}
	sv.t.instrs.EmitStoreFP(sv.t.retOffset)
	sv.t.instrs.EmitRts()
	return nil
}

func (sv *stmtTranslator) VisitCallStmt(s ast.CallStmt) any {
	numParams, err := sv.t.translateCall(s.Func, s.Args)
	if err != nil {
		return err
	}
	if sv.t.opts.Strict {
		sv.t.instrs.EmitPop(numParams + 1)
	} else {
		sv.t.instrs.EmitPop(numParams)
	}
	return nil
}

func (sv *stmtTranslator) VisitExprList(s ast.ExprList) any {
	for _, e := range s.Exprs {
		if err := sv.t.translateExpr(e); err != nil {
			return err
		}
	}
	return nil
}

func (sv *stmtTranslator) VisitIf(s ast.If) any {
	return sv.t.translateIf(s)
}

func (sv *stmtTranslator) VisitWhile(s ast.While) any {
	return sv.t.translateWhile(s)
}

// translateCall resolves f, checks arity, and emits the calling convention
// shared by call-statements and call-expressions: Loadi 0 to reserve the
// return slot, each argument left to right, then Jsr. It returns the
// callee's parameter count for the caller to size its Pop.
func (t *Translator) translateCall(f token.Token, args []ast.Expr) (int, error) {
	sym := t.symbols.Intern(f.Lexeme)
	entry, ok := t.funcs.Find(sym)
	if !ok {
		return 0, t.errorf(f, "call to undefined function %q", f.Lexeme)
	}
	if entry.NumParams != len(args) {
		return 0, t.errorf(f, "function %q expects %d argument(s), got %d", f.Lexeme, entry.NumParams, len(args))
	}

	t.instrs.EmitLoadi(0)
	for _, arg := range args {
		if err := t.translateExpr(arg); err != nil {
			return 0, err
		}
	}
	jsrIdx := t.instrs.EmitJsr(entry.Address)
	if entry.Address == 0 {
		t.pending = append(t.pending, pendingRef{jsrIndex: jsrIdx, target: sym})
	}
	return entry.NumParams, nil
}

func (t *Translator) translateExpr(e ast.Expr) error {
	if e == nil {
		return nil
	}
	ev := &exprTranslator{t: t}
	if err, ok := e.Accept(ev).(error); ok {
		return err
	}
	return nil
}

// exprTranslator implements ast.ExprVisitor. Its Visit methods return nil or
// an error value through the `any` return, like stmtTranslator's.
type exprTranslator struct {
	t *Translator
}

func (ev *exprTranslator) VisitVar(e ast.Var) any {
	entry, ok := ev.t.vars.Find(ev.t.symbols.Intern(e.Name.Lexeme))
	if !ok {
		return ev.t.errorf(e.Name, "undefined variable %q", e.Name.Lexeme)
	}
	if entry.Scope == symtab.Global {
		ev.t.instrs.EmitLoadGP(entry.Index)
	} else {
		ev.t.instrs.EmitLoadFP(entry.Index)
	}
	return nil
}

func (ev *exprTranslator) VisitInt(e ast.Int) any {
	ev.t.instrs.EmitLoadi(int(e.Value))
	return nil
}

func (ev *exprTranslator) VisitCall(e ast.Call) any {
	numParams, err := ev.t.translateCall(e.Func, e.Args)
	if err != nil {
		return err
	}
	ev.t.instrs.EmitPop(numParams)
	return nil
}

func (ev *exprTranslator) VisitOp(e ast.Op) any {
	if e.Operator.IsComparison() {
		return DeveloperError{Message: "comparison operator reached generic expression translation: " + e.Operator.String()}
	}

	if err := ev.t.translateExpr(e.Left); err != nil {
		return err
	}
	if err := ev.t.translateExpr(e.Right); err != nil {
		return err
	}

	switch e.Operator {
	case ast.Add:
		ev.t.instrs.EmitAdd()
	case ast.Sub:
		ev.t.instrs.EmitSub()
	case ast.Mul:
		ev.t.instrs.EmitMul()
	case ast.Neg:
		ev.t.instrs.EmitNeg()
	default:
		return DeveloperError{Message: "unknown operator in expression translation: " + e.Operator.String()}
	}
	return nil
}
