package compiler

// maxInstructions is the fixed buffer capacity (§4.4). Exceeding it is a
// fatal, user-facing SemanticError rather than a DeveloperError (push panics
// with it and TranslateProgram recovers it): a sufficiently large program
// can trigger it without any bug in the translator.
const maxInstructions = 65535

// Instruction is one slot: an opcode and its operand. For zero-operand
// opcodes Operand is always 0. For addressing opcodes Operand is the signed
// offset. For inline-word-immediate opcodes Operand mirrors the following
// Word slot's operand at emission time (see EmitX and Backpatch).
type Instruction struct {
	Opcode  Opcode
	Operand int
}

// Instructions is the translator's append-only instruction buffer.
// Instruction indices are stable for the buffer's lifetime; the next-free
// index is the emission cursor.
type Instructions []Instruction

// NextIndex returns the index the next Emit call will occupy.
func (ins Instructions) NextIndex() int {
	return len(ins)
}

func (ins *Instructions) push(i Instruction) int {
	idx := len(*ins)
	if idx >= maxInstructions {
		panic(SemanticError{Message: "instruction buffer overflow: more than 65535 instructions emitted"})
	}
	*ins = append(*ins, i)
	return idx
}

// emitZero appends a single zero-operand slot and returns its index.
func (ins *Instructions) emitZero(op Opcode) int {
	return ins.push(Instruction{Opcode: op})
}

// emitAddressing appends a single addressing-immediate slot. offset must lie
// in [-128, 127]; values outside that range indicate a translator bug (more
// than 127 globals or locals, or more than 126 parameters), not a user error.
func (ins *Instructions) emitAddressing(op Opcode, offset int) int {
	if offset < -128 || offset > 127 {
		panic(DeveloperError{Message: "addressing offset out of range: " + op.String()})
	}
	return ins.push(Instruction{Opcode: op, Operand: offset})
}

// emitInlineWord appends the two-slot opcode/Word pair and returns the index
// of the opcode slot. The Word slot's operand mirrors immediate at emission
// time; Backpatch later overwrites only the Word slot.
func (ins *Instructions) emitInlineWord(op Opcode, immediate int) int {
	idx := ins.push(Instruction{Opcode: op, Operand: immediate})
	ins.push(Instruction{Opcode: Word, Operand: immediate})
	return idx
}

func (ins *Instructions) EmitHalt() int { return ins.emitZero(Halt) }
func (ins *Instructions) EmitUp() int   { return ins.emitZero(Up) }
func (ins *Instructions) EmitDown() int { return ins.emitZero(Down) }
func (ins *Instructions) EmitMove() int { return ins.emitZero(Move) }
func (ins *Instructions) EmitAdd() int  { return ins.emitZero(Add) }
func (ins *Instructions) EmitSub() int  { return ins.emitZero(Sub) }
func (ins *Instructions) EmitNeg() int  { return ins.emitZero(Neg) }
func (ins *Instructions) EmitMul() int  { return ins.emitZero(Mul) }
func (ins *Instructions) EmitTest() int { return ins.emitZero(Test) }
func (ins *Instructions) EmitRts() int  { return ins.emitZero(Rts) }

func (ins *Instructions) EmitLoadGP(offset int) int   { return ins.emitAddressing(Load_GP, offset) }
func (ins *Instructions) EmitLoadFP(offset int) int   { return ins.emitAddressing(Load_FP, offset) }
func (ins *Instructions) EmitStoreGP(offset int) int  { return ins.emitAddressing(Store_GP, offset) }
func (ins *Instructions) EmitStoreFP(offset int) int  { return ins.emitAddressing(Store_FP, offset) }
func (ins *Instructions) EmitReadGP(offset int) int   { return ins.emitAddressing(Read_GP, offset) }
func (ins *Instructions) EmitReadFP(offset int) int   { return ins.emitAddressing(Read_FP, offset) }

func (ins *Instructions) EmitJsr(addr int) int   { return ins.emitInlineWord(Jsr, addr) }
func (ins *Instructions) EmitJump(addr int) int  { return ins.emitInlineWord(Jump, addr) }
func (ins *Instructions) EmitJeq(addr int) int   { return ins.emitInlineWord(Jeq, addr) }
func (ins *Instructions) EmitJlt(addr int) int   { return ins.emitInlineWord(Jlt, addr) }
func (ins *Instructions) EmitLoadi(v int) int    { return ins.emitInlineWord(Loadi, v) }
func (ins *Instructions) EmitPop(n int) int      { return ins.emitInlineWord(Pop, n) }

// Backpatch rewrites the operand of the Word slot at index i+1. It is
// defined only for i returned by one of the inline-word-immediate Emit
// methods; calling it on anything else is a translator bug.
func (ins Instructions) Backpatch(i int, operand int) {
	word := i + 1
	if word >= len(ins) || ins[word].Opcode != Word {
		panic(DeveloperError{Message: "backpatch target is not a Word slot"})
	}
	ins[word].Operand = operand
}
