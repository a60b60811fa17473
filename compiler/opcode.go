package compiler

import "fmt"

// Opcode names an instruction slot's operation. Opcodes partition into three
// shapes: zero-operand, addressing-immediate (the offset is encoded in the
// opcode word itself), and inline-word-immediate (the opcode word is
// followed by a second Word slot carrying the immediate). See DESIGN.md and
// Instructions.EmitX for which shape each opcode takes.
type Opcode int

const (
	Halt Opcode = iota
	Up
	Down
	Move
	Add
	Sub
	Neg
	Mul
	Test
	Rts
	Load_GP
	Load_FP
	Store_GP
	Store_FP
	Read_GP
	Read_FP
	Jsr
	Jump
	Jeq
	Jlt
	Loadi
	Pop
	Word
)

var opcodeNames = map[Opcode]string{
	Halt: "Halt", Up: "Up", Down: "Down", Move: "Move", Add: "Add", Sub: "Sub",
	Neg: "Neg", Mul: "Mul", Test: "Test", Rts: "Rts",
	Load_GP: "Load_GP", Load_FP: "Load_FP", Store_GP: "Store_GP", Store_FP: "Store_FP",
	Read_GP: "Read_GP", Read_FP: "Read_FP",
	Jsr: "Jsr", Jump: "Jump", Jeq: "Jeq", Jlt: "Jlt", Loadi: "Loadi", Pop: "Pop",
	Word: "Word",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// zeroOperand opcodes take one slot and carry no operand.
var zeroOperand = map[Opcode]bool{
	Halt: true, Up: true, Down: true, Move: true, Add: true, Sub: true,
	Neg: true, Mul: true, Test: true, Rts: true,
}

// addressingImmediate opcodes take one slot; the operand is a signed offset
// encoded in the opcode word, restricted to [-128, 127].
var addressingImmediate = map[Opcode]bool{
	Load_GP: true, Load_FP: true, Store_GP: true, Store_FP: true, Read_GP: true, Read_FP: true,
}

// inlineWordImmediate opcodes take two slots: the opcode slot (whose operand
// carries the immediate redundantly, for disassembly) and a following Word
// slot holding the immediate.
var inlineWordImmediate = map[Opcode]bool{
	Jsr: true, Jump: true, Jeq: true, Jlt: true, Loadi: true, Pop: true,
}

// binaryBase gives the fixed portion of a slot's 16-bit binary encoding.
// Zero-operand opcodes encode to exactly this value; addressing opcodes add
// the two's-complement, byte-masked operand; control opcodes (the first slot
// of an inline-word-immediate pair) encode to exactly this value, with the
// immediate itself carried by the following Word slot.
var binaryBase = map[Opcode]uint16{
	Halt: 0x0000, Up: 0x0A00, Down: 0x0C00, Move: 0x0E00,
	Add: 0x1000, Sub: 0x1200, Neg: 0x2200, Mul: 0x1400, Test: 0x1600, Rts: 0x2800,

	Read_GP: 0x0200, Read_FP: 0x0300, Store_GP: 0x0400, Store_FP: 0x0500,
	Load_GP: 0x0600, Load_FP: 0x0700,

	Jsr: 0x6800, Jump: 0x7000, Jeq: 0x7200, Jlt: 0x7400, Loadi: 0x5600, Pop: 0x5E00,
}
