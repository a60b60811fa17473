package compiler

import (
	"fmt"
	"io"
)

// EncodeWord produces the 16-bit binary encoding of one slot (§4.4):
//   - zero-operand: the fixed opcode constant.
//   - addressing: base + two's-complement-in-byte of the offset.
//   - control slot (first slot of an inline-word-immediate pair): the fixed
//     opcode constant; the immediate itself lives in the following Word slot.
//   - Word: the raw operand, reinterpreted as an unsigned 16-bit word.
func EncodeWord(instr Instruction) uint16 {
	switch {
	case instr.Opcode == Word:
		return uint16(instr.Operand)
	case addressingImmediate[instr.Opcode]:
		return binaryBase[instr.Opcode] + uint16(byte(instr.Operand))
	default:
		return binaryBase[instr.Opcode]
	}
}

// EncodeBinary writes one decimal 16-bit word per line. When withIndex is
// true each line is prefixed by "<index>  "; per §6 the binary writer only
// does this when writing to stdout, never for -d alone — the narrower half
// of the documented disassembly/binary asymmetry.
func (ins Instructions) EncodeBinary(w io.Writer, withIndex bool) error {
	for i, instr := range ins {
		word := EncodeWord(instr)
		line := fmt.Sprintf("%d", word)
		if withIndex {
			line = fmt.Sprintf("%d  %s", i, line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
