package compiler

import "testing"

// Every inline-word-immediate Emit method must leave its opcode slot's
// Operand mirroring the following Word slot's Operand at emission time (see
// Instructions.emitInlineWord).
func TestEmitInlineWordMirrorsOperandAtEmission(t *testing.T) {
	tests := []struct {
		name  string
		emit  func(*Instructions) int
		value int
	}{
		{"Jump", func(ins *Instructions) int { return ins.EmitJump(7) }, 7},
		{"Jsr", func(ins *Instructions) int { return ins.EmitJsr(42) }, 42},
		{"Jeq", func(ins *Instructions) int { return ins.EmitJeq(3) }, 3},
		{"Jlt", func(ins *Instructions) int { return ins.EmitJlt(9) }, 9},
		{"Loadi", func(ins *Instructions) int { return ins.EmitLoadi(-1) }, -1},
		{"Pop", func(ins *Instructions) int { return ins.EmitPop(2) }, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ins Instructions
			idx := tt.emit(&ins)
			if ins[idx].Operand != tt.value {
				t.Errorf("opcode slot Operand = %d, want %d", ins[idx].Operand, tt.value)
			}
			if ins[idx+1].Opcode != Word || ins[idx+1].Operand != tt.value {
				t.Errorf("word slot = %+v, want {Word %d}", ins[idx+1], tt.value)
			}
		})
	}
}

// Backpatch mutates only the Word slot at i+1; the opcode slot at i keeps
// its emission-time operand.
func TestBackpatchOnlyMutatesWordSlot(t *testing.T) {
	var ins Instructions
	idx := ins.EmitJeq(0)
	ins.Backpatch(idx, 42)

	if ins[idx].Operand != 0 {
		t.Errorf("opcode slot Operand = %d, want unchanged at 0", ins[idx].Operand)
	}
	if ins[idx+1].Operand != 42 {
		t.Errorf("word slot Operand = %d, want 42", ins[idx+1].Operand)
	}
}

func TestBackpatchOnNonWordSlotPanics(t *testing.T) {
	var ins Instructions
	ins.EmitHalt()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic backpatching a non-Word slot")
		}
	}()
	ins.Backpatch(0, 1)
}

func TestEmitAddressingOutOfRangeOffsetPanics(t *testing.T) {
	tests := []struct {
		name   string
		offset int
	}{
		{"above 127", 128},
		{"below -128", -129},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ins Instructions
			defer func() {
				if recover() == nil {
					t.Fatal("expected a panic for an out-of-range addressing offset")
				}
			}()
			ins.EmitLoadFP(tt.offset)
		})
	}
}

func TestEmitAddressingAtRangeBoundsDoesNotPanic(t *testing.T) {
	var ins Instructions
	ins.EmitLoadFP(127)
	ins.EmitLoadFP(-128)
	if len(ins) != 2 {
		t.Fatalf("len(ins) = %d, want 2", len(ins))
	}
}

func TestNextIndexTracksEmissionCursor(t *testing.T) {
	var ins Instructions
	if got := ins.NextIndex(); got != 0 {
		t.Fatalf("NextIndex() = %d, want 0", got)
	}
	ins.EmitUp()
	if got := ins.NextIndex(); got != 1 {
		t.Fatalf("NextIndex() = %d, want 1", got)
	}
	ins.EmitLoadi(5)
	if got := ins.NextIndex(); got != 3 {
		t.Fatalf("NextIndex() = %d, want 3", got)
	}
}
