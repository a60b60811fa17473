// Package vm is a small reference interpreter for the instruction stream
// compiler.Translator produces. It exists for testing the compiler and for
// the `turtle run` command; it is not part of the specified, tested core
// (see DESIGN.md).
package vm

import (
	"turtle/compiler"
)

// Point is one turtle position visited with the pen down, recorded as a
// drawn segment's endpoint.
type Point struct{ X, Y int64 }

// callFrame is the VM's internal bookkeeping for one active call, kept off
// the data stack (see DESIGN.md's frame-layout note): the return address to
// resume at and the caller's frame pointer to restore.
type callFrame struct {
	returnIP int
	savedFP  int
}

// VM executes one compiled instruction stream to completion or error.
type VM struct {
	stack Stack
	ip    int
	gp    int
	fp    int
	flag  sign
	frames []callFrame

	input  []int64
	inCur  int

	penDown  bool
	x, y     int64
	segments []Point
}

// New creates a VM ready to run a program. input feeds Read_GP/Read_FP in
// order; a Read past the end of input is a RuntimeError.
func New(input []int64) *VM {
	return &VM{input: input}
}

// Segments returns the turtle positions visited with the pen down, in
// visitation order — useful for asserting what a program drew.
func (vm *VM) Segments() []Point {
	return vm.segments
}

// Global returns the current value of global index g (1-based), for
// tests that want to inspect state after Run returns.
func (vm *VM) Global(g int) (int64, bool) {
	return vm.stack.Get(vm.gp + g)
}

// Run executes ins starting at instruction 0. Stack position 0 is reserved
// as a sentinel so that global index 1 (the first declared global) lands at
// GP+1, matching the 1-based offsets the translator assigns.
func (vm *VM) Run(ins compiler.Instructions) error {
	vm.stack = Stack{0}
	vm.gp = 0
	vm.fp = 0
	vm.ip = 0

	for {
		if vm.ip < 0 || vm.ip >= len(ins) {
			return CreateRuntimeError(vm.ip, "instruction pointer ran off the end of the program")
		}
		instr := ins[vm.ip]

		switch instr.Opcode {
		case compiler.Halt:
			return nil

		case compiler.Up:
			vm.penDown = false
			vm.ip++

		case compiler.Down:
			vm.penDown = true
			vm.ip++

		case compiler.Move:
			dy, ok1 := vm.stack.Pop()
			dx, ok2 := vm.stack.Pop()
			if !ok1 || !ok2 {
				return CreateRuntimeError(vm.ip, "stack underflow in Move")
			}
			vm.x += dx
			vm.y += dy
			if vm.penDown {
				vm.segments = append(vm.segments, Point{vm.x, vm.y})
			}
			vm.ip++

		case compiler.Add, compiler.Sub, compiler.Mul:
			if err := vm.binaryArith(instr.Opcode); err != nil {
				return err
			}
			vm.ip++

		case compiler.Neg:
			v, ok := vm.stack.Pop()
			if !ok {
				return CreateRuntimeError(vm.ip, "stack underflow in Neg")
			}
			vm.stack.Push(-v)
			vm.ip++

		case compiler.Test:
			v, ok := vm.stack.Peek()
			if !ok {
				return CreateRuntimeError(vm.ip, "stack underflow in Test")
			}
			vm.flag = signOf(v)
			vm.ip++

		case compiler.Rts:
			if len(vm.frames) == 0 {
				return CreateRuntimeError(vm.ip, "Rts with no active call frame")
			}
			top := vm.frames[len(vm.frames)-1]
			vm.frames = vm.frames[:len(vm.frames)-1]
			vm.stack.Truncate(vm.fp - 1)
			vm.fp = top.savedFP
			vm.ip = top.returnIP

		case compiler.Load_GP:
			v, ok := vm.stack.Get(vm.gp + instr.Operand)
			if !ok {
				return CreateRuntimeError(vm.ip, "Load_GP out of range")
			}
			vm.stack.Push(v)
			vm.ip++

		case compiler.Load_FP:
			v, ok := vm.stack.Get(vm.fp + instr.Operand)
			if !ok {
				return CreateRuntimeError(vm.ip, "Load_FP out of range")
			}
			vm.stack.Push(v)
			vm.ip++

		case compiler.Store_GP:
			v, ok := vm.stack.Pop()
			if !ok || !vm.stack.Set(vm.gp+instr.Operand, v) {
				return CreateRuntimeError(vm.ip, "Store_GP out of range")
			}
			vm.ip++

		case compiler.Store_FP:
			v, ok := vm.stack.Pop()
			if !ok || !vm.stack.Set(vm.fp+instr.Operand, v) {
				return CreateRuntimeError(vm.ip, "Store_FP out of range")
			}
			vm.ip++

		case compiler.Read_GP:
			v, err := vm.readInput()
			if err != nil {
				return err
			}
			if !vm.stack.Set(vm.gp+instr.Operand, v) {
				return CreateRuntimeError(vm.ip, "Read_GP out of range")
			}
			vm.ip++

		case compiler.Read_FP:
			v, err := vm.readInput()
			if err != nil {
				return err
			}
			if !vm.stack.Set(vm.fp+instr.Operand, v) {
				return CreateRuntimeError(vm.ip, "Read_FP out of range")
			}
			vm.ip++

		case compiler.Jsr:
			addr := ins[vm.ip+1].Operand
			vm.frames = append(vm.frames, callFrame{returnIP: vm.ip + 2, savedFP: vm.fp})
			vm.stack.Push(0) // reserved return-context slot, offset -1 from the new FP
			vm.stack.Push(0) // frame-base slot at offset 0; the first local lands at +1
			vm.fp = len(vm.stack) - 1
			vm.ip = addr

		case compiler.Jump:
			vm.ip = ins[vm.ip+1].Operand

		case compiler.Jeq:
			if vm.flag == signZero {
				vm.ip = ins[vm.ip+1].Operand
			} else {
				vm.ip += 2
			}

		case compiler.Jlt:
			if vm.flag == signNegative {
				vm.ip = ins[vm.ip+1].Operand
			} else {
				vm.ip += 2
			}

		case compiler.Loadi:
			vm.stack.Push(int64(ins[vm.ip+1].Operand))
			vm.ip += 2

		case compiler.Pop:
			n := ins[vm.ip+1].Operand
			if len(vm.stack) < n {
				return CreateRuntimeError(vm.ip, "Pop count exceeds stack size")
			}
			vm.stack.Truncate(len(vm.stack) - n)
			vm.ip += 2

		case compiler.Word:
			return CreateRuntimeError(vm.ip, "instruction pointer landed on a Word slot")

		default:
			return CreateRuntimeError(vm.ip, "unknown opcode in instruction stream")
		}
	}
}

func (vm *VM) binaryArith(op compiler.Opcode) error {
	b, ok1 := vm.stack.Pop()
	a, ok2 := vm.stack.Pop()
	if !ok1 || !ok2 {
		return CreateRuntimeError(vm.ip, "stack underflow in binary operator")
	}
	switch op {
	case compiler.Add:
		vm.stack.Push(a + b)
	case compiler.Sub:
		vm.stack.Push(a - b)
	case compiler.Mul:
		vm.stack.Push(a * b)
	}
	return nil
}

func (vm *VM) readInput() (int64, error) {
	if vm.inCur >= len(vm.input) {
		return 0, CreateRuntimeError(vm.ip, "read past end of input")
	}
	v := vm.input[vm.inCur]
	vm.inCur++
	return v, nil
}

type sign int

const (
	signZero sign = iota
	signPositive
	signNegative
)

func signOf(v int64) sign {
	switch {
	case v == 0:
		return signZero
	case v < 0:
		return signNegative
	default:
		return signPositive
	}
}
