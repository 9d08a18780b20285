package cpu

import (
	"iter"
)

// Opcode is one assembled word with the source line it came from.
type Opcode struct {
	LineNo  int
	Line    string
	Address Word
	Code    Code
}

// Program is an assembled program, in address order.
type Program struct {
	Origin  Word // Address of the first statement; the start PC.
	Opcodes []Opcode
}

// Reset empties the program.
func (prog *Program) Reset() {
	prog.Origin = 0
	prog.Opcodes = nil
}

// Len is the number of assembled words.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Debug returns the opcode assembled at addr.
func (prog *Program) Debug(addr Word) (op *Opcode, ok bool) {
	for n := range prog.Opcodes {
		if prog.Opcodes[n].Address == addr {
			return &prog.Opcodes[n], true
		}
	}

	return
}

// Codes iterates over the (address, code) pairs.
func (prog *Program) Codes() iter.Seq2[Word, Code] {
	return func(yield func(addr Word, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Address, op.Code) {
				return
			}
		}
	}
}
