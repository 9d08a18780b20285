package cpu

import (
	"fmt"
	"iter"
)

// Register is a fixed width register. Every mutation is masked to Bits.
type Register struct {
	bits  uint
	value Word
}

// NewRegister creates a cleared register of the given width in bits.
func NewRegister(bits uint) Register {
	return Register{bits: bits}
}

// Bits is the register width.
func (reg *Register) Bits() uint {
	return reg.bits
}

func (reg *Register) mask() Word {
	if reg.bits >= WORD_BITS {
		return WORD_MASK
	}
	return Word(1<<reg.bits) - 1
}

func (reg *Register) msb() Word {
	return Word(1 << (reg.bits - 1))
}

// Get the register value.
func (reg *Register) Get() Word {
	return reg.value
}

// Set the register, discarding bits beyond its width.
func (reg *Register) Set(value Word) {
	reg.value = value & reg.mask()
}

// Clear the register.
func (reg *Register) Clear() {
	reg.value = 0
}

// Increment the register, wrapping at its width.
func (reg *Register) Increment() {
	reg.Set(reg.value + 1)
}

// And the register with value.
func (reg *Register) And(value Word) {
	reg.Set(reg.value & value)
}

// Add value to the register, and return the carry out of its width.
func (reg *Register) Add(value Word) (carry Word) {
	sum := uint32(reg.value) + uint32(value&reg.mask())
	if sum > uint32(reg.mask()) {
		carry = 1
	}
	reg.Set(Word(sum))
	return
}

// Complement all bits of the register.
func (reg *Register) Complement() {
	reg.Set(^reg.value)
}

// ShiftRight shifts in 'in' at the MSB, and returns the bit shifted out of the LSB.
func (reg *Register) ShiftRight(in Word) (out Word) {
	out = reg.value & 1
	value := reg.value >> 1
	if in&1 != 0 {
		value |= reg.msb()
	}
	reg.Set(value)
	return
}

// ShiftLeft shifts in 'in' at the LSB, and returns the bit shifted out of the MSB.
func (reg *Register) ShiftLeft(in Word) (out Word) {
	if reg.value&reg.msb() != 0 {
		out = 1
	}
	reg.Set((reg.value << 1) | (in & 1))
	return
}

// Registers of the basic computer.
type Registers struct {
	AC Register // Accumulator.
	AR Register // Address register.
	DR Register // Data register.
	IR Register // Instruction register.
	PC Register // Program counter.
	TR Register // Temporary register.
	E  Register // Extended carry.
	SC Register // Sequence counter.

	INPR Register // Input register.
	OUTR Register // Output register.
	IEN  Register // Interrupt enable.
	FGI  Register // Input flag.
	FGO  Register // Output flag.
	R    Register // Interrupt pending.

	Halted bool // Set when the machine has stopped.
}

// NewRegisters creates a cleared register set.
func NewRegisters() Registers {
	return Registers{
		AC:   NewRegister(16),
		AR:   NewRegister(12),
		DR:   NewRegister(16),
		IR:   NewRegister(16),
		PC:   NewRegister(12),
		TR:   NewRegister(16),
		E:    NewRegister(1),
		SC:   NewRegister(3),
		INPR: NewRegister(8),
		OUTR: NewRegister(8),
		IEN:  NewRegister(1),
		FGI:  NewRegister(1),
		FGO:  NewRegister(1),
		R:    NewRegister(1),
	}
}

// Reset clears every register and the halt flag.
func (regs *Registers) Reset() {
	for _, reg := range regs.refs() {
		reg.Clear()
	}
	regs.Halted = false
}

var registerNames = []string{
	"ac", "ar", "dr", "ir", "pc", "tr", "e", "sc",
	"inpr", "outr", "ien", "fgi", "fgo", "r",
}

func (regs *Registers) refs() []*Register {
	return []*Register{
		&regs.AC, &regs.AR, &regs.DR, &regs.IR, &regs.PC, &regs.TR, &regs.E, &regs.SC,
		&regs.INPR, &regs.OUTR, &regs.IEN, &regs.FGI, &regs.FGO, &regs.R,
	}
}

// All iterates over the registers by name, in display order.
func (regs *Registers) All() iter.Seq2[string, *Register] {
	return func(yield func(name string, reg *Register) bool) {
		for n, reg := range regs.refs() {
			if !yield(registerNames[n], reg) {
				return
			}
		}
	}
}

// String returns the register state as a string.
func (regs *Registers) String() (text string) {
	for name, reg := range regs.All() {
		digits := int(reg.Bits()+3) / 4
		text += fmt.Sprintf("% 5s: %0*X\n", name, digits, reg.Get())
	}
	halted := "false"
	if regs.Halted {
		halted = "true"
	}
	text += fmt.Sprintf("% 5s: %v\n", "halt", halted)
	return
}
