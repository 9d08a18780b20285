package cpu

import (
	"fmt"
	"maps"
	"math/bits"
	"slices"
)

// CodeClass is the class of an instruction word.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	CLASS_MRI = CodeClass(0) // mri
	CLASS_RRI = CodeClass(1) // rri
	CLASS_IO  = CodeClass(2) // io
)

// CodeOp is the 3-bit operation field of an instruction word.
type CodeOp int

const (
	OP_AND      = CodeOp(0)
	OP_ADD      = CodeOp(1)
	OP_LDA      = CodeOp(2)
	OP_STA      = CodeOp(3)
	OP_BUN      = CodeOp(4)
	OP_BSA      = CodeOp(5)
	OP_ISZ      = CodeOp(6)
	OP_REGISTER = CodeOp(7) // Register-reference (I=0) or input/output (I=1).
)

const (
	CODE_INDIRECT = Code(0x8000) // Indirect addressing bit.
	CODE_OP_SHIFT = 12           // Position of the operation field.
)

// Code is an encoded instruction word.
type Code Word

// Mnemonic tables. Built once, never written.
var (
	mriTable = map[string]Code{
		"AND": 0x0000,
		"ADD": 0x1000,
		"LDA": 0x2000,
		"STA": 0x3000,
		"BUN": 0x4000,
		"BSA": 0x5000,
		"ISZ": 0x6000,
	}

	rriTable = map[string]Code{
		"CLA": 0x7800,
		"CLE": 0x7400,
		"CMA": 0x7200,
		"CME": 0x7100,
		"CIR": 0x7080,
		"CIL": 0x7040,
		"INC": 0x7020,
		"SPA": 0x7010,
		"SNA": 0x7008,
		"SZA": 0x7004,
		"SZE": 0x7002,
		"HLT": 0x7001,
	}

	ioTable = map[string]Code{
		"INP": 0xf800,
		"OUT": 0xf400,
		"SKI": 0xf200,
		"SKO": 0xf100,
		"ION": 0xf080,
		"IOF": 0xf040,
	}

	pseudoTable = map[string]bool{
		"ORG": true,
		"END": true,
		"DEC": true,
		"HEX": true,
	}

	mriNames = invert(mriTable)
	rriNames = invert(rriTable)
	ioNames  = invert(ioTable)
)

func invert(table map[string]Code) map[Code]string {
	names := make(map[Code]string, len(table))
	for name, code := range table {
		names[code] = name
	}
	return names
}

// Reserved returns true if word is a mnemonic or pseudo-op name.
func Reserved(word string) bool {
	_, mri := mriTable[word]
	_, rri := rriTable[word]
	_, io := ioTable[word]
	return mri || rri || io || pseudoTable[word]
}

// Mnemonics returns the sorted mnemonics of an instruction class.
func Mnemonics(class CodeClass) []string {
	var table map[string]Code
	switch class {
	case CLASS_MRI:
		table = mriTable
	case CLASS_RRI:
		table = rriTable
	case CLASS_IO:
		table = ioTable
	}
	return slices.Sorted(maps.Keys(table))
}

// MakeCodeMri creates a memory-reference instruction.
func MakeCodeMri(op CodeOp, address Word, indirect bool) Code {
	code := Code(op)<<CODE_OP_SHIFT | Code(address&ADDRESS_MASK)
	if indirect {
		code |= CODE_INDIRECT
	}
	return code
}

// Op returns the operation field.
func (code Code) Op() CodeOp {
	return CodeOp((code >> CODE_OP_SHIFT) & 0x7)
}

// Indirect returns true if the indirect bit is set.
func (code Code) Indirect() bool {
	return (code & CODE_INDIRECT) != 0
}

// Address returns the address field.
func (code Code) Address() Word {
	return Word(code) & ADDRESS_MASK
}

// Class returns the instruction class.
func (code Code) Class() CodeClass {
	switch {
	case code.Op() != OP_REGISTER:
		return CLASS_MRI
	case code.Indirect():
		return CLASS_IO
	default:
		return CLASS_RRI
	}
}

// Valid returns true if the word decodes to an instruction.
// Register-reference and input/output words need exactly one known
// operation bit.
func (code Code) Valid() bool {
	switch code.Class() {
	case CLASS_RRI:
		_, ok := rriNames[code]
		return ok
	case CLASS_IO:
		_, ok := ioNames[code]
		return ok
	}
	return true
}

// Bit returns the index of the operation bit of a register-reference or
// input/output word, or -1 when there is not exactly one.
func (code Code) Bit() int {
	low := uint16(code) & ADDRESS_MASK
	if bits.OnesCount16(low) != 1 {
		return -1
	}
	return bits.TrailingZeros16(low)
}

// Mnemonic returns the instruction mnemonic, or "" for an illegal word.
func (code Code) Mnemonic() string {
	switch code.Class() {
	case CLASS_MRI:
		return mriNames[code&0x7000]
	case CLASS_RRI:
		return rriNames[code]
	default:
		return ioNames[code]
	}
}

// String disassembles the instruction word.
func (code Code) String() string {
	mnemonic := code.Mnemonic()
	switch {
	case mnemonic == "":
		return fmt.Sprintf("??? %04X", uint16(code))
	case code.Class() != CLASS_MRI:
		return mnemonic
	case code.Indirect():
		return fmt.Sprintf("%v %03X I", mnemonic, uint16(code.Address()))
	default:
		return fmt.Sprintf("%v %03X", mnemonic, uint16(code.Address()))
	}
}
