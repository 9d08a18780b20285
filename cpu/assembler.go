// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/mano/message"
)

// SOURCE_ASM tags messages emitted by the assembler.
const SOURCE_ASM = "asm"

const (
	DEC_MIN = -0x8000 // Smallest DEC literal.
	DEC_MAX = 0x7fff  // Largest DEC literal.
	HEX_MIN = 0       // Smallest HEX literal.
	HEX_MAX = 0xffff  // Largest HEX literal.
)

// Assembler is a two pass assembler for the basic computer.
//
// PassOne assigns addresses and binds labels, PassTwo encodes. Neither pass
// stops at the first error; all diagnostics are collected in the returned
// logs, and whatever could be encoded is kept in Program.
type Assembler struct {
	Symbols SymbolTable // Labels bound by PassOne.
	Program Program     // Words encoded by PassTwo.

	origins map[int]Word // ORG addresses by line number, from PassOne.
}

// Reset discards the symbol table and the assembled program.
func (asm *Assembler) Reset() {
	asm.Symbols = SymbolTable{}
	asm.Program.Reset()
	asm.origins = nil
}

// Assemble runs both passes over source. The log holds the diagnostics of
// pass one followed by those of pass two.
func (asm *Assembler) Assemble(source []string) (log *message.Log) {
	log = message.New(SOURCE_ASM)

	if len(source) == 0 {
		asm.Reset()
		log.Error(ErrProgramEmpty)
		return
	}

	log.Combine(asm.PassOne(source))
	log.Combine(asm.PassTwo(source))

	errs := log.ErrorCount()
	switch errs {
	case 0:
		log.Info("assembled %d words, start at 0x%03X", asm.Program.Len(), uint16(asm.Program.Origin))
	case 1:
		log.Info("encountered 1 error")
	default:
		log.Info("encountered %d errors", errs)
	}

	return
}

// sourceError locates err at a source line.
func sourceError(lineno int, text string, err error) error {
	return &ErrSource{LineNo: lineno, Line: strings.TrimSpace(text), Err: err}
}

// PassOne walks the source, assigning an address to every statement and
// binding labels in Symbols. Unknown mnemonics are not reported here.
func (asm *Assembler) PassOne(source []string) (log *message.Log) {
	log = message.New(SOURCE_ASM)

	asm.Symbols = SymbolTable{}
	asm.origins = map[int]Word{}

	lc := 0
	for n, text := range source {
		lineno := n + 1

		ln, err := parseLine(text)
		if err != nil {
			log.Error(sourceError(lineno, text, err))
			continue
		}

		if ln.Empty() {
			continue
		}

		switch ln.Op() {
		case "END":
			if ln.HasLabel {
				log.Error(sourceError(lineno, text, syntaxError(ErrLabelNotAllowed)))
			}
			log.Debug("END of symbolic program at line %v", strconv.Itoa(lineno))
			return
		case "ORG":
			origin, err := asm.origin(&ln)
			if err != nil {
				log.Error(sourceError(lineno, text, err))
				continue
			}
			lc = int(origin)
			asm.origins[lineno] = origin
			log.Debug("ORG 0x%03X at line %v", uint16(origin), strconv.Itoa(lineno))
			continue
		}

		if lc > ADDRESS_MASK {
			log.Error(sourceError(lineno, text, ErrAddress(lc)))
			lc++
			continue
		}

		if ln.HasLabel {
			err = asm.Symbols.Bind(ln.Label, Word(lc))
			if err != nil {
				log.Error(sourceError(lineno, text, err))
			} else {
				log.Debug("label %v at line %v, address 0x%03X", ln.Label, strconv.Itoa(lineno), lc)
			}
		}

		if len(ln.Mnemonic) != 0 {
			lc++
		}
	}

	log.Debug("no END in symbolic program")

	return
}

// origin evaluates the address of an ORG statement.
func (asm *Assembler) origin(ln *line) (origin Word, err error) {
	switch {
	case ln.HasLabel:
		err = syntaxError(ErrLabelNotAllowed)
		return
	case len(ln.Operand) == 0:
		err = syntaxError(ErrOperandMissing)
		return
	case ln.Indirect():
		err = syntaxError(ErrIndirectExtra)
		return
	}

	value, err := asm.valueOf(ln.Operand, 16)
	if err != nil {
		return
	}

	if value < 0 || value > ADDRESS_MASK {
		err = ErrAddress(value)
		return
	}

	origin = Word(value)
	return
}

// PassTwo walks the source again with the addresses of PassOne, and
// encodes every statement into Program.
func (asm *Assembler) PassTwo(source []string) (log *message.Log) {
	log = message.New(SOURCE_ASM)

	asm.Program.Reset()
	if asm.Symbols == nil {
		asm.Symbols = SymbolTable{}
	}

	lc := 0
	started := false

walk:
	for n, text := range source {
		lineno := n + 1

		// Lines that do not parse were reported by PassOne.
		ln, err := parseLine(text)
		if err != nil || len(ln.Mnemonic) == 0 {
			continue
		}

		switch ln.Op() {
		case "END":
			break walk
		case "ORG":
			origin, ok := asm.origins[lineno]
			if ok {
				lc = int(origin)
			}
			continue
		}

		addr := lc
		lc++

		if !started {
			asm.Program.Origin = Word(addr & ADDRESS_MASK)
			started = true
		}

		if addr > ADDRESS_MASK {
			continue
		}

		code, err := asm.encode(&ln)
		if err != nil {
			log.Error(sourceError(lineno, text, err))
			continue
		}

		asm.Program.Opcodes = append(asm.Program.Opcodes, Opcode{
			LineNo:  lineno,
			Line:    text,
			Address: Word(addr),
			Code:    code,
		})
		log.Debug("line %v: %v -> 0x%03X: %04X", strconv.Itoa(lineno), ln.Op(), addr, uint16(code))
	}

	slices.SortStableFunc(asm.Program.Opcodes, func(a, b Opcode) int {
		return cmp.Compare(a.Address, b.Address)
	})

	return
}

// encode a single statement.
func (asm *Assembler) encode(ln *line) (code Code, err error) {
	op := ln.Op()

	if op == "DEC" || op == "HEX" {
		return asm.encodeData(ln)
	}

	if base, ok := mriTable[op]; ok {
		return asm.encodeMri(ln, base)
	}

	base, ok := rriTable[op]
	if !ok {
		base, ok = ioTable[op]
	}
	if !ok {
		err = ErrMnemonic(ln.Mnemonic)
		return
	}

	if len(ln.Operand) != 0 {
		err = syntaxError(ErrOperandExtra)
		return
	}

	code = base
	return
}

// encodeData encodes the DEC and HEX pseudo-ops.
func (asm *Assembler) encodeData(ln *line) (code Code, err error) {
	switch {
	case len(ln.Operand) == 0:
		err = syntaxError(ErrOperandMissing)
		return
	case ln.Indirect():
		err = syntaxError(ErrIndirectExtra)
		return
	}

	base, lo, hi := 10, DEC_MIN, DEC_MAX
	if ln.Op() == "HEX" {
		base, lo, hi = 16, HEX_MIN, HEX_MAX
	}

	value, err := asm.valueOf(ln.Operand, base)
	if err != nil {
		return
	}

	if value < int64(lo) || value > int64(hi) {
		err = &ErrOperand{Operand: ln.Operand, Min: lo, Max: hi}
		return
	}

	code = Code(uint16(value))
	return
}

// encodeMri encodes a memory-reference instruction. The operand is a label,
// or a $(...) address expression.
func (asm *Assembler) encodeMri(ln *line, base Code) (code Code, err error) {
	if len(ln.Operand) == 0 {
		err = syntaxError(ErrOperandMissing)
		return
	}

	var addr Word
	if _, ok := expression(ln.Operand); ok {
		var value int64
		value, err = asm.valueOf(ln.Operand, 16)
		if err != nil {
			return
		}
		if value < 0 || value > ADDRESS_MASK {
			err = &ErrOperand{Operand: ln.Operand, Min: 0, Max: ADDRESS_MASK}
			return
		}
		addr = Word(value)
	} else {
		var ok bool
		addr, ok = asm.Symbols.Lookup(ln.Operand)
		if !ok {
			err = ErrLabelMissing(ln.Operand)
			return
		}
	}

	code = MakeCodeMri(base.Op(), addr, ln.Indirect())
	return
}
