// Package cpu implements the processor and assembler of the basic computer.
//
// The CPU has 4096 words of 16-bit memory, a 16-bit accumulator (AC) with
// its carry flip-flop (E), 12-bit address and program counter registers
// (AR, PC), the data, instruction and temporary registers (DR, IR, TR), and
// the character I/O registers and flags (INPR, OUTR, FGI, FGO, IEN, R).
// Execution is modelled one micro-step at a time, keyed by the 3-bit
// sequence counter SC.
//
// The assembler is a two pass assembler for the symbolic language of the
// machine: memory-reference, register-reference and input/output
// mnemonics, labels, the ORG, END, DEC and HEX pseudo-ops, and
// compile-time $(...) expressions over bound labels.
package cpu
