// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package machine is the aggregate owner of a basic computer: CPU state,
// the source program, its assembly and the message log.
//
// A Machine is driven by a single caller. Tick and Assemble do no I/O and
// never block; auto-run and device polling belong to the caller's loop.
package machine

import (
	"bufio"
	"io"
	"slices"

	"github.com/ezrec/mano/cpu"
	"github.com/ezrec/mano/message"
)

// SOURCE_MACHINE tags messages emitted by the machine itself.
const SOURCE_MACHINE = "machine"

// State is a read-only snapshot of registers and memory.
type State struct {
	Registers cpu.Registers
	Memory    cpu.Memory
}

// Machine state. CPU + source + assembly + log.
type Machine struct {
	Cpu       *cpu.Cpu       // Registers and memory.
	Assembler *cpu.Assembler // Symbol table and assembled program.

	source []string
	log    *message.Log
}

// NewMachine creates an empty machine.
func NewMachine() (mach *Machine) {
	mach = &Machine{
		Cpu:       cpu.NewCpu(),
		Assembler: &cpu.Assembler{},
		log:       message.New(SOURCE_MACHINE),
	}

	mach.Assembler.Reset()

	return
}

// record appends log to the machine log, and returns it.
func (mach *Machine) record(log *message.Log) *message.Log {
	mach.log.Combine(log)
	return log
}

// LoadProgram installs a source program, discarding the symbol table and
// assembled program of the previous one.
func (mach *Machine) LoadProgram(lines []string) (log *message.Log) {
	log = message.New(SOURCE_MACHINE)

	mach.source = slices.Clone(lines)
	mach.Assembler.Reset()

	log.Info("program loaded, %d lines", len(mach.source))

	return mach.record(log)
}

// LoadSource reads a source program, one line per statement.
func (mach *Machine) LoadSource(input io.Reader) (log *message.Log, err error) {
	var lines []string

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	log = mach.LoadProgram(lines)
	return
}

// Assemble the loaded source program. The assembled words are then
// installed: registers and memory are cleared, each word is written, and
// PC is set to the program origin. Partial output is installed too; callers
// check the log for errors before ticking.
func (mach *Machine) Assemble() (log *message.Log) {
	log = mach.Assembler.Assemble(mach.source)
	log.Combine(mach.install())

	return mach.record(log)
}

// install loads the assembled program into a cleared CPU.
func (mach *Machine) install() (log *message.Log) {
	log = message.New(SOURCE_MACHINE)

	mach.Cpu.Reset()

	prog := &mach.Assembler.Program
	for addr, code := range prog.Codes() {
		err := mach.Cpu.Memory.Write(int(addr), cpu.Word(code))
		if err != nil {
			log.Error(err)
			continue
		}
	}
	mach.Cpu.PC.Set(prog.Origin)

	log.Debug("installed %d words, PC at 0x%03X", prog.Len(), uint16(prog.Origin))

	return
}

// Tick advances the CPU by one micro-step. Runtime errors carry the source
// line of the executing instruction.
func (mach *Machine) Tick(debug bool) (log *message.Log) {
	lineno := mach.LineNo()

	steplog := mach.Cpu.Tick(debug)

	log = message.New(steplog.Source)
	for msg := range steplog.All() {
		if msg.Level == message.LEVEL_ERROR && lineno != 0 {
			err := &ErrRuntime{LineNo: lineno, Err: msg.Err}
			msg.Text = err.Error()
			msg.Err = err
		}
		log.Add(msg)
	}

	return mach.record(log)
}

// State returns a copy of the registers and memory.
func (mach *Machine) State() State {
	return State{
		Registers: mach.Cpu.Registers,
		Memory:    mach.Cpu.Memory,
	}
}

// Reset zeros memory and registers, clears the halt flag and the log.
// The source, symbol table and assembled program are kept.
func (mach *Machine) Reset() {
	mach.Cpu.Reset()
	mach.log.Clear()
}

// Restart resets the machine, and installs the assembled program again.
func (mach *Machine) Restart() (log *message.Log) {
	mach.Reset()
	return mach.record(mach.install())
}

// Prime loads and assembles a source program, ready to run.
func (mach *Machine) Prime(lines []string) (log *message.Log) {
	log = message.New(SOURCE_MACHINE)
	log.Combine(mach.LoadProgram(lines))
	log.Combine(mach.Assemble())
	return
}

// Halted returns true once the machine has stopped.
func (mach *Machine) Halted() bool {
	return mach.Cpu.Halted
}

// Log returns the messages accumulated since the last Reset.
func (mach *Machine) Log() []message.Message {
	return mach.log.Entries()
}

// Source returns the loaded source program.
func (mach *Machine) Source() []string {
	return slices.Clone(mach.source)
}

// Symbols returns the symbol table of the last assembly.
func (mach *Machine) Symbols() cpu.SymbolTable {
	return mach.Assembler.Symbols
}

// Program returns the last assembled program.
func (mach *Machine) Program() *cpu.Program {
	return &mach.Assembler.Program
}

// LineNo returns the source line of the instruction being executed, or
// about to be fetched. Returns 0 when the address holds no assembled word.
func (mach *Machine) LineNo() int {
	addr := mach.Cpu.PC.Get()
	if mach.Cpu.SC.Get() != 0 {
		// Fetched already; PC has moved on.
		addr = (addr - 1) & cpu.ADDRESS_MASK
	}

	op, ok := mach.Assembler.Program.Debug(addr)
	if !ok {
		return 0
	}

	return op.LineNo
}

// Feed delivers an input character. Returns false while the previous one
// is still pending.
func (mach *Machine) Feed(value byte) bool {
	return mach.Cpu.Feed(value)
}

// Drain takes an output character, if one is pending.
func (mach *Machine) Drain() (value byte, ok bool) {
	return mach.Cpu.Drain()
}
