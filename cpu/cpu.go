package cpu

import (
	"github.com/ezrec/mano/message"
)

// SOURCE_CPU tags messages emitted by the execution engine.
const SOURCE_CPU = "cpu"

// Cpu is the simulation context for the basic computer: registers and memory.
//
// Tick advances the machine by one micro-step, keyed by the sequence
// counter SC:
//   - SC=0: fetch (or interrupt cycle when R is set)
//   - SC=1: decode and effective address
//   - SC>=2: execute
type Cpu struct {
	Registers
	Memory Memory

	outputPending bool // OUTR holds a character not yet taken by a device.
}

// NewCpu creates a new cleared CPU.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Registers: NewRegisters(),
	}

	return
}

// Reset clears registers and memory.
func (cpu *Cpu) Reset() {
	cpu.Registers.Reset()
	cpu.Memory.Reset()
	cpu.outputPending = false
}

// step is the context of a single micro-step.
type step struct {
	*Cpu
	log   *message.Log
	debug bool
}

// trace emits the register transfer description of the step.
func (st *step) trace(format string, args ...any) {
	if st.debug {
		st.log.Debug(format, args...)
	}
}

// halt stops the machine on a runtime error.
func (st *step) halt(err error) {
	st.log.Error(err)
	st.Halted = true
	st.SC.Clear()
}

// read M[AR].
func (st *step) read() (value Word, ok bool) {
	value, err := st.Memory.Read(int(st.AR.Get()))
	if err != nil {
		st.halt(err)
		return
	}
	return value, true
}

// write M[AR].
func (st *step) write(value Word) (ok bool) {
	err := st.Memory.Write(int(st.AR.Get()), value)
	if err != nil {
		st.halt(err)
		return
	}
	return true
}

// done ends the current instruction, and raises the interrupt request
// when enabled and a flag is up.
func (st *step) done() {
	st.SC.Clear()
	if st.IEN.Get() == 1 && (st.FGI.Get() == 1 || st.FGO.Get() == 1) {
		st.trace("IEN(FGI + FGO): R <- 1")
		st.R.Set(1)
	}
}

// Tick executes a single micro-step of the instruction cycle.
// The returned log is empty when there is nothing to report and debug is
// false.
func (cpu *Cpu) Tick(debug bool) (log *message.Log) {
	log = message.New(SOURCE_CPU)

	if cpu.Halted {
		log.Info("already halted at 0x%03X", uint16(cpu.PC.Get()))
		return
	}

	st := &step{Cpu: cpu, log: log, debug: debug}

	sc := cpu.SC.Get()
	switch {
	case cpu.R.Get() == 1 && sc < 3:
		st.interrupt(sc)
	case sc == 0:
		st.fetch()
	case sc == 1:
		st.decode()
	default:
		st.execute(sc)
	}

	return
}

func (st *step) interrupt(sc Word) {
	switch sc {
	case 0:
		st.trace("RT0: AR <- 0, TR <- PC")
		st.AR.Clear()
		st.TR.Set(st.PC.Get())
		st.SC.Increment()
	case 1:
		st.trace("RT1: M[AR] <- TR, PC <- 0")
		if !st.write(st.TR.Get()) {
			return
		}
		st.PC.Clear()
		st.SC.Increment()
	case 2:
		st.trace("RT2: PC <- PC + 1, IEN <- 0, R <- 0, SC <- 0")
		st.PC.Increment()
		st.IEN.Clear()
		st.R.Clear()
		st.SC.Clear()
	}
}

func (st *step) fetch() {
	st.AR.Set(st.PC.Get())
	value, ok := st.read()
	if !ok {
		return
	}
	st.IR.Set(value)
	st.PC.Increment()
	st.SC.Increment()
	if st.debug {
		st.log.Debug("fetch 0x%03X: %04X %v", uint16(st.AR.Get()), uint16(value), Code(value))
	}
	st.trace("SC0: AR <- PC, IR <- M[AR], PC <- PC + 1")
}

func (st *step) decode() {
	code := Code(st.IR.Get())

	if !code.Valid() {
		st.halt(ErrOpcode(code))
		return
	}

	if code.Class() != CLASS_MRI {
		st.trace("SC1: decode %v", code.Class())
		st.SC.Increment()
		return
	}

	st.trace("SC1: AR <- IR(0-11)")
	st.AR.Set(code.Address())
	if code.Indirect() {
		st.trace("SC1: AR <- M[AR]")
		value, ok := st.read()
		if !ok {
			return
		}
		st.AR.Set(value)
	}
	st.SC.Increment()
}

func (st *step) execute(sc Word) {
	code := Code(st.IR.Get())

	switch code.Class() {
	case CLASS_MRI:
		st.executeMri(code.Op(), sc)
	case CLASS_RRI:
		st.executeRri(code.Bit())
	case CLASS_IO:
		st.executeIo(code.Bit())
	}
}

// executeMri runs the memory-reference micro-operations from SC2.
func (st *step) executeMri(op CodeOp, sc Word) {
	switch op {
	case OP_AND, OP_ADD, OP_LDA, OP_ISZ:
		if sc == 2 {
			st.trace("%v SC2: DR <- M[AR]", mriNames[Code(op)<<CODE_OP_SHIFT])
			value, ok := st.read()
			if !ok {
				return
			}
			st.DR.Set(value)
			st.SC.Increment()
			return
		}
	}

	switch op {
	case OP_AND:
		st.trace("AND SC3: AC <- AC & DR, SC <- 0")
		st.AC.And(st.DR.Get())
		st.done()
	case OP_ADD:
		st.trace("ADD SC3: AC <- AC + DR, E <- Cout, SC <- 0")
		st.E.Set(st.AC.Add(st.DR.Get()))
		st.done()
	case OP_LDA:
		st.trace("LDA SC3: AC <- DR, SC <- 0")
		st.AC.Set(st.DR.Get())
		st.done()
	case OP_STA:
		st.trace("STA SC2: M[AR] <- AC, SC <- 0")
		if !st.write(st.AC.Get()) {
			return
		}
		st.done()
	case OP_BUN:
		st.trace("BUN SC2: PC <- AR, SC <- 0")
		st.PC.Set(st.AR.Get())
		st.done()
	case OP_BSA:
		if sc == 2 {
			st.trace("BSA SC2: M[AR] <- PC, AR <- AR + 1")
			if !st.write(st.PC.Get()) {
				return
			}
			st.AR.Increment()
			st.SC.Increment()
			return
		}
		st.trace("BSA SC3: PC <- AR, SC <- 0")
		st.PC.Set(st.AR.Get())
		st.done()
	case OP_ISZ:
		if sc == 3 {
			st.trace("ISZ SC3: DR <- DR + 1")
			st.DR.Increment()
			st.SC.Increment()
			return
		}
		st.trace("ISZ SC4: M[AR] <- DR, if (DR = 0) then (PC <- PC + 1), SC <- 0")
		if !st.write(st.DR.Get()) {
			return
		}
		if st.DR.Get() == 0 {
			st.PC.Increment()
		}
		st.done()
	}
}

// executeRri runs a register-reference instruction, selected by its
// operation bit, in a single step.
func (st *step) executeRri(bit int) {
	switch bit {
	case 11:
		st.trace("CLA SC2: AC <- 0")
		st.AC.Clear()
	case 10:
		st.trace("CLE SC2: E <- 0")
		st.E.Clear()
	case 9:
		st.trace("CMA SC2: AC <- AC'")
		st.AC.Complement()
	case 8:
		st.trace("CME SC2: E <- E'")
		st.E.Complement()
	case 7:
		st.trace("CIR SC2: AC <- shr AC, AC(15) <- E, E <- AC(0)")
		st.E.Set(st.AC.ShiftRight(st.E.Get()))
	case 6:
		st.trace("CIL SC2: AC <- shl AC, AC(0) <- E, E <- AC(15)")
		st.E.Set(st.AC.ShiftLeft(st.E.Get()))
	case 5:
		st.trace("INC SC2: AC <- AC + 1")
		st.AC.Increment()
	case 4:
		st.trace("SPA SC2: if (AC(15) = 0) then (PC <- PC + 1)")
		if st.AC.Get().Signed() >= 0 {
			st.PC.Increment()
		}
	case 3:
		st.trace("SNA SC2: if (AC(15) = 1) then (PC <- PC + 1)")
		if st.AC.Get().Signed() < 0 {
			st.PC.Increment()
		}
	case 2:
		st.trace("SZA SC2: if (AC = 0) then (PC <- PC + 1)")
		if st.AC.Get() == 0 {
			st.PC.Increment()
		}
	case 1:
		st.trace("SZE SC2: if (E = 0) then (PC <- PC + 1)")
		if st.E.Get() == 0 {
			st.PC.Increment()
		}
	case 0:
		st.trace("HLT SC2: S <- 0")
		st.Halted = true
		st.SC.Clear()
		st.log.Info("halted at 0x%03X", uint16(st.PC.Get()-1)&ADDRESS_MASK)
		return
	}

	st.done()
}

// executeIo runs an input/output instruction, selected by its operation
// bit, in a single step.
func (st *step) executeIo(bit int) {
	switch bit {
	case 11:
		st.trace("INP SC2: AC(0-7) <- INPR, FGI <- 0")
		st.AC.Set((st.AC.Get() &^ 0xff) | st.INPR.Get())
		st.FGI.Clear()
	case 10:
		st.trace("OUT SC2: OUTR <- AC(0-7), FGO <- 0")
		st.OUTR.Set(st.AC.Get())
		st.FGO.Clear()
		st.outputPending = true
	case 9:
		st.trace("SKI SC2: if (FGI = 1) then (PC <- PC + 1)")
		if st.FGI.Get() == 1 {
			st.PC.Increment()
		}
	case 8:
		st.trace("SKO SC2: if (FGO = 1) then (PC <- PC + 1)")
		if st.FGO.Get() == 1 {
			st.PC.Increment()
		}
	case 7:
		st.trace("ION SC2: IEN <- 1")
		st.IEN.Set(1)
	case 6:
		st.trace("IOF SC2: IEN <- 0")
		st.IEN.Clear()
	}

	st.done()
}

// Feed delivers an input character to INPR. Returns false, leaving the
// registers alone, while the previous character has not been taken by INP.
func (cpu *Cpu) Feed(value byte) (ok bool) {
	if cpu.FGI.Get() == 1 {
		return
	}

	cpu.INPR.Set(Word(value))
	cpu.FGI.Set(1)
	return true
}

// Drain takes the character left in OUTR by OUT, and marks the output
// device ready.
func (cpu *Cpu) Drain() (value byte, ok bool) {
	cpu.FGO.Set(1)
	if !cpu.outputPending {
		return
	}

	cpu.outputPending = false
	return byte(cpu.OUTR.Get()), true
}
