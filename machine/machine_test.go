package machine

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mano/cpu"
	"github.com/ezrec/mano/io"
	"github.com/ezrec/mano/message"
)

var programAdd = []string{
	"      LDA A",
	"      ADD B",
	"      STA C",
	"      HLT",
	"A,    DEC 83",
	"B,    DEC -23",
	"C,    DEC 0",
	"      END",
}

// run ticks until the machine halts, checking the source line of every
// instruction fetch.
func run(mach *Machine, limit int, t *testing.T) (ticks int) {
	assert := assert.New(t)

	for ticks = 0; ticks < limit && !mach.Halted(); ticks++ {
		if mach.Cpu.SC.Get() == 0 {
			pc := mach.Cpu.PC.Get()
			op, ok := mach.Program().Debug(pc)
			if ok {
				assert.Equal(op.LineNo, mach.LineNo())
			} else {
				assert.Equal(0, mach.LineNo())
			}
		}
		log := mach.Tick(false)
		assert.Equal(0, log.ErrorCount(), mach.Cpu.String())
	}

	return
}

func TestMachine(t *testing.T) {
	assert := assert.New(t)

	mach := NewMachine()

	assert.False(mach.Halted())
	assert.Empty(mach.Log())
	assert.Empty(mach.Source())
	assert.Equal(0, mach.Program().Len())

	log := mach.Assemble()
	assert.True(errors.Is(log.Err(), cpu.ErrProgramEmpty))
	assert.Len(mach.Log(), log.Len())
}

func TestMachineRun(t *testing.T) {
	assert := assert.New(t)

	mach := NewMachine()

	log := mach.Prime(programAdd)
	assert.NoError(log.Err())
	assert.Equal(programAdd, mach.Source())

	addr, ok := mach.Symbols().Lookup("C")
	assert.True(ok)
	assert.Equal(cpu.Word(6), addr)

	state := mach.State()
	assert.Equal(cpu.Word(0x2004), state.Memory[0])
	assert.Equal(cpu.Word(0xffe9), state.Memory[5])
	assert.Equal(cpu.Word(0), state.Registers.PC.Get())

	ticks := run(mach, 100, t)
	assert.True(mach.Halted())
	assert.Equal(4+4+3+3, ticks)

	state = mach.State()
	assert.Equal(cpu.Word(60), state.Memory[6])
	assert.Equal(cpu.Word(60), state.Registers.AC.Get())
	assert.Equal(cpu.Word(4), state.Registers.PC.Get())

	// Snapshots are copies.
	state.Memory[6] = 0
	assert.Equal(cpu.Word(60), mach.State().Memory[6])

	// Ticking a halted machine changes nothing.
	regs := mach.State().Registers
	log = mach.Tick(true)
	assert.Equal(0, log.ErrorCount())
	assert.Equal(1, log.Len())
	assert.Equal(message.LEVEL_INFO, log.Entries()[0].Level)
	assert.Equal(regs, mach.State().Registers)
}

func TestMachineOrigin(t *testing.T) {
	assert := assert.New(t)

	mach := NewMachine()

	log := mach.Prime([]string{
		"      ORG 100",
		"      LDA PTR I",
		"      INC",
		"      HLT",
		"PTR,  HEX 200",
		"      ORG 200",
		"      DEC -1",
	})
	assert.NoError(log.Err())
	state := mach.State()
	assert.Equal(cpu.Word(0x100), state.Registers.PC.Get())

	run(mach, 100, t)
	assert.True(mach.Halted())
	state = mach.State()
	assert.Equal(cpu.Word(0), state.Registers.AC.Get())
	assert.Equal(cpu.Word(0x103), state.Registers.PC.Get())
}

func TestMachineReset(t *testing.T) {
	assert := assert.New(t)

	mach := NewMachine()
	mach.Prime(programAdd)
	run(mach, 100, t)
	assert.True(mach.Halted())

	mach.Reset()
	assert.False(mach.Halted())
	assert.Empty(mach.Log())
	assert.Equal(7, mach.Program().Len())
	assert.Equal(programAdd, mach.Source())

	state := mach.State()
	assert.Equal(cpu.Memory{}, state.Memory)
	for name, reg := range state.Registers.All() {
		assert.Equal(cpu.Word(0), reg.Get(), name)
	}

	log := mach.Restart()
	assert.NoError(log.Err())
	assert.Equal(cpu.Word(0x1005), mach.State().Memory[1])

	run(mach, 100, t)
	assert.Equal(cpu.Word(60), mach.State().Memory[6])
}

func TestMachineRuntimeError(t *testing.T) {
	assert := assert.New(t)

	mach := NewMachine()

	log := mach.Prime([]string{
		"      CLA",
		"      HEX 7003",
		"      HLT",
	})
	assert.NoError(log.Err())

	var errs []error
	for range 100 {
		if mach.Halted() {
			break
		}
		log = mach.Tick(false)
		if log.HasErrors() {
			errs = append(errs, log.Err())
		}
	}

	assert.True(mach.Halted())
	if assert.Len(errs, 1) {
		assert.True(errors.Is(errs[0], cpu.ErrIllegalOpcode))

		var rerr *ErrRuntime
		if assert.True(errors.As(errs[0], &rerr)) {
			assert.Equal(2, rerr.LineNo)
		}
	}

	assert.Equal(1, mach.log.ErrorCount())

	rerr := &ErrRuntime{LineNo: 1234, Err: cpu.ErrIllegalOpcode}
	assert.Equal("line 1234: illegal opcode", rerr.Error())
}

func TestMachineLoadSource(t *testing.T) {
	assert := assert.New(t)

	mach := NewMachine()

	log, err := mach.LoadSource(strings.NewReader(strings.Join(programAdd, "\n")))
	assert.NoError(err)
	assert.NoError(log.Err())
	assert.Equal(programAdd, mach.Source())

	log = mach.Assemble()
	assert.NoError(log.Err())
	assert.Equal(7, mach.Program().Len())

	// Loading discards the previous assembly.
	mach.LoadProgram([]string{"HLT"})
	assert.Equal(0, mach.Program().Len())
	_, ok := mach.Symbols().Lookup("A")
	assert.False(ok)
}

func TestMachineTape(t *testing.T) {
	assert := assert.New(t)

	mach := NewMachine()

	log := mach.Prime([]string{
		"      ORG 10",
		"L1,   SKI",
		"      BUN L1",
		"      INP",
		"      OUT",
		"      ISZ CNT",
		"      BUN L1",
		"      HLT",
		"CNT,  DEC -3",
	})
	assert.NoError(log.Err())

	output := &bytes.Buffer{}
	tape := &io.Tape{
		Input:  strings.NewReader("xyz!"),
		Output: output,
	}
	defer tape.Close()

	start := time.Now()
	for !mach.Halted() && time.Since(start) < 5*time.Second {
		mach.Tick(false)
		assert.NoError(tape.Service(mach))
	}
	assert.NoError(tape.Service(mach))

	assert.True(mach.Halted())
	assert.Equal("xyz", output.String())
	assert.Equal(cpu.Word(0), mach.State().Memory[0x17])
}
