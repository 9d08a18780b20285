package main

import (
	"fmt"
	"io"

	"github.com/ezrec/mano/cpu"
	"github.com/ezrec/mano/machine"
	"github.com/ezrec/mano/message"
)

// printLog writes the messages of logs, in order. Debug messages are only
// written in verbose mode.
func printLog(w io.Writer, verbose bool, logs ...*message.Log) {
	for msg := range message.Concat(logs...) {
		if msg.Level == message.LEVEL_DEBUG && !verbose {
			continue
		}
		fmt.Fprintln(w, msg.String())
	}
}

// printStep writes the registers, and the source line about to execute.
func printStep(w io.Writer, mach *machine.Machine) {
	state := mach.State()
	fmt.Fprint(w, state.Registers.String())

	pc := state.Registers.PC.Get()
	text := cpu.Code(state.Memory[pc]).String()
	if lineno := mach.LineNo(); lineno != 0 {
		text = fmt.Sprintf("%d: %v", lineno, mach.Source()[lineno-1])
	}
	fmt.Fprintf(w, "0x%03X: %v\n", uint16(pc), text)
}

// registerMap names the register values, for dumping.
func registerMap(regs *cpu.Registers) map[string]cpu.Word {
	values := map[string]cpu.Word{}
	for name, reg := range regs.All() {
		values[name] = reg.Get()
	}
	return values
}
