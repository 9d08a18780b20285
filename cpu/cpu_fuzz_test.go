package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzTick(f *testing.F) {
	for rv := range 0x10 {
		f.Add(uint16(rv<<12), uint16(0x1234), uint16(0), false)
		f.Add(uint16(rv<<12)|0x0fff, uint16(0xffff), uint16(0xffff), true)
	}
	f.Add(uint16(0x7001), uint16(0), uint16(0), false)
	f.Add(uint16(0x7003), uint16(0), uint16(0), false)
	f.Add(uint16(0xf080), uint16(0), uint16(0), true)

	f.Fuzz(func(t *testing.T, opcode uint16, ac uint16, fill uint16, flags bool) {
		assert := assert.New(t)

		cpu := NewCpu()
		for addr := range cpu.Memory {
			cpu.Memory[addr] = Word(fill)
		}
		cpu.Memory[0x100] = Word(opcode)
		cpu.PC.Set(0x100)
		cpu.AC.Set(Word(ac))
		if flags {
			cpu.Feed(0xa5)
			cpu.Drain()
		}

		code := Code(opcode)
		code_str := fmt.Sprintf("0x%04x (%v) ac:%04x fill:%04x flags:%v",
			opcode, code, ac, fill, flags)

		for n := range 8 {
			if cpu.Halted {
				break
			}

			log := cpu.Tick(true)

			for name, reg := range cpu.All() {
				mask := Word(1<<reg.Bits()) - 1
				if reg.Bits() >= WORD_BITS {
					mask = WORD_MASK
				}
				assert.Equal(Word(0), reg.Get()&^mask, name+" "+code_str)
			}

			err := log.Err()
			switch {
			case err == nil:
			case errors.Is(err, ErrIllegalOpcode):
				if !code.Valid() {
					assert.Equal(1, n, code_str)
				}
				assert.True(cpu.Halted, code_str)
			default:
				assert.NoError(err, code_str)
			}
		}

		if !code.Valid() {
			assert.True(cpu.Halted, code_str)
			assert.Equal(Word(0x101), cpu.PC.Get(), code_str)
		}
	})
}
