package cpu

// Memory is the 4096 word main memory.
type Memory [MEMORY_SIZE]Word

// Read the word at addr.
func (mem *Memory) Read(addr int) (value Word, err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	value = mem[addr]
	return
}

// Write value to addr. Out of range writes leave memory untouched.
func (mem *Memory) Write(addr int, value Word) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrAddress(addr)
		return
	}

	mem[addr] = value
	return
}

// Reset zeros all of memory.
func (mem *Memory) Reset() {
	clear(mem[:])
}
