package cpu

const (
	WORD_BITS    = 16     // Width of a memory word.
	WORD_MASK    = 0xffff // Mask of a memory word.
	ADDRESS_BITS = 12     // Width of a memory address.
	ADDRESS_MASK = 0x0fff // Mask of a memory address.
	MEMORY_SIZE  = 4096   // Number of words of memory.
)

// Word is a 16-bit machine word. Arithmetic wraps modulo 2^16.
type Word uint16

// Signed returns the two's complement interpretation of the word.
func (w Word) Signed() int16 {
	return int16(w)
}

// Negative returns true if bit 15 is set.
func (w Word) Negative() bool {
	return (w & 0x8000) != 0
}
