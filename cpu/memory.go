package cpu

import (
	"slices"
)

// Memory is the flat byte addressable image the processor runs against.
// It is sized once from the program image, and never resized.
type Memory struct {
	data []byte
}

// NewMemory creates a memory holding a copy of the image.
func NewMemory(image []byte) (mem *Memory) {
	mem = &Memory{
		data: slices.Clone(image),
	}
	if mem.data == nil {
		mem.data = []byte{}
	}

	return
}

// Len returns the size of the memory image.
func (mem *Memory) Len() int {
	return len(mem.data)
}

// check verifies that an address lies within the image.
func (mem *Memory) check(address int) (err error) {
	if address < 0 || address >= len(mem.data) {
		err = &ErrAddress{Address: address, Size: len(mem.data)}
	}
	return
}

// Load reads a byte.
func (mem *Memory) Load(address int) (value byte, err error) {
	err = mem.check(address)
	if err != nil {
		return
	}

	value = mem.data[address]
	return
}

// Store writes a byte.
func (mem *Memory) Store(address int, value byte) (err error) {
	err = mem.check(address)
	if err != nil {
		return
	}

	mem.data[address] = value
	return
}

// Word reads a little endian 16-bit word, low byte first.
func (mem *Memory) Word(address int) (word uint16, err error) {
	low, err := mem.Load(address)
	if err != nil {
		return
	}
	high, err := mem.Load(address + 1)
	if err != nil {
		return
	}

	word = (uint16(high) << 8) | uint16(low)
	return
}

// Window returns a copy of the inclusive range [lo, hi], clamped to the image.
func (mem *Memory) Window(lo, hi int) []byte {
	lo = max(lo, 0)
	hi = min(hi, len(mem.data)-1)
	if lo > hi {
		return []byte{}
	}

	return slices.Clone(mem.data[lo : hi+1])
}

// Bytes returns a copy of the whole image.
func (mem *Memory) Bytes() []byte {
	return slices.Clone(mem.data)
}
