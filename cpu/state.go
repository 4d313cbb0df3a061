package cpu

import (
	"fmt"
	"slices"
)

// Processor status flag bits.
const (
	FLAG_CARRY    = byte(1 << 0)
	FLAG_ZERO     = byte(1 << 1)
	FLAG_NEGATIVE = byte(1 << 7)

	FLAG_CLD_MASK = byte(0x07) // Bits kept by cld.
)

// ENTRY is the program counter at load time.
const ENTRY = uint16(0x400)

// Registers is the processor register file.
type Registers struct {
	Flags byte   // Processor status.
	A     byte   // Accumulator.
	X     byte   // X index.
	Y     byte   // Y index.
	PC    uint16 // Program counter.
	SP    byte   // Stack pointer. Only set by txs.
	Clock uint64 // Cycles executed.
}

// ApplyFlags updates the zero and negative flags for a result value.
// The negative flag is recomputed, so a positive value clears it.
func ApplyFlags(flags byte, value byte) byte {
	if value == 0 {
		flags |= FLAG_ZERO
	} else {
		flags &^= FLAG_ZERO
	}

	if (value & 0x80) != 0 {
		flags |= FLAG_NEGATIVE
	} else {
		flags &^= FLAG_NEGATIVE
	}

	return flags
}

func (regs Registers) Carry() bool {
	return (regs.Flags & FLAG_CARRY) != 0
}

func (regs Registers) Zero() bool {
	return (regs.Flags & FLAG_ZERO) != 0
}

func (regs Registers) Negative() bool {
	return (regs.Flags & FLAG_NEGATIVE) != 0
}

// String returns the register file on one line.
func (regs Registers) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X SP:%02X P:%02X PC:%04X CYC:%v",
		regs.A, regs.X, regs.Y, regs.SP, regs.Flags, regs.PC, regs.Clock)
}

// State is an immutable snapshot of the processor.
type State struct {
	Registers
	Last Event // Most recently executed instruction.
}

// Info describes the most recently executed instruction.
func (st State) Info() string {
	return st.Last.String()
}

// Clone returns a deep copy of the state.
func (st State) Clone() State {
	st.Last.Operands = slices.Clone(st.Last.Operands)
	return st
}
