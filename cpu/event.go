package cpu

import (
	"fmt"
)

// Event records the execution of a single instruction.
type Event struct {
	Address     uint16      // Address the opcode was fetched from.
	Opcode      Opcode      // Opcode byte.
	Instruction Instruction // Decoded instruction.
	Operands    []byte      // Operand bytes following the opcode.
	Target      uint16      // Effective address, for absolute and relative modes.
	Taken       bool        // Set if a branch was taken.
	Before      Registers   // Registers before execution.
	After       Registers   // Registers after execution.
}

// Value returns the immediate or relative operand byte.
func (ev Event) Value() byte {
	if len(ev.Operands) == 0 {
		return 0
	}
	return ev.Operands[0]
}

// Word returns the little endian absolute operand.
func (ev Event) Word() uint16 {
	if len(ev.Operands) < 2 {
		return 0
	}
	return (uint16(ev.Operands[1]) << 8) | uint16(ev.Operands[0])
}

// String returns the event as a line of disassembly.
func (ev Event) String() (text string) {
	if ev.Instruction.Cycles == 0 {
		return
	}

	inst := ev.Instruction
	switch {
	case !inst.Known():
		text = fmt.Sprintf("%v $%02x", inst.Mnemonic, byte(ev.Opcode))
	case inst.Mode == MODE_IMMEDIATE:
		text = fmt.Sprintf("%v #$%02x", inst.Mnemonic, ev.Value())
	case inst.Mode == MODE_ABSOLUTE, inst.Mode == MODE_RELATIVE:
		text = fmt.Sprintf("%v $%04x", inst.Mnemonic, ev.Target)
	default:
		text = inst.Mnemonic.String()
	}

	if ev.Taken {
		text = f("%v (taken)", text)
	}

	text = fmt.Sprintf("%04x: %v", ev.Address, text)
	return
}
