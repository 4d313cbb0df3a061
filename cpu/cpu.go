package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]string{
	"ENTRY":         fmt.Sprintf("0x%x", ENTRY),
	"FLAG_CARRY":    fmt.Sprintf("0x%x", FLAG_CARRY),
	"FLAG_ZERO":     fmt.Sprintf("0x%x", FLAG_ZERO),
	"FLAG_NEGATIVE": fmt.Sprintf("0x%x", FLAG_NEGATIVE),
}

// Cpu is the simulation context for the processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Strict  bool // Set to fail on unknown opcodes, instead of ignoring them.

	Registers         // Register file.
	Memory    *Memory // Memory image. Owned by the Cpu.
	Last      Event   // Most recently executed instruction.
}

// NewCpu creates a new CPU over a memory image, ready to run from ENTRY.
func NewCpu(memory *Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: memory,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the registers to their load time state.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers = Registers{PC: ENTRY}
	cpu.Last = Event{}
}

// State returns a snapshot of the processor.
func (cpu *Cpu) State() State {
	return State{
		Registers: cpu.Registers,
		Last:      cpu.Last,
	}.Clone()
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return cpu.Registers.String()
}

// Fetch decodes the instruction at the program counter, and reads its operands.
func (cpu *Cpu) Fetch() (event Event, err error) {
	pc := int(cpu.PC)

	first, err := cpu.Memory.Load(pc)
	if err != nil {
		return
	}

	op := Opcode(first)
	inst := Decode(op)

	operands := make([]byte, inst.Length()-1)
	for n := range operands {
		operands[n], err = cpu.Memory.Load(pc + 1 + n)
		if err != nil {
			err = errors.Join(ErrOpcode(op), err)
			return
		}
	}

	event = Event{
		Address:     cpu.PC,
		Opcode:      op,
		Instruction: inst,
		Operands:    operands,
		Before:      cpu.Registers,
	}

	switch inst.Mode {
	case MODE_ABSOLUTE:
		event.Target = event.Word()
	case MODE_RELATIVE:
		event.Target = relative(cpu.PC, event.Value())
	}

	return
}

// relative computes a branch target from the address of the branch.
func relative(pc uint16, offset byte) uint16 {
	return uint16(int32(pc) + 2 + int32(int8(offset)))
}

// Step executes a single instruction.
func (cpu *Cpu) Step() (err error) {
	event, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(event)
	return
}

// Execute executes a single decoded instruction.
// On error, no register or memory state has been changed.
func (cpu *Cpu) Execute(event Event) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(event.Opcode), err)
		}
	}()

	inst := event.Instruction
	regs := cpu.Registers

	next_pc := regs.PC + uint16(inst.Length())
	value := event.Value()

	switch inst.Mnemonic {
	case MNEMONIC_ADC:
		regs.A += value
		regs.Flags = ApplyFlags(regs.Flags, regs.A)
	case MNEMONIC_EOR:
		regs.A ^= value
	case MNEMONIC_LDA:
		if inst.Mode == MODE_ABSOLUTE {
			value, err = cpu.Memory.Load(int(event.Target))
			if err != nil {
				return
			}
		}
		regs.A = value
		regs.Flags = ApplyFlags(regs.Flags, regs.A)
	case MNEMONIC_LDX:
		regs.X = value
		regs.Flags = ApplyFlags(regs.Flags, regs.X)
	case MNEMONIC_LDY:
		regs.Y = value
		regs.Flags = ApplyFlags(regs.Flags, regs.Y)
	case MNEMONIC_STA:
		err = cpu.Memory.Store(int(event.Target), regs.A)
		if err != nil {
			return
		}
	case MNEMONIC_CMP:
		if regs.A > value {
			regs.Flags |= FLAG_CARRY
		} else {
			regs.Flags &^= FLAG_CARRY
		}
		regs.Flags = ApplyFlags(regs.Flags, regs.A-value)
	case MNEMONIC_DEX:
		regs.X--
		regs.Flags = ApplyFlags(regs.Flags, regs.X)
	case MNEMONIC_DEY:
		regs.Y--
		regs.Flags = ApplyFlags(regs.Flags, regs.Y)
	case MNEMONIC_TAX:
		regs.Flags = ApplyFlags(regs.Flags, regs.A)
		regs.X = regs.A
		regs.Flags = ApplyFlags(regs.Flags, regs.X)
	case MNEMONIC_TYA:
		regs.A = regs.Y
		regs.Flags = ApplyFlags(regs.Flags, regs.A)
	case MNEMONIC_TXS:
		regs.SP = regs.X
		regs.Flags = ApplyFlags(regs.Flags, regs.SP)
	case MNEMONIC_CLC:
		regs.Flags &^= FLAG_CARRY
	case MNEMONIC_CLD:
		regs.Flags &= FLAG_CLD_MASK
	case MNEMONIC_JMP:
		next_pc = event.Target
	case MNEMONIC_BPL:
		event.Taken = !regs.Negative()
	case MNEMONIC_BNE:
		event.Taken = !regs.Zero()
	case MNEMONIC_BEQ:
		event.Taken = regs.Zero()
	case MNEMONIC_NOP:
		// pass
	case MNEMONIC_UNKNOWN:
		if cpu.Strict {
			err = ErrOpcodeUnknown
			return
		}
	default:
		err = ErrOpcodeUnknown
		return
	}

	if event.Taken {
		next_pc = event.Target
	}

	regs.PC = next_pc
	regs.Clock += inst.Cycles

	cpu.Registers = regs

	event.After = regs
	cpu.Last = event

	if cpu.Verbose {
		log.Printf("%v  %v", event, regs)
	}

	return
}
