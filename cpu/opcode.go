package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Mnemonic is an instruction mnemonic.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	MNEMONIC_ADC     = Mnemonic(0)  // adc
	MNEMONIC_BEQ     = Mnemonic(1)  // beq
	MNEMONIC_BNE     = Mnemonic(2)  // bne
	MNEMONIC_BPL     = Mnemonic(3)  // bpl
	MNEMONIC_CLC     = Mnemonic(4)  // clc
	MNEMONIC_CLD     = Mnemonic(5)  // cld
	MNEMONIC_CMP     = Mnemonic(6)  // cmp
	MNEMONIC_DEX     = Mnemonic(7)  // dex
	MNEMONIC_DEY     = Mnemonic(8)  // dey
	MNEMONIC_EOR     = Mnemonic(9)  // eor
	MNEMONIC_JMP     = Mnemonic(10) // jmp
	MNEMONIC_LDA     = Mnemonic(11) // lda
	MNEMONIC_LDX     = Mnemonic(12) // ldx
	MNEMONIC_LDY     = Mnemonic(13) // ldy
	MNEMONIC_NOP     = Mnemonic(14) // nop
	MNEMONIC_STA     = Mnemonic(15) // sta
	MNEMONIC_TAX     = Mnemonic(16) // tax
	MNEMONIC_TXS     = Mnemonic(17) // txs
	MNEMONIC_TYA     = Mnemonic(18) // tya
	MNEMONIC_UNKNOWN = Mnemonic(19) // ???
)

// Mode is an operand addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_IMPLIED   = Mode(0) // implied
	MODE_IMMEDIATE = Mode(1) // immediate
	MODE_ABSOLUTE  = Mode(2) // absolute
	MODE_RELATIVE  = Mode(3) // relative
)

// Length returns the encoded instruction length for the addressing mode.
func (mode Mode) Length() int {
	switch mode {
	case MODE_IMMEDIATE, MODE_RELATIVE:
		return 2
	case MODE_ABSOLUTE:
		return 3
	}
	return 1
}

// Opcode is the first byte of an encoded instruction.
type Opcode byte

const (
	OPCODE_BPL           = Opcode(0x10)
	OPCODE_CLC           = Opcode(0x18)
	OPCODE_EOR_IMMEDIATE = Opcode(0x49)
	OPCODE_JMP_ABSOLUTE  = Opcode(0x4c)
	OPCODE_ADC_IMMEDIATE = Opcode(0x69)
	OPCODE_DEY           = Opcode(0x88)
	OPCODE_STA_ABSOLUTE  = Opcode(0x8d)
	OPCODE_TYA           = Opcode(0x98)
	OPCODE_TXS           = Opcode(0x9a)
	OPCODE_LDY_IMMEDIATE = Opcode(0xa0)
	OPCODE_LDX_IMMEDIATE = Opcode(0xa2)
	OPCODE_LDA_IMMEDIATE = Opcode(0xa9)
	OPCODE_TAX           = Opcode(0xaa)
	OPCODE_LDA_ABSOLUTE  = Opcode(0xad)
	OPCODE_CMP_IMMEDIATE = Opcode(0xc9)
	OPCODE_DEX           = Opcode(0xca)
	OPCODE_BNE           = Opcode(0xd0)
	OPCODE_CLD           = Opcode(0xd8)
	OPCODE_NOP           = Opcode(0xea)
	OPCODE_BEQ           = Opcode(0xf0)
)

func (op Opcode) String() string {
	return fmt.Sprintf("%02x", byte(op))
}

// Instruction describes how an opcode decodes.
type Instruction struct {
	Mnemonic Mnemonic
	Mode     Mode
	Cycles   uint64 // Clock cost, taken or not.
}

// Length returns the encoded length of the instruction in bytes.
func (inst Instruction) Length() int {
	return inst.Mode.Length()
}

// Known returns false for the unknown instruction.
func (inst Instruction) Known() bool {
	return inst.Mnemonic != MNEMONIC_UNKNOWN
}

// unknownInstruction is the decode of every unmapped opcode.
var unknownInstruction = Instruction{MNEMONIC_UNKNOWN, MODE_IMPLIED, 2}

// opcodeTable maps every supported opcode to its instruction.
var opcodeTable = map[Opcode]Instruction{
	OPCODE_BPL:           {MNEMONIC_BPL, MODE_RELATIVE, 3},
	OPCODE_CLC:           {MNEMONIC_CLC, MODE_IMPLIED, 1},
	OPCODE_EOR_IMMEDIATE: {MNEMONIC_EOR, MODE_IMMEDIATE, 2},
	OPCODE_JMP_ABSOLUTE:  {MNEMONIC_JMP, MODE_ABSOLUTE, 3},
	OPCODE_ADC_IMMEDIATE: {MNEMONIC_ADC, MODE_IMMEDIATE, 2},
	OPCODE_DEY:           {MNEMONIC_DEY, MODE_IMPLIED, 2},
	OPCODE_STA_ABSOLUTE:  {MNEMONIC_STA, MODE_ABSOLUTE, 5},
	OPCODE_TYA:           {MNEMONIC_TYA, MODE_IMPLIED, 2},
	OPCODE_TXS:           {MNEMONIC_TXS, MODE_IMPLIED, 2},
	OPCODE_LDY_IMMEDIATE: {MNEMONIC_LDY, MODE_IMMEDIATE, 4},
	OPCODE_LDX_IMMEDIATE: {MNEMONIC_LDX, MODE_IMMEDIATE, 2},
	OPCODE_LDA_IMMEDIATE: {MNEMONIC_LDA, MODE_IMMEDIATE, 2},
	OPCODE_TAX:           {MNEMONIC_TAX, MODE_IMPLIED, 1},
	OPCODE_LDA_ABSOLUTE:  {MNEMONIC_LDA, MODE_ABSOLUTE, 4},
	OPCODE_CMP_IMMEDIATE: {MNEMONIC_CMP, MODE_IMMEDIATE, 4},
	OPCODE_DEX:           {MNEMONIC_DEX, MODE_IMPLIED, 2},
	OPCODE_BNE:           {MNEMONIC_BNE, MODE_RELATIVE, 3},
	OPCODE_CLD:           {MNEMONIC_CLD, MODE_IMPLIED, 2},
	OPCODE_NOP:           {MNEMONIC_NOP, MODE_IMPLIED, 2},
	OPCODE_BEQ:           {MNEMONIC_BEQ, MODE_RELATIVE, 3},
}

// Decode returns the instruction for an opcode.
// Opcodes without a mapping decode to the unknown instruction.
func Decode(op Opcode) Instruction {
	inst, ok := opcodeTable[op]
	if !ok {
		return unknownInstruction
	}
	return inst
}

// Encode returns the opcode for a mnemonic in an addressing mode.
func Encode(mnemonic Mnemonic, mode Mode) (op Opcode, ok bool) {
	for code, inst := range opcodeTable {
		if inst.Mnemonic == mnemonic && inst.Mode == mode {
			return code, true
		}
	}
	return
}

// Opcodes iterates over all mapped opcodes, in ascending order.
func Opcodes() iter.Seq2[Opcode, Instruction] {
	return func(yield func(op Opcode, inst Instruction) bool) {
		for _, op := range slices.Sorted(maps.Keys(opcodeTable)) {
			if !yield(op, opcodeTable[op]) {
				return
			}
		}
	}
}

// mnemonicOf finds a mnemonic by its assembler name.
func mnemonicOf(name string) (Mnemonic, bool) {
	for mnemonic := range MNEMONIC_UNKNOWN {
		if mnemonic.String() == name {
			return mnemonic, true
		}
	}
	return MNEMONIC_UNKNOWN, false
}

// Modes returns the addressing modes a mnemonic can be encoded with.
func (mnemonic Mnemonic) Modes() (modes []Mode) {
	for _, inst := range opcodeTable {
		if inst.Mnemonic == mnemonic && !slices.Contains(modes, inst.Mode) {
			modes = append(modes, inst.Mode)
		}
	}
	slices.Sort(modes)
	return
}
