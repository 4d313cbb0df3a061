// Package cpu implements a subset of the MOS 6502 microprocessor and a
// matching assembler.
//
// The processor executes one instruction per Step against a flat, byte
// addressable Memory sized to the loaded program image. Execution starts at
// ENTRY (0x400). Opcodes outside the supported set decode to an explicit
// unknown instruction that behaves as a no-operation, unless Strict is set.
//
// Every executed instruction is recorded as an Event, holding the decoded
// instruction, its operands, and the register file before and after.
//
// The assembler accepts the supported mnemonics with immediate, absolute and
// relative operands, labels, equates, and compile-time $(...) expressions.
package cpu
