package cpu

import (
	"errors"

	"github.com/ezrec/sim6502/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrAddressRange  = errors.New(f("address out of range"))
	ErrOpcodeUnknown = errors.New(f("opcode unknown"))

	// Assembler errors
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelInvalid     = errors.New(f("label invalid"))
	ErrDirectiveInvalid = errors.New(f("directive invalid"))
	ErrOriginBackwards  = errors.New(f(".org moves backwards"))
	ErrMnemonicInvalid  = errors.New(f("mnemonic invalid"))
	ErrModeInvalid      = errors.New(f("addressing mode invalid"))
	ErrOperandMissing   = errors.New(f("operand missing"))
	ErrOpcodeExtraArgs  = errors.New(f("excessive arguments"))
)

// ErrAddress is an access outside of the memory image.
type ErrAddress struct {
	Address int // Address requested.
	Size    int // Size of the memory image.
}

func (err *ErrAddress) Error() string {
	return f("address 0x%04x out of range (image is 0x%04x bytes)", err.Address, err.Size)
}

func (err *ErrAddress) Is(target error) bool {
	return target == ErrAddressRange
}

// ErrOpcode wraps a failure during execution of an opcode.
type ErrOpcode Opcode

func (eo ErrOpcode) Error() string {
	return f("opcode 0x%02x %v", byte(eo), Decode(Opcode(eo)).Mnemonic)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOperandRange is an operand value that does not fit its encoding.
type ErrOperandRange struct {
	Value int64
	Bits  int
}

func (err ErrOperandRange) Error() string {
	return f("operand %v does not fit in %v bits", err.Value, err.Bits)
}

// ErrBranchRange is a relative branch whose target is too far away.
type ErrBranchRange struct {
	Label  string
	Offset int
}

func (err ErrBranchRange) Error() string {
	return f("branch to %v offset %v out of range", err.Label, err.Offset)
}
