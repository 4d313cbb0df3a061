// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
	"ENTRY":  fmt.Sprintf("%#v", ENTRY),
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Assembler is a single pass assembler for the supported 6502 subset.
//
// Source lines have the form:
//
//	[label:] [mnemonic [operand]] [; comment]
//
// Operands are '#value' for immediate, 'value' or 'label' for absolute, and
// 'value' or 'label' for the target of a branch. Values are decimal, $hex,
// 0x hex, %binary, 'c' characters, or $(expr) evaluated at assembly time
// with the equates and labels defined so far.
//
// Directives are .org ADDRESS, .equ NAME VALUE, .byte VALUE..., and
// .word VALUE...
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	origin int // Address of the next generated byte.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	var perr error
	switch {
	case strings.HasPrefix(word, "$"):
		value, perr = strconv.ParseInt(word[1:], 16, 64)
	case strings.HasPrefix(word, "%"):
		value, perr = strconv.ParseInt(word[1:], 2, 64)
	default:
		value, perr = strconv.ParseInt(word, 0, 64)
	}
	if perr != nil {
		err = ErrParseNumber(word)
	}

	return
}

// rangeOf returns the value of a word, checked to fit in a field of bits.
// Negative values are accepted as two's complement.
func (asm *Assembler) rangeOf(word string, bits int) (value int64, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}

	limit := int64(1) << bits
	if value >= limit || value < -(limit/2) {
		err = ErrOperandRange{Value: value, Bits: bits}
		return
	}

	value &= limit - 1
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words, and records any labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		immediate := strings.HasPrefix(word, "#")
		if immediate {
			word = word[1:]
		}
		equate, ok := asm.Equate[word]
		if !ok {
			continue
		}
		if immediate {
			equate = "#" + equate
		}
		words[n] = equate
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.origin
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)
	asm.Statement = asm.Statement[:0]
	asm.origin = 0
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		st := &asm.Statement[n]

		if len(st.LinkLabel) == 0 {
			continue
		}

		lineno = st.LineNo
		line = strings.Join(st.Words, " ")

		address, ok := asm.Label[st.LinkLabel]
		if !ok {
			err = ErrLabelMissing(st.LinkLabel)
			return
		}

		err = asm.link(st, address)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// link resolves a label address into the operand of a statement.
func (asm *Assembler) link(st *Statement, address int) (err error) {
	inst := Decode(Opcode(st.Bytes[0]))

	switch inst.Mode {
	case MODE_RELATIVE:
		offset := address - (st.Address + 2)
		if offset < -128 || offset > 127 {
			err = ErrBranchRange{Label: st.LinkLabel, Offset: offset}
			return
		}
		st.Bytes[1] = byte(int8(offset))
	case MODE_ABSOLUTE:
		st.Bytes[1] = byte(address)
		st.Bytes[2] = byte(address >> 8)
	default:
		log.Fatalf("Unable to link label '%s' to line %d: %v", st.LinkLabel, st.LineNo, st.Words)
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var bytes []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if len(bytes) == 0 {
			return
		}
		st := Statement{LineNo: lineno, Address: asm.origin, Words: words, Bytes: bytes, LinkLabel: label}
		asm.Statement = append(asm.Statement, st)
		asm.origin += len(bytes)
	}()

	args := words[1:]

	switch words[0] {
	case ".org":
		if len(args) != 1 {
			err = ErrOperandMissing
			return
		}
		var value int64
		value, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if value > 0xffff {
			err = ErrOperandRange{Value: value, Bits: 16}
			return
		}
		if int(value) < asm.origin {
			err = ErrOriginBackwards
			return
		}
		asm.origin = int(value)
		return
	case ".byte":
		if len(args) == 0 {
			err = ErrOperandMissing
			return
		}
		for _, arg := range args {
			var value int64
			value, err = asm.rangeOf(arg, 8)
			if err != nil {
				return
			}
			bytes = append(bytes, byte(value))
		}
		return
	case ".word":
		if len(args) == 0 {
			err = ErrOperandMissing
			return
		}
		for _, arg := range args {
			var value int64
			value, err = asm.rangeOf(arg, 16)
			if err != nil {
				return
			}
			bytes = append(bytes, byte(value), byte(value>>8))
		}
		return
	}

	if strings.HasPrefix(words[0], ".") {
		err = ErrDirectiveInvalid
		return
	}

	mnemonic, ok := mnemonicOf(strings.ToLower(words[0]))
	if !ok {
		err = ErrMnemonicInvalid
		return
	}

	if len(args) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	modes := mnemonic.Modes()

	var mode Mode
	var operand string
	switch {
	case len(args) == 0:
		mode = MODE_IMPLIED
	case strings.HasPrefix(args[0], "#"):
		mode = MODE_IMMEDIATE
		operand = args[0][1:]
	case slices.Contains(modes, MODE_RELATIVE):
		mode = MODE_RELATIVE
		operand = args[0]
	default:
		mode = MODE_ABSOLUTE
		operand = args[0]
	}

	op, ok := Encode(mnemonic, mode)
	if !ok {
		if mode == MODE_IMPLIED {
			err = ErrOperandMissing
		} else {
			err = ErrModeInvalid
		}
		return
	}

	encoded := []byte{byte(op)}

	switch mode {
	case MODE_IMMEDIATE:
		var value int64
		value, err = asm.rangeOf(operand, 8)
		if err != nil {
			return
		}
		encoded = append(encoded, byte(value))
	case MODE_ABSOLUTE:
		if reLabel.MatchString(operand) {
			label = operand
			encoded = append(encoded, 0, 0)
			break
		}
		var value int64
		value, err = asm.valueOf(operand)
		if err != nil {
			return
		}
		if value < 0 || value > 0xffff {
			err = ErrOperandRange{Value: value, Bits: 16}
			return
		}
		encoded = append(encoded, byte(value), byte(value>>8))
	case MODE_RELATIVE:
		if reLabel.MatchString(operand) {
			label = operand
			encoded = append(encoded, 0)
			break
		}
		var value int64
		value, err = asm.valueOf(operand)
		if err != nil {
			return
		}
		offset := int(value) - (asm.origin + 2)
		if offset < -128 || offset > 127 {
			err = ErrBranchRange{Label: operand, Offset: offset}
			return
		}
		encoded = append(encoded, byte(int8(offset)))
	}

	bytes = encoded

	return
}
