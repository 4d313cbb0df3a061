package cpu

import (
	"iter"
)

// Statement is a line of assembled source, and the bytes it generated.
type Statement struct {
	LineNo    int      // Source line number.
	Address   int      // Address of the first generated byte.
	Words     []string // Source words.
	Bytes     []byte   // Generated bytes.
	LinkLabel string   // Label to resolve into the operand, if any.
}

// Program is an assembled listing.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug finds the statement that generated the byte at an address.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, st := range prog.Statements {
		if address >= st.Address && address < st.Address+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     address - st.Address,
			}
			break
		}
	}

	return
}

// Bytes iterates over every generated byte and its address.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(address int, value byte) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(st.Address+n, value) {
					return
				}
			}
		}
	}
}

// End returns the address following the highest generated byte.
func (prog *Program) End() (end int) {
	for _, st := range prog.Statements {
		end = max(end, st.Address+len(st.Bytes))
	}
	return
}

// Image returns a zero filled memory image holding the program.
// The image is at least size bytes long, and grows to fit the program.
func (prog *Program) Image(size int) (image []byte) {
	image = make([]byte, max(size, prog.End()))
	for address, value := range prog.Bytes() {
		image[address] = value
	}

	return
}
