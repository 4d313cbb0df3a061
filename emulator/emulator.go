// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/sim6502/channel"
	"github.com/ezrec/sim6502/cpu"
	"github.com/ezrec/sim6502/internal"
)

const (
	WINDOW_BELOW = 255     // Bytes of memory window below the program counter.
	WINDOW_ABOVE = 256     // Bytes of memory window above the program counter.
	ADDRESS_MAX  = 0xffff  // Highest address of the address space.
	IMAGE_SIZE   = 0x10000 // Image size for assembled programs.
)

var _emulator_defines = map[string]string{
	"ADDRESS_MAX": fmt.Sprintf("0x%x", ADDRESS_MAX),
	"IMAGE_SIZE":  fmt.Sprintf("0x%x", IMAGE_SIZE),
}

// Message is an observation sent after a step.
type Message interface {
	// Sequence returns the step that produced the message.
	Sequence() uint64
}

// StateMessage is a copy of the processor state after a step.
type StateMessage struct {
	Step uint64
	cpu.State
}

func (msg StateMessage) Sequence() uint64 {
	return msg.Step
}

// MemoryMessage is a copy of the memory near the program counter after a step.
type MemoryMessage struct {
	Step uint64
	Base int    // Address of Data[0].
	Data []byte // At most WINDOW_BELOW + WINDOW_ABOVE + 1 bytes.
}

func (msg MemoryMessage) Sequence() uint64 {
	return msg.Step
}

// Emulator state. CPU + memory + observer channel.
type Emulator struct {
	Verbose  bool                     // If set, enables verbose logging.
	*cpu.Cpu                          // Reference to the CPU simulation.
	Program  *cpu.Program             // Reference to the currently running program listing.
	Observer channel.Channel[Message] // Receives a StateMessage then a MemoryMessage per step.

	Steps      uint64 // Steps executed since the last reset.
	SendErrors int    // Observer sends that failed.
}

// NewEmulator creates a new emulator over a program image loaded at address 0.
// Observations go to an unbounded queue.
func NewEmulator(image []byte) (emu *Emulator) {
	emu = &Emulator{
		Cpu:      cpu.NewCpu(cpu.NewMemory(image)),
		Program:  &cpu.Program{},
		Observer: channel.NewQueue[Message](),
	}

	return
}

// Load creates a new emulator from a raw program image.
func Load(input io.Reader) (emu *Emulator, err error) {
	image, err := io.ReadAll(input)
	if err != nil {
		return
	}

	emu = NewEmulator(image)
	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble assembles a program, and replaces the memory with its image.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Cpu.Memory = cpu.NewMemory(prog.Image(IMAGE_SIZE))
	emu.Reset()

	return
}

// Reset the registers and step count. Memory is left untouched.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Steps = 0
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(int(emu.Cpu.PC))
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// WindowBounds returns the inclusive address range of the memory window
// around the program counter.
func (emu *Emulator) WindowBounds() (lo int, hi int) {
	pc := int(emu.Cpu.PC)
	lo = max(0, pc-WINDOW_BELOW)
	hi = min(ADDRESS_MAX, pc+WINDOW_ABOVE)
	return
}

// Window returns a copy of the memory window around the program counter.
// The window is empty if the program counter lies beyond the image.
func (emu *Emulator) Window() (base int, data []byte) {
	base, hi := emu.WindowBounds()
	data = emu.Cpu.Memory.Window(base, hi)
	return
}

// send delivers a message to the observer. Failures are logged and counted.
func (emu *Emulator) send(msg Message) {
	if emu.Observer == nil {
		return
	}

	err := emu.Observer.Send(msg)
	if err != nil {
		emu.SendErrors++
		log.Printf("emulator: step %v: observer: %v", msg.Sequence(), err)
	}
}

// Step executes a single instruction, then sends the processor state followed
// by the memory window to the observer.
// On error, no state has changed and nothing is sent.
func (emu *Emulator) Step() (err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	address := emu.Cpu.PC
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: address, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	emu.Steps++

	emu.send(StateMessage{Step: emu.Steps, State: emu.Cpu.State()})

	base, data := emu.Window()
	emu.send(MemoryMessage{Step: emu.Steps, Base: base, Data: data})

	return
}

// Run executes up to steps instructions, stopping at the first error.
func (emu *Emulator) Run(steps int) (ran int, err error) {
	for ran < steps {
		err = emu.Step()
		if err != nil {
			return
		}
		ran++
	}

	return
}
