package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sim6502/channel"
	"github.com/ezrec/sim6502/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(make([]byte, 0x500))

	assert.False(emu.Verbose)
	assert.Equal(cpu.ENTRY, emu.Cpu.PC)
	assert.Equal(0, emu.Observer.Len())

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0xffff", defines["ADDRESS_MAX"])
	assert.Equal("0x400", defines["ENTRY"])
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	image := make([]byte, 0x500)
	image[0x400] = 0xa9
	image[0x401] = 0x2a

	emu, err := Load(bytes.NewReader(image))
	assert.NoError(err)
	assert.Equal(0x500, emu.Cpu.Memory.Len())

	assert.NoError(emu.Step())
	assert.Equal(byte(0x2a), emu.Cpu.A)
}

func doRun(t *testing.T, program []string, steps int) (emu *Emulator, messages []Message) {
	assert := assert.New(t)

	emu = NewEmulator(nil)
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	for range steps {
		here := program[emu.LineNo()-1]
		err = emu.Step()
		assert.NoError(err, here)
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
	}

	for msg := range emu.Observer.Receive() {
		messages = append(messages, msg)
	}

	return
}

func TestEmulatorStep(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"        .org ENTRY",
		"        lda #$2a",
		"        sta $0500",
		"        lda $0500",
	}

	emu, messages := doRun(t, program, 3)
	assert.Equal(uint64(3), emu.Steps)
	assert.Equal(0, emu.SendErrors)

	// A state message, then a memory message, for each step.
	assert.Equal(6, len(messages))
	for n, msg := range messages {
		assert.Equal(uint64(n/2+1), msg.Sequence())
		if n%2 == 0 {
			assert.IsType(StateMessage{}, msg)
		} else {
			assert.IsType(MemoryMessage{}, msg)
		}
	}

	state := messages[4].(StateMessage)
	assert.Equal(byte(0x2a), state.A)
	assert.Equal(uint16(0x408), state.PC)
	assert.Equal("0405: lda $0500", state.Info())

	memory := messages[5].(MemoryMessage)
	assert.Equal(0x408-WINDOW_BELOW, memory.Base)
	assert.Equal(WINDOW_BELOW+WINDOW_ABOVE+1, len(memory.Data))
	assert.Equal(byte(0x2a), memory.Data[0x500-memory.Base])

	// Snapshots do not alias the emulator.
	memory.Data[0x500-memory.Base] = 0
	value, err := emu.Cpu.Memory.Load(0x500)
	assert.NoError(err)
	assert.Equal(byte(0x2a), value)
}

func TestEmulatorWindow(t *testing.T) {
	type testCase struct {
		name   string
		size   int
		pc     uint16
		base   int
		length int
	}

	table := [...]testCase{
		{name: "zero", size: 0x10000, pc: 0, base: 0, length: WINDOW_ABOVE + 1},
		{name: "max", size: 0x10000, pc: ADDRESS_MAX, base: ADDRESS_MAX - WINDOW_BELOW, length: WINDOW_BELOW + 1},
		{name: "middle", size: 0x10000, pc: 0x8000, base: 0x8000 - WINDOW_BELOW, length: 512},
		{name: "low-edge", size: 0x10000, pc: 0x100, base: 1, length: 512},
		{name: "short-image", size: 0x480, pc: 0x400, base: 0x400 - WINDOW_BELOW, length: 0x480 - (0x400 - WINDOW_BELOW)},
		{name: "beyond-image", size: 0x100, pc: 0x400, base: 0x400 - WINDOW_BELOW, length: 0},
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			emu := NewEmulator(make([]byte, tc.size))
			emu.Cpu.PC = tc.pc

			base, data := emu.Window()
			assert.Equal(tc.base, base)
			assert.Equal(tc.length, len(data))
			assert.LessOrEqual(len(data), 512)
		})
	}
}

func TestEmulatorWindow_Boundary(t *testing.T) {
	assert := assert.New(t)

	// Execution at both ends of the address space.
	image := make([]byte, 0x10000)
	image[ADDRESS_MAX] = 0xea
	image[0] = 0xea

	emu := NewEmulator(image)

	emu.Cpu.PC = 0
	assert.NoError(emu.Step())

	emu.Cpu.PC = ADDRESS_MAX
	assert.NoError(emu.Step())
	// The program counter wraps to the bottom of the address space.
	assert.Equal(uint16(0), emu.Cpu.PC)

	for msg := range emu.Observer.Receive() {
		memory, ok := msg.(MemoryMessage)
		if !ok {
			continue
		}
		assert.LessOrEqual(len(memory.Data), 512)
		assert.GreaterOrEqual(memory.Base, 0)
		assert.LessOrEqual(memory.Base+len(memory.Data), 0x10000)
	}
}

func TestEmulatorError(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".org ENTRY",
		"lda #1",
		"sta $0500",
	}

	emu := NewEmulator(nil)
	assert.NoError(emu.Assemble(strings.NewReader(strings.Join(program, "\n"))))

	// Shrink memory so the store fails.
	emu.Cpu.Memory = cpu.NewMemory(emu.Cpu.Memory.Bytes()[:0x410])

	assert.NoError(emu.Step())
	assert.Equal(2, emu.Observer.Len())

	err := emu.Step()
	assert.True(errors.Is(err, cpu.ErrAddressRange))

	var er *ErrRuntime
	assert.True(errors.As(err, &er))
	assert.Equal(3, er.LineNo)
	assert.Equal(uint16(0x402), er.Address)

	// Nothing was sent, and nothing changed.
	assert.Equal(2, emu.Observer.Len())
	assert.Equal(uint64(1), emu.Steps)
	assert.Equal(uint16(0x402), emu.Cpu.PC)
}

func TestEmulatorSendError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(make([]byte, 0x500))
	emu.Observer.Close()

	ran, err := emu.Run(3)
	assert.NoError(err)
	assert.Equal(3, ran)
	assert.Equal(6, emu.SendErrors)
	assert.Equal(uint16(0x403), emu.Cpu.PC)
}

func TestEmulatorRing(t *testing.T) {
	assert := assert.New(t)

	ring, err := channel.NewRing[Message](4)
	assert.NoError(err)

	emu := NewEmulator(make([]byte, 0x500))
	emu.Observer = ring

	ran, err := emu.Run(10)
	assert.NoError(err)
	assert.Equal(10, ran)

	assert.Equal(uint64(16), ring.Dropped())

	// The newest two steps survive, in order.
	var sequence []uint64
	for msg := range ring.Receive() {
		sequence = append(sequence, msg.Sequence())
	}
	assert.Equal([]uint64{9, 9, 10, 10}, sequence)
}

func TestEmulatorCountdown(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"        .org ENTRY",
		"        cld",
		"        ldx #$ff",
		"        txs",
		"        ldy #3",
		"loop:   tya",
		"        adc #$10",
		"        sta $(ENTRY + 0x100)",
		"        dey",
		"        bne loop",
		"        lda #$80",
		"        bpl loop",
		"        cmp #$7f",
		"        beq loop",
		"        eor #$ff",
		"        clc",
		"        tax",
		"        jmp done",
		"        .byte $ff",
		"done:   nop",
	}

	emu, messages := doRun(t, program, 4+5*3+9)
	assert.Equal(2*28, len(messages))

	value, err := emu.Cpu.Memory.Load(0x500)
	assert.NoError(err)
	assert.Equal(byte(0x11), value)

	assert.Equal(byte(0x7f), emu.Cpu.A)
	assert.Equal(byte(0x7f), emu.Cpu.X)
	assert.Equal(byte(0xff), emu.Cpu.SP)
	assert.False(emu.Cpu.Carry())
	assert.Equal(20, emu.Program.Debug(int(emu.Cpu.Last.Address)).LineNo)
	assert.Equal(0, emu.LineNo())
}
