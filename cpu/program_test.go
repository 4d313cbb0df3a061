package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Statements: []Statement{
			{LineNo: 1, Address: 0x400, Words: []string{"lda", "#$10"}, Bytes: []byte{0xa9, 0x10}},
			{LineNo: 2, Address: 0x402, Words: []string{"sta", "$0500"}, Bytes: []byte{0x8d, 0x00, 0x05}},
			{LineNo: 4, Address: 0x405, Words: []string{"nop"}, Bytes: []byte{0xea}},
		},
	}

	dbg := prog.Debug(0x400)
	assert.NotNil(dbg.Statement)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x404)
	assert.NotNil(dbg.Statement)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(0x405)
	assert.NotNil(dbg.Statement)
	assert.Equal(4, dbg.LineNo)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Statements: []Statement{
			{LineNo: 1, Address: 0x400, Words: []string{"nop"}, Bytes: []byte{0xea}},
		},
	}

	dbg := prog.Debug(0x401)
	assert.Nil(dbg.Statement)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x3ff)
	assert.Nil(dbg.Statement)
}

func TestProgram_Image(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Statements: []Statement{
			{LineNo: 1, Address: 2, Bytes: []byte{0xa9, 0x10}},
			{LineNo: 2, Address: 6, Bytes: []byte{0xea}},
		},
	}

	assert.Equal(7, prog.End())
	assert.Equal([]byte{0, 0, 0xa9, 0x10, 0, 0, 0xea}, prog.Image(0))
	assert.Equal(16, len(prog.Image(16)))

	count := 0
	for address, value := range prog.Bytes() {
		assert.Equal(prog.Image(0)[address], value)
		count++
	}
	assert.Equal(3, count)

	assert.Equal(0, (&Program{}).End())
}
