package fifo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFillsAndRejectsOverflow(t *testing.T) {
	f := New(100)
	n := f.Write([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, f.Occupied())

	n = f.Write(make([]byte, 500))
	assert.Equal(t, 94, n)

	n = f.Write([]byte{1})
	assert.Equal(t, 0, n)
}

func TestReadDrainsInOrder(t *testing.T) {
	f := New(100)
	f.Write([]byte{1, 2, 3, 4})
	out := make([]byte, 10)
	n := f.Read(out)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{1, 2, 3, 4}, out[:n])
	assert.Equal(t, 0, f.Occupied())
}

func TestWrapsAroundBuffer(t *testing.T) {
	f := New(4)
	f.Write([]byte{1, 2})
	out := make([]byte, 2)
	f.Read(out)
	n := f.Write([]byte{3, 4, 5})
	assert.Equal(t, 3, n)
	full := make([]byte, 3)
	assert.Equal(t, 3, f.Read(full))
	assert.Equal(t, []byte{3, 4, 5}, full)
}

func TestResetEmptiesBuffer(t *testing.T) {
	f := New(10)
	f.Write([]byte{1, 2, 3})
	f.Reset()
	assert.Equal(t, 0, f.Occupied())
	assert.Equal(t, 9, f.Space())
}
