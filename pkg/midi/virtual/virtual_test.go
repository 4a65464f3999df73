package virtual

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenwick-audio/sampler-core/pkg/midi"
)

type recordingListener struct {
	frames chan midi.Frame
}

func (r *recordingListener) Handle(frame midi.Frame) {
	r.frames <- append(midi.Frame{}, frame...)
}

func TestSendWritesLengthPrefixedFrame(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, _ := ln.Accept()
		accepted <- conn
	}()

	port, err := NewPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, port.Open())
	defer port.Close()

	conn := <-accepted
	defer conn.Close()

	require.NoError(t, port.Send(midi.Frame{0xF0, 0x47, 0x00, 0x00, 0x48, 0xF7}))

	header := make([]byte, 4)
	_, err = readFull(conn, header)
	require.NoError(t, err)
	length := binary.BigEndian.Uint32(header)
	assert.Equal(t, uint32(6), length)

	body := make([]byte, length)
	_, err = readFull(conn, body)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x47, 0x00, 0x00, 0x48, 0xF7}, body)
}

func TestSubscribeDeliversReceivedFrame(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, _ := ln.Accept()
		accepted <- conn
	}()

	port, err := NewPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, port.Open())
	defer port.Close()

	conn := <-accepted
	defer conn.Close()

	listener := &recordingListener{frames: make(chan midi.Frame, 1)}
	require.NoError(t, port.Subscribe(listener))

	frame := []byte{0xF0, 0x47, 0x00, 0x01, 0x48, 0x05, 0x01, 0xF7}
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(frame)))
	_, err = conn.Write(header)
	require.NoError(t, err)
	_, err = conn.Write(frame)
	require.NoError(t, err)

	select {
	case got := <-listener.frames:
		assert.Equal(t, midi.Frame(frame), got)
	case <-time.After(time.Second):
		t.Fatal("frame not delivered")
	}
}
