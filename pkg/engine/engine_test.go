package engine

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenwick-audio/sampler-core/pkg/frame"
	midivirtual "github.com/fenwick-audio/sampler-core/pkg/midi/virtual"
)

func startDevice(t *testing.T) (addr string, accepted chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	accepted = make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()
	return ln.Addr().String(), accepted
}

func readDeviceFrame(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	header := make([]byte, 4)
	_, err := readFullTest(conn, header)
	require.NoError(t, err)
	length := binary.BigEndian.Uint32(header)
	body := make([]byte, length)
	_, err = readFullTest(conn, body)
	require.NoError(t, err)
	return body
}

func writeDeviceFrame(t *testing.T, conn net.Conn, data []byte) {
	t.Helper()
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(data)))
	_, err := conn.Write(header)
	require.NoError(t, err)
	_, err = conn.Write(data)
	require.NoError(t, err)
}

func readFullTest(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestStatusReportRoundTrip(t *testing.T) {
	addr, accepted := startDevice(t)

	port, err := midivirtual.NewPort(addr)
	require.NoError(t, err)
	require.NoError(t, port.Open())
	defer port.Close()

	conn := <-accepted
	defer conn.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	eng := New(port, logger, WithPollInterval(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, eng.Start(ctx))
	defer func() {
		cancel()
		eng.Wait()
	}()

	reply := make(chan Reply, 1)
	eng.Submit(Request{Frame: frame.RequestStatus(), Reply: reply})

	sent := readDeviceFrame(t, conn)
	assert.Equal(t, frame.RequestStatus(), sent)

	statFrame := []byte{
		0xF0, 0x47, 0x00, byte(frame.STAT), 0x48,
		5, 1,
		0x10, 0x02,
		0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0,
		0xF7,
	}
	writeDeviceFrame(t, conn, statFrame)

	select {
	case r := <-reply:
		require.NoError(t, r.Err)
		sr, ok := r.Event.(frame.StatusReport)
		require.True(t, ok)
		assert.Equal(t, uint16(272), sr.MaxBlocks)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply received")
	}
}

func TestAdvisoryOpcodeNeverBlocksQueue(t *testing.T) {
	addr, accepted := startDevice(t)

	port, err := midivirtual.NewPort(addr)
	require.NoError(t, err)
	require.NoError(t, port.Open())
	defer port.Close()

	conn := <-accepted
	defer conn.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	eng := New(port, logger, WithPollInterval(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, eng.Start(ctx))
	defer func() {
		cancel()
		eng.Wait()
	}()

	advisory := []byte{0xF0, 0x47, 0x00, 0x11, 0x48, 0xF7}
	eng.Submit(Request{Frame: advisory})
	first := readDeviceFrame(t, conn)
	assert.Equal(t, advisory, first)

	reply := make(chan Reply, 1)
	eng.Submit(Request{Frame: frame.RequestStatus(), Reply: reply})
	second := readDeviceFrame(t, conn)
	assert.Equal(t, frame.RequestStatus(), second)
}
