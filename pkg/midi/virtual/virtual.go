// Package virtual implements a TCP-backed loopback midi.Port used for
// tests and for exercising the engine without a real MIDI interface.
// A broker process (or the counterpart test helper) accepts the TCP
// connection and relays length-prefixed frames between peers.
package virtual

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/fenwick-audio/sampler-core/pkg/midi"
)

func init() {
	midi.RegisterBackend("virtual", NewPort)
}

// Port is a loopback midi.Port dialing a TCP broker at channel
// ("host:port"). Frames are framed as a 4-byte big-endian length prefix
// followed by the raw SysEx bytes.
type Port struct {
	channel string

	mu       sync.Mutex
	conn     net.Conn
	listener midi.FrameListener
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewPort satisfies midi.NewPortFunc.
func NewPort(channel string) (midi.Port, error) {
	return &Port{channel: channel, stopChan: make(chan struct{})}, nil
}

func (p *Port) Name() string { return p.channel }

func (p *Port) Open() error {
	conn, err := net.Dial("tcp", p.channel)
	if err != nil {
		return err
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			return err
		}
	}
	p.conn = conn
	return nil
}

func (p *Port) Close() error {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if running {
		close(p.stopChan)
		p.wg.Wait()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *Port) Send(frame midi.Frame) error {
	if p.conn == nil {
		return errors.New("virtual: no active connection")
	}
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(frame)))
	_ = p.conn.SetWriteDeadline(time.Now().Add(50 * time.Millisecond))
	if _, err := p.conn.Write(header); err != nil {
		return err
	}
	_, err := p.conn.Write(frame)
	return err
}

func (p *Port) Subscribe(listener midi.FrameListener) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = listener
	if p.running {
		return nil
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.wg.Add(1)
	go p.receiveLoop()
	return nil
}

func (p *Port) recv() (midi.Frame, error) {
	if p.conn == nil {
		return nil, fmt.Errorf("virtual: no active connection")
	}
	_ = p.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	header := make([]byte, 4)
	if _, err := readFull(p.conn, header); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header)
	body := make([]byte, length)
	_ = p.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, err := readFull(p.conn, body); err != nil {
		return nil, err
	}
	return midi.Frame(body), nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
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

func (p *Port) receiveLoop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		default:
		}
		frame, err := p.recv()
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			continue
		}
		if err != nil {
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
			return
		}
		if p.listener != nil {
			p.listener.Handle(frame)
		}
	}
}
