// Package engine implements the half-duplex request/response worker that
// owns the sampler connection: a single cooperative loop serializes
// outbound frames, correlates inbound replies, and paces Sample Dump
// Standard transfers. It replaces the source's global channels and lazy
// singletons with one explicit, constructed value.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fenwick-audio/sampler-core/pkg/frame"
	"github.com/fenwick-audio/sampler-core/pkg/midi"
	"github.com/fenwick-audio/sampler-core/pkg/sds"
)

// advisoryOpcode is the one S1000-family opcode the source never waits
// on a reply for; sending it leaves pending false.
const advisoryOpcode = 0x11

// Reply is delivered to the shim that issued a Request once a
// correlated decode completes (or, for a sample-data stream, once the
// full dump has been reassembled).
type Reply struct {
	Event   frame.Event
	Samples []int16
	Err     error
}

// Request is one host call translated into wire frames. Most operations
// set Frame only; a sample-data upload also sets Upload so its first
// packet is queued as soon as the header frame is sent.
type Request struct {
	Frame    []byte
	Download *sds.Downloader
	Upload   *sds.Uploader
	Reply    chan Reply
}

type queueEntry struct {
	data        []byte
	skipsGate   bool
	setsPending bool
	reply       chan Reply
}

// Engine is the explicit worker value: constructed once by the caller,
// owning its channels, transmit queue, and SDS state.
type Engine struct {
	port     midi.Port
	registry *frame.Registry
	logger   *logrus.Entry

	incoming chan Request

	mu           sync.Mutex
	queue        []queueEntry
	pending      bool
	pendingSince time.Time
	waitingReply chan Reply
	uploader     *sds.Uploader
	downloader   *sds.Downloader

	pollInterval    time.Duration
	watchdogTimeout time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithPollInterval overrides the main loop's polling period (default 100ms).
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) { e.pollInterval = d }
}

// WithWatchdogTimeout overrides how long a wedged pending flag survives
// before the watchdog clears it (default 100s, the longest client timeout).
func WithWatchdogTimeout(d time.Duration) Option {
	return func(e *Engine) { e.watchdogTimeout = d }
}

// New constructs an Engine bound to port, ready for Start.
func New(port midi.Port, logger *logrus.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	e := &Engine{
		port:            port,
		registry:        frame.NewRegistry(),
		logger:          logger.WithField("service", "engine"),
		incoming:        make(chan Request, 32),
		pollInterval:    100 * time.Millisecond,
		watchdogTimeout: 100 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit enqueues req for processing. The caller owns req.Reply and
// should perform a timed receive on it.
func (e *Engine) Submit(req Request) {
	e.incoming <- req
}

// Start runs the main loop and the MIDI subscription in background
// goroutines. Call Wait to block until Stop completes.
func (e *Engine) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	if err := e.port.Subscribe(handlerFunc(e.handleInbound)); err != nil {
		cancel()
		return err
	}

	e.wg.Add(2)
	go func() {
		defer e.wg.Done()
		e.mainLoop(ctx)
	}()
	go func() {
		defer e.wg.Done()
		e.watchdog(ctx)
	}()
	return nil
}

// Stop cancels the main loop and watchdog. Call Wait afterwards.
func (e *Engine) Stop() error {
	if e.cancel != nil {
		e.cancel()
	}
	return nil
}

// Wait blocks until the main loop and watchdog have exited.
func (e *Engine) Wait() error {
	e.wg.Wait()
	return nil
}

func (e *Engine) mainLoop(ctx context.Context) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()
	e.logger.Info("engine main loop started")
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine main loop stopped")
			return
		case req := <-e.incoming:
			e.enqueue(req)
		case <-ticker.C:
			e.drainOne()
		}
	}
}

// enqueue appends req's frame to the transmit queue. A request that
// starts a sample upload also enqueues its first packet directly, ahead
// of any later ACK, bypassing the pending gate (the packet-0-immediately
// redesign over the source's ACK-only pacing).
func (e *Engine) enqueue(req Request) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// A sample-data request is unsolicited as soon as it is sent: the
	// reply is whatever SDS data packets arrive afterward, not a
	// correlated decode, so it never holds the pending gate.
	entry := queueEntry{
		data:        req.Frame,
		setsPending: !isAdvisory(req.Frame) && req.Download == nil,
		reply:       req.Reply,
	}
	e.queue = append(e.queue, entry)

	if req.Upload != nil {
		e.uploader = req.Upload
		e.queue = append(e.queue, queueEntry{data: req.Upload.First(), skipsGate: true})
	}
	if req.Download != nil {
		e.downloader = req.Download
		e.waitingReply = req.Reply
	}
}

// drainOne sends at most one frame per tick, matching the source's
// single-frame-per-iteration poll loop.
func (e *Engine) drainOne() {
	e.mu.Lock()
	if len(e.queue) == 0 {
		e.mu.Unlock()
		return
	}
	head := e.queue[0]
	if e.pending && !head.skipsGate {
		e.mu.Unlock()
		return
	}
	e.queue = e.queue[1:]
	if head.setsPending {
		e.pending = true
		e.pendingSince = time.Now()
		e.waitingReply = head.reply
	}
	e.mu.Unlock()

	if err := e.port.Send(midi.Frame(head.data)); err != nil {
		e.logger.WithError(err).Warn("send failed")
	}
}

// watchdog clears a pending flag that has survived longer than the
// longest client timeout, preventing the engine from wedging forever on
// a lost reply.
func (e *Engine) watchdog(ctx context.Context) {
	ticker := time.NewTicker(e.watchdogTimeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			if e.pending && time.Since(e.pendingSince) > e.watchdogTimeout {
				e.logger.Warn("watchdog clearing wedged pending flag")
				e.pending = false
				e.waitingReply = nil
			}
			e.mu.Unlock()
		}
	}
}

// handleInbound is the MIDI-driven callback: it routes SDS traffic to
// the active uploader/downloader and everything else through the decode
// registry, clearing pending on a correlated, non-SDS decode.
func (e *Engine) handleInbound(f midi.Frame) {
	if idx, ok := sds.IsAck(f); ok {
		e.handleAck(idx)
		return
	}
	if sds.IsDataPacket(f) {
		e.handleDataPacket(f)
		return
	}

	ev, ok := e.registry.Decode(f)
	if !ok {
		e.logger.Debug("unrecognized frame, dropped")
		return
	}

	e.mu.Lock()
	reply := e.waitingReply
	e.pending = false
	e.waitingReply = nil
	e.mu.Unlock()

	deliver(reply, Reply{Event: ev})
}

func (e *Engine) handleAck(packetIdx byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.uploader == nil {
		return
	}
	e.logger.WithField("packet", packetIdx).Debug("sds ack received")
	next, ok := e.uploader.Ack()
	if !ok {
		e.uploader = nil
		return
	}
	e.queue = append(e.queue, queueEntry{data: next, skipsGate: true})
}

func (e *Engine) handleDataPacket(f midi.Frame) {
	e.mu.Lock()
	downloader := e.downloader
	e.mu.Unlock()
	if downloader == nil {
		return
	}

	samples, done, err := downloader.Feed(f)
	if err != nil {
		e.logger.WithError(err).Warn("sds checksum mismatch, dropping packet")
		return
	}
	if !done {
		return
	}

	e.mu.Lock()
	reply := e.waitingReply
	e.downloader = nil
	e.waitingReply = nil
	e.mu.Unlock()

	deliver(reply, Reply{Samples: samples})
}

func deliver(reply chan Reply, r Reply) {
	if reply == nil {
		return
	}
	select {
	case reply <- r:
	default:
	}
}

func isAdvisory(data []byte) bool {
	return len(data) > 3 && data[3] == advisoryOpcode
}

// handlerFunc adapts a plain func(midi.Frame) into a midi.FrameListener.
type handlerFunc func(midi.Frame)

func (h handlerFunc) Handle(f midi.Frame) { h(f) }
