package sds

import (
	"errors"

	"github.com/fenwick-audio/sampler-core/internal/fifo"
)

// ErrBadChecksum is returned by Feed when a data packet's checksum does
// not match its payload.
var ErrBadChecksum = errors.New("sds: checksum mismatch")

// Downloader accumulates an inbound sample dump. Sending RSPACK clears
// client_request_pending immediately; every data packet that follows is
// unsolicited and is routed here by the engine.
type Downloader struct {
	target          int
	expectedPackets int
	receivedPackets int
	stage           *fifo.Fifo
	samples         []int16
}

// NewDownloader prepares a Downloader for a dump of numSamples samples.
func NewDownloader(numSamples int) *Downloader {
	return &Downloader{
		target:          numSamples,
		expectedPackets: ExpectedPackets(numSamples),
		stage:           fifo.New(PacketPayloadSize + 1),
		samples:         make([]int16, 0, numSamples),
	}
}

// ExpectedPackets returns the total packet count this download expects.
func (d *Downloader) ExpectedPackets() int {
	return d.expectedPackets
}

// Feed processes one inbound SDS data packet. It returns the completed
// sample slice and done=true exactly once, when the expected packet
// count is reached; the Downloader resets itself at that point.
func (d *Downloader) Feed(frame []byte) (samples []int16, done bool, err error) {
	if !IsDataPacket(frame) {
		return nil, false, nil
	}
	body := frame[1 : len(frame)-2]
	declared := frame[len(frame)-2]
	if checksum(body) != declared {
		return nil, false, ErrBadChecksum
	}
	payload := frame[5 : len(frame)-2]

	d.stage.Reset()
	d.stage.Write(payload)
	group := make([]byte, 3)
	for d.stage.Read(group) == 3 {
		d.samples = append(d.samples, unpackSample(group[0], group[1], group[2]))
	}
	d.receivedPackets++

	if d.receivedPackets < d.expectedPackets {
		return nil, false, nil
	}
	out := d.samples
	if len(out) > d.target {
		out = out[:d.target]
	}
	d.samples = make([]int16, 0, cap(d.samples))
	d.receivedPackets = 0
	return out, true, nil
}
