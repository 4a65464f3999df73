package sds

// Uploader paces an outbound sample dump: packet 0 is available
// immediately (the REDESIGN FLAG over the source's ACK-only pacing),
// and each subsequent packet is released only once the device ACKs the
// one before it.
type Uploader struct {
	packets [][]byte
	sent    int
}

// NewUploader builds an Uploader for samples, splitting them into
// PacketPayloadSize-byte packets, 3 bytes/sample, zero-padding the last.
func NewUploader(samples []int16) *Uploader {
	var packets [][]byte
	for i := 0; i < len(samples); i += samplesPerPacket {
		end := i + samplesPerPacket
		if end > len(samples) {
			end = len(samples)
		}
		payload := make([]byte, 0, PacketPayloadSize)
		for _, s := range samples[i:end] {
			b := packSample(s)
			payload = append(payload, b[0], b[1], b[2])
		}
		packets = append(packets, buildDataPacket(byte(len(packets)%128), payload))
	}
	if len(packets) == 0 {
		packets = [][]byte{buildDataPacket(0, nil)}
	}
	return &Uploader{packets: packets}
}

// First returns packet 0, to be placed on the transmit queue immediately
// after the SDATA header frame, without waiting for an ACK.
func (u *Uploader) First() []byte {
	u.sent = 1
	return u.packets[0]
}

// Ack advances the uploader past an ACK and returns the next packet, or
// ok=false once every packet has been sent.
func (u *Uploader) Ack() (frame []byte, ok bool) {
	if u.sent >= len(u.packets) {
		return nil, false
	}
	frame = u.packets[u.sent]
	u.sent++
	return frame, true
}

// Done reports whether every packet has been handed out.
func (u *Uploader) Done() bool {
	return u.sent >= len(u.packets)
}

// PacketCount returns the total number of packets this upload will send.
func (u *Uploader) PacketCount() int {
	return len(u.packets)
}
