package sds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackSampleRoundTrip(t *testing.T) {
	for _, s := range []int16{0, 1, -1, 32767, -32768, 1234, -1234} {
		b := packSample(s)
		assert.Equal(t, s, unpackSample(b[0], b[1], b[2]), "s=%d", s)
	}
}

func TestDataPacketChecksumInvariant(t *testing.T) {
	payload := make([]byte, PacketPayloadSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	frame := buildDataPacket(0, payload)
	body := frame[1 : len(frame)-2]
	assert.Equal(t, checksum(body), frame[len(frame)-2])
}

func TestDataPacketFraming(t *testing.T) {
	frame := buildDataPacket(2, nil)
	assert.Equal(t, byte(0xF0), frame[0])
	assert.Equal(t, byte(0xF7), frame[len(frame)-1])
	assert.True(t, IsDataPacket(frame))
	assert.Equal(t, 5+PacketPayloadSize+2, len(frame))
}

func TestUploaderSendsPacketZeroImmediately(t *testing.T) {
	samples := sineOnePeriod(440, 44100)
	require.Len(t, samples, 100)

	u := NewUploader(samples)
	assert.Equal(t, 3, u.PacketCount())

	first := u.First()
	assert.True(t, IsDataPacket(first))
	assert.False(t, u.Done())

	_, ok := u.Ack()
	require.True(t, ok)
	_, ok = u.Ack()
	require.True(t, ok)
	assert.True(t, u.Done())

	_, ok = u.Ack()
	assert.False(t, ok)
}

func TestDownloaderEmitsOnceAtExpectedCount(t *testing.T) {
	samples := sineOnePeriod(440, 44100)
	u := NewUploader(samples)
	d := NewDownloader(len(samples))
	assert.Equal(t, 3, d.ExpectedPackets())

	frame := u.First()
	_, done, err := d.Feed(frame)
	require.NoError(t, err)
	assert.False(t, done)

	frame, _ = u.Ack()
	_, done, err = d.Feed(frame)
	require.NoError(t, err)
	assert.False(t, done)

	frame, _ = u.Ack()
	out, done, err := d.Feed(frame)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, samples, out)
}

func TestDownloaderRejectsBadChecksum(t *testing.T) {
	d := NewDownloader(1)
	frame := buildDataPacket(0, []byte{1, 2, 3})
	frame[len(frame)-2] ^= 0xFF
	_, _, err := d.Feed(frame)
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func sineOnePeriod(freq, sampleRate float64) []int16 {
	n := int(sampleRate / freq)
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		v := (math.Sin(2*math.Pi*float64(i)/float64(n)) + 1) / 2
		scaled := v*65534 - 32767
		if scaled > 32767 {
			scaled = 32767
		}
		if scaled < -32768 {
			scaled = -32768
		}
		out[i] = int16(scaled)
	}
	return out
}
