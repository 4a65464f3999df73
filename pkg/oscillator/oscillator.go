// Package oscillator synthesizes single-cycle waveforms as 16-bit PCM,
// used to seed a freshly created sample with audible content instead of
// silence.
package oscillator

import "math"

// Waveform selects the shape generated by Generate.
type Waveform int

const (
	Square Waveform = iota
	Triangle
	Saw
	Pulse
	Sine
)

const sampleRate = 44100

// Generate produces one period of frequency Hz as signed 16-bit PCM at
// 44100 Hz. A 440 Hz request yields the 100-sample period used to seed
// NewSampleFromTemplate.
func Generate(waveform Waveform, frequency float64) []int16 {
	n := int(math.Floor(sampleRate / frequency))
	if n < 1 {
		n = 1
	}
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		phase := float64(i) / float64(n)
		out[i] = toPCM(valueAt(waveform, phase))
	}
	return out
}

// valueAt returns the waveform's value at phase (in [0, 1)), normalized
// to [0, 1].
func valueAt(waveform Waveform, phase float64) float64 {
	switch waveform {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return 0
	case Triangle:
		if phase < 0.5 {
			return 2 * phase
		}
		return 2 * (1 - phase)
	case Saw:
		return phase
	case Pulse:
		if phase < 0.25 {
			return 1
		}
		return 0
	case Sine:
		return (math.Sin(2*math.Pi*phase) + 1) / 2
	default:
		return 0.5
	}
}

// toPCM maps a [0, 1] waveform value onto the i16 range, clamping at the
// extremes.
func toPCM(value float64) int16 {
	scaled := value*65534 - 32767
	if scaled > 32767 {
		scaled = 32767
	}
	if scaled < -32768 {
		scaled = -32768
	}
	return int16(scaled)
}
