// Package buzzer provides tone sinks for the sound sequencer: a square-wave
// synthesizer played through the host audio device, and a recording sink for
// headless runs.
package buzzer

import (
	"math"
	"sync/atomic"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	frameBytes   = 4 * ChannelCount // float32 per channel

	// peak is the amplitude at volume 255.
	peak = 0.3
)

// Square is an endless stereo float32 square wave. Tone and volume are set
// from the control loop and picked up by the audio thread on its next read.
type Square struct {
	rate  float64
	freq  atomic.Uint32
	level atomic.Uint32

	phase float64 // owned by the reader
}

// NewSquare creates a silent wave at sampleRate.
func NewSquare(sampleRate int) *Square {
	return &Square{rate: float64(sampleRate)}
}

// Set changes the tone. Zero frequency or volume is silence.
func (s *Square) Set(freq int, volume uint8) {
	if freq < 0 {
		freq = 0
	}
	s.freq.Store(uint32(freq))
	s.level.Store(uint32(volume))
}

// Read implements io.Reader. It fills whole frames and never ends.
func (s *Square) Read(p []byte) (int, error) {
	n := len(p) / frameBytes
	f := float64(s.freq.Load())
	a := float64(s.level.Load()) / 255 * peak
	step := f / s.rate

	for i := 0; i < n; i++ {
		v := 0.0
		if f > 0 && a > 0 {
			if s.phase < 0.5 {
				v = a
			} else {
				v = -a
			}
			s.phase += step
			s.phase -= math.Floor(s.phase)
		}
		putStereoF32(p, i, v)
	}
	return n * frameBytes, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	o := i * frameBytes
	for c := 0; c < ChannelCount; c++ {
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
		o += 4
	}
}
