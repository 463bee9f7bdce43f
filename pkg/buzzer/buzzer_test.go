package buzzer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/teslashibe/go-enic/pkg/sound"
)

func samples(t *testing.T, buf []byte) []float32 {
	t.Helper()
	if len(buf)%frameBytes != 0 {
		t.Fatalf("partial frame: %d bytes", len(buf))
	}
	var out []float32
	for i := 0; i < len(buf); i += frameBytes {
		l := math.Float32frombits(binary.LittleEndian.Uint32(buf[i:]))
		r := math.Float32frombits(binary.LittleEndian.Uint32(buf[i+4:]))
		if l != r {
			t.Fatalf("channels differ at frame %d: %v/%v", i/frameBytes, l, r)
		}
		out = append(out, l)
	}
	return out
}

func TestSquare_SilentByDefault(t *testing.T) {
	s := NewSquare(8)
	buf := make([]byte, 4*frameBytes+3)
	n, err := s.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 4*frameBytes {
		t.Fatalf("Read = %d bytes, want whole frames only", n)
	}
	for i, v := range samples(t, buf[:n]) {
		if v != 0 {
			t.Errorf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestSquare_Waveform(t *testing.T) {
	// 2 Hz at 8 samples/s: two high, two low.
	s := NewSquare(8)
	s.Set(2, 255)
	buf := make([]byte, 8*frameBytes)
	n, _ := s.Read(buf)
	got := samples(t, buf[:n])
	hi := float32(peak)
	want := []float32{hi, hi, -hi, -hi, hi, hi, -hi, -hi}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Fatalf("samples = %v, want %v", got, want)
		}
	}
}

func TestSquare_VolumeScalesAmplitude(t *testing.T) {
	s := NewSquare(8)
	s.Set(2, 51)
	buf := make([]byte, frameBytes)
	s.Read(buf)
	got := samples(t, buf)[0]
	want := float32(51.0 / 255 * peak)
	if math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("amplitude = %v, want %v", got, want)
	}

	s.Set(2, 0)
	s.Read(buf)
	if samples(t, buf)[0] != 0 {
		t.Error("zero volume not silent")
	}
}

func TestLog_RecordsSequencerOutput(t *testing.T) {
	l := NewLog(0)
	seq := sound.NewSequencer(l, nil)
	seq.Play(sound.EffectHappy, 0)
	seq.Update(0)
	if got := l.Tones(); len(got) != 1 || got[0] != (Tone{Freq: 1000, Volume: 220}) {
		t.Fatalf("tones = %v", got)
	}
	seq.Stop()
	tones := l.Tones()
	if tones[len(tones)-1] != (Tone{}) {
		t.Errorf("last tone = %v, want silence", tones[len(tones)-1])
	}
}

func TestLog_Limit(t *testing.T) {
	l := NewLog(2)
	l.Tone(1, 1)
	l.Tone(2, 2)
	l.Tone(3, 3)
	got := l.Tones()
	if len(got) != 2 || got[0].Freq != 2 || got[1].Freq != 3 {
		t.Errorf("tones = %v", got)
	}
}

func TestTee(t *testing.T) {
	a, b := NewLog(0), NewLog(0)
	tee := Tee{a, b}
	tee.Tone(440, 100)
	tee.Silence()
	for _, l := range []*Log{a, b} {
		if got := l.Tones(); len(got) != 2 || got[0].Freq != 440 || got[1] != (Tone{}) {
			t.Errorf("tones = %v", got)
		}
	}
}
