package buzzer

import (
	"log/slog"
	"sync"

	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/sound"
)

// Tone is one recorded instruction. Freq 0 is a silence.
type Tone struct {
	Freq   int
	Volume uint8
}

// Log is a sink that records tones and logs them at debug level.
type Log struct {
	mu    sync.Mutex
	tones []Tone
	limit int
	log   *slog.Logger
}

var _ sound.Sink = (*Log)(nil)

// NewLog keeps at most limit tones (0 = unlimited).
func NewLog(limit int) *Log {
	return &Log{limit: limit, log: log.Component("buzzer")}
}

// Tone implements sound.Sink.
func (l *Log) Tone(freq int, volume uint8) {
	l.record(Tone{Freq: freq, Volume: volume})
	l.log.Debug("tone", "freq", freq, "volume", volume)
}

// Silence implements sound.Sink.
func (l *Log) Silence() {
	l.record(Tone{})
}

func (l *Log) record(t Tone) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tones = append(l.tones, t)
	if l.limit > 0 && len(l.tones) > l.limit {
		l.tones = l.tones[len(l.tones)-l.limit:]
	}
}

// Tones returns a copy of the recorded tones.
func (l *Log) Tones() []Tone {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Tone, len(l.tones))
	copy(out, l.tones)
	return out
}

// Tee forwards every instruction to all sinks.
type Tee []sound.Sink

// Tone implements sound.Sink.
func (t Tee) Tone(freq int, volume uint8) {
	for _, s := range t {
		s.Tone(freq, volume)
	}
}

// Silence implements sound.Sink.
func (t Tee) Silence() {
	for _, s := range t {
		s.Silence()
	}
}
