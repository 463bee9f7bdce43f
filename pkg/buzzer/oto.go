package buzzer

import (
	"fmt"
	"math"
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"github.com/teslashibe/go-enic/pkg/sound"
)

// Oto plays tones on the host audio device.
type Oto struct {
	ctx    *oto.Context
	player oto.Player
	wave   *Square

	mu     sync.Mutex
	closed bool
}

var _ sound.Sink = (*Oto)(nil)

// NewOto opens the audio device and starts a silent stream. volume is the
// master gain in [0, 1].
func NewOto(volume float64) (*Oto, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("buzzer: open audio: %w", err)
	}
	<-ready

	wave := NewSquare(SampleRate)
	player := ctx.NewPlayer(wave)
	o := &Oto{ctx: ctx, player: player, wave: wave}
	o.SetVolume(volume)
	player.Play()
	return o, nil
}

// Tone implements sound.Sink.
func (o *Oto) Tone(freq int, volume uint8) {
	o.wave.Set(freq, volume)
}

// Silence implements sound.Sink.
func (o *Oto) Silence() {
	o.wave.Set(0, 0)
}

// SetVolume sets the master gain, clamped to [0, 1].
func (o *Oto) SetVolume(v float64) {
	o.player.SetVolume(math.Max(0, math.Min(1, v)))
}

// Close stops the stream.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	o.Silence()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("buzzer: close player: %w", err)
	}
	return nil
}
