package sense

import (
	"sync"
	"time"
)

// Speed of sound round trip, centimetres per microsecond, halved for the
// out-and-back path.
const cmPerMicrosecond = 0.034 / 2

// EchoTimeout is the longest echo pulse the firmware waits for.
const EchoTimeout = 10 * time.Millisecond

// EchoRange is the farthest obstacle whose echo returns within EchoTimeout.
// Anything beyond reads as ErrNoEcho.
const EchoRange = float64(EchoTimeout/time.Microsecond) * cmPerMicrosecond

// Fixed is a RangeFinder that returns a settable distance. The simulator
// moves it with the keyboard; tests script it directly.
type Fixed struct {
	mu   sync.Mutex
	dist float64
}

// NewFixed returns a Fixed range finder reading d.
func NewFixed(d float64) *Fixed {
	return &Fixed{dist: d}
}

// Set changes the reading.
func (f *Fixed) Set(d float64) {
	f.mu.Lock()
	f.dist = d
	f.mu.Unlock()
}

// Get returns the current reading without error.
func (f *Fixed) Get() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dist
}

// Measure implements RangeFinder.
func (f *Fixed) Measure() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dist, nil
}
