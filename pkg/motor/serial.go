package motor

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Serial drives a motor controller over a text line protocol. Each write
// sends the four H-bridge duties, left IN1 IN2 then right IN3 IN4:
//
//	M 200 0 0 180
//
// Writes equal to the previous one are skipped.
type Serial struct {
	mu   sync.Mutex
	w    *bufio.Writer
	last Pair
	sent bool
}

var _ Driver = (*Serial)(nil)

// NewSerial returns a driver writing to w, usually a serial port.
func NewSerial(w io.Writer) *Serial {
	return &Serial{w: bufio.NewWriter(w)}
}

// Write implements Driver.
func (s *Serial) Write(left, right int) error {
	p := Pair{Left: Clamp(left), Right: Clamp(right)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent && p == s.last {
		return nil
	}

	lf, lr := Bridge(p.Left)
	rf, rr := Bridge(p.Right)
	if _, err := fmt.Fprintf(s.w, "M %d %d %d %d\n", lf, lr, rf, rr); err != nil {
		return fmt.Errorf("motor: write frame: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		s.sent = false
		return fmt.Errorf("motor: flush frame: %w", err)
	}
	s.last = p
	s.sent = true
	return nil
}
