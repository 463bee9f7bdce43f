// Package face decides which facial expression the robot shows and when.
//
// Drawing is delegated to a Display; this package only owns the schedules:
// a randomized "big expression" clock with a faster blink overlay on top.
package face

import (
	"fmt"
	"strings"
	"time"
)

// Expression is a facial expression.
type Expression int

const (
	Normal Expression = iota
	Blink
	Dead
	Tongue
	Listen
	Speak
	Shock
	Sneaky
	Cry
	Fear
)

var expressionNames = [...]string{
	Normal: "normal",
	Blink:  "blink",
	Dead:   "dead",
	Tongue: "tongue",
	Listen: "listen",
	Speak:  "speak",
	Shock:  "shock",
	Sneaky: "sneaky",
	Cry:    "cry",
	Fear:   "fear",
}

// String returns the expression name.
func (e Expression) String() string {
	if e < 0 || int(e) >= len(expressionNames) {
		return "unknown"
	}
	return expressionNames[e]
}

// ParseExpression looks an expression up by name.
func ParseExpression(name string) (Expression, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range expressionNames {
		if n == name {
			return Expression(i), true
		}
	}
	return Normal, false
}

// MarshalText encodes the expression by name.
func (e Expression) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes an expression name.
func (e *Expression) UnmarshalText(text []byte) error {
	v, ok := ParseExpression(string(text))
	if !ok {
		return fmt.Errorf("face: unknown expression %q", text)
	}
	*e = v
	return nil
}

// Display draws whole frames. Each call replaces the previous frame.
type Display interface {
	DrawExpression(e Expression)
	DrawDanceFrame(frame int)
	DrawCountdownScene(phase uint8, progress uint8, elapsed time.Duration)
}

// Weighted is one entry of the idle expression distribution.
type Weighted struct {
	Expression Expression
	Weight     int
}

// IdleWeights is the distribution of idle "big" expressions, in percent.
// Blink is absent on purpose: it runs on its own clock.
var IdleWeights = []Weighted{
	{Sneaky, 18},
	{Tongue, 18},
	{Shock, 16},
	{Fear, 16},
	{Cry, 16},
	{Listen, 8},
	{Speak, 8},
}
