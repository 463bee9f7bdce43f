package behavior

import (
	"strings"
	"time"

	"github.com/teslashibe/go-enic/pkg/face"
	"github.com/teslashibe/go-enic/pkg/motor"
	"github.com/teslashibe/go-enic/pkg/sound"
)

// Override is a one-shot expression shown in Idle for a fixed time.
type Override struct {
	Expression face.Expression
	Hold       time.Duration
	Effect     sound.Effect
}

// Overrides maps expression commands to their override.
var Overrides = map[string]Override{
	"konus": {face.Speak, 1200 * time.Millisecond, sound.EffectSpeech},
	"dinle": {face.Listen, 1400 * time.Millisecond, sound.EffectSpeech},
	"sasir": {face.Shock, 1000 * time.Millisecond, sound.EffectFear},
	"kork":  {face.Fear, 1300 * time.Millisecond, sound.EffectFear},
	"agla":  {face.Cry, 1600 * time.Millisecond, sound.EffectCry},
	"dil":   {face.Tongue, 1400 * time.Millisecond, sound.EffectSpeech},
}

// manualDrive returns the wheel pair for a manual motion command.
func (c Config) manualDrive(cmd string) (motor.Pair, bool) {
	switch cmd {
	case "ileri":
		return motor.Pair{Left: c.ManualSpeed, Right: c.ManualSpeed}, true
	case "geri":
		return motor.Pair{Left: -c.ManualSpeed, Right: -c.ManualSpeed}, true
	case "sol":
		return motor.Pair{Left: -c.TurnSpeed, Right: c.TurnSpeed}, true
	case "sag":
		return motor.Pair{Left: c.TurnSpeed, Right: -c.TurnSpeed}, true
	}
	return motor.Pair{}, false
}

// CommandInfo describes one accepted command.
type CommandInfo struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Help    string   `json:"help"`
}

// Commands lists the command vocabulary.
func Commands() []CommandInfo {
	return []CommandInfo{
		{Name: "dur", Help: "stop and go idle"},
		{Name: "otonom", Aliases: []string{"gez"}, Help: "wander autonomously, avoiding obstacles"},
		{Name: "dans", Help: "dance in place"},
		{Name: "bomb", Help: "run the 30 second countdown show"},
		{Name: "konus", Help: "speak face"},
		{Name: "dinle", Help: "listen face"},
		{Name: "sasir", Help: "shocked face"},
		{Name: "kork", Help: "scared face"},
		{Name: "agla", Help: "crying face"},
		{Name: "dil", Help: "tongue out"},
		{Name: "ileri", Help: "drive forward"},
		{Name: "geri", Help: "drive backward"},
		{Name: "sol", Help: "spin left"},
		{Name: "sag", Help: "spin right"},
	}
}

// Known reports whether text names a command, after the same trimming and
// case folding HandleCommand applies.
func Known(text string) bool {
	cmd := strings.ToLower(strings.TrimSpace(text))
	for _, c := range Commands() {
		if c.Name == cmd {
			return true
		}
		for _, a := range c.Aliases {
			if a == cmd {
				return true
			}
		}
	}
	return false
}
