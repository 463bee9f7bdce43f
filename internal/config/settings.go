package config

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/motor"
)

// Settings are the runtime knobs editable from the web API. They survive
// restarts.
type Settings struct {
	RampStep int     `yaml:"ramp_step" json:"ramp_step"`
	Volume   float64 `yaml:"volume" json:"volume"` // buzzer volume, 0..1
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		RampStep: motor.DefaultRampStep,
		Volume:   0.6,
	}
}

// Clamp pulls every field into its legal range.
func (s Settings) Clamp() Settings {
	s.RampStep = min(max(s.RampStep, motor.MinRampStep), motor.MaxRampStep)
	s.Volume = min(max(s.Volume, 0), 1)
	return s
}

const (
	settingsObject   = "settings"
	settingsProperty = "runtime"
)

// SettingsStore keeps Settings in memory and persists them through gdata.
// A nil manager gives a memory-only store.
type SettingsStore struct {
	mu   sync.Mutex
	data *gdata.Manager
	cur  Settings
	log  *slog.Logger
}

// OpenSettings opens the per-user data directory for appName.
func OpenSettings(appName string) (*SettingsStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("config: open settings storage: %w", err)
	}
	return NewSettingsStore(m), nil
}

// NewSettingsStore loads saved settings, falling back to defaults.
func NewSettingsStore(m *gdata.Manager) *SettingsStore {
	s := &SettingsStore{
		data: m,
		cur:  DefaultSettings(),
		log:  log.Component("settings"),
	}
	if err := s.Load(); err != nil {
		s.log.Warn("failed to load settings, using defaults", "error", err)
	}
	return s
}

// Load replaces the in-memory settings with the saved ones, if any.
func (s *SettingsStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil || !s.data.ObjectPropExists(settingsObject, settingsProperty) {
		s.cur = DefaultSettings()
		return nil
	}

	raw, err := s.data.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		s.cur = DefaultSettings()
		return fmt.Errorf("config: load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		s.cur = DefaultSettings()
		return fmt.Errorf("config: decode settings: %w", err)
	}
	s.cur = loaded.Clamp()
	return nil
}

// Get returns the current settings.
func (s *SettingsStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Update applies fn, clamps the result and saves it.
func (s *SettingsStore) Update(fn func(*Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur
	fn(&next)
	s.cur = next.Clamp()
	return s.cur, s.save()
}

func (s *SettingsStore) save() error {
	if s.data == nil {
		return nil
	}
	raw, err := yaml.Marshal(s.cur)
	if err != nil {
		return fmt.Errorf("config: encode settings: %w", err)
	}
	if err := s.data.SaveObjectProp(settingsObject, settingsProperty, raw); err != nil {
		return fmt.Errorf("config: save settings: %w", err)
	}
	s.log.Debug("settings saved", "ramp_step", s.cur.RampStep, "volume", s.cur.Volume)
	return nil
}
