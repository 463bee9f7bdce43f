package robot

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/behavior"
	"github.com/teslashibe/go-enic/pkg/clock"
	"github.com/teslashibe/go-enic/pkg/countdown"
	"github.com/teslashibe/go-enic/pkg/face"
	"github.com/teslashibe/go-enic/pkg/motor"
	"github.com/teslashibe/go-enic/pkg/sense"
	"github.com/teslashibe/go-enic/pkg/sound"
)

// Loop defaults.
const (
	DefaultTickInterval = 2 * time.Millisecond
	DefaultQueueSize    = 32

	errorLogInterval = 5 * time.Second
	heartbeatEvery   = 5 * time.Second
)

// Config gathers the tuning of every component on the loop.
type Config struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	QueueSize    int           `yaml:"queue_size"`
	RampStep     int           `yaml:"ramp_step"`
	Seed         int64         `yaml:"seed"` // 0 seeds from the wall clock

	Behavior behavior.Config `yaml:"behavior"`
	Sense    sense.Config    `yaml:"sense"`
	Idle     face.IdleConfig `yaml:"idle"`
}

// DefaultConfig returns the configuration used on the robot.
func DefaultConfig() Config {
	return Config{
		TickInterval: DefaultTickInterval,
		QueueSize:    DefaultQueueSize,
		RampStep:     motor.DefaultRampStep,
		Behavior:     behavior.DefaultConfig(),
		Sense:        sense.DefaultConfig(),
		Idle:         face.DefaultIdleConfig(),
	}
}

// Deps are the hardware-facing ends of the loop. Any of them may be nil:
// a nil Range reads as "nothing in front", nil outputs are discarded.
type Deps struct {
	Clock   clock.Clock
	Rand    clock.Rand
	Driver  motor.Driver
	Range   sense.RangeFinder
	Sink    sound.Sink
	Display face.Display

	// Pause replaces the filter's pause between paired samples.
	Pause func(time.Duration)
}

// Snapshot is the published status of the loop.
type Snapshot struct {
	behavior.Status
	Ticks        uint64 `json:"ticks"`
	DriverErrors uint64 `json:"driver_errors"`
	Dropped      uint64 `json:"dropped_commands"`
	RampStep     int    `json:"ramp_step"`
	Tones        uint64 `json:"tones"`
	Samples      uint64 `json:"range_samples"`
	UptimeMs     int64  `json:"uptime_ms"`
}

// Robot owns the behavior core and runs it on one goroutine. Commands from
// any goroutine are queued and applied at the start of the next tick.
type Robot struct {
	cfg   Config
	clock clock.Clock
	log   *slog.Logger

	brain  *behavior.Brain
	ramp   *motor.Ramp
	seq    *sound.Sequencer
	filter *sense.Filter

	commands chan string
	closed   atomic.Bool
	rampStep atomic.Int32
	dropped  atomic.Uint64

	// Loop-owned diagnostics.
	ticks         uint64
	errorCount    uint64
	lastErrorAt   time.Duration
	errorLogged   bool
	lastHeartbeat time.Duration

	mu       sync.RWMutex
	snapshot Snapshot
}

// New wires the components together. The loop starts in Idle.
func New(cfg Config, deps Deps) *Robot {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Rand == nil {
		deps.Rand = clock.NewRand(cfg.Seed)
	}

	ramp := motor.NewRamp(deps.Driver)
	ramp.SetRampStep(cfg.RampStep)

	filter := sense.NewFilter(deps.Range, cfg.Sense)
	if deps.Pause != nil {
		filter.SetPause(deps.Pause)
	}

	seq := sound.NewSequencer(deps.Sink, deps.Rand)
	idle := face.NewIdle(deps.Display, deps.Rand, cfg.Idle)
	timeline := countdown.NewTimeline(deps.Display, seq, deps.Rand)

	brain := behavior.New(cfg.Behavior, behavior.Parts{
		Rand:      deps.Rand,
		Motors:    ramp,
		Sensor:    filter,
		Sound:     seq,
		Display:   deps.Display,
		Idle:      idle,
		Countdown: timeline,
	})

	r := &Robot{
		cfg:      cfg,
		clock:    deps.Clock,
		log:      log.Component("robot"),
		brain:    brain,
		ramp:     ramp,
		seq:      seq,
		filter:   filter,
		commands: make(chan string, cfg.QueueSize),
	}
	r.rampStep.Store(int32(ramp.RampStep()))

	now := deps.Clock.Now()
	brain.Reset(now)
	r.lastHeartbeat = now
	r.publish(now)
	return r
}

// Submit queues a command for the next tick. It never blocks.
func (r *Robot) Submit(cmd string) error {
	if r.closed.Load() {
		return ErrClosed
	}
	select {
	case r.commands <- cmd:
		return nil
	default:
		r.dropped.Add(1)
		return ErrQueueFull
	}
}

// SetRampStep changes the motor slew step; it takes effect on the next tick.
func (r *Robot) SetRampStep(step int) {
	if step < motor.MinRampStep {
		step = motor.MinRampStep
	}
	if step > motor.MaxRampStep {
		step = motor.MaxRampStep
	}
	r.rampStep.Store(int32(step))
}

// RampStep returns the requested motor slew step.
func (r *Robot) RampStep() int {
	return int(r.rampStep.Load())
}

// Run ticks the loop until ctx is cancelled.
func (r *Robot) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	r.log.Info("control loop started", "interval", r.cfg.TickInterval)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("control loop stopped", "ticks", r.ticks)
			return nil
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Tick runs one control cycle: apply queued commands, then advance the
// brain. Run calls it; tests and the simulator may call it directly, but
// never concurrently with Run.
func (r *Robot) Tick() {
	now := r.clock.Now()

	for drained := false; !drained; {
		select {
		case cmd := <-r.commands:
			if !r.brain.HandleCommandAt(cmd, now) {
				r.log.Debug("unknown command", "command", cmd)
			}
		default:
			drained = true
		}
	}

	if step := int(r.rampStep.Load()); step != r.ramp.RampStep() {
		r.ramp.SetRampStep(step)
	}

	if err := r.brain.Update(now); err != nil {
		r.driverError(now, err)
	}
	r.ticks++

	if now-r.lastHeartbeat >= heartbeatEvery {
		r.lastHeartbeat = now
		r.log.Debug("heartbeat",
			"ticks", r.ticks,
			"errors", r.errorCount,
			"mode", r.brain.Mode(),
			"distance", r.brain.Distance())
	}

	r.publish(now)
}

// driverError counts a failed motor write and logs at most once per
// errorLogInterval.
func (r *Robot) driverError(now time.Duration, err error) {
	r.errorCount++
	if !r.errorLogged || now-r.lastErrorAt > errorLogInterval {
		r.log.Warn("motor driver write failed", "error", err, "total", r.errorCount)
		r.lastErrorAt = now
		r.errorLogged = true
	}
}

func (r *Robot) publish(now time.Duration) {
	snap := Snapshot{
		Status:       r.brain.Status(now),
		Ticks:        r.ticks,
		DriverErrors: r.errorCount,
		Dropped:      r.dropped.Load(),
		RampStep:     r.ramp.RampStep(),
		Tones:        r.seq.Emitted(),
		Samples:      r.filter.Samples(),
		UptimeMs:     now.Milliseconds(),
	}
	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()
}

// Snapshot returns the status published by the last tick.
func (r *Robot) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Close stops the motors and sound. Later Submits fail with ErrClosed.
// Call it after Run has returned.
func (r *Robot) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.brain.Close()
}
