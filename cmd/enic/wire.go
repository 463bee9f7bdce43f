package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli"

	"github.com/teslashibe/go-enic/internal/config"
	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/behavior"
	"github.com/teslashibe/go-enic/pkg/buzzer"
	"github.com/teslashibe/go-enic/pkg/link"
	"github.com/teslashibe/go-enic/pkg/motor"
	"github.com/teslashibe/go-enic/pkg/oled"
	"github.com/teslashibe/go-enic/pkg/robot"
	"github.com/teslashibe/go-enic/pkg/sense"
	"github.com/teslashibe/go-enic/pkg/sim"
	"github.com/teslashibe/go-enic/pkg/sound"
	"github.com/teslashibe/go-enic/pkg/web"
)

// runtime is everything a running robot owns.
type runtime struct {
	robot    *robot.Robot
	frame    *oled.Frame
	renderer *oled.Renderer
	settings *config.SettingsStore
	volume   web.VolumeSetter
	closers  []io.Closer
}

// options are the parts of the wiring that differ between daemon and sim.
type options struct {
	rangeFinder sense.RangeFinder
	driver      motor.Driver
}

func build(c *cli.Context, opts options) (*runtime, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}

	settings, err := config.OpenSettings(config.AppName)
	if err != nil {
		log.Warn("settings storage unavailable, keeping them in memory", "error", err)
		settings = config.NewSettingsStore(nil)
	}
	st := settings.Get()
	cfg.RampStep = st.RampStep

	rt := &runtime{frame: oled.NewFrame(), settings: settings}
	rt.renderer = oled.NewRenderer(rt.frame)

	sink, err := rt.openSink(c.GlobalString("audio"), st.Volume)
	if err != nil {
		return nil, err
	}

	if opts.driver == nil {
		opts.driver, err = rt.openMotors(c.GlobalString("motors"), c.GlobalInt("baud"))
		if err != nil {
			rt.Close()
			return nil, err
		}
	}
	if opts.rangeFinder == nil {
		if d := c.GlobalFloat64("obstacle"); d > 0 {
			opts.rangeFinder = sim.NewRange(d)
		}
	}

	rt.robot = robot.New(cfg, robot.Deps{
		Driver:  opts.driver,
		Range:   opts.rangeFinder,
		Sink:    sink,
		Display: rt.renderer,
	})
	return rt, nil
}

func (rt *runtime) openSink(kind string, volume float64) (sound.Sink, error) {
	kind = strings.ToLower(kind)
	switch kind {
	case "off", "":
		return nil, nil
	case "log":
		return buzzer.NewLog(256), nil
	case "oto", "both":
		o, err := buzzer.NewOto(volume)
		if err != nil {
			log.Warn("audio device unavailable, logging tones instead", "error", err)
			return buzzer.NewLog(256), nil
		}
		rt.volume = o
		rt.closers = append(rt.closers, o)
		if kind == "both" {
			return buzzer.Tee{o, buzzer.NewLog(256)}, nil
		}
		return o, nil
	}
	return nil, cli.NewExitError("unknown --audio "+kind, 2)
}

func (rt *runtime) openMotors(port string, baud int) (motor.Driver, error) {
	if port == "" {
		return motor.NewRecorder(64), nil
	}
	p, err := link.OpenSerial(port, baud)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, p)
	log.Info("motor controller connected", "port", port)
	return motor.NewSerial(p), nil
}

// Close stops the robot, then releases devices.
func (rt *runtime) Close() error {
	var errs []error
	if rt.robot != nil {
		errs = append(errs, rt.robot.Close())
		log.Info("robot stopped",
			"ticks", rt.robot.Snapshot().Ticks,
			"frames", rt.frame.Count(),
			"display_failures", rt.renderer.Failures())
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i].Close())
	}
	return errors.Join(errs...)
}

// server builds the web server unless it is switched off.
func (rt *runtime) server(addr string) *web.Server {
	if addr == "" || addr == "off" {
		return nil
	}
	mirror := web.NewMirror(oled.Width, oled.Height)
	if err := rt.frame.Attach(mirror); err != nil {
		log.Warn("frame mirror not attached", "error", err)
		mirror = nil
	}
	srv := web.NewServer(web.Options{
		Addr:       addr,
		Controller: rt.robot,
		Frame:      rt.frame,
		Mirror:     mirror,
		Settings:   rt.settings,
		Volume:     rt.volume,
	})
	srv.ApplySettings(rt.settings.Get())
	return srv
}

// commandSource opens the serial link, or stdin when no port is set.
func (rt *runtime) commandSource(port string, baud int) (*link.Reader, error) {
	if port == "" {
		return link.NewReader("stdin", os.Stdin, rt.robot), nil
	}
	p, err := link.OpenSerial(port, baud)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, p)

	names := make([]string, 0, len(behavior.Commands()))
	for _, cmd := range behavior.Commands() {
		names = append(names, cmd.Name)
	}
	if err := link.WriteBanner(p, Version, names); err != nil {
		log.Warn("banner not sent", "error", err)
	}
	return link.NewReader(port, p, rt.robot), nil
}

func runDaemon(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := build(c, options{})
	if err != nil {
		return err
	}
	defer rt.Close()

	reader, err := rt.commandSource(c.GlobalString("serial"), c.GlobalInt("baud"))
	if err != nil {
		return err
	}

	loopDone := rt.startLoop(ctx)
	defer func() { cancel(); <-loopDone }()

	errs := make(chan error, 1)
	if srv := rt.server(c.GlobalString("http")); srv != nil {
		go func() { errs <- srv.Run(ctx) }()
	}
	go func() {
		if err := reader.Run(ctx); err != nil {
			log.Error("command link stopped", "error", err)
			return
		}
		log.Info("command link closed", "commands", reader.Count())
	}()

	log.Info("robot ready", "version", Version, "mode", rt.robot.Snapshot().Mode)
	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return nil
	case err := <-errs:
		return err
	}
}

// startLoop runs the control loop; the returned channel closes when it
// has stopped.
func (rt *runtime) startLoop(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := rt.robot.Run(ctx); err != nil {
			log.Error("control loop failed", "error", err)
		}
	}()
	return done
}

func runSim(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	obstacle := sim.NewRange(sim.MaxObstacle)
	if d := c.GlobalFloat64("obstacle"); d > 0 {
		obstacle.Set(d)
	}
	rt, err := build(c, options{rangeFinder: obstacle})
	if err != nil {
		return err
	}
	defer rt.Close()

	loopDone := rt.startLoop(ctx)
	defer func() { cancel(); <-loopDone }()

	if srv := rt.server(c.GlobalString("http")); srv != nil {
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Error("web server stopped", "error", err)
			}
		}()
	}

	screen := sim.NewPanel()
	if err := rt.frame.Attach(screen); err != nil {
		return fmt.Errorf("attach simulator screen: %w", err)
	}
	return sim.Run(sim.NewGame(rt.robot, screen, obstacle))
}
