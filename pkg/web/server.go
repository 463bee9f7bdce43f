// Package web serves the robot's control API and live status sockets.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-enic/internal/config"
	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/hub"
	"github.com/teslashibe/go-enic/pkg/robot"
)

// Push intervals for the live sockets.
const (
	StatusInterval = 100 * time.Millisecond
	FrameInterval  = 100 * time.Millisecond
	frameScale     = 2
)

// FrameSource renders the display as PNG.
type FrameSource interface {
	WritePNG(w io.Writer, scale int) error
}

// VolumeSetter adjusts the buzzer volume.
type VolumeSetter interface {
	SetVolume(v float64)
}

// Options configures a Server. Frame, Mirror, Settings and Volume may be
// nil. Without a Mirror there is no /ws/frame.
type Options struct {
	Addr       string
	Controller robot.Controller
	Frame      FrameSource
	Mirror     *Mirror
	Settings   *config.SettingsStore
	Volume     VolumeSetter
}

// Server is the web control server
type Server struct {
	app  *fiber.App
	addr string
	log  *slog.Logger

	ctrl     robot.Controller
	frame    FrameSource
	mirror   *Mirror
	settings *config.SettingsStore
	volume   VolumeSetter

	statusHub  *hub.Hub
	controlHub *hub.Hub
	frameHub   *hub.Hub
}

// NewServer creates the server and registers its routes.
func NewServer(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = config.DefaultHTTPAddr
	}
	if opts.Settings == nil {
		opts.Settings = config.NewSettingsStore(nil)
	}

	s := &Server{
		addr:     opts.Addr,
		log:      log.Component("web"),
		ctrl:     opts.Controller,
		frame:    opts.Frame,
		mirror:   opts.Mirror,
		settings: opts.Settings,
		volume:   opts.Volume,
	}
	s.statusHub = hub.New("status", nil)
	s.controlHub = hub.New("control", s.handleControlMessage)
	s.frameHub = hub.New("frame", nil)

	app := fiber.New(fiber.Config{
		AppName:               "ENIC",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/command", s.handleCommand)
	api.Get("/commands", s.handleCommands)
	api.Get("/settings", s.handleGetSettings)
	api.Put("/settings", s.handlePutSettings)
	api.Get("/frame.png", s.handleFrame)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/control", websocket.New(s.handleControlWS))
	if s.mirror != nil {
		app.Get("/ws/frame", websocket.New(s.handleFrameWS))
	}

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts the hubs and the status pusher, then serves until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	go s.statusHub.Run(ctx)
	go s.controlHub.Run(ctx)
	go s.pushStatus(ctx)
	if s.mirror != nil {
		go s.frameHub.Run(ctx)
		go s.pushFrames(ctx)
	}
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			s.log.Warn("shutdown failed", "error", err)
		}
	}()

	s.log.Info("web server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// pushStatus broadcasts a snapshot to status clients every StatusInterval.
func (s *Server) pushStatus(ctx context.Context) {
	ticker := time.NewTicker(StatusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.statusHub.ClientCount() == 0 {
				continue
			}
			if err := s.statusHub.BroadcastJSON(s.ctrl.Snapshot()); err != nil {
				s.log.Warn("encode status failed", "error", err)
			}
		}
	}
}

// pushFrames sends the mirrored display to frame clients, at most once per
// FrameInterval and only when it changed.
func (s *Server) pushFrames(ctx context.Context) {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		select {
		case <-s.mirror.Changed():
		default:
			continue
		}
		if s.frameHub.ClientCount() == 0 {
			continue
		}
		if data, err := s.encodeFrame(); err != nil {
			s.log.Warn("encode frame failed", "error", err)
		} else {
			s.frameHub.BroadcastBinary(data)
		}
	}
}

func (s *Server) encodeFrame() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.mirror.WritePNG(&buf, frameScale); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ApplySettings pushes stored settings to the robot and the buzzer.
func (s *Server) ApplySettings(st config.Settings) {
	s.ctrl.SetRampStep(st.RampStep)
	if s.volume != nil {
		s.volume.SetVolume(st.Volume)
	}
}

func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	if client == nil {
		return
	}
	if data, err := json.Marshal(s.ctrl.Snapshot()); err == nil {
		client.Send(hub.NewJSONMessage(data))
	}
	client.Run()
}

func (s *Server) handleControlWS(c *websocket.Conn) {
	client := hub.NewClient(s.controlHub, c)
	if client == nil {
		return
	}
	client.Run()
}

func (s *Server) handleFrameWS(c *websocket.Conn) {
	client := hub.NewClient(s.frameHub, c)
	if client == nil {
		return
	}
	if data, err := s.encodeFrame(); err == nil {
		client.Send(hub.NewBinaryMessage(data))
	}
	client.Run()
}
