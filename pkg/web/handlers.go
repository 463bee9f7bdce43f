package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-enic/internal/config"
	"github.com/teslashibe/go-enic/pkg/behavior"
	"github.com/teslashibe/go-enic/pkg/hub"
	"github.com/teslashibe/go-enic/pkg/robot"
)

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandReply answers a command over HTTP or /ws/control.
type CommandReply struct {
	Command string `json:"command"`
	Queued  bool   `json:"queued"`
	Error   string `json:"error,omitempty"`
}

// SettingsRequest is the body of PUT /api/settings. Absent fields are left
// unchanged.
type SettingsRequest struct {
	RampStep *int     `json:"ramp_step"`
	Volume   *float64 `json:"volume"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.ctrl.Snapshot())
}

func (s *Server) handleCommands(c *fiber.Ctx) error {
	return c.JSON(behavior.Commands())
}

func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	reply, status := s.submit(req.Command)
	return c.Status(status).JSON(reply)
}

// submit validates and queues one command, returning the reply and its
// HTTP status.
func (s *Server) submit(text string) (CommandReply, int) {
	cmd := strings.ToLower(strings.TrimSpace(text))
	reply := CommandReply{Command: cmd}

	if !behavior.Known(cmd) {
		reply.Error = "unknown command"
		return reply, fiber.StatusBadRequest
	}
	if err := s.ctrl.Submit(cmd); err != nil {
		reply.Error = err.Error()
		if errors.Is(err, robot.ErrQueueFull) || errors.Is(err, robot.ErrClosed) {
			return reply, fiber.StatusServiceUnavailable
		}
		return reply, fiber.StatusInternalServerError
	}
	reply.Queued = true
	return reply, fiber.StatusAccepted
}

func (s *Server) handleControlMessage(client *hub.Client, data []byte) {
	reply, _ := s.submit(string(data))
	if !reply.Queued {
		s.log.Debug("control command rejected", "client", client.ID, "command", reply.Command, "error", reply.Error)
	}
	if out, err := json.Marshal(reply); err == nil {
		client.Send(hub.NewJSONMessage(out))
	}
}

func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	return c.JSON(s.settings.Get())
}

func (s *Server) handlePutSettings(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	st, err := s.settings.Update(func(st *config.Settings) {
		if req.RampStep != nil {
			st.RampStep = *req.RampStep
		}
		if req.Volume != nil {
			st.Volume = *req.Volume
		}
	})
	s.ApplySettings(st)
	if err != nil {
		s.log.Warn("settings not persisted", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	s.log.Info("settings updated", "ramp_step", st.RampStep, "volume", st.Volume)
	return c.JSON(st)
}

func (s *Server) handleFrame(c *fiber.Ctx) error {
	if s.frame == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no display"})
	}
	scale := c.QueryInt("scale", 4)
	if scale < 1 || scale > 16 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scale out of range"})
	}

	var buf bytes.Buffer
	if err := s.frame.WritePNG(&buf, scale); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("png")
	return c.Send(buf.Bytes())
}
