package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-enic/pkg/robot"
	"github.com/teslashibe/go-enic/pkg/web"
)

const (
	handshakeTimeout = 10 * time.Second
	replyTimeout     = 5 * time.Second
)

// dial opens a websocket at path on the robot's base URL.
func dial(base, path string) (*websocket.Conn, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("bad url %q: %w", base, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(u.String(), http.Header{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", u, err)
	}
	return conn, nil
}

// Control sends commands over /ws/control.
type Control struct {
	conn *websocket.Conn
}

// DialControl connects to the control socket.
func DialControl(base string) (*Control, error) {
	conn, err := dial(base, "/ws/control")
	if err != nil {
		return nil, err
	}
	return &Control{conn: conn}, nil
}

// Send submits one command and waits for the robot's reply.
func (c *Control) Send(cmd string) (web.CommandReply, error) {
	var reply web.CommandReply
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(cmd)); err != nil {
		return reply, fmt.Errorf("send %q: %w", cmd, err)
	}
	c.conn.SetReadDeadline(time.Now().Add(replyTimeout))
	if err := c.conn.ReadJSON(&reply); err != nil {
		return reply, fmt.Errorf("read reply to %q: %w", cmd, err)
	}
	return reply, nil
}

// Close says goodbye and closes the socket.
func (c *Control) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.conn.Close()
}

// Watch streams status snapshots to fn until the socket closes or fn
// returns false.
func Watch(base string, fn func(robot.Snapshot) bool) error {
	conn, err := dial(base, "/ws/status")
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read status: %w", err)
		}
		var snap robot.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("decode status: %w", err)
		}
		if !fn(snap) {
			return nil
		}
	}
}

// formatStatus renders a snapshot on one line.
func formatStatus(s robot.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-15s dist %5.1f  out %4d/%-4d  face %-7s", s.Mode, s.Distance, s.Output.Left, s.Output.Right, s.Expression)
	if s.Avoid != "" {
		fmt.Fprintf(&b, "  avoid %s", s.Avoid)
	}
	if s.Countdown != nil {
		fmt.Fprintf(&b, "  %s %3d%%", s.Countdown.Phase, int(s.Countdown.Progress)*100/255)
	}
	return b.String()
}
