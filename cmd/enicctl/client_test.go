package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-enic/pkg/behavior"
	"github.com/teslashibe/go-enic/pkg/countdown"
	"github.com/teslashibe/go-enic/pkg/face"
	"github.com/teslashibe/go-enic/pkg/robot"
	"github.com/teslashibe/go-enic/pkg/web"
)

var upgrader = websocket.Upgrader{}

// fakeRobot answers /ws/control like the real server and pushes two
// snapshots on /ws/status.
func fakeRobot(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/control", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			cmd := strings.ToLower(string(data))
			reply := web.CommandReply{Command: cmd, Queued: behavior.Known(cmd)}
			if !reply.Queued {
				reply.Error = "unknown command"
			}
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		}
	})
	mux.HandleFunc("/ws/status", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range []behavior.Mode{behavior.ModeAuto, behavior.ModeAvoiding} {
			snap := robot.Snapshot{Status: behavior.Status{Mode: m, Distance: 18}}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestControl_SendLine(t *testing.T) {
	srv := fakeRobot(t)
	ctl, err := DialControl(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer ctl.Close()

	var out bytes.Buffer
	rejected, err := sendLine(ctl, "ileri FLY # comment", &out)
	if err != nil {
		t.Fatal(err)
	}
	if rejected != 1 {
		t.Errorf("rejected = %d, want 1", rejected)
	}
	want := "ok ileri\nrejected fly: unknown command\n"
	if out.String() != want {
		t.Errorf("output %q, want %q", out.String(), want)
	}
}

func TestControl_BadQuote(t *testing.T) {
	srv := fakeRobot(t)
	ctl, err := DialControl(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer ctl.Close()

	var out bytes.Buffer
	if n, err := sendLine(ctl, `"dur`, &out); err != nil || n != 1 {
		t.Errorf("sendLine = %d, %v", n, err)
	}
}

func TestWatch(t *testing.T) {
	srv := fakeRobot(t)
	var modes []behavior.Mode
	err := Watch(srv.URL, func(s robot.Snapshot) bool {
		modes = append(modes, s.Mode)
		return true
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if len(modes) != 2 || modes[0] != behavior.ModeAuto || modes[1] != behavior.ModeAvoiding {
		t.Errorf("modes = %v", modes)
	}
}

func TestWatch_StopEarly(t *testing.T) {
	srv := fakeRobot(t)
	n := 0
	if err := Watch(srv.URL, func(robot.Snapshot) bool { n++; return false }); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("callback ran %d times", n)
	}
}

func TestDial_BadURL(t *testing.T) {
	if _, err := DialControl("http://127.0.0.1:1"); err == nil {
		t.Error("dial to a closed port succeeded")
	}
}

func TestFormatStatus(t *testing.T) {
	s := robot.Snapshot{Status: behavior.Status{
		Mode:       behavior.ModeCountdown,
		Distance:   12.5,
		Expression: face.Fear,
		Countdown:  &behavior.CountdownStatus{Phase: countdown.PhaseBlast.String(), Progress: 255},
	}}
	got := formatStatus(s)
	for _, want := range []string{"countdown", "12.5", "fear", "blast 100%"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatStatus = %q, missing %q", got, want)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	data, err := json.Marshal(robot.Snapshot{
		Status: behavior.Status{Mode: behavior.ModeDance, Expression: face.Tongue},
		Ticks:  9,
		Tones:  4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"expression":"tongue"`)) {
		t.Errorf("expression not encoded by name: %s", data)
	}
	var back robot.Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Mode != behavior.ModeDance || back.Expression != face.Tongue || back.Ticks != 9 || back.Tones != 4 {
		t.Errorf("round trip = %+v", back)
	}
}
