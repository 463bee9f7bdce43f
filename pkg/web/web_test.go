package web

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/teslashibe/go-enic/internal/config"
	"github.com/teslashibe/go-enic/pkg/behavior"
	"github.com/teslashibe/go-enic/pkg/oled"
	"github.com/teslashibe/go-enic/pkg/robot"
)

type fakeController struct {
	submitted []string
	err       error
	rampStep  int
}

func (f *fakeController) Submit(cmd string) error {
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, cmd)
	return nil
}

func (f *fakeController) Snapshot() robot.Snapshot {
	return robot.Snapshot{
		Status: behavior.Status{Mode: behavior.ModeAuto, Distance: 42},
		Ticks:  7,
	}
}

func (f *fakeController) SetRampStep(step int) { f.rampStep = step }
func (f *fakeController) RampStep() int        { return f.rampStep }

type fakeVolume struct{ v float64 }

func (f *fakeVolume) SetVolume(v float64) { f.v = v }

func newTestServer(ctrl *fakeController) *Server {
	return NewServer(Options{
		Controller: ctrl,
		Frame:      oled.NewFrame(),
		Volume:     &fakeVolume{},
	})
}

func do(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestStatus(t *testing.T) {
	s := newTestServer(&fakeController{})
	resp, body := do(t, s, "GET", "/api/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["mode"] != "auto" || got["distance_cm"] != 42.0 || got["ticks"] != 7.0 {
		t.Errorf("status = %s", body)
	}
}

func TestCommand_Queued(t *testing.T) {
	ctrl := &fakeController{}
	s := newTestServer(ctrl)
	resp, body := do(t, s, "POST", "/api/command", `{"command":" Ileri "}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if len(ctrl.submitted) != 1 || ctrl.submitted[0] != "ileri" {
		t.Errorf("submitted %q", ctrl.submitted)
	}
	var reply CommandReply
	if err := json.Unmarshal(body, &reply); err != nil {
		t.Fatal(err)
	}
	if !reply.Queued || reply.Command != "ileri" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestCommand_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"unknown", `{"command":"fly"}`, nil, http.StatusBadRequest},
		{"empty", `{"command":""}`, nil, http.StatusBadRequest},
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"queue full", `{"command":"dur"}`, robot.ErrQueueFull, http.StatusServiceUnavailable},
		{"closed", `{"command":"dur"}`, robot.ErrClosed, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{err: tt.err}
			resp, body := do(t, newTestServer(ctrl), "POST", "/api/command", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status %d, want %d: %s", resp.StatusCode, tt.want, body)
			}
			if len(ctrl.submitted) != 0 {
				t.Errorf("submitted %q", ctrl.submitted)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	_, body := do(t, newTestServer(&fakeController{}), "GET", "/api/commands", "")
	var got []behavior.CommandInfo
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(behavior.Commands()) {
		t.Errorf("got %d commands", len(got))
	}
}

func TestSettings_GetAndPut(t *testing.T) {
	ctrl := &fakeController{}
	vol := &fakeVolume{}
	s := NewServer(Options{Controller: ctrl, Volume: vol, Settings: config.NewSettingsStore(nil)})

	_, body := do(t, s, "GET", "/api/settings", "")
	var st config.Settings
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatal(err)
	}
	if st != config.DefaultSettings() {
		t.Errorf("GET settings = %+v", st)
	}

	resp, body := do(t, s, "PUT", "/api/settings", `{"ramp_step": 99}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatal(err)
	}
	if st.RampStep != 60 || st.Volume != config.DefaultSettings().Volume {
		t.Errorf("PUT settings = %+v", st)
	}
	if ctrl.rampStep != 60 || vol.v != st.Volume {
		t.Errorf("not applied: ramp %d volume %v", ctrl.rampStep, vol.v)
	}

	do(t, s, "PUT", "/api/settings", `{"volume": 0.25}`)
	if got := s.settings.Get(); got.Volume != 0.25 || got.RampStep != 60 {
		t.Errorf("partial update = %+v", got)
	}
}

func TestFrame(t *testing.T) {
	s := newTestServer(&fakeController{})
	resp, body := do(t, s, "GET", "/api/frame.png?scale=2", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, err := png.Decode(strings.NewReader(string(body)))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != oled.Width*2 || b.Dy() != oled.Height*2 {
		t.Errorf("bounds = %v", b)
	}

	resp, _ = do(t, s, "GET", "/api/frame.png?scale=0", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("scale 0: status %d", resp.StatusCode)
	}
}

func TestFrame_NoDisplay(t *testing.T) {
	s := NewServer(Options{Controller: &fakeController{}})
	resp, _ := do(t, s, "GET", "/api/frame.png", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %d", resp.StatusCode)
	}
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	s := newTestServer(&fakeController{})
	for _, path := range []string{"/ws/status", "/ws/control"} {
		resp, _ := do(t, s, "GET", path, "")
		if resp.StatusCode != http.StatusUpgradeRequired {
			t.Errorf("%s: status %d", path, resp.StatusCode)
		}
	}
}

func TestSubmit_ControlReply(t *testing.T) {
	ctrl := &fakeController{}
	s := newTestServer(ctrl)
	reply, code := s.submit("DANS")
	if !reply.Queued || code != http.StatusAccepted || ctrl.submitted[0] != "dans" {
		t.Errorf("reply %+v code %d", reply, code)
	}
	reply, _ = s.submit("nope")
	if reply.Queued || reply.Error == "" {
		t.Errorf("unknown accepted: %+v", reply)
	}
}

func TestMirror_FollowsFrame(t *testing.T) {
	frame := oled.NewFrame()
	m := NewMirror(oled.Width, oled.Height)
	if err := frame.Attach(m); err != nil {
		t.Fatal(err)
	}
	<-m.Changed()

	var b oled.Bitmap
	b.Set(5, 1, true)
	if err := frame.Commit(&b); err != nil {
		t.Fatal(err)
	}
	select {
	case <-m.Changed():
	default:
		t.Fatal("commit did not flag a change")
	}

	s := NewServer(Options{Controller: &fakeController{}, Mirror: m})
	data, err := s.encodeFrame()
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if bd := img.Bounds(); bd.Dx() != oled.Width*frameScale || bd.Dy() != oled.Height*frameScale {
		t.Errorf("bounds = %v", bd)
	}
	lit := func(x, y int) bool {
		r, _, _, _ := img.At(x, y).RGBA()
		return r != 0
	}
	if !lit(5*frameScale, 1*frameScale) || !lit(5*frameScale+1, 1*frameScale+1) {
		t.Error("lit pixel missing from the pushed frame")
	}
	if lit(0, 0) {
		t.Error("dark pixel lit")
	}
}

func TestMirror_DisplayNeverBlocks(t *testing.T) {
	m := NewMirror(8, 8)
	for i := 0; i < 3; i++ {
		if err := m.Display(); err != nil {
			t.Fatal(err)
		}
	}
	<-m.Changed()
	select {
	case <-m.Changed():
		t.Error("changes not coalesced")
	default:
	}
}
