package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/buzzer"
	"github.com/teslashibe/go-enic/pkg/motor"
)

func TestOpenSink(t *testing.T) {
	rt := &runtime{}

	s, err := rt.openSink("log", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*buzzer.Log); !ok {
		t.Errorf("log sink is %T", s)
	}

	s, err = rt.openSink("off", 0.5)
	if err != nil || s != nil {
		t.Errorf("off sink = %v, %v", s, err)
	}

	if _, err := rt.openSink("trumpet", 0.5); err == nil {
		t.Error("unknown audio kind accepted")
	}
	if len(rt.closers) != 0 {
		t.Errorf("closers = %d", len(rt.closers))
	}
}

func TestOpenMotors_Virtual(t *testing.T) {
	rt := &runtime{}
	d, err := rt.openMotors("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.(*motor.Recorder); !ok {
		t.Errorf("driver is %T", d)
	}
}

func TestServerOff(t *testing.T) {
	rt := &runtime{}
	for _, addr := range []string{"", "off"} {
		if rt.server(addr) != nil {
			t.Errorf("server(%q) not nil", addr)
		}
	}
}

func TestSetupLogging_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enic.log")
	f, err := setupLogging(path, "debug")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		log.SetOutput(os.Stderr, "info")
		f.Close()
	})

	log.Component("wire").Debug("loop ready", "ticks", 3)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "loop ready") || !strings.Contains(string(data), "component=wire") {
		t.Errorf("log file = %q", data)
	}
}

func TestSetupLogging_BadPath(t *testing.T) {
	if _, err := setupLogging(filepath.Join(t.TempDir(), "missing", "enic.log"), "info"); err == nil {
		t.Error("log file in a missing directory opened")
	}
}
