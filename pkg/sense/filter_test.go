package sense

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func newTestFilter(f RangeFinder) *Filter {
	flt := NewFilter(f, DefaultConfig())
	flt.SetPause(nil)
	return flt
}

func TestFilter_StartsAtNoEcho(t *testing.T) {
	f := newTestFilter(nil)
	if f.Distance() != NoEcho {
		t.Errorf("initial distance: got %v, want %v", f.Distance(), NoEcho)
	}
}

func TestFilter_FirstSampleSeeds(t *testing.T) {
	f := newTestFilter(NewFixed(42))
	f.Update(0)

	if f.Distance() != 42 {
		t.Errorf("seeded distance: got %v, want 42 (no warm-up bias)", f.Distance())
	}
}

func TestFilter_EMA(t *testing.T) {
	src := NewFixed(100)
	f := newTestFilter(src)
	f.Update(0)

	src.Set(50)
	f.Update(80 * time.Millisecond)

	want := 0.45*50 + 0.55*100
	if math.Abs(f.Distance()-want) > 1e-9 {
		t.Errorf("EMA: got %v, want %v", f.Distance(), want)
	}
}

func TestFilter_RespectsInterval(t *testing.T) {
	src := NewFixed(100)
	f := newTestFilter(src)
	f.Update(0)

	src.Set(10)
	if f.Update(79 * time.Millisecond) {
		t.Error("sampled before interval elapsed")
	}
	if f.Distance() != 100 {
		t.Errorf("distance changed early: %v", f.Distance())
	}
	if !f.Update(80 * time.Millisecond) {
		t.Error("did not sample at interval")
	}
}

func TestFilter_InvalidSamplesBecomeNoEcho(t *testing.T) {
	cases := []struct {
		name string
		raw  float64
	}{
		{"zero", 0},
		{"negative", -3},
		{"beyond range", 401},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFilter(NewFixed(tc.raw))
			f.Update(0)
			if f.Distance() != NoEcho {
				t.Errorf("got %v, want NoEcho", f.Distance())
			}
		})
	}
}

// silentFinder never hears an echo.
type silentFinder struct{}

func (silentFinder) Measure() (float64, error) { return 0, ErrNoEcho }

func TestFilter_ErrorBecomesNoEcho(t *testing.T) {
	f := newTestFilter(silentFinder{})
	f.Update(0)

	if f.Distance() != NoEcho {
		t.Errorf("got %v, want NoEcho", f.Distance())
	}
}

func TestFilter_ConvexCombination(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	src := NewFixed(0)
	f := newTestFilter(src)

	lo, hi := math.Inf(1), math.Inf(-1)
	now := time.Duration(0)
	for i := 0; i < 500; i++ {
		d := 2 + r.Float64()*390
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
		src.Set(d)
		f.Update(now)
		now += 80 * time.Millisecond

		if f.Distance() < lo-1e-9 || f.Distance() > hi+1e-9 {
			t.Fatalf("sample %d: EMA %v outside [%v, %v]", i, f.Distance(), lo, hi)
		}
	}
}

func TestFilter_PausesBetweenSamples(t *testing.T) {
	var paused time.Duration
	f := NewFilter(NewFixed(20), DefaultConfig())
	f.SetPause(func(d time.Duration) { paused += d })
	f.Update(0)

	if paused != 200*time.Microsecond {
		t.Errorf("pause: got %v, want 200µs", paused)
	}
}

func TestEchoRange(t *testing.T) {
	if EchoRange < 169.9 || EchoRange > 170.1 {
		t.Errorf("EchoRange = %v, want 170 cm for a 10 ms timeout", EchoRange)
	}
}
