package telemetry

import (
	"testing"
	"time"
)

func TestFPSMeterWindow(t *testing.T) {
	clk := newManualClock()
	m := NewFPSMeter(time.Second)

	// First frame opens the window
	if _, ok := m.Frame(clk.Now()); ok {
		t.Fatal("first frame must not close a window")
	}
	for i := 1; i < 20; i++ {
		clk.Advance(50 * time.Millisecond)
		if _, ok := m.Frame(clk.Now()); ok {
			t.Fatalf("window closed early at frame %d", i)
		}
	}
	clk.Advance(50 * time.Millisecond)
	fps, ok := m.Frame(clk.Now())
	if !ok || fps != 20 {
		t.Fatalf("expected 20 fps window, got %f (closed=%v)", fps, ok)
	}
	if m.Last() != 20 {
		t.Errorf("expected last 20, got %f", m.Last())
	}
}

func TestFPSMeterDrain(t *testing.T) {
	clk := newManualClock()
	m := NewFPSMeter(100 * time.Millisecond)
	m.Frame(clk.Now())
	for i := 0; i < 3; i++ {
		clk.Advance(100 * time.Millisecond)
		m.Frame(clk.Now())
	}

	got := m.Drain()
	if len(got) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(got))
	}
	for _, fps := range got {
		if fps != 10 {
			t.Errorf("expected 10 fps, got %f", fps)
		}
	}
	if len(m.Drain()) != 0 {
		t.Error("drain should clear history")
	}
}

func TestFPSMeterRebase(t *testing.T) {
	clk := newManualClock()
	m := NewFPSMeter(time.Second)
	m.Frame(clk.Now())

	// A long pause followed by a rebase must not close a slow window
	clk.Advance(10 * time.Second)
	m.Rebase(clk.Now())
	clk.Advance(16 * time.Millisecond)
	if _, ok := m.Frame(clk.Now()); ok {
		t.Error("window closed right after rebase")
	}
}

func TestFPSMeterReset(t *testing.T) {
	clk := newManualClock()
	m := NewFPSMeter(0)
	m.Frame(clk.Now())
	clk.Advance(time.Second)
	m.Frame(clk.Now())
	m.Reset()
	if m.Last() != 0 || len(m.Drain()) != 0 {
		t.Error("reset should forget windows")
	}
}
