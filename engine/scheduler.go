package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pthm-cable/backdrop/config"
)

var (
	// ErrInvalidTransition is returned for a lifecycle change the current state forbids.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrStopped is returned when starting an engine that was stopped.
	ErrStopped = errors.New("engine stopped")
)

// State is the lifecycle state of an engine.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// transitions lists the allowed moves. Staying put is always allowed.
var transitions = map[State][]State{
	StateIdle:    {StateRunning, StateStopped},
	StateRunning: {StatePaused, StateStopped},
	StatePaused:  {StateRunning, StateStopped},
}

// Scheduler gates frame callbacks to the frame-rate cap and measures the
// simulated time each accepted frame advances by.
type Scheduler struct {
	state State

	fpsCap    float64
	interval  time.Duration // 0 = every frame
	tolerance time.Duration
	maxStep   time.Duration

	last time.Time // Last accepted frame, zero after a rebase

	rendered int64
	skipped  int64
}

// NewScheduler creates a scheduler in the idle state.
func NewScheduler(fpsCap float64, tolerance, maxStep time.Duration) *Scheduler {
	s := &Scheduler{tolerance: tolerance, maxStep: maxStep}
	s.SetCap(fpsCap)
	return s
}

// NewSchedulerFromConfig creates a scheduler using the scheduler section.
func NewSchedulerFromConfig(cfg *config.Config, fpsCap float64) *Scheduler {
	return NewScheduler(fpsCap, cfg.Derived.FrameTolerance, cfg.Derived.MaxStep)
}

// SetCap changes the frame-rate cap. 0 or less removes it.
func (s *Scheduler) SetCap(fps float64) {
	if fps <= 0 {
		s.fpsCap, s.interval = 0, 0
		return
	}
	s.fpsCap = fps
	s.interval = time.Duration(float64(time.Second) / fps)
}

// Cap returns the frame-rate cap, 0 when uncapped.
func (s *Scheduler) Cap() float64 {
	return s.fpsCap
}

// Interval returns the minimum spacing of accepted frames.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	return s.state
}

// Transition moves to the given state.
func (s *Scheduler) Transition(to State) error {
	if s.state == to {
		return nil
	}
	for _, allowed := range transitions[s.state] {
		if allowed == to {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
}

// Admit decides whether the frame at now runs. It returns the simulated
// step, clamped to the configured maximum. The first frame after a rebase
// advances by one nominal frame.
func (s *Scheduler) Admit(now time.Time, nominal time.Duration) (time.Duration, bool) {
	if s.last.IsZero() {
		s.last = now
		s.rendered++
		return s.clamp(nominal), true
	}

	elapsed := now.Sub(s.last)
	if s.interval > 0 && elapsed < s.interval-s.tolerance {
		s.skipped++
		return 0, false
	}

	s.last = now
	s.rendered++
	return s.clamp(elapsed), true
}

func (s *Scheduler) clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if s.maxStep > 0 && d > s.maxStep {
		return s.maxStep
	}
	return d
}

// Rebase forgets the last frame time so no catch-up step happens.
func (s *Scheduler) Rebase() {
	s.last = time.Time{}
}

// Rendered returns the number of admitted frames.
func (s *Scheduler) Rendered() int64 {
	return s.rendered
}

// Skipped returns the number of frames dropped by the cap.
func (s *Scheduler) Skipped() int64 {
	return s.skipped
}

// Adaptive decides when a slow device sheds quality.
type Adaptive struct {
	cfg config.AdaptiveConfig
}

// NewAdaptive creates the policy.
func NewAdaptive(cfg config.AdaptiveConfig) *Adaptive {
	return &Adaptive{cfg: cfg}
}

// Threshold returns the window rate below which a device counts as slow.
// A capped rate is measured after admission, so a device that keeps up
// can still land below the cap when its refresh rate beats against it.
func (a *Adaptive) Threshold(fpsCap float64) float64 {
	threshold := a.cfg.MinFPS
	if fpsCap > 0 {
		threshold = math.Min(threshold, fpsCap*(1-a.cfg.CapSlack))
	}
	return threshold
}

// ShouldDegrade reports whether a measured window rate calls for degradation
// under the given frame-rate cap (0 when uncapped).
func (a *Adaptive) ShouldDegrade(fps, fpsCap float64, class config.DeviceClass) bool {
	if !a.cfg.Enabled || fps >= a.Threshold(fpsCap) {
		return false
	}
	return class == config.DeviceCompact || a.cfg.AllDevices
}
