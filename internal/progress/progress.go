// Package progress simulates a generation backend with a fixed timeline.
//
// The simulator holds no timers. It records when a generation started and
// derives the active milestone from the clock whenever it is observed, so
// tests drive it with a fake Clock instead of sleeping.
package progress

import (
	"sync"
	"time"
)

// DefaultDuration is the time from Start to Ready.
const DefaultDuration = 3000 * time.Millisecond

// milestones are the emitted progress values, spaced evenly over the
// duration. The last one marks completion.
var milestones = [...]int{0, 18, 37, 58, 76, 92, 100}

// Milestones returns the progress values a generation passes through.
func Milestones() []int {
	out := make([]int, len(milestones))
	copy(out, milestones[:])
	return out
}

// Status is the simulator state.
type Status int

const (
	Idle Status = iota
	Processing
	Ready
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Processing:
		return "processing"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// State is an observed snapshot.
type State struct {
	Status   Status
	Progress int
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Simulator is safe for concurrent use. Subscribers are called without the
// internal lock held, in registration order.
type Simulator struct {
	mu       sync.Mutex
	clock    Clock
	duration time.Duration
	started  time.Time
	state    State
	subs     []func(State)
}

// New creates an idle simulator. A nil clock means SystemClock and a
// non-positive duration means DefaultDuration.
func New(clock Clock, duration time.Duration) *Simulator {
	if clock == nil {
		clock = SystemClock
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Simulator{clock: clock, duration: duration}
}

// Duration returns the configured generation length.
func (s *Simulator) Duration() time.Duration {
	return s.duration
}

// Subscribe registers fn to be called with every observed state change.
func (s *Simulator) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Start begins a generation. It reports false and changes nothing while a
// generation is already processing.
func (s *Simulator) Start() bool {
	s.mu.Lock()
	s.advance()
	if s.state.Status == Processing {
		s.mu.Unlock()
		return false
	}
	s.started = s.clock.Now()
	s.state = State{Status: Processing, Progress: milestones[0]}
	s.mu.Unlock()

	s.notify(State{Status: Processing, Progress: milestones[0]})
	s.Snapshot()
	return true
}

// Snapshot returns the current state, advancing through any milestones
// whose time has passed.
func (s *Simulator) Snapshot() State {
	s.mu.Lock()
	before := s.state
	s.advance()
	after := s.state
	s.mu.Unlock()

	if after != before {
		s.notify(after)
	}
	return after
}

// Invalidate marks a finished generation stale. Only Ready moves to Idle;
// the progress value is kept. It reports whether a transition happened.
func (s *Simulator) Invalidate() bool {
	s.mu.Lock()
	s.advance()
	if s.state.Status != Ready {
		s.mu.Unlock()
		return false
	}
	s.state.Status = Idle
	st := s.state
	s.mu.Unlock()

	s.notify(st)
	return true
}

// advance must be called with mu held.
func (s *Simulator) advance() {
	if s.state.Status != Processing {
		return
	}
	elapsed := s.clock.Now().Sub(s.started)
	step := len(milestones) - 1
	idx := 0
	for i := 1; i <= step; i++ {
		if elapsed >= s.duration*time.Duration(i)/time.Duration(step) {
			idx = i
		}
	}
	s.state.Progress = milestones[idx]
	if idx == step {
		s.state.Status = Ready
	}
}

func (s *Simulator) notify(st State) {
	s.mu.Lock()
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}
