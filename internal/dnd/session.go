package dnd

import (
	"sync"
	"time"
)

// DefaultAutoExpandDelay is how long the pointer must rest on a collapsed
// container before it opens.
const DefaultAutoExpandDelay = 1000 * time.Millisecond

// Stopper is the part of *time.Timer the session needs.
type Stopper interface {
	Stop() bool
}

// TimerFunc schedules f after d. time.AfterFunc is the production value.
type TimerFunc func(d time.Duration, f func()) Stopper

func realTimer(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Target is the current hover target of a drag.
type Target struct {
	ID       string
	Position Position
}

// Session tracks one live drag: the dragged id, the hover target and the
// pending auto-expand timer. Only one session exists per view.
type Session struct {
	mu       sync.Mutex
	activeID string
	target   *Target

	delay    time.Duration
	newTimer TimerFunc
	armedID  string
	timer    Stopper
	// generation invalidates callbacks of timers that were disarmed after
	// they had already started to fire.
	generation uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTimerFunc replaces time.AfterFunc, mainly for tests.
func WithTimerFunc(fn TimerFunc) SessionOption {
	return func(s *Session) { s.newTimer = fn }
}

// NewSession creates an idle session. A non-positive delay uses
// DefaultAutoExpandDelay.
func NewSession(delay time.Duration, opts ...SessionOption) *Session {
	if delay <= 0 {
		delay = DefaultAutoExpandDelay
	}
	s := &Session{delay: delay, newTimer: realTimer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin starts dragging id, replacing any previous drag.
func (s *Session) Begin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
	s.activeID = id
	s.target = nil
}

// UpdateTarget records the hover target. It is ignored when no drag is active.
func (s *Session) UpdateTarget(targetID string, pos Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == "" {
		return
	}
	s.target = &Target{ID: targetID, Position: pos}
}

// Clear ends the drag (drop or cancel) and disarms the timer.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
	s.activeID = ""
	s.target = nil
}

// Active returns true while a drag is in progress.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID != ""
}

// ActiveID returns the dragged id, "" when idle.
func (s *Session) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Target returns the current hover target.
func (s *Session) Target() (Target, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return Target{}, false
	}
	return *s.target, true
}

// Arm schedules onFire after the auto-expand delay for targetID and reports
// whether a new countdown started. Arming the target that is already armed
// does nothing and returns false, so resting on one zone does not restart the
// countdown. Arming a different target replaces the timer.
func (s *Session) Arm(targetID string, onFire func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil && s.armedID == targetID {
		return false
	}
	s.disarmLocked()

	s.generation++
	gen := s.generation
	s.armedID = targetID
	s.timer = s.newTimer(s.delay, func() {
		s.mu.Lock()
		if s.generation != gen || s.timer == nil {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.armedID = ""
		s.mu.Unlock()
		onFire()
	})
	return true
}

// Disarm cancels a pending auto-expand.
func (s *Session) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
}

// Armed returns the id the timer is armed for.
func (s *Session) Armed() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armedID, s.timer != nil
}

func (s *Session) disarmLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = nil
	s.armedID = ""
	s.generation++
}
