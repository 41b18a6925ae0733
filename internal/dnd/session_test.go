package dnd_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/sidebar/internal/dnd"
)

// fakeTimers records scheduled callbacks so tests can fire them by hand.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (f *fakeTimers) after(d time.Duration, fn func()) dnd.Stopper {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeTimers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func (f *fakeTimers) fire(i int) {
	f.mu.Lock()
	t := f.timers[i]
	f.mu.Unlock()
	if !t.stopped {
		t.fn()
	}
}

func newTestSession() (*dnd.Session, *fakeTimers) {
	timers := &fakeTimers{}
	return dnd.NewSession(time.Second, dnd.WithTimerFunc(timers.after)), timers
}

func TestSession_Lifecycle(t *testing.T) {
	s, _ := newTestSession()

	assert.False(t, s.Active())

	s.UpdateTarget("ignored", dnd.After)
	_, ok := s.Target()
	assert.False(t, ok, "target must be ignored without an active drag")

	s.Begin("tab-1")
	assert.True(t, s.Active())
	assert.Equal(t, "tab-1", s.ActiveID())

	s.UpdateTarget("tab-2", dnd.Before)
	target, ok := s.Target()
	require.True(t, ok)
	assert.Equal(t, dnd.Target{ID: "tab-2", Position: dnd.Before}, target)

	s.Clear()
	assert.False(t, s.Active())
	_, ok = s.Target()
	assert.False(t, ok)
}

func TestSession_ArmSameTargetIsNoop(t *testing.T) {
	s, timers := newTestSession()
	fired := 0

	assert.True(t, s.Arm("folder-1", func() { fired++ }))
	assert.False(t, s.Arm("folder-1", func() { fired += 100 }))

	require.Equal(t, 1, timers.count(), "re-arming the same target must not restart the timer")
	assert.Equal(t, time.Second, timers.timers[0].delay)

	timers.fire(0)
	assert.Equal(t, 1, fired)

	_, armed := s.Armed()
	assert.False(t, armed, "timer fires once")
}

func TestSession_ArmOtherTargetRearms(t *testing.T) {
	s, timers := newTestSession()
	var fired []string

	assert.True(t, s.Arm("a", func() { fired = append(fired, "a") }))
	assert.True(t, s.Arm("b", func() { fired = append(fired, "b") }))

	require.Equal(t, 2, timers.count())
	assert.True(t, timers.timers[0].stopped)

	timers.fire(0)
	timers.fire(1)
	assert.Equal(t, []string{"b"}, fired)
}

func TestSession_DisarmAndClearCancel(t *testing.T) {
	s, timers := newTestSession()
	fired := false

	s.Arm("a", func() { fired = true })
	s.Disarm()
	timers.fire(0)
	assert.False(t, fired)

	s.Begin("x")
	s.Arm("b", func() { fired = true })
	s.Clear()
	timers.fire(1)
	assert.False(t, fired, "cancelling a drag must not expand anything")
}

func TestSession_StaleCallbackIgnored(t *testing.T) {
	s, timers := newTestSession()
	fired := false

	s.Arm("a", func() { fired = true })
	stale := timers.timers[0].fn
	s.Disarm()

	// a timer that already started running when it was disarmed
	stale()
	assert.False(t, fired)
}

func TestSession_RealTimerFires(t *testing.T) {
	s := dnd.NewSession(10 * time.Millisecond)
	done := make(chan struct{})

	s.Arm("a", func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("auto-expand timer did not fire")
	}
}
