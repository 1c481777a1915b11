package navigation

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDelay = 1500 * time.Millisecond

func newTestScheduler() (*Scheduler, *Shell, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	shell := NewShell("/categories", clock, zap.NewNop())
	return NewScheduler(shell, "/login", testDelay, clock, zap.NewNop()), shell, clock
}

func TestScheduler_FiresAfterDelay(t *testing.T) {
	s, shell, clock := newTestScheduler()

	require.True(t, s.ScheduleLogin())
	assert.True(t, s.Pending())

	clock.Advance(testDelay - time.Millisecond)
	assert.Equal(t, 0, shell.Count("/login"))
	assert.Equal(t, "/categories", shell.Current().Path)

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return shell.Count("/login") == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "/login", shell.Current().Path)
	assert.False(t, s.Pending())
	assert.Equal(t, 1, s.Fired())
}

func TestScheduler_CoalescesConcurrentTriggers(t *testing.T) {
	s, shell, clock := newTestScheduler()

	var scheduled int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.ScheduleLogin() {
				atomic.AddInt32(&scheduled, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&scheduled))

	clock.Advance(testDelay)
	require.Eventually(t, func() bool { return shell.Count("/login") == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(10 * testDelay)
	assert.Never(t, func() bool { return shell.Count("/login") > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestScheduler_NewEpisodeAfterFiring(t *testing.T) {
	s, shell, clock := newTestScheduler()

	require.True(t, s.ScheduleLogin())
	clock.Advance(testDelay)
	require.Eventually(t, func() bool { return !s.Pending() }, time.Second, 5*time.Millisecond)

	require.True(t, s.ScheduleLogin())
	clock.Advance(testDelay)
	require.Eventually(t, func() bool { return shell.Count("/login") == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, s.Fired())
}

func TestScheduler_NavigateToLoginCancelsPending(t *testing.T) {
	s, shell, clock := newTestScheduler()

	require.True(t, s.ScheduleLogin())
	s.NavigateToLogin()

	assert.Equal(t, 1, shell.Count("/login"))
	assert.False(t, s.Pending())

	clock.Advance(testDelay)
	assert.Never(t, func() bool { return shell.Count("/login") > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestScheduler_Stop(t *testing.T) {
	s, shell, clock := newTestScheduler()

	assert.False(t, s.Stop())

	require.True(t, s.ScheduleLogin())
	assert.True(t, s.Stop())
	assert.False(t, s.Pending())

	clock.Advance(testDelay)
	assert.Never(t, func() bool { return shell.Count("/login") > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, 0, s.Fired())
}

func TestShell_Current(t *testing.T) {
	clock := clockwork.NewFakeClock()
	shell := NewShell("/", clock, zap.NewNop())
	assert.Equal(t, "/", shell.Current().Path)

	clock.Advance(time.Minute)
	shell.Navigate("/quizzes")

	v := shell.Current()
	assert.Equal(t, "/quizzes", v.Path)
	assert.Equal(t, clock.Now(), v.At)
	assert.Equal(t, 1, shell.Count("/quizzes"))
}
