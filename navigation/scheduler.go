package navigation

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Scheduler defers navigation to the login view so the caller's own error
// UI can render first. Triggers that arrive while a navigation is pending
// collapse into that one navigation.
type Scheduler struct {
	navigator Navigator
	loginPath string
	delay     time.Duration
	clock     clockwork.Clock
	logger    *zap.Logger

	mu         sync.Mutex
	pending    clockwork.Timer
	generation uint64
	fired      int
}

// NewScheduler creates a scheduler that sends navigator to loginPath after delay
func NewScheduler(navigator Navigator, loginPath string, delay time.Duration, clock clockwork.Clock, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		navigator: navigator,
		loginPath: loginPath,
		delay:     delay,
		clock:     clock,
		logger:    logger,
	}
}

// ScheduleLogin arms a one-shot navigation to the login view.
// It returns false when a navigation is already pending.
func (s *Scheduler) ScheduleLogin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.logger.Debug("login navigation already pending")
		return false
	}

	s.generation++
	gen := s.generation
	s.pending = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })

	s.logger.Info("login navigation scheduled", zap.Duration("delay", s.delay))
	return true
}

// NavigateToLogin navigates immediately, cancelling any pending navigation
func (s *Scheduler) NavigateToLogin() {
	s.mu.Lock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.fired++
	s.mu.Unlock()

	s.navigator.Navigate(s.loginPath)
}

// Pending reports whether a navigation is armed
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Fired returns how many login navigations have been performed
func (s *Scheduler) Fired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

// Stop cancels a pending navigation. It reports whether one was cancelled.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return false
	}
	s.pending.Stop()
	s.pending = nil
	return true
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	// Stopped or superseded while the callback was in flight.
	if s.pending == nil || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.fired++
	s.mu.Unlock()

	s.navigator.Navigate(s.loginPath)
}
