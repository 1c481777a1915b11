package navigation

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Navigator is the one capability the session core needs from the
// surrounding application shell.
type Navigator interface {
	Navigate(path string)
}

// Visit is one recorded navigation
type Visit struct {
	Path string    `json:"path"`
	At   time.Time `json:"at"`
}

// Shell tracks the view the operator is currently on. The console exposes
// it through the session endpoint so a UI can follow forced navigations.
type Shell struct {
	mu      sync.RWMutex
	current Visit
	count   map[string]int
	clock   clockwork.Clock
	logger  *zap.Logger
}

// NewShell creates a shell positioned at initial
func NewShell(initial string, clock clockwork.Clock, logger *zap.Logger) *Shell {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Shell{
		current: Visit{Path: initial, At: clock.Now()},
		count:   make(map[string]int),
		clock:   clock,
		logger:  logger,
	}
}

// Navigate moves the shell to path
func (s *Shell) Navigate(path string) {
	s.mu.Lock()
	s.current = Visit{Path: path, At: s.clock.Now()}
	s.count[path]++
	s.mu.Unlock()

	s.logger.Info("navigated", zap.String("path", path))
}

// Current returns the current view
func (s *Shell) Current() Visit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Count returns how many times the shell navigated to path
func (s *Shell) Count(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count[path]
}
