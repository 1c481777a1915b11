package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/upb/codeintervu-admin/credential"
	"go.uber.org/zap"
)

// Decision is the outcome of a guard evaluation. The zero value denies.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// State is the session state derived from the stored credential.
// It is computed on every check and never cached.
type State string

const (
	StateAbsent      State = "absent"
	StateMalformed   State = "malformed"
	StateExpired     State = "expired"
	StateValid       State = "valid"
	StateUnavailable State = "unavailable" // storage could not be read
)

// Result describes one guard evaluation
type Result struct {
	Decision Decision
	State    State
	Evicted  bool
	Claims   *credential.Claims // set only when State is StateValid
	Err      error
}

// Guard decides whether a protected view may render.
// It is a local check that saves a doomed round-trip; the backend still
// enforces authorization on every request.
type Guard struct {
	credentials *Credentials
	clock       clockwork.Clock
	logger      *zap.Logger
}

// NewGuard creates a new Guard
func NewGuard(credentials *Credentials, clock clockwork.Clock, logger *zap.Logger) *Guard {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Guard{
		credentials: credentials,
		clock:       clock,
		logger:      logger,
	}
}

// Evaluate returns Allow only for a present, decodable, unexpired credential
func (g *Guard) Evaluate(ctx context.Context) Decision {
	return g.Check(ctx).Decision
}

// Check evaluates the stored credential. Malformed and expired credentials
// are evicted before Check returns.
func (g *Guard) Check(ctx context.Context) Result {
	token, err := g.credentials.Load(ctx)
	if errors.Is(err, ErrCredentialAbsent) {
		return Result{Decision: Deny, State: StateAbsent, Err: err}
	}
	if err != nil {
		g.logger.Error("credential storage unavailable", zap.Error(err))
		return Result{Decision: Deny, State: StateUnavailable, Err: err}
	}

	claims, err := credential.Parse(token)
	if err != nil {
		return g.evict(ctx, StateMalformed, fmt.Errorf("%w: %v", ErrCredentialMalformed, err))
	}

	if claims.ExpiredAt(g.clock.Now()) {
		return g.evict(ctx, StateExpired, ErrCredentialExpired)
	}

	return Result{Decision: Allow, State: StateValid, Claims: claims}
}

func (g *Guard) evict(ctx context.Context, state State, cause error) Result {
	res := Result{Decision: Deny, State: state, Err: cause}

	if err := g.credentials.Evict(ctx); err != nil {
		g.logger.Error("failed to evict credential",
			zap.String("state", string(state)),
			zap.Error(err))
		return res
	}

	g.logger.Info("evicted credential",
		zap.String("state", string(state)),
		zap.NamedError("cause", cause))
	res.Evicted = true
	return res
}
