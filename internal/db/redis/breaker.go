package redis

import (
	"log/slog"
	"sync"
	"time"
)

// breakerState is the state of the cache circuit
type breakerState int

const (
	stateClosed   breakerState = iota // cache in use
	stateOpen                         // cache skipped
	stateHalfOpen                     // one probe allowed through
)

func (s breakerState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// breaker stops the cache from adding a network round trip to every read
// while Redis is unreachable. After failureThreshold consecutive failures
// reads bypass Redis for openDuration, then a single probe is let through.
type breaker struct {
	now              func() time.Time
	lastFailure      time.Time
	logger           *slog.Logger
	failures         int
	failureThreshold int
	openDuration     time.Duration
	state            breakerState
	mu               sync.Mutex
}

func newBreaker(logger *slog.Logger) *breaker {
	return &breaker{
		now:              time.Now,
		logger:           logger,
		failureThreshold: 3,
		openDuration:     30 * time.Second,
	}
}

// allow reports whether the cache should be consulted
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateOpen:
		if b.now().Sub(b.lastFailure) < b.openDuration {
			return false
		}
		b.transition(stateHalfOpen)
		return true
	case stateHalfOpen:
		// A probe is already in flight
		return false
	default:
		return true
	}
}

func (b *breaker) success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state != stateClosed {
		b.transition(stateClosed)
	}
}

func (b *breaker) failure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = b.now()

	if b.state == stateHalfOpen || b.failures >= b.failureThreshold {
		if b.state != stateOpen {
			b.logger.Warn("post cache disabled after redis failures",
				"failures", b.failures, "retry_in", b.openDuration, "error", err)
			b.transition(stateOpen)
		}
	}
}

// must be called with mu held
func (b *breaker) transition(to breakerState) {
	if to == stateClosed {
		b.logger.Info("post cache recovered")
	}
	b.state = to
}

func (b *breaker) current() breakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
