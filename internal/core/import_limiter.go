package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyImports is returned when no import slot frees up in time.
var ErrTooManyImports = errors.New("too many concurrent imports, please try again later")

const (
	// DefaultMaxConcurrentImports is the slot count used for a non-positive limit.
	DefaultMaxConcurrentImports = 5

	// DefaultMaxWaitTime is the queueing time used for a non-positive maxWait.
	DefaultMaxWaitTime = 10 * time.Second
)

// ImportLimiter caps how many cost tables are parsed at once. Each import
// holds its whole file in memory while the table is resolved.
type ImportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu      sync.Mutex
	active  int
	queued  int
	drained chan struct{} // closed whenever active == 0
}

// NewImportLimiter allows at most maxConcurrent imports; callers queue for
// up to maxWait.
func NewImportLimiter(maxConcurrent int, maxWait time.Duration) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	drained := make(chan struct{})
	close(drained)
	return &ImportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		drained: drained,
	}
}

// Acquire takes an import slot. The returned release func frees it and is
// safe to call more than once.
func (l *ImportLimiter) Acquire(ctx context.Context) (release func(), err error) {
	l.mu.Lock()
	l.queued++
	l.mu.Unlock()

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		l.dequeue()
		return nil, ctx.Err()
	case <-timer.C:
		l.dequeue()
		return nil, ErrTooManyImports
	}

	l.mu.Lock()
	l.queued--
	if l.active == 0 {
		l.drained = make(chan struct{})
	}
	l.active++
	l.mu.Unlock()

	var once sync.Once
	return func() { once.Do(l.release) }, nil
}

func (l *ImportLimiter) dequeue() {
	l.mu.Lock()
	l.queued--
	l.mu.Unlock()
}

func (l *ImportLimiter) release() {
	l.mu.Lock()
	l.active--
	if l.active == 0 {
		close(l.drained)
	}
	l.mu.Unlock()
	<-l.slots
}

// WaitForDrain blocks until no import is in flight or ctx ends.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	l.mu.Lock()
	drained := l.drained
	l.mu.Unlock()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LimiterStatus is a point-in-time view of an ImportLimiter.
type LimiterStatus struct {
	Active        int `json:"active"`
	Queued        int `json:"queued"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status reports in-flight and queued imports.
func (l *ImportLimiter) Status() LimiterStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LimiterStatus{
		Active:        l.active,
		Queued:        l.queued,
		MaxConcurrent: cap(l.slots),
	}
}
