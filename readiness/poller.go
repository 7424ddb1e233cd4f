// Package readiness waits for an asynchronous server-side job to reach a terminal state by
// polling its status.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	StatusReady  = "ready"
	StatusFailed = "failed"
)

type State int

const (
	Pending State = iota
	Ready
	Failed
	TimedOut
	TransportError
	Cancelled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed out"
	case TransportError:
		return "transport error"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrFailed        = errors.New("readiness: job reported failure")
	ErrTimedOut      = errors.New("readiness: deadline exceeded before job finished")
	ErrCancelled     = errors.New("readiness: wait cancelled")
	ErrInvalidTiming = errors.New("readiness: deadline and poll interval must be positive")
)

// PollError is returned for every outcome other than Ready.
type PollError struct {
	JobID      string
	State      State
	LastStatus string
	Polls      int
	Elapsed    time.Duration
	Err        error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("readiness: job %s %s after %d polls (%s), last status '%s': %v",
		e.JobID, e.State, e.Polls, e.Elapsed, e.LastStatus, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// Observation is handed to the observer after every successful status fetch.
type Observation struct {
	JobID   string
	Status  string
	Poll    int
	Elapsed time.Duration
}

type Option func(*Poller)

func WithClock(c Clock) Option {
	return func(p *Poller) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithTerminalStatuses replaces the status values that mean success and failure.
func WithTerminalStatuses(ready, failed string) Option {
	return func(p *Poller) {
		p.ready = ready
		p.failed = failed
	}
}

func WithObserver(fn func(Observation)) Option {
	return func(p *Poller) { p.onPoll = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type Poller struct {
	source StatusSource
	clock  Clock
	ready  string
	failed string
	onPoll func(Observation)
	logger *zap.Logger
}

func NewPoller(source StatusSource, opts ...Option) *Poller {
	p := &Poller{
		source: source,
		clock:  RealClock,
		ready:  StatusReady,
		failed: StatusFailed,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AwaitReady polls jobID until it reports the ready status, the failed status, or deadline has
// passed since the first poll.  Between polls it waits interval, cut short so that the last poll
// lands on the deadline.  A nil error means Ready; everything else is a *PollError.
func (p *Poller) AwaitReady(ctx context.Context, jobID string, deadline, interval time.Duration) (State, error) {
	if deadline <= 0 || interval <= 0 {
		return Pending, ErrInvalidTiming
	}

	logger := p.logger.With(zap.String("job_id", jobID))
	start := p.clock.Now()
	result := &PollError{JobID: jobID}

	finish := func(state State, err error) (State, error) {
		result.State = state
		result.Elapsed = p.clock.Now().Sub(start)
		result.Err = err
		logger.Info("Stopped polling",
			zap.Stringer("state", state),
			zap.Int("polls", result.Polls),
			zap.Duration("elapsed", result.Elapsed))
		if state == Ready {
			return Ready, nil
		}
		return state, result
	}

	for {
		if ctx.Err() != nil {
			return finish(Cancelled, fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx)))
		}

		status, err := p.source.Status(ctx, jobID)
		result.Polls++
		elapsed := p.clock.Now().Sub(start)
		if err != nil {
			if ctx.Err() != nil {
				return finish(Cancelled, fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx)))
			}
			return finish(TransportError, err)
		}
		result.LastStatus = status

		logger.Debug("Polled job status", zap.String("status", status), zap.Int("poll", result.Polls))
		if p.onPoll != nil {
			p.onPoll(Observation{JobID: jobID, Status: status, Poll: result.Polls, Elapsed: elapsed})
		}

		switch status {
		case p.ready:
			return finish(Ready, nil)
		case p.failed:
			return finish(Failed, ErrFailed)
		}

		if elapsed >= deadline {
			return finish(TimedOut, ErrTimedOut)
		}

		wait := interval
		if remaining := deadline - elapsed; remaining < wait {
			wait = remaining
		}

		if ctx.Err() != nil {
			return finish(Cancelled, fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx)))
		}
		timer := p.clock.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return finish(Cancelled, fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx)))
		case <-timer.C():
		}
	}
}
