package store

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior for transient store failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry policy used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 50 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2.0,
	}
}

// retryStore is a decorator that retries ErrUnavailable failures with
// exponential backoff and jitter.
type retryStore struct {
	inner  ProgressStore
	config RetryConfig
}

// retryTxStore additionally forwards transactions, retrying the whole
// transaction on transient failure.
type retryTxStore struct {
	*retryStore
	tx Transactor
}

// WithRetry wraps a ProgressStore with retry logic. The result implements
// Transactor only when inner does.
func WithRetry(inner ProgressStore, cfg RetryConfig) ProgressStore {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	r := &retryStore{inner: inner, config: cfg}
	if tx, ok := inner.(Transactor); ok {
		return &retryTxStore{retryStore: r, tx: tx}
	}
	return r
}

func (r *retryTxStore) WithTx(ctx context.Context, fn func(ProgressStore) error) error {
	return r.do(ctx, func() error { return r.tx.WithTx(ctx, fn) })
}

func (r *retryStore) do(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return lastErr
}

// shouldRetry reports whether err is transient. Context errors and
// anything not marked ErrUnavailable are returned immediately.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrUnavailable)
}

// backoff computes the wait duration for the given attempt.
func (r *retryStore) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxWait > 0 && wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

func (r *retryStore) GetModeProgress(ctx context.Context, userID, modeID string) (rec ModeProgress, err error) {
	err = r.do(ctx, func() (e error) {
		rec, e = r.inner.GetModeProgress(ctx, userID, modeID)
		return e
	})
	return rec, err
}

func (r *retryStore) PutModeProgress(ctx context.Context, rec ModeProgress) error {
	return r.do(ctx, func() error { return r.inner.PutModeProgress(ctx, rec) })
}

func (r *retryStore) ListModeProgress(ctx context.Context, userID string) (out []ModeProgress, err error) {
	err = r.do(ctx, func() (e error) {
		out, e = r.inner.ListModeProgress(ctx, userID)
		return e
	})
	return out, err
}

func (r *retryStore) GetMasteryState(ctx context.Context, userID string, ageTier int) (st MasteryState, err error) {
	err = r.do(ctx, func() (e error) {
		st, e = r.inner.GetMasteryState(ctx, userID, ageTier)
		return e
	})
	return st, err
}

func (r *retryStore) PutMasteryState(ctx context.Context, st MasteryState) error {
	return r.do(ctx, func() error { return r.inner.PutMasteryState(ctx, st) })
}

func (r *retryStore) ListMasteryStates(ctx context.Context, userID string) (out []MasteryState, err error) {
	err = r.do(ctx, func() (e error) {
		out, e = r.inner.ListMasteryStates(ctx, userID)
		return e
	})
	return out, err
}

func (r *retryStore) AppendGraduationHistory(ctx context.Context, e GraduationHistoryEntry) error {
	return r.do(ctx, func() error { return r.inner.AppendGraduationHistory(ctx, e) })
}

func (r *retryStore) ListGraduationHistory(ctx context.Context, userID string) (out []GraduationHistoryEntry, err error) {
	err = r.do(ctx, func() (e error) {
		out, e = r.inner.ListGraduationHistory(ctx, userID)
		return e
	})
	return out, err
}

func (r *retryStore) SetUserAge(ctx context.Context, userID string, age int) error {
	return r.do(ctx, func() error { return r.inner.SetUserAge(ctx, userID, age) })
}

func (r *retryStore) GetUserAge(ctx context.Context, userID string) (age int, err error) {
	err = r.do(ctx, func() (e error) {
		age, e = r.inner.GetUserAge(ctx, userID)
		return e
	})
	return age, err
}

func (r *retryStore) ResetUser(ctx context.Context, userID string) error {
	return r.do(ctx, func() error { return r.inner.ResetUser(ctx, userID) })
}
