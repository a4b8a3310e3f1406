// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrAttemptsExhausted оборачивает последнюю ошибку, когда все попытки израсходованы.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// Policy описывает ограниченный повтор с фиксированной паузой.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Notify вызывается после каждой неудачной попытки, кроме последней.
type Notify func(attempt int, err error, next time.Duration)

// Permanent помечает ошибку как не подлежащую повтору.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do выполняет op до успеха, постоянной ошибки или исчерпания попыток.
func Do[T any](ctx context.Context, policy Policy, op func(attempt int) (T, error), notify Notify) (T, error) {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	attempt := 0
	permanent := false
	operation := func() (T, error) {
		attempt++
		result, err := op(attempt)
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			permanent = true
		}
		return result, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewConstantBackOff(policy.Delay)),
		backoff.WithMaxTries(uint(policy.MaxAttempts)),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			notify(attempt, err, next)
		}))
	}

	result, err := backoff.Retry(ctx, operation, opts...)
	if err == nil {
		return result, nil
	}
	if permanent || ctx.Err() != nil {
		return result, err
	}
	return result, fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempt, err)
}

// Sleep ждёт d или отмену контекста.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
