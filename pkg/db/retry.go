package db

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

// TxRunner abstracts WithTx so services can retry whole transactions.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// IsRetryableTxError reports whether the transaction lost an optimistic
// concurrency race and should be retried from the top.
func IsRetryableTxError(err error) bool {
	return errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrStatusConflict)
}

// RetryWithTx runs fn inside a transaction, retrying version/status conflicts
// with a constant backoff up to maxRetries additional attempts. Any other
// error aborts immediately. The last conflict error is returned unwrapped when
// attempts are exhausted.
func RetryWithTx(ctx context.Context, runner TxRunner, maxRetries uint64, backoff time.Duration, fn func(tx *gorm.DB) error) error {
	if backoff <= 0 {
		backoff = 10 * time.Millisecond
	}
	b := retry.WithMaxRetries(maxRetries, retry.NewConstant(backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := runner.WithTx(ctx, fn)
		if IsRetryableTxError(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	return err
}
