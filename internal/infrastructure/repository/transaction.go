package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"gorm.io/gorm"
)

// TxOptions tunes lock waiting and conflict retries
type TxOptions struct {
	// LockTimeout bounds how long a PostgreSQL statement waits for a row lock
	LockTimeout time.Duration
	// MaxAttempts is the number of tries for a unit of work that hits a lock conflict
	MaxAttempts int
	// RetryBackoff is multiplied by the attempt number between tries
	RetryBackoff time.Duration
}

type txManager struct {
	db     *gorm.DB
	opts   TxOptions
	logger *slog.Logger
}

// NewTxManager creates a transaction manager over db
func NewTxManager(db *gorm.DB, opts TxOptions, logger *slog.Logger) domainRepo.TxManager {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &txManager{db: db, opts: opts, logger: logger}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Join the caller's transaction
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= m.opts.MaxAttempts; attempt++ {
		err = TranslateError(m.run(ctx, fn))
		if !apperror.IsConcurrency(err) || attempt == m.opts.MaxAttempts {
			return err
		}

		m.logger.WarnContext(ctx, "ledger transaction conflict, retrying",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return apperror.NewInternalError(ctx.Err())
		case <-time.After(m.opts.RetryBackoff * time.Duration(attempt)):
		}
	}
	return err
}

func (m *txManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.db.Dialector.Name() == "postgres" && m.opts.LockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", m.opts.LockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(WithTx(ctx, tx))
	})
}
