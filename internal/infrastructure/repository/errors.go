package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the ledger cares about
const (
	pgLockNotAvailable       = "55P03"
	pgSerializationFailure   = "40001"
	pgDeadlockDetected       = "40P01"
	pgUniqueViolation        = "23505"
	pgRaiseException         = "P0001"
	sqliteBusyMessage        = "database is locked"
	sqliteUniqueMessage      = "UNIQUE constraint failed"
	defaultDuplicateMessage  = "record already exists"
	appendOnlyViolationLabel = "append-only"
)

// TranslateError maps driver errors onto application errors. Errors that are
// already application errors pass through untouched; nil stays nil.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewInternalError(err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewDuplicateError(defaultDuplicateMessage)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgSerializationFailure, pgDeadlockDetected:
			return apperror.NewConcurrencyError(err)
		case pgUniqueViolation:
			return apperror.NewDuplicateError(defaultDuplicateMessage)
		case pgRaiseException:
			if strings.Contains(pgErr.Message, appendOnlyViolationLabel) {
				return apperror.Validation(pgErr.Message)
			}
		}
		return apperror.NewInternalError(err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, sqliteBusyMessage):
		return apperror.NewConcurrencyError(err)
	case strings.Contains(msg, sqliteUniqueMessage):
		return apperror.NewDuplicateError(defaultDuplicateMessage)
	}
	return apperror.NewInternalError(err)
}
