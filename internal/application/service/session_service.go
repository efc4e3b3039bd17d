package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/domain/entity"
	"github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/pkg/apperror"
	"github.com/sangkips/retail-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// SessionService handles cashier shifts
type SessionService struct {
	txManager   repository.TxManager
	sessionRepo repository.SessionRepository
	logger      *slog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(txManager repository.TxManager, sessionRepo repository.SessionRepository, logger *slog.Logger) *SessionService {
	return &SessionService{
		txManager:   txManager,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// OpenSession starts a shift; an employee may hold only one active session
func (s *SessionService) OpenSession(ctx context.Context, actorID uuid.UUID, openingCash decimal.Decimal) (*entity.POSSession, error) {
	if actorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	if err := money.ValidateNonNegativeAmount("opening_cash", openingCash); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	var session *entity.POSSession
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		active, err := s.sessionRepo.GetActiveByEmployee(ctx, actorID)
		if err != nil {
			return err
		}
		if active != nil {
			return apperror.Validation("employee already has an active session")
		}

		session = &entity.POSSession{
			EmployeeID:  actorID,
			OpenedAt:    time.Now(),
			OpeningCash: openingCash,
			IsActive:    true,
		}
		return s.sessionRepo.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session opened",
		slog.String("session_id", session.ID.String()),
		slog.String("employee_id", actorID.String()),
	)
	return session, nil
}

// CloseSession ends an active shift and records the counted drawer
func (s *SessionService) CloseSession(ctx context.Context, sessionID uuid.UUID, closingCash decimal.Decimal, actorID uuid.UUID) (*entity.POSSession, error) {
	if actorID == uuid.Nil {
		return nil, apperror.Validation("actor is required")
	}
	if err := money.ValidateNonNegativeAmount("closing_cash", closingCash); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	var session *entity.POSSession
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessionRepo.LockByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperror.NewNotFoundError("Session")
		}
		if !session.IsActive {
			return apperror.Validation("session is not active")
		}

		now := time.Now()
		if err := s.sessionRepo.Close(ctx, session.ID, closingCash, now); err != nil {
			return err
		}
		session.IsActive = false
		session.ClosedAt = &now
		session.ClosingCash = &closingCash
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session closed",
		slog.String("session_id", session.ID.String()),
		slog.String("closed_by", actorID.String()),
	)
	return session, nil
}

// ActiveSession returns the actor's open session
func (s *SessionService) ActiveSession(ctx context.Context, actorID uuid.UUID) (*entity.POSSession, error) {
	session, err := s.sessionRepo.GetActiveByEmployee(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Active session")
	}
	return session, nil
}
