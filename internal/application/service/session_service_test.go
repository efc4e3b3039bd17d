package service_test

import (
	"github.com/google/uuid"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/pkg/apperror"
)

func (s *ledgerSuite) TestOneActiveSessionPerEmployee() {
	session, err := s.sessions.OpenSession(s.ctx(), s.actor, dec("50.00"))
	s.Require().NoError(err)
	s.True(session.IsActive)

	_, err = s.sessions.OpenSession(s.ctx(), s.actor, dec("10.00"))
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	// Another cashier is unaffected
	_, err = s.sessions.OpenSession(s.ctx(), uuid.New(), dec("0"))
	s.NoError(err)

	active, err := s.sessions.ActiveSession(s.ctx(), s.actor)
	s.Require().NoError(err)
	s.Equal(session.ID, active.ID)
}

func (s *ledgerSuite) TestCloseSession() {
	session, err := s.sessions.OpenSession(s.ctx(), s.actor, dec("50.00"))
	s.Require().NoError(err)

	closed, err := s.sessions.CloseSession(s.ctx(), session.ID, dec("180.50"), s.actor)
	s.Require().NoError(err)
	s.False(closed.IsActive)
	s.Require().NotNil(closed.ClosingCash)
	s.decEqual("180.50", *closed.ClosingCash)

	_, err = s.sessions.CloseSession(s.ctx(), session.ID, dec("1"), s.actor)
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	_, err = s.sessions.ActiveSession(s.ctx(), s.actor)
	s.Equal(apperror.KindNotFound, apperror.KindOf(err))

	// A closed session takes no receipts
	_, err = s.sales.CreateReceipt(s.ctx(), &service.CreateReceiptInput{SessionID: session.ID, ActorID: s.actor})
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	// A new shift may start once the old one is closed
	_, err = s.sessions.OpenSession(s.ctx(), s.actor, dec("0"))
	s.NoError(err)
}

func (s *ledgerSuite) TestSessionValidation() {
	_, err := s.sessions.OpenSession(s.ctx(), s.actor, dec("-1"))
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	_, err = s.sessions.OpenSession(s.ctx(), uuid.Nil, dec("1"))
	s.Equal(apperror.KindValidation, apperror.KindOf(err))

	_, err = s.sessions.CloseSession(s.ctx(), uuid.New(), dec("1"), s.actor)
	s.Equal(apperror.KindNotFound, apperror.KindOf(err))
}
