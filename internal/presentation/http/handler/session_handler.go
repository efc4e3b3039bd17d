package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/request"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/response"
	"github.com/sangkips/retail-ledger/pkg/pagination"
)

// SessionHandler handles POS shift requests
type SessionHandler struct {
	sessions *service.SessionService
	sales    *service.SalesService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, sales *service.SalesService) *SessionHandler {
	return &SessionHandler{sessions: sessions, sales: sales}
}

// Open handles opening a shift for the caller
func (h *SessionHandler) Open(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.OpenSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessions.OpenSession(c.Request.Context(), actorID, *req.OpeningCash)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Session opened successfully", session)
}

// Close handles closing a shift
func (h *SessionHandler) Close(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.CloseSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessions.CloseSession(c.Request.Context(), id, *req.ClosingCash, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session closed successfully", session)
}

// Active returns the caller's open shift
func (h *SessionHandler) Active(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	session, err := h.sessions.ActiveSession(c.Request.Context(), actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Active session retrieved successfully", session)
}

// Receipts lists the receipts of a shift
func (h *SessionHandler) Receipts(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	params := pageParams(c)
	receipts, page, err := h.sales.ListReceiptsBySession(c.Request.Context(), id, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", pagination.NewResult(receipts, page))
}
