package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/request"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/response"
	"github.com/sangkips/retail-ledger/pkg/pagination"
)

// ReconciliationHandler handles physical stock counts and their review
type ReconciliationHandler struct {
	reconciliation *service.ReconciliationService
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(reconciliation *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliation: reconciliation}
}

// Create records a count for review
func (h *ReconciliationHandler) Create(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.CreateReconciliationRequest
	if !bindJSON(c, &req) {
		return
	}

	reconciliation, err := h.reconciliation.CreateReconciliation(c.Request.Context(), &service.CreateReconciliationInput{
		ProductID:       req.ProductID,
		CountedQuantity: *req.CountedQuantity,
		ActorID:         actorID,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Stock count recorded successfully", reconciliation)
}

// Pending lists counts awaiting review
func (h *ReconciliationHandler) Pending(c *gin.Context) {
	items, page, err := h.reconciliation.ListPendingReconciliations(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Pending stock counts retrieved successfully", pagination.NewResult(items, page))
}

// Approve applies the counted difference to the ledger
func (h *ReconciliationHandler) Approve(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	reconciliation, err := h.reconciliation.ApproveReconciliation(c.Request.Context(), id, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock count approved successfully", reconciliation)
}

// Reject closes a count without touching the ledger
func (h *ReconciliationHandler) Reject(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.RejectReconciliationRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	reconciliation, err := h.reconciliation.RejectReconciliation(c.Request.Context(), id, actorID, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock count rejected successfully", reconciliation)
}
