package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/request"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/response"
)

// PermissionEmitStock allows a finalization to deduct stock
const PermissionEmitStock = "pos.emit_stock"

// ReceiptHandler handles receipts, orders and finalization
type ReceiptHandler struct {
	sales *service.SalesService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(sales *service.SalesService) *ReceiptHandler {
	return &ReceiptHandler{sales: sales}
}

// Create handles opening a receipt on a session
func (h *ReceiptHandler) Create(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.CreateReceiptRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.sales.CreateReceipt(c.Request.Context(), &service.CreateReceiptInput{
		SessionID:     req.SessionID,
		ActorID:       actorID,
		ReceiptNumber: req.ReceiptNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Receipt created successfully", receipt)
}

// Get returns a receipt with orders, payments, credit and stock audit
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.sales.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// CreateOrder adds an empty order to a receipt
func (h *ReceiptHandler) CreateOrder(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.sales.CreateOrder(c.Request.Context(), id, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order created successfully", order)
}

// AddItem adds a sold line to an order
func (h *ReceiptHandler) AddItem(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.AddOrderItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.sales.AddOrderItem(c.Request.Context(), &service.AddOrderItemInput{
		OrderID:        orderID,
		ProductID:      req.ProductID,
		Quantity:       *req.Quantity,
		FinalPrice:     *req.FinalPrice,
		ActorID:        actorID,
		OverrideReason: req.OverrideReason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item added successfully", item)
}

// SetDiscount applies a discount to an open receipt
func (h *ReceiptHandler) SetDiscount(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.SetDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.sales.SetDiscount(c.Request.Context(), id, *req.Discount, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount applied successfully", receipt)
}

// Recalculate recomputes receipt totals
func (h *ReceiptHandler) Recalculate(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.sales.RecalculateTotals(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Totals recalculated successfully", receipt)
}

// Finalize closes the receipt's totals and emits its stock effects.
// Stock emission is on by default and needs pos.emit_stock.
func (h *ReceiptHandler) Finalize(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.FinalizeReceiptRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	emit := req.EmitStock == nil || *req.EmitStock
	if emit && !HasPermission(c, PermissionEmitStock) {
		forbidden(c, "you are not allowed to emit stock movements")
		return
	}

	result, err := h.sales.FinalizeReceipt(c.Request.Context(), &service.FinalizeReceiptInput{
		ReceiptID: id,
		ActorID:   actorID,
		EmitStock: emit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt finalized successfully", result)
}
