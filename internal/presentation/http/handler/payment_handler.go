package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retail-ledger/internal/application/service"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/request"
	"github.com/sangkips/retail-ledger/internal/presentation/http/dto/response"
)

// PaymentHandler handles tenders, credit and refunds
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Balance returns what a receipt still owes
func (h *PaymentHandler) Balance(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	balance, err := h.payments.ReceiptBalance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Balance retrieved successfully", balance)
}

// Accept records a payment against a receipt
func (h *PaymentHandler) Accept(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.AcceptPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.payments.AcceptPayment(c.Request.Context(), &service.AcceptPaymentInput{
		ReceiptID: id,
		Amount:    *req.Amount,
		Method:    req.Method,
		ActorID:   actorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment accepted successfully", result)
}

// CreateCredit puts a receipt on customer credit
func (h *PaymentHandler) CreateCredit(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.CreateCreditRequest
	if !bindJSON(c, &req) {
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		response.BadRequest(c, "Invalid due_date")
		return
	}

	account, err := h.payments.CreateCreditAccount(c.Request.Context(), &service.CreateCreditInput{
		ReceiptID:     id,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		DueDate:       dueDate,
		ActorID:       actorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Credit account created successfully", account)
}

// SettleCredit marks a receipt's credit as paid off
func (h *PaymentHandler) SettleCredit(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	account, err := h.payments.SettleCreditAccount(c.Request.Context(), id, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Credit settled successfully", account)
}

// Refund moves a paid or credit receipt to REFUNDED
func (h *PaymentHandler) Refund(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.RefundRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.payments.RefundReceipt(c.Request.Context(), &service.RefundInput{
		ReceiptID: id,
		Reason:    req.Reason,
		ActorID:   actorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt refunded successfully", receipt)
}
