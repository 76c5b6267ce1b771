package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/milkroute/backend/internal/application/billing"
	"github.com/milkroute/backend/internal/domain/partner"
	"github.com/milkroute/backend/internal/domain/shared"
	"github.com/milkroute/backend/internal/interfaces/http/dto"
)

// CreditHandler handles customer credit and advance endpoints
type CreditHandler struct {
	BaseHandler
	credits *billingapp.CreditService
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(credits *billingapp.CreditService) *CreditHandler {
	return &CreditHandler{credits: credits}
}

// RegisterRoutes registers credit routes under the customer resource
func (h *CreditHandler) RegisterRoutes(r *gin.RouterGroup) {
	credit := r.Group("/customers/:id/credit")
	{
		credit.POST("", h.AddCredit)
		credit.PUT("", h.SetCredit)
		credit.DELETE("", h.ClearCredit)
		credit.GET("", h.GetNetPosition)
		credit.GET("/history", h.History)
	}
}

// CreditAmountRequest carries an amount plus an optional audit note
type CreditAmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes" binding:"max=500"`
}

// CreditNotesRequest carries only an audit note
type CreditNotesRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// ListCreditHistoryRequest represents credit history query parameters
type ListCreditHistoryRequest struct {
	dto.ListRequest
	Type string `form:"type"`
}

// AddCredit adds to a customer's credit balance
func (h *CreditHandler) AddCredit(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req CreditAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	customer, err := h.credits.AddCredit(c.Request.Context(), id, req.Amount, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// SetCredit overwrites a customer's credit balance
func (h *CreditHandler) SetCredit(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req CreditAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	customer, err := h.credits.SetCredit(c.Request.Context(), id, req.Amount, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// ClearCredit zeroes a customer's credit balance
func (h *CreditHandler) ClearCredit(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req CreditNotesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	customer, err := h.credits.ClearCredit(c.Request.Context(), id, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// GetNetPosition returns the customer's derived credit/debit standing
func (h *CreditHandler) GetNetPosition(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	position, err := h.credits.GetNetPosition(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, position)
}

// History returns the customer's credit audit trail
func (h *CreditHandler) History(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req ListCreditHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	filter := partner.CreditTransactionFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
		CustomerID: uuid.NullUUID{UUID: id, Valid: true},
		Type:       partner.CreditTransactionType(req.Type),
	}

	transactions, total, err := h.credits.History(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, req.Page, req.PageSize)
}
