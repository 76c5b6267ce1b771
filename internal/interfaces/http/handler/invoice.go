package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/milkroute/backend/internal/application/billing"
	"github.com/milkroute/backend/internal/domain/billing"
	"github.com/milkroute/backend/internal/domain/shared"
	"github.com/milkroute/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles invoice and payment endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/invoices")
	{
		invoices.POST("/generate", h.Generate)
		invoices.POST("/generate-batch", h.GenerateBatch)
		invoices.POST("/refresh-overdue", h.RefreshOverdue)
		invoices.GET("", h.List)
		invoices.GET("/summary", h.Summary)
		invoices.GET("/:id", h.Get)
		invoices.POST("/:id/payments", h.AddPayment)
		invoices.PUT("/:id/status", h.OverrideStatus)
		invoices.DELETE("/:id", h.Delete)
	}
}

// GenerateInvoiceRequest asks for one customer's monthly invoice
type GenerateInvoiceRequest struct {
	CustomerID     uuid.UUID `json:"customer_id" binding:"required"`
	Month          int       `json:"month" binding:"required,min=1,max=12"`
	Year           int       `json:"year" binding:"required,min=2000,max=2100"`
	UpdateExisting bool      `json:"update_existing"`
}

// GenerateInvoiceBatchRequest asks for invoices for all active customers
type GenerateInvoiceBatchRequest struct {
	Month          int  `json:"month" binding:"required,min=1,max=12"`
	Year           int  `json:"year" binding:"required,min=2000,max=2100"`
	UpdateExisting bool `json:"update_existing"`
}

// AddPaymentRequest records a payment against an invoice
type AddPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	TransactionID string          `json:"transaction_id" binding:"max=100"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// OverrideStatusRequest forces an invoice into a specific lifecycle state
type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListInvoicesRequest represents invoice list query parameters
type ListInvoicesRequest struct {
	dto.ListRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	From       string `form:"from"`
	To         string `form:"to"`
}

// Generate builds or refreshes one customer's invoice for a month
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.invoices.Generate(c.Request.Context(), billingapp.GenerateInvoiceInput{
		CustomerID:     req.CustomerID,
		Month:          req.Month,
		Year:           req.Year,
		UpdateExisting: req.UpdateExisting,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Updated {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// GenerateBatch builds invoices for every active customer for a month
func (h *InvoiceHandler) GenerateBatch(c *gin.Context) {
	var req GenerateInvoiceBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	report, err := h.invoices.GenerateBatch(c.Request.Context(), req.Month, req.Year, req.UpdateExisting)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// RefreshOverdue sweeps open invoices past their grace period
func (h *InvoiceHandler) RefreshOverdue(c *gin.Context) {
	marked, err := h.invoices.RefreshOverdue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"marked_overdue": marked})
}

// Get returns one invoice by ID
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List returns invoices matching the query
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, req, ok := h.bindFilter(c)
	if !ok {
		return
	}

	invoices, total, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, req.Page, req.PageSize)
}

// Summary returns aggregate totals for invoices matching the query
func (h *InvoiceHandler) Summary(c *gin.Context) {
	filter, _, ok := h.bindFilter(c)
	if !ok {
		return
	}

	summary, err := h.invoices.Summary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// AddPayment applies a payment to an invoice
func (h *InvoiceHandler) AddPayment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.invoices.AddPayment(c.Request.Context(), billingapp.AddPaymentInput{
		InvoiceID:     id,
		Amount:        req.Amount,
		Method:        billing.PaymentMethod(req.Method),
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// OverrideStatus forces an invoice into a given status
func (h *InvoiceHandler) OverrideStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.invoices.OverrideStatus(c.Request.Context(), id, billing.InvoiceStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete removes an invoice that has no payments
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// bindFilter parses the shared list/summary query parameters
func (h *InvoiceHandler) bindFilter(c *gin.Context) (billing.InvoiceFilter, ListInvoicesRequest, bool) {
	var req ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return billing.InvoiceFilter{}, req, false
	}
	req.Normalize()

	filter := billing.InvoiceFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
	}

	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return filter, req, false
		}
		filter.CustomerID = uuid.NullUUID{UUID: id, Valid: true}
	}
	if req.Status != "" {
		status := billing.InvoiceStatus(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid invoice status")
			return filter, req, false
		}
		filter.Status = status
	}
	if req.From != "" {
		from, err := parseDate(req.From)
		if err != nil {
			h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return filter, req, false
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return filter, req, false
		}
		filter.To = &to
	}

	return filter, req, true
}
