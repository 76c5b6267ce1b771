package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	deliveryapp "github.com/milkroute/backend/internal/application/delivery"
	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/shared"
	"github.com/milkroute/backend/internal/interfaces/http/dto"
)

// AdjustmentHandler handles quantity adjustment endpoints
type AdjustmentHandler struct {
	BaseHandler
	adjustments *deliveryapp.AdjustmentService
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(adjustments *deliveryapp.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustments: adjustments}
}

// RegisterRoutes registers adjustment routes
func (h *AdjustmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	adjustments := r.Group("/adjustments")
	{
		adjustments.POST("", h.Upsert)
		adjustments.GET("", h.List)
		adjustments.GET("/schedule-view", h.ScheduleView)
		adjustments.GET("/:id", h.Get)
		adjustments.POST("/:id/accept", h.Accept)
		adjustments.POST("/:id/reject", h.Reject)
		adjustments.DELETE("/:id", h.Delete)
	}
}

// UpsertAdjustmentRequest creates or replaces the active adjustment for a line
type UpsertAdjustmentRequest struct {
	CustomerID    uuid.UUID       `json:"customer_id" binding:"required"`
	Date          string          `json:"date" binding:"required"`
	Slot          string          `json:"slot" binding:"required"`
	MilkTypeID    uuid.UUID       `json:"milk_type_id" binding:"required"`
	SubcategoryID uuid.UUID       `json:"subcategory_id" binding:"required"`
	NewQuantity   decimal.Decimal `json:"new_quantity" binding:"required"`
	Reason        string          `json:"reason" binding:"max=500"`
}

// AcceptAdjustmentRequest optionally overrides the delivered quantity
type AcceptAdjustmentRequest struct {
	LastAccepted *decimal.Decimal `json:"last_accepted_quantity"`
}

// RejectAdjustmentRequest records why an adjustment was declined
type RejectAdjustmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ListAdjustmentsRequest represents adjustment list query parameters
type ListAdjustmentsRequest struct {
	dto.ListRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	From       string `form:"from"`
	To         string `form:"to"`
}

// ScheduleViewRequest asks for the effective schedule of one customer and date
type ScheduleViewRequest struct {
	CustomerID uuid.UUID `form:"customer_id" binding:"required"`
	Date       string    `form:"date" binding:"required"`
}

// Upsert creates or replaces the active adjustment for one schedule line
func (h *AdjustmentHandler) Upsert(c *gin.Context) {
	var req UpsertAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	adjustment, err := h.adjustments.Upsert(c.Request.Context(), deliveryapp.UpsertAdjustmentInput{
		CustomerID:    req.CustomerID,
		Date:          date,
		Slot:          delivery.TimeSlot(req.Slot),
		MilkTypeID:    req.MilkTypeID,
		SubcategoryID: req.SubcategoryID,
		NewQuantity:   req.NewQuantity,
		Reason:        req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, adjustment)
}

// Accept marks an adjustment as delivered
func (h *AdjustmentHandler) Accept(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	var req AcceptAdjustmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	adjustment, err := h.adjustments.Accept(c.Request.Context(), id, req.LastAccepted)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}

// Reject declines a pending adjustment
func (h *AdjustmentHandler) Reject(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	var req RejectAdjustmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	adjustment, err := h.adjustments.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}

// Get returns one adjustment by ID
func (h *AdjustmentHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	adjustment, err := h.adjustments.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustment)
}

// List returns adjustments matching the query
func (h *AdjustmentHandler) List(c *gin.Context) {
	var req ListAdjustmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	filter := delivery.AdjustmentFilter{
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
			return
		}
		filter.CustomerID = &id
	}
	if req.Status != "" {
		status := delivery.AdjustmentStatus(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid adjustment status")
			return
		}
		filter.Status = &status
	}
	if req.From != "" {
		from, err := parseDate(req.From)
		if err != nil {
			h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		filter.FromDate = &from
	}
	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		filter.ToDate = &to
	}

	adjustments, total, err := h.adjustments.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, adjustments, total, req.Page, req.PageSize)
}

// ScheduleView returns a customer's schedule for a date with adjustments applied
func (h *AdjustmentHandler) ScheduleView(c *gin.Context) {
	var req ScheduleViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	lines, err := h.adjustments.ScheduleView(c.Request.Context(), req.CustomerID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lines)
}

// Delete removes an adjustment regardless of status
func (h *AdjustmentHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	if err := h.adjustments.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
