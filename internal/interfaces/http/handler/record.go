package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	deliveryapp "github.com/milkroute/backend/internal/application/delivery"
	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/shared"
	"github.com/milkroute/backend/internal/interfaces/http/dto"
)

// RecordHandler handles daily delivery record endpoints
type RecordHandler struct {
	BaseHandler
	records *deliveryapp.RecordService
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(records *deliveryapp.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// RegisterRoutes registers daily record routes
func (h *RecordHandler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/delivery-records")
	{
		records.POST("/generate", h.Generate)
		records.POST("/generate-batch", h.GenerateBatch)
		records.POST("/backfill", h.Backfill)
		records.GET("", h.List)
		records.GET("/:id", h.Get)
		records.PUT("/:id", h.UpdateSlots)
		records.DELETE("/:id", h.Delete)
	}
}

// GenerateRecordRequest asks for one customer's record on one date
type GenerateRecordRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Date       string    `json:"date" binding:"required"`
}

// GenerateBatchRequest asks for records for all active customers on one date
type GenerateBatchRequest struct {
	Date string `json:"date" binding:"required"`
}

// BackfillRequest asks for missing records since a customer's last record
type BackfillRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// UpdateRecordRequest replaces the slots of an existing record
type UpdateRecordRequest struct {
	Slots delivery.RecordSlots `json:"slots" binding:"required"`
}

// ListRecordsRequest represents record list query parameters
type ListRecordsRequest struct {
	dto.ListRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	From       string `form:"from"`
	To         string `form:"to"`
}

// Generate creates the daily record for one customer and date
func (h *RecordHandler) Generate(c *gin.Context) {
	var req GenerateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	result, err := h.records.GenerateForCustomer(c.Request.Context(), req.CustomerID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Outcome == deliveryapp.OutcomeCreated {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// GenerateBatch creates records for every active customer on one date
func (h *RecordHandler) GenerateBatch(c *gin.Context) {
	var req GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	report, err := h.records.GenerateForDate(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Backfill fills the gap between a customer's last record and today
func (h *RecordHandler) Backfill(c *gin.Context) {
	var req BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.records.Backfill(c.Request.Context(), req.CustomerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns records matching the query
func (h *RecordHandler) List(c *gin.Context) {
	var req ListRecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	filter := delivery.DailyRecordFilter{
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

	records, total, err := h.records.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, req.Page, req.PageSize)
}

// Get returns one record by ID
func (h *RecordHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	record, err := h.records.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// UpdateSlots replaces the slot lines of a record
func (h *RecordHandler) UpdateSlots(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	record, err := h.records.UpdateSlots(c.Request.Context(), id, req.Slots)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Delete removes a record
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	if err := h.records.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
