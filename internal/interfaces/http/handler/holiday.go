package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	deliveryapp "github.com/milkroute/backend/internal/application/delivery"
)

// HolidayHandler handles delivery holiday calendar endpoints
type HolidayHandler struct {
	BaseHandler
	holidays *deliveryapp.HolidayService
}

// NewHolidayHandler creates a new HolidayHandler
func NewHolidayHandler(holidays *deliveryapp.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidays: holidays}
}

// RegisterRoutes registers holiday routes
func (h *HolidayHandler) RegisterRoutes(r *gin.RouterGroup) {
	holidays := r.Group("/holidays")
	{
		holidays.POST("", h.Create)
		holidays.GET("", h.List)
		holidays.GET("/check", h.Check)
		holidays.GET("/:id", h.Get)
		holidays.DELETE("/:id", h.Delete)
	}
}

// CreateHolidayRequest declares a fixed or recurring holiday
type CreateHolidayRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Recurring bool   `json:"recurring"`
	Date      string `json:"date"`
	Month     int    `json:"month" binding:"omitempty,min=1,max=12"`
	Day       int    `json:"day" binding:"omitempty,min=1,max=31"`
}

// CheckHolidayRequest asks whether one date is a delivery blackout
type CheckHolidayRequest struct {
	Date string `form:"date" binding:"required"`
}

// Create declares a new holiday
func (h *HolidayHandler) Create(c *gin.Context) {
	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := deliveryapp.CreateHolidayInput{
		Name:      req.Name,
		Recurring: req.Recurring,
		Month:     time.Month(req.Month),
		Day:       req.Day,
	}
	if !req.Recurring {
		date, err := parseDate(req.Date)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		input.Date = date
	}

	holiday, err := h.holidays.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, holiday)
}

// List returns the whole holiday calendar
func (h *HolidayHandler) List(c *gin.Context) {
	holidays, err := h.holidays.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, holidays)
}

// Check reports whether a date is a holiday
func (h *HolidayHandler) Check(c *gin.Context) {
	var req CheckHolidayRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	check, err := h.holidays.Check(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, check)
}

// Get returns one holiday by ID
func (h *HolidayHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid holiday ID")
		return
	}

	holiday, err := h.holidays.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, holiday)
}

// Delete removes a holiday from the calendar
func (h *HolidayHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid holiday ID")
		return
	}

	if err := h.holidays.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
