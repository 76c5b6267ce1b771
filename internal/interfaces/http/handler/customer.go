package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	partnerapp "github.com/milkroute/backend/internal/application/partner"
	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/partner"
	"github.com/milkroute/backend/internal/domain/shared"
	"github.com/milkroute/backend/internal/interfaces/http/dto"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customers *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.GET("/number/:number", h.GetByNumber)
		customers.PUT("/:id", h.Update)
		customers.PUT("/:id/schedule", h.UpdateSchedule)
		customers.PUT("/:id/active", h.SetActive)
		customers.DELETE("/:id", h.Delete)
	}
}

// CreateCustomerRequest represents a request to register a customer
type CreateCustomerRequest struct {
	Name     string                     `json:"name" binding:"required,min=1,max=200"`
	Phone    string                     `json:"phone" binding:"required"`
	Address  string                     `json:"address"`
	JoinedAt *time.Time                 `json:"joined_at"`
	Schedule *delivery.DeliverySchedule `json:"schedule"`
}

// UpdateCustomerRequest represents a request to edit contact details
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
}

// SetActiveRequest toggles a customer's active flag
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ListCustomersRequest represents customer list query parameters
type ListCustomersRequest struct {
	dto.ListRequest
	Active *bool `form:"active"`
}

// Create registers a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	joinedAt := time.Now()
	if req.JoinedAt != nil {
		joinedAt = *req.JoinedAt
	}

	customer, err := h.customers.Create(c.Request.Context(), partnerapp.CreateCustomerInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		JoinedAt: joinedAt,
		Schedule: req.Schedule,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// List returns customers matching the query
func (h *CustomerHandler) List(c *gin.Context) {
	var req ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	filter := partner.CustomerFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		Active: req.Active,
	}

	customers, total, err := h.customers.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, customers, total, req.Page, req.PageSize)
}

// Get returns one customer by ID
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// GetByNumber returns one customer by sequential customer number
func (h *CustomerHandler) GetByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		h.BadRequest(c, "Invalid customer number")
		return
	}

	customer, err := h.customers.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Update edits a customer's contact details
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), id, partnerapp.UpdateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// UpdateSchedule replaces a customer's default delivery schedule
func (h *CustomerHandler) UpdateSchedule(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var schedule delivery.DeliverySchedule
	if err := c.ShouldBindJSON(&schedule); err != nil {
		h.ValidationError(c, err)
		return
	}

	customer, err := h.customers.UpdateSchedule(c.Request.Context(), id, schedule)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// SetActive activates or deactivates a customer
func (h *CustomerHandler) SetActive(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	customer, err := h.customers.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete removes a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
