package handler

import (
	"net/http"

	"restaurante/internal/service"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService service.CustomerServiceInterface
	logger          *logger.Logger
}

func NewCustomerHandler(s service.CustomerServiceInterface, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: s,
		logger:          log.WithComponent("customer_handler"),
	}
}

// List handles GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customerService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list customers", err)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	writeJSONResponse(c, http.StatusOK, customers)
}

// Get handles GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to get customer", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, customer)
}

// Create handles POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Failed to create customer", err)
		return
	}
	writeJSONResponse(c, http.StatusCreated, customer)
}
