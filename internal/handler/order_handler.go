package handler

import (
	"net/http"

	"restaurante/internal/service"
	"restaurante/pkg/logger"

	"github.com/gin-gonic/gin"
)

// OrderHandler serves checked-out orders and their receipts.
type OrderHandler struct {
	orderService   service.OrderServiceInterface
	receiptService service.ReceiptServiceInterface
	logger         *logger.Logger
}

func NewOrderHandler(orderService service.OrderServiceInterface, receiptService service.ReceiptServiceInterface, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		receiptService: receiptService,
		logger:         log.WithComponent("order_handler"),
	}
}

// GetAllOrders handles GET /api/v1/orders
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get all orders", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, orders)
}

// GetOrderByID handles GET /api/v1/orders/:id
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to get order", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to delete order", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetReceipt handles GET /api/v1/orders/:id/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.receiptService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to get receipt", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, rec)
}

// IssueReceipt handles POST /api/v1/orders/:id/receipt
func (h *OrderHandler) IssueReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.receiptService.IssueForOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to issue receipt", err)
		return
	}
	writeJSONResponse(c, http.StatusCreated, rec)
}

// VoidReceipt handles POST /api/v1/orders/:id/receipt/void
func (h *OrderHandler) VoidReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.receiptService.Void(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to void receipt", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, rec)
}

// ListReceipts handles GET /api/v1/receipts?estado=
func (h *OrderHandler) ListReceipts(c *gin.Context) {
	recs, err := h.receiptService.List(c.Request.Context(), c.Query("estado"))
	if err != nil {
		respondError(c, h.logger, "Failed to list receipts", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, recs)
}
