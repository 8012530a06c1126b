package handler

import (
	"net/http"

	"restaurante/internal/service"
	"restaurante/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PedidoHandler serves the order being built at the counter.
type PedidoHandler struct {
	pedidoService service.PedidoServiceInterface
	logger        *logger.Logger
}

func NewPedidoHandler(s service.PedidoServiceInterface, log *logger.Logger) *PedidoHandler {
	return &PedidoHandler{
		pedidoService: s,
		logger:        log.WithComponent("pedido_handler"),
	}
}

// Current handles GET /api/v1/pedido
func (h *PedidoHandler) Current(c *gin.Context) {
	writeJSONResponse(c, http.StatusOK, h.pedidoService.Current())
}

// AddItem handles POST /api/v1/pedido/items
func (h *PedidoHandler) AddItem(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MenuName == "" {
		writeErrorResponse(c, http.StatusBadRequest, "menu_name is required")
		return
	}

	snap, err := h.pedidoService.AddItem(req.MenuName)
	if err != nil {
		respondError(c, h.logger, "Failed to add item to order", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, snap)
}

// RemoveItem handles DELETE /api/v1/pedido/items/:name
func (h *PedidoHandler) RemoveItem(c *gin.Context) {
	snap, err := h.pedidoService.RemoveItem(c.Param("name"))
	if err != nil {
		respondError(c, h.logger, "Failed to remove item from order", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, snap)
}

// Reset handles POST /api/v1/pedido/reset
func (h *PedidoHandler) Reset(c *gin.Context) {
	writeJSONResponse(c, http.StatusOK, h.pedidoService.Reset())
}

// Checkout handles POST /api/v1/pedido/checkout
func (h *PedidoHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CustomerID <= 0 {
		writeErrorResponse(c, http.StatusBadRequest, "customer_id is required")
		return
	}

	res, err := h.pedidoService.Checkout(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Checkout failed", err)
		return
	}
	writeJSONResponse(c, http.StatusCreated, res)
}
