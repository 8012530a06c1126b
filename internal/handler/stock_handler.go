package handler

import (
	"net/http"

	"restaurante/internal/service"
	"restaurante/pkg/logger"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockService service.StockServiceInterface
	logger       *logger.Logger
}

func NewStockHandler(s service.StockServiceInterface, log *logger.Logger) *StockHandler {
	return &StockHandler{
		stockService: s,
		logger:       log.WithComponent("stock_handler"),
	}
}

type setQuantityRequest struct {
	Quantity string `json:"cantidad"`
}

// List handles GET /api/v1/stock
func (h *StockHandler) List(c *gin.Context) {
	writeJSONResponse(c, http.StatusOK, h.stockService.List())
}

// Add handles POST /api/v1/stock. The quantity is added to any existing
// record of the same name.
func (h *StockHandler) Add(c *gin.Context) {
	var req service.AddIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for add ingredient", "error", err)
		writeErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ing, err := h.stockService.Add(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Failed to add ingredient", err)
		return
	}
	writeJSONResponse(c, http.StatusCreated, ing)
}

// SetQuantity handles PUT /api/v1/stock/:name
func (h *StockHandler) SetQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ing, err := h.stockService.SetQuantity(c.Request.Context(), c.Param("name"), req.Quantity)
	if err != nil {
		respondError(c, h.logger, "Failed to set quantity", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, ing)
}

// Delete handles DELETE /api/v1/stock/:name
func (h *StockHandler) Delete(c *gin.Context) {
	if err := h.stockService.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, h.logger, "Failed to delete ingredient", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Import handles POST /api/v1/stock/import with a multipart "file" field.
func (h *StockHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		writeErrorResponse(c, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	res, err := h.stockService.ImportCSV(c.Request.Context(), file)
	if err != nil {
		respondError(c, h.logger, "Failed to import stock CSV", err)
		return
	}
	h.logger.Info("Stock CSV uploaded", "filename", header.Filename, "rows", res.Rows)
	writeJSONResponse(c, http.StatusOK, res)
}
