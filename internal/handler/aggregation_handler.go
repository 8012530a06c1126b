package handler

import (
	"net/http"
	"strconv"

	"restaurante/internal/service"
	"restaurante/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AggregationHandler struct {
	aggregationService service.AggregationServiceInterface
	logger             *logger.Logger
}

func NewAggregationHandler(s service.AggregationServiceInterface, log *logger.Logger) *AggregationHandler {
	return &AggregationHandler{
		aggregationService: s,
		logger:             log.WithComponent("aggregation_handler"),
	}
}

// GetTotalSales handles GET /api/v1/reports/total-sales
func (h *AggregationHandler) GetTotalSales(c *gin.Context) {
	report, err := h.aggregationService.GetTotalSales(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get total sales report", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, report)
}

// GetPopularMenus handles GET /api/v1/reports/popular-menus?limit=
func (h *AggregationHandler) GetPopularMenus(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.logger.Warn("Invalid limit parameter", "value", raw)
			writeErrorResponse(c, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = n
	}

	report, err := h.aggregationService.GetPopularMenus(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, "Failed to get popular menus report", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, report)
}

// GetSalesByPeriod handles GET /api/v1/reports/sales-by-period?period=day|month
func (h *AggregationHandler) GetSalesByPeriod(c *gin.Context) {
	period := c.Query("period")
	if period == "" {
		h.logger.Warn("Period parameter is required")
		writeErrorResponse(c, http.StatusBadRequest, "period parameter is required")
		return
	}

	report, err := h.aggregationService.GetSalesByPeriod(c.Request.Context(), period)
	if err != nil {
		respondError(c, h.logger, "Failed to get sales by period", err)
		return
	}
	writeJSONResponse(c, http.StatusOK, report)
}
