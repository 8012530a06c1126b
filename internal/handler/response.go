package handler

import (
	"errors"
	"net/http"
	"strconv"

	"restaurante/internal/service"
	"restaurante/internal/stock"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string           `json:"error"`
	Shortages []stock.Shortage `json:"faltantes,omitempty"`
}

func writeJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func writeErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// statusFor maps service and domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, stock.ErrInsufficientStock),
		errors.Is(err, stock.ErrUnitMismatch),
		errors.Is(err, service.ErrDuplicate),
		errors.Is(err, service.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrMissingColumn),
		errors.Is(err, service.ErrEmptyOrder):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status statusFor picks. Internal errors
// are logged and hidden from the client.
func respondError(c *gin.Context, log *logger.Logger, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(msg, "error", err, "path", c.Request.URL.Path, "request_id", logger.RequestID(c))
		writeErrorResponse(c, status, "internal server error")
		return
	}

	log.Warn(msg, "error", err, "status_code", status, "request_id", logger.RequestID(c))
	resp := ErrorResponse{Error: err.Error()}
	var shortErr *stock.InsufficientStockError
	if errors.As(err, &shortErr) {
		resp.Shortages = shortErr.Shortages
	}
	c.AbortWithStatusJSON(status, resp)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
