package handler

import (
	"net/http"

	"restaurante/internal/service"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService service.MenuServiceInterface
	logger      *logger.Logger
}

func NewMenuHandler(s service.MenuServiceInterface, log *logger.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: s,
		logger:      log.WithComponent("menu_handler"),
	}
}

// List handles GET /api/v1/menus
func (h *MenuHandler) List(c *gin.Context) {
	writeJSONResponse(c, http.StatusOK, h.menuService.List())
}

// Available handles GET /api/v1/menus/available
func (h *MenuHandler) Available(c *gin.Context) {
	items := h.menuService.Available()
	if items == nil {
		items = []models.MenuItem{}
	}
	writeJSONResponse(c, http.StatusOK, items)
}

// Card handles GET /api/v1/menus/pdf
func (h *MenuHandler) Card(c *gin.Context) {
	data, err := h.menuService.Card(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to render menu card", err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="carta.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Create handles POST /api/v1/menus
func (h *MenuHandler) Create(c *gin.Context) {
	var req service.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for create menu", "error", err)
		writeErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.menuService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Failed to create menu", err)
		return
	}
	writeJSONResponse(c, http.StatusCreated, item)
}

// Delete handles DELETE /api/v1/menus/:id
func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.menuService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to delete menu", err)
		return
	}
	c.Status(http.StatusNoContent)
}
