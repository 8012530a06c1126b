package router

import (
	"context"
	"net/http"
	"time"

	"restaurante/internal/handler"
	"restaurante/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HealthChecker is satisfied by *database.DB.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	Stock       *handler.StockHandler
	Menu        *handler.MenuHandler
	Pedido      *handler.PedidoHandler
	Order       *handler.OrderHandler
	Customer    *handler.CustomerHandler
	Aggregation *handler.AggregationHandler
}

type Config struct {
	CORSOrigins []string
	Health      HealthChecker
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}

// NewRouter registers every /api/v1 route plus /health.
func NewRouter(h Handlers, cfg Config, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), log.GinMiddleware())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(corsMiddleware(cfg.CORSOrigins))
	}

	r.GET("/health", func(c *gin.Context) {
		if cfg.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Health.HealthCheck(ctx); err != nil {
				log.Warn("Health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	stock := api.Group("/stock")
	{
		stock.GET("", h.Stock.List)
		stock.POST("", h.Stock.Add)
		stock.POST("/import", h.Stock.Import)
		stock.PUT("/:name", h.Stock.SetQuantity)
		stock.DELETE("/:name", h.Stock.Delete)
	}

	menus := api.Group("/menus")
	{
		menus.GET("", h.Menu.List)
		menus.GET("/available", h.Menu.Available)
		menus.GET("/pdf", h.Menu.Card)
		menus.POST("", h.Menu.Create)
		menus.DELETE("/:id", h.Menu.Delete)
	}

	pedido := api.Group("/pedido")
	{
		pedido.GET("", h.Pedido.Current)
		pedido.POST("/items", h.Pedido.AddItem)
		pedido.DELETE("/items/:name", h.Pedido.RemoveItem)
		pedido.POST("/reset", h.Pedido.Reset)
		pedido.POST("/checkout", h.Pedido.Checkout)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", h.Order.GetAllOrders)
		orders.GET("/:id", h.Order.GetOrderByID)
		orders.DELETE("/:id", h.Order.DeleteOrder)
		orders.GET("/:id/receipt", h.Order.GetReceipt)
		orders.POST("/:id/receipt", h.Order.IssueReceipt)
		orders.POST("/:id/receipt/void", h.Order.VoidReceipt)
	}
	api.GET("/receipts", h.Order.ListReceipts)

	customers := api.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.POST("", h.Customer.Create)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/total-sales", h.Aggregation.GetTotalSales)
		reports.GET("/popular-menus", h.Aggregation.GetPopularMenus)
		reports.GET("/sales-by-period", h.Aggregation.GetSalesByPeriod)
	}

	return r
}
