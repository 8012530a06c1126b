package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"restaurante/internal/events"
	"restaurante/internal/handler"
	"restaurante/internal/receipt"
	"restaurante/internal/repositories"
	"restaurante/internal/router"
	"restaurante/internal/service"
	"restaurante/internal/session"
	"restaurante/internal/stock"
	"restaurante/pkg/database"
	"restaurante/pkg/envconfig"
	"restaurante/pkg/flags"
	"restaurante/pkg/logger"
	"restaurante/pkg/shutdownsetup"

	"github.com/gin-gonic/gin"
)

func main() {
	flagConfig := flags.Parse()

	envErr := envconfig.LoadEnvFile(".env")

	loggerConfig := envconfig.LoadLoggerConfig()
	appLogger := logger.New(loggerConfig)
	defer appLogger.Close()

	if envErr != nil {
		appLogger.Warn("Failed to load .env file", "error", envErr)
	}

	appConfig, err := envconfig.LoadAppConfig()
	if err != nil {
		appLogger.Fatal("Invalid application configuration", "error", err)
	}
	if flagConfig.Port != "" {
		appConfig.Port = flagConfig.Port
	}
	if flagConfig.ReceiptsDir != "" {
		appConfig.ReceiptsDir = flagConfig.ReceiptsDir
	}
	if loggerConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger.Info("Starting restaurant point of sale",
		"environment", loggerConfig.Environment,
		"log_level", loggerConfig.Level,
		"strict_units", !appConfig.LenientUnits,
		"receipt_storage", appConfig.ReceiptStorage)

	ctx := context.Background()

	db, err := database.NewConnection(ctx, envconfig.LoadDatabaseConfig(), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to establish database connection", "error", err)
	}
	if err := db.InitSchema(ctx); err != nil {
		appLogger.Fatal("Failed to initialize schema", "error", err)
	}

	ingredientRepo := repositories.NewIngredientRepository(appLogger, db)
	menuRepo := repositories.NewMenuRepository(appLogger, db)
	orderRepo := repositories.NewOrderRepository(appLogger, db)
	customerRepo := repositories.NewCustomerRepository(appLogger, db)
	receiptRepo := repositories.NewReceiptRepository(appLogger, db)
	aggregationRepo := repositories.NewAggregationRepository(orderRepo, menuRepo, appLogger)

	stockOpts := []stock.Option{stock.WithLogger(appLogger)}
	if appConfig.LenientUnits {
		stockOpts = append(stockOpts, stock.WithLenientUnits())
	}
	ledger := stock.New(stockOpts...)

	stockService := service.NewStockService(ledger, ingredientRepo, appLogger)
	if err := stockService.Load(ctx); err != nil {
		appLogger.Fatal("Failed to load stock", "error", err)
	}
	if flagConfig.SeedCSV != "" {
		if err := importSeedCSV(ctx, stockService, flagConfig.SeedCSV); err != nil {
			appLogger.Fatal("Failed to import seed CSV", "path", flagConfig.SeedCSV, "error", err)
		}
	}

	menuService := service.NewMenuService(menuRepo, ledger, appLogger).
		WithIngredients(stockService).
		WithCard(receipt.NewMenuCardRenderer(receipt.DefaultMenuCard))
	if err := menuService.Load(ctx, appConfig.SeedCatalog); err != nil {
		appLogger.Fatal("Failed to load menu catalog", "error", err)
	}

	store, err := newReceiptStore(ctx, appConfig, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to set up receipt storage", "error", err)
	}

	receiptService := service.NewReceiptService(service.ReceiptServiceConfig{
		Receipts:  receiptRepo,
		Orders:    orderRepo,
		Customers: customerRepo,
		Renderer:  receipt.NewPDFRenderer(receipt.DefaultBusiness),
		Store:     store,
		TaxRate:   appConfig.TaxRate,
	}, appLogger)

	var publisher events.Publisher = events.Noop{}
	if len(appConfig.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(events.KafkaConfig{
			Brokers: appConfig.Kafka.Brokers,
			Topic:   appConfig.Kafka.Topic,
		}, appLogger)
		appLogger.Info("Order events enabled", "brokers", appConfig.Kafka.Brokers, "topic", appConfig.Kafka.Topic)
	}

	pedidoService := service.NewPedidoService(service.PedidoServiceConfig{
		Session:     session.New(ledger),
		Menus:       menuService,
		Customers:   customerRepo,
		Orders:      orderRepo,
		Ingredients: ingredientRepo,
		Tx:          db,
		Receipts:    receiptService,
		Events:      publisher,
		TaxRate:     appConfig.TaxRate,
	}, appLogger)

	orderService := service.NewOrderService(orderRepo, appLogger)
	customerService := service.NewCustomerService(customerRepo, appLogger)
	aggregationService := service.NewAggregationService(aggregationRepo, appLogger)

	engine := router.NewRouter(router.Handlers{
		Stock:       handler.NewStockHandler(stockService, appLogger),
		Menu:        handler.NewMenuHandler(menuService, appLogger),
		Pedido:      handler.NewPedidoHandler(pedidoService, appLogger),
		Order:       handler.NewOrderHandler(orderService, receiptService, appLogger),
		Customer:    handler.NewCustomerHandler(customerService, appLogger),
		Aggregation: handler.NewAggregationHandler(aggregationService, appLogger),
	}, router.Config{
		CORSOrigins: appConfig.CORSOrigins,
		Health:      db,
	}, appLogger)

	server := &http.Server{
		Addr:         net.JoinHostPort(appConfig.Host, appConfig.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Server error", "error", err)
		}
	}()

	shutdownsetup.SetupGracefulShutdown(server, appLogger, func() {
		if err := publisher.Close(); err != nil {
			appLogger.Error("Failed to close event publisher", "error", err)
		}
		db.LogStats()
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	})
}

func importSeedCSV(ctx context.Context, s *service.StockService, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = s.ImportCSV(ctx, f)
	return err
}

func newReceiptStore(ctx context.Context, cfg envconfig.AppConfig, log *logger.Logger) (receipt.Store, error) {
	if cfg.ReceiptStorage != envconfig.ReceiptStorageS3 {
		return receipt.NewLocalStore(cfg.ReceiptsDir, log), nil
	}
	s3Store, err := receipt.NewS3Store(ctx, receipt.S3Config{
		Endpoint:      cfg.S3.Endpoint,
		Region:        cfg.S3.Region,
		AccessKey:     cfg.S3.AccessKey,
		SecretKey:     cfg.S3.SecretKey,
		Bucket:        cfg.S3.Bucket,
		PublicBaseURL: cfg.S3.PublicBaseURL,
	}, log)
	if err != nil {
		return nil, err
	}
	return s3Store, nil
}
