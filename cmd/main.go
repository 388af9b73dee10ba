package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/grocery-saga/order-service/internal/alerting"
	"github.com/grocery-saga/order-service/internal/config"
	"github.com/grocery-saga/order-service/internal/handlers"
	"github.com/grocery-saga/order-service/internal/httpapi"
	"github.com/grocery-saga/order-service/internal/messaging"
	"github.com/grocery-saga/order-service/internal/repository"
	"github.com/grocery-saga/order-service/internal/service"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()

	cfg := config.Load()

	db, err := initDatabase(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(context.Background(), db); err != nil {
		zapLogger.Fatal("migration failed", zap.Error(err))
	}

	alertSink := initAlertSink(cfg, zapLogger)

	// Dependencies injection
	txRunner := repository.NewTxRunner(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	ledger := service.NewInventoryLedger(catalogRepo, zapLogger)
	orderService := service.NewOrderService(txRunner, orderRepo, catalogRepo, ledger, alertSink, zapLogger)
	catalogService := service.NewCatalogService(catalogRepo, zapLogger)

	orderHandler := handlers.NewOrderHandler(orderService)
	itemHandler := handlers.NewItemHandler(catalogService)

	app := setupFiberApp()
	setupRoutes(app, orderHandler, itemHandler)

	// Graceful shutdown setup
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		zapLogger.Info("order service shutting down")
		if err := app.Shutdown(); err != nil {
			zapLogger.Error("shutdown error", zap.Error(err))
		}
	}()

	zapLogger.Info("order service listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server start error", zap.Error(err))
	}
}

func initDatabase(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("database connected", zap.String("name", cfg.Database.Name))
	return db, nil
}

// initAlertSink wires the RabbitMQ alert sink. Alerts are best-effort, so a
// broker that is down or disabled degrades to a no-op sink instead of
// blocking startup.
func initAlertSink(cfg *config.Config, logger *zap.Logger) alerting.Sink {
	if !cfg.Alerting.Enabled {
		logger.Info("alerting disabled, using nop sink")
		return alerting.NopSink{}
	}

	rabbitClient := messaging.NewRabbitMQClient(messaging.NewRabbitMQConfig(), logger)
	if err := rabbitClient.Connect(); err != nil {
		logger.Warn("rabbitmq unavailable, stock alerts disabled", zap.Error(err))
		return alerting.NopSink{}
	}

	return alerting.NewAMQPSink(messaging.NewPublisher(rabbitClient))
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Grocery Order Service v1.0",
	})

	// Middlewares
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID,X-User-ID,X-User-Role",
	}))

	return app
}

func setupRoutes(app *fiber.App, orderHandler *handlers.OrderHandler, itemHandler *handlers.ItemHandler) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", orderHandler.HealthCheck)

	// Public storefront
	api.Get("/items", itemHandler.ListAvailableItems)

	// User routes
	api.Get("/items/:id", handlers.RequireUser, itemHandler.GetItem)

	orders := api.Group("/orders", handlers.RequireUser)
	orders.Post("/", orderHandler.PlaceOrder)
	orders.Get("/", orderHandler.GetUserOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/:id/cancel", orderHandler.CancelOrder)

	// Admin routes
	admin := api.Group("/admin", handlers.RequireAdmin)
	admin.Post("/items", itemHandler.AddItem)
	admin.Get("/items", itemHandler.ListItems)
	admin.Get("/items/:id", itemHandler.GetItem)
	admin.Put("/items/:id", itemHandler.UpdateItem)
	admin.Put("/items/:id/inventory", itemHandler.UpdateInventory)
	admin.Delete("/items/:id", itemHandler.DeleteItem)
	admin.Get("/orders", orderHandler.ListOrders)
	admin.Put("/orders/:id/status", orderHandler.UpdateOrderStatus)

	// Route not found
	app.Use("*", func(c *fiber.Ctx) error {
		return httpapi.NotFoundResponse(c, "Route not found")
	})
}
