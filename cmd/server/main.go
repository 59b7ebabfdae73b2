package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/router"
	"github.com/ikkim/storefront/internal/scheduler"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting Storefront Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"storage":     cfg.Storage.Driver,
		"api":         cfg.API.BaseURL,
	})

	// Open profile storage
	ctx := context.Background()
	backend, closeStorage, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open profile storage", err)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Error("Failed to close profile storage", err)
		}
	}()
	stores := storage.NewProvider(backend)

	// Shop API client
	client, err := shopapi.NewClient(shopapi.Config{
		BaseURL:               cfg.API.BaseURL,
		RefreshOnUnauthorized: cfg.API.RefreshOnUnauthorized,
	})
	if err != nil {
		logger.Fatal("Failed to create shop API client", err)
	}

	// Initialize repositories
	cartRepo := repository.NewCartRepository(stores)
	sessionRepo := repository.NewSessionRepository(stores)

	// Initialize services
	cartService := service.NewCartService(cartRepo)
	sessionService := service.NewSessionService(sessionRepo, client)
	productService := service.NewProductService(sessionService, cartService)
	orderService := service.NewOrderService(sessionService)
	checkoutService := service.NewCheckoutService(cartService, sessionService, cfg.Checkout.SubmitOrders)

	// Initialize controllers
	authController := controller.NewAuthController(sessionService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	orderController := controller.NewOrderController(orderService)
	healthController := controller.NewHealthController(cfg.Storage.Driver)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(sessionService)

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		checkoutController,
		orderController,
		healthController,
		sessionMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Stale profile sweeper
	var sweeper *scheduler.ProfileSweeper
	if cfg.Sweeper.Enabled {
		if s, ok := backend.(storage.Sweeper); ok {
			sweeper = scheduler.NewProfileSweeper(s, cfg.Sweeper.Schedule, cfg.Sweeper.MaxIdle)
			if err := sweeper.Start(); err != nil {
				logger.Fatal("Failed to start profile sweeper", err)
			}
		} else {
			logger.Warn("Storage driver does not support sweeping, sweeper disabled", map[string]interface{}{
				"driver": cfg.Storage.Driver,
			})
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
