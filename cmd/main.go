package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/adapter/postgres"
	"coffeehouse/internal/adapter/rabbitmq"
	stripeAdapter "coffeehouse/internal/adapter/stripe"
	"coffeehouse/internal/app/barista"
	"coffeehouse/internal/app/checkout"
	"coffeehouse/internal/app/inventory"
	"coffeehouse/internal/app/promotions"
	"coffeehouse/internal/app/reporting"
	"coffeehouse/internal/app/session"
	"coffeehouse/internal/app/tracking"
	"coffeehouse/internal/config"

	amqpAdapter "coffeehouse/internal/adapter/amqp"
	httpAdapter "coffeehouse/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: checkout-service, barista-worker, notification-subscriber")
	port := flag.Int("port", 3000, "HTTP port")
	baristaName := flag.String("barista-name", "", "Barista name (for barista-worker)")
	branchID := flag.String("branch", "", "Branch the barista works at (for barista-worker)")
	heartbeatInterval := flag.Int("heartbeat-interval", 30, "Heartbeat interval in seconds")
	prefetch := flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	lgr := logger.New(*mode)

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "checkout-service":
		runCheckoutService(ctx, cfg, db, mqConn, lgr, *port)

	case "barista-worker":
		if *baristaName == "" {
			log.Fatal("--barista-name is required for barista-worker mode")
		}
		if *branchID == "" {
			log.Fatal("--branch is required for barista-worker mode")
		}
		runBaristaWorker(ctx, db, mqConn, lgr, *baristaName, *branchID, *heartbeatInterval, *prefetch)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runCheckoutService(ctx context.Context, cfg *config.Config, db postgres.DB, mqConn rabbitmq.Connection, lgr logger.Logger, port int) {
	menu := cfg.BuildMenu()

	inventoryRepo := postgres.NewInventoryRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	promoRepo := postgres.NewPromotionRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)
	baristaRepo := postgres.NewBaristaRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)
	gateway := stripeAdapter.NewGateway(cfg.Payment)

	sessions := session.NewManager(menu, promoRepo, lgr)
	checkoutService := checkout.NewService(menu, inventoryRepo, orderRepo, gateway, publisher, lgr, cfg.Checkout.MaxStockRetries)
	trackingService := tracking.NewService(orderRepo, baristaRepo, feedbackRepo, lgr)
	inventoryService := inventory.NewService(inventoryRepo, lgr, cfg.Checkout.MaxStockRetries)
	promotionService := promotions.NewService(menu, promoRepo, lgr)
	reportingService := reporting.NewService(orderRepo, lgr)

	cartHandler := httpAdapter.NewCartHandler(sessions, checkoutService, lgr)
	trackingHandler := httpAdapter.NewTrackingHandler(trackingService, lgr)
	adminHandler := httpAdapter.NewAdminHandler(promotionService, inventoryService, reportingService, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/cart", cartHandler.ViewCart)
	mux.HandleFunc("/cart/items", cartHandler.AddItem)
	mux.HandleFunc("/cart/remove", cartHandler.RemoveItem)
	mux.HandleFunc("/cart/coupon", cartHandler.ApplyCoupon)
	mux.HandleFunc("/cart/promotion", cartHandler.ApplyPromotion)
	mux.HandleFunc("/checkout", cartHandler.Checkout)
	mux.HandleFunc("/orders/", trackingHandler.HandleOrders)
	mux.HandleFunc("/orders/history", trackingHandler.GetOrderHistory)
	mux.HandleFunc("/orders/pickup", trackingHandler.GetPickupBoard)
	mux.HandleFunc("/orders/pending", trackingHandler.GetPendingOrders)
	mux.HandleFunc("/baristas/status", trackingHandler.GetBaristasStatus)
	mux.HandleFunc("/feedback", trackingHandler.SubmitFeedback)
	mux.HandleFunc("/admin/promotions", adminHandler.HandlePromotions)
	mux.HandleFunc("/admin/promotions/", adminHandler.HandlePromotions)
	mux.HandleFunc("/admin/inventory", adminHandler.GetInventory)
	mux.HandleFunc("/admin/inventory/restock", adminHandler.Restock)
	mux.HandleFunc("/admin/reports/sales", adminHandler.GetSalesReport)

	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Checkout Service started on port %d", port), "startup", map[string]interface{}{
		"port": port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down Checkout Service", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runBaristaWorker(ctx context.Context, db postgres.DB, mqConn rabbitmq.Connection, lgr logger.Logger, baristaName, branchID string, heartbeatInterval, prefetch int) {
	orderRepo := postgres.NewOrderRepository(db)
	baristaRepo := postgres.NewBaristaRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)
	consumer := rabbitmq.NewConsumer(mqConn, prefetch)

	baristaService := barista.NewService(orderRepo, baristaRepo, publisher, lgr, baristaName, branchID, heartbeatInterval)

	orderHandlerAMQP := amqpAdapter.NewOrderHandler(baristaService, lgr)

	if err := baristaService.Start(ctx); err != nil {
		log.Fatalf("Failed to start barista worker: %v", err)
	}

	lgr.Info("service_started", fmt.Sprintf("Barista Worker %s started", baristaName), "startup", map[string]interface{}{
		"barista_name": baristaName,
		"branch_id":    branchID,
		"prefetch":     prefetch,
	})

	go func() {
		if err := consumer.ConsumeOrders(ctx, orderHandlerAMQP.HandleOrder); err != nil {
			lgr.Error("consumer_error", "Error consuming orders", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("graceful_shutdown", "Shutting down Barista Worker", "shutdown", nil)

	if err := baristaService.Shutdown(ctx); err != nil {
		lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn, 1)

	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	go func() {
		if err := consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification); err != nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}
