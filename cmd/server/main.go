package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/corinapavel/atelier/internal"
	"github.com/corinapavel/atelier/internal/cart"
	"github.com/corinapavel/atelier/internal/catalog"
	"github.com/corinapavel/atelier/internal/checkout"
	"github.com/corinapavel/atelier/internal/domain"
	"github.com/corinapavel/atelier/internal/events"
	"github.com/corinapavel/atelier/internal/handler/admin"
	"github.com/corinapavel/atelier/internal/handler/storefront"
	"github.com/corinapavel/atelier/internal/kv"
	"github.com/corinapavel/atelier/internal/middleware"
	"github.com/corinapavel/atelier/internal/orders"
	"github.com/corinapavel/atelier/internal/profile"
	"github.com/corinapavel/atelier/internal/records"
	"github.com/corinapavel/atelier/internal/router"
	"github.com/corinapavel/atelier/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize the record store. Without a database URL (dev only) the
	// in-memory implementation is used.
	var recordStore domain.RecordStore
	if cfg.DatabaseUrl != "" {
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		logger.Info("Database connection established")

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		recordStore = records.NewPostgresStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory record store")
		recordStore = records.NewMemoryStore()
	}

	// Durable local storage for per-session carts
	kvStore, err := kv.NewStore(cfg.CartDataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize cart storage: %w", err)
	}

	// Event publishing is optional
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NatsUrl != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NatsUrl)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("NATS event publishing enabled", "url", cfg.NatsUrl)
	}

	// Metrics
	businessMetrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)
	httpMetrics := middleware.NewMetrics(prometheus.DefaultRegisterer)

	// Initialize services
	carts := cart.NewManager(kvStore, cfg.GiftWrapSurcharge, logger, businessMetrics)
	catalogService := catalog.NewService(recordStore)
	orderService := orders.NewService(recordStore)
	reconciler := profile.NewReconciler(recordStore, logger)
	composer := checkout.NewComposer(recordStore, publisher, cfg.GiftWrapSurcharge, logger, businessMetrics)

	// Initialize handlers
	productHandler := storefront.NewProductHandler(catalogService, logger)
	cartHandler := storefront.NewCartHandler(carts, catalogService, logger)
	checkoutHandler := storefront.NewCheckoutHandler(composer, carts, reconciler, logger)
	orderHandler := storefront.NewOrderHandler(orderService, logger)
	adminOrderHandler := admin.NewOrderHandler(orderService, logger)

	// Create the router and register routes
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		router.CORS([]string{"*"}),
		router.Logger(logger),
		middleware.WithSession,
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		httpMetrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Catalog
	r.Get("/products", productHandler.List)
	r.Get("/products/{id}", productHandler.Get)

	// Cart
	r.Get("/cart", cartHandler.View)
	r.Post("/cart/items", cartHandler.Add)
	r.Post("/cart/items/decrement", cartHandler.Decrement)
	r.Delete("/cart/items", cartHandler.Remove)
	r.Put("/cart/items/quantity", cartHandler.SetQuantity)

	// Checkout
	r.Get("/checkout", checkoutHandler.View)
	r.Post("/checkout", checkoutHandler.Submit)

	// Orders
	r.Get("/orders/{id}", orderHandler.Confirmation)

	// Admin, behind the shared back-office token
	adminRouter := r.Group(middleware.RequireAdminToken(cfg.AdminToken))
	adminRouter.Get("/admin/orders", adminOrderHandler.List)
	adminRouter.Get("/admin/orders/{id}", adminOrderHandler.Get)
	adminRouter.Post("/admin/orders/{id}/processed", adminOrderHandler.MarkProcessed)
	adminRouter.Post("/admin/orders/{id}/delivered", adminOrderHandler.MarkDelivered)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "env", cfg.Env)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
