package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/shopworks/catalog-backend/api/routes"
	cartsvc "github.com/shopworks/catalog-backend/internal/cart"
	"github.com/shopworks/catalog-backend/internal/categorization"
	modifiersvc "github.com/shopworks/catalog-backend/internal/modifiers"
	ordersvc "github.com/shopworks/catalog-backend/internal/orders"
	"github.com/shopworks/catalog-backend/internal/pricing/conditions"
	productsvc "github.com/shopworks/catalog-backend/internal/products"
	reviewsvc "github.com/shopworks/catalog-backend/internal/reviews"
	"github.com/shopworks/catalog-backend/pkg/config"
	"github.com/shopworks/catalog-backend/pkg/db"
	"github.com/shopworks/catalog-backend/pkg/logger"
	"github.com/shopworks/catalog-backend/pkg/metrics"
	"github.com/shopworks/catalog-backend/pkg/migrate"
	pkgredis "github.com/shopworks/catalog-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	gormDB := dbClient.DB()
	productRepo := productsvc.NewRepository(gormDB)
	categorizationRepo := categorization.NewRepository(gormDB)
	modifierRepo := modifiersvc.NewRepository(gormDB)
	cartRepo := cartsvc.NewRepository(gormDB)
	orderRepo := ordersvc.NewRepository(gormDB)
	reviewRepo := reviewsvc.NewRepository(gormDB)

	conditionRegistry := conditions.NewRegistry()

	productService, err := productsvc.NewService(productRepo, dbClient, productRepo)
	exitOn(logg, "failed to create product service", err)

	categorizationService, err := categorization.NewService(categorizationRepo)
	exitOn(logg, "failed to create categorization service", err)

	modifierService, err := modifiersvc.NewService(modifierRepo)
	exitOn(logg, "failed to create modifier service", err)

	cartService, err := cartsvc.NewService(cartRepo, dbClient, productRepo, modifierRepo, conditionRegistry, cfg.Catalog)
	exitOn(logg, "failed to create cart service", err)

	orderService, err := ordersvc.NewService(orderRepo, dbClient, cartRepo)
	exitOn(logg, "failed to create order service", err)

	reviewService, err := reviewsvc.NewService(reviewRepo, productRepo)
	exitOn(logg, "failed to create review service", err)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		Registry:       registry,
		HTTPMetrics:    httpMetrics,
		Products:       productService,
		Categorization: categorizationService,
		Modifiers:      modifierService,
		Carts:          cartService,
		Orders:         orderService,
		Reviews:        reviewService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
	}

	if err := multierr.Append(redisClient.Close(), dbClient.Close()); err != nil {
		logg.Error(ctx, "error closing resources", err)
		os.Exit(1)
	}
}

func exitOn(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
