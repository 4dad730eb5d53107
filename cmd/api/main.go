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
	"github.com/sirupsen/logrus"

	"shopcart-api/internal/config"
	"shopcart-api/internal/db"
	"shopcart-api/internal/httpserver"
	"shopcart-api/internal/migrate"
	addressrepo "shopcart-api/internal/repository/address"
	listdocrepo "shopcart-api/internal/repository/listdoc"
	orderrepo "shopcart-api/internal/repository/order"
	promorepo "shopcart-api/internal/repository/promo"
	productrepo "shopcart-api/internal/repository/product"
	reviewrepo "shopcart-api/internal/repository/review"
	userrepo "shopcart-api/internal/repository/user"
	adminsvc "shopcart-api/internal/service/admin"
	catalogsvc "shopcart-api/internal/service/catalog"
	checkoutsvc "shopcart-api/internal/service/checkout"
	reviewsvc "shopcart-api/internal/service/review"
	sessionsvc "shopcart-api/internal/service/session"
	syncsvc "shopcart-api/internal/service/sync"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.WithError(err).Fatal("connect to db")
	}
	defer dbpool.Close()

	if err := migrate.Apply(ctx, dbpool); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	products := productrepo.NewPostgres(dbpool)
	reviews := reviewrepo.NewPostgres(dbpool)
	promos := promorepo.NewPostgres(dbpool)
	orders := orderrepo.NewPostgres(dbpool)
	lists := listdocrepo.NewPostgres(dbpool)
	addresses := addressrepo.NewPostgres(dbpool)
	users := userrepo.NewPostgres(dbpool)

	sessionService := sessionsvc.New(users, cfg.JWTSecret, cfg.TokenTTL)
	syncManager := syncsvc.NewManager(lists, cfg.ListFlushDelay, logger)
	catalogService := catalogsvc.New(products, productrepo.NewPoller(products, 30*time.Second, logger), logger)
	checkoutService := checkoutsvc.New(promos, orders, logger)
	reviewService := reviewsvc.New(reviews, products)
	adminService := adminsvc.New(products, promos, orders, users, lists)

	// A sign-out releases the actor's synchronizer so its pending writes
	// are flushed and its lists dropped.
	sessionService.OnSignOut(func(userID string) {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		syncManager.Release(releaseCtx, userID)
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Session:   sessionService,
		Sync:      syncManager,
		Catalog:   catalogService,
		Checkout:  checkoutService,
		Reviews:   reviewService,
		Admin:     adminService,
		Addresses: addresses,
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.WithError(err).Fatal("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}

	// Flush debounced list writes before the process exits so no actor's
	// last mutation is lost to the timer.
	syncManager.FlushAll(shutdownCtx)
	logger.Info("server stopped")
}
