package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"courier/internal/app"
	"courier/internal/config"
	"courier/internal/database"
	"courier/internal/modules/payment"
	"courier/internal/pkg/logger"
	"courier/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "text").WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
	}

	var cache payment.InvoiceCache
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.WithError(err).Warn("invoice cache disabled")
		} else {
			redisCache := repository.NewRedisInvoiceCache(client, cfg.InvoiceCacheTTL)
			defer redisCache.Close()
			cache = redisCache
			log.Info("invoice cache enabled")
		}
	}

	a := app.New(cfg, db, log, cache)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("courier API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	a.Hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
