package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-cdms-inventory/internal/config"
	"go-cdms-inventory/internal/metrics"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/internal/server"
	"go-cdms-inventory/internal/service"
	"go-cdms-inventory/internal/ws"
	"go-cdms-inventory/pkg/database"
	"go-cdms-inventory/pkg/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	log := logger.New(cfg.Log)

	// 2. Setup Database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Seed bootstrap admin
	created, err := service.NewUserService(repository.NewUserRepo(db)).EnsureAdmin(ctx, cfg.Seed)
	if err != nil {
		log.WithError(err).Warn("Failed to seed admin user")
	} else if created {
		log.WithField("username", cfg.Seed.AdminUsername).Info("Admin user created")
	}

	// 4. Setup WebSocket Hub
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// 5. Setup Fiber
	app := server.New(server.Deps{
		Config:  cfg,
		Log:     log,
		DB:      db,
		Hub:     hub,
		Metrics: metrics.New(),
	})

	// 6. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("Server stopped")
			stop()
		}
	}()
	log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.AppEnv}).Info("Server started")

	<-ctx.Done()

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server exited")
}
