package main

import (
	"context"
	"os"
	"time"

	"zapdash/internal/api"
	"zapdash/internal/config"
	"zapdash/internal/config/firebase"
	"zapdash/internal/db"
	"zapdash/internal/gateway"
	"zapdash/internal/logging"
	"zapdash/internal/repository"
	"zapdash/internal/tasks"

	"github.com/gin-gonic/gin"
)

func main() {
	// Configuration first: a missing gateway URL or admin token is a fatal
	// startup error, before anything else comes up.
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logConfig := &logging.LogConfig{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}
	if err := logging.InitLogger(logConfig); err != nil {
		panic(err)
	}
	logger := logging.GetGlobalLogger()
	defer logger.Close()

	logger.Info("Starting server in %s mode", cfg.Environment)
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.Init(cfg)
	if err != nil {
		logger.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	if err := firebase.InitializeFirebase(); err != nil {
		logger.Error("Failed to initialize Firebase: %v", err)
		os.Exit(1)
	}

	gatewayClient := gateway.NewClient(cfg.GatewayURL, cfg.GatewayAdminToken, logger)

	// Periodic drift report between the gateway and the local table
	reconcile := tasks.NewReconcile(
		repository.NewConnectionRepository(database),
		gatewayClient,
		time.Duration(cfg.ReconcileIntervalMinutes)*time.Minute,
	)
	reconcile.Start(context.Background())
	logger.Info("Started gateway reconcile task")

	srv := api.NewServer(database, gatewayClient)
	logger.Info("Listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.Error("Failed to start server: %v", err)
		os.Exit(1)
	}
}
