package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kolscribe/kolscribe/internal/app"
	"github.com/kolscribe/kolscribe/internal/config"
	"github.com/kolscribe/kolscribe/internal/database"
	"github.com/kolscribe/kolscribe/internal/server"
	"github.com/kolscribe/kolscribe/pkg/Logger"
)

// This is the main entry point for the API server.
// Loads in all system components
// Exposes functionalities
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	var logger *Logger.Logger
	if cfg.LogFile != "" {
		logger = Logger.New(cfg.Debug, cfg.LogFile)
	} else {
		logger = Logger.New(cfg.Debug)
	}
	logger.Info("Logger initialized")

	// fetch database connection
	db, err := database.InitDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// handle migrations
	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// redis is optional; without it summary caching is disabled
	rc, err := database.NewRedis(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis unavailable, summary cache disabled: %v", err)
		rc = nil
	}

	application, err := app.NewApp(cfg, logger, db, rc)
	if err != nil {
		log.Fatalf("Failed to wire application: %v", err)
	}

	// compose router
	router := gin.Default()
	if cfg.Server.MaxUploadMB > 0 {
		router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	}
	server.InitializeRoutes(cfg, router, application.GetServerDependencies())

	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}

	// listen with graceful exit
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router.Handler(),
	}
	go func() {
		logger.Infof("Listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server exiting %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	grace := time.Duration(cfg.Server.ShutdownGraceS) * time.Second
	if grace <= 0 {
		grace = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	logger.Info("Shutdown system")
}
