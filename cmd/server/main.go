package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Init("info")
		logger.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Mode == "release" {
		logger.Init("info")
	} else {
		logger.Init("debug")
	}

	svc := bootstrap(cfg)

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	registerRoutes(r, svc, cfg)

	// Handle shutdown signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		svc.shutdown()
		os.Exit(0)
	}()

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
