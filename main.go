package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"curvefit/adapters/api"
	"curvefit/internal"
	"curvefit/internal/config"
	"curvefit/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, ok := internal.ParseLogLevel(appConfig.Log.Level)
	logger := internal.NewLogger(level)
	if !ok {
		logger.Warn("unknown LOG_LEVEL %q, using INFO", appConfig.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.Open(ctx, appConfig, logger)
	if err != nil {
		logger.Error("failed to initialize: %v", err)
		stop()
		log.Fatal(err)
	}
	defer c.Shutdown(context.Background())

	server := api.NewServer(c.FitService, logger)
	if err := server.ListenAndServe(ctx, ":"+appConfig.Server.Port, appConfig.Server.ShutdownTimeout); err != nil {
		logger.Error("server stopped: %v", err)
		return
	}
	logger.Info("server stopped")
}
