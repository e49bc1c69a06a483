package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/internal/config"
	"github.com/df07/go-whitted-raytracer/internal/logger"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	cfg, _, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	webServer := server.NewServer(cfg, logger.Named("server"))

	logger.Info("Whitted Raytracer preview server",
		zap.String("url", fmt.Sprintf("http://localhost:%d/api/scenes", cfg.Server.Port)))

	if err := webServer.Start(ctx); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
