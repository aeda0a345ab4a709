package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/farewatch/farewatch/internal/cli"
	"github.com/farewatch/farewatch/internal/config"
	"github.com/farewatch/farewatch/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := logging.NewZapLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(ctx)
}
