package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hackboard-live/hackboard/app"
	"github.com/hackboard-live/hackboard/config"
	"github.com/hackboard-live/hackboard/internal/observability"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	obs := observability.New(observability.Config{
		ServiceName: "hackboard",
		Environment: cfg.Observability.Environment,
		LogLevel:    app.ParseLogLevel(cfg.Observability.LogLevel),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application := &app.App{}
	if err := application.Initialize(ctx, cfg, obs); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		cancel()
	}()

	if err := application.Run(ctx); err != nil && err != context.Canceled {
		obs.Provider.Logger.Error("Application run failed", "error", err)
	}

	if err := application.Close(); err != nil {
		obs.Provider.Logger.Error("Application close failed", "error", err)
	}
}
