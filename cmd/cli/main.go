package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"taskpilot/internal/cli"
	"taskpilot/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("error initializing app: %v", err)
	}
	app.Run(ctx)
}
