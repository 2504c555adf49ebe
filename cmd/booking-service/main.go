package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/explorer2005/skycab-booking-system/internal/booking/bootstrap"
	"github.com/explorer2005/skycab-booking-system/internal/shared/config"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := logger.NewLogger("booking-service")
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() { <-quit; cancel() }()

	bootstrap.Run(ctx, cfg, log)
}
