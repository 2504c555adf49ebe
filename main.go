package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/explorer2005/skycab-booking-system/internal/shared/config"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"

	adminboot "github.com/explorer2005/skycab-booking-system/internal/admin/bootstrap"
	bookingboot "github.com/explorer2005/skycab-booking-system/internal/booking/bootstrap"
	fleetboot "github.com/explorer2005/skycab-booking-system/internal/fleet/bootstrap"

	"github.com/joho/godotenv"
)

func main() {
	svc := flag.String("service", "booking", "booking|fleet|admin|all")
	flag.Parse()

	// .env необязателен, его отсутствие не ошибка
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() { <-quit; cancel() }()

	switch *svc {
	case "booking":
		log := logger.NewLogger("booking-service")
		bookingboot.Run(ctx, cfg, log)

	case "fleet":
		log := logger.NewLogger("fleet-service")
		fleetboot.Run(ctx, cfg, log)

	case "admin":
		log := logger.NewLogger("admin-service")
		adminboot.Run(ctx, cfg, log)

	case "all":
		bookingLog := logger.NewLogger("booking-service")
		fleetLog := logger.NewLogger("fleet-service")
		adminLog := logger.NewLogger("admin-service")

		go bookingboot.Run(ctx, cfg, bookingLog)
		go fleetboot.Run(ctx, cfg, fleetLog)
		go adminboot.Run(ctx, cfg, adminLog)

	default:
		log := logger.NewLogger("bootstrap")
		log.Fatal(logger.Entry{Action: "invalid_service", Message: *svc})
	}

	<-ctx.Done()
}
