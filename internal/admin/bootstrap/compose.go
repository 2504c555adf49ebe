// ============================================================================
// BOOTSTRAP (Compose Root)
// ============================================================================
//
// Точка сборки Admin Service: обзор системы для админ-консоли.
// Сервис только читает, миграции не применяет и в RabbitMQ не ходит.
//
// ============================================================================

package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/admin/adapter/in/transport"
	"github.com/explorer2005/skycab-booking-system/internal/admin/adapter/out/repo"
	"github.com/explorer2005/skycab-booking-system/internal/admin/application/usecase"
	"github.com/explorer2005/skycab-booking-system/internal/shared/auth"
	"github.com/explorer2005/skycab-booking-system/internal/shared/config"
	db_conn "github.com/explorer2005/skycab-booking-system/internal/shared/db"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
)

// Run запускает Admin Service со всеми его компонентами
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "admin_service_starting", Message: "initializing admin service"})

	dbPool, err := db_conn.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db_conn.Close(dbPool, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	metricsRepo := repo.NewMetricsPgRepository(dbPool, log)
	getOverviewUC := usecase.NewGetOverviewService(metricsRepo, log)

	httpHandler := transport.NewHTTPHandler(getOverviewUC, log)

	mux := http.NewServeMux()
	authMiddleware := transport.AdminJWTMiddleware(jwtService, log)
	httpHandler.RegisterRoutes(mux, authMiddleware)

	addr := fmt.Sprintf(":%d", cfg.Services.AdminServicePort)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(logger.Entry{
			Action:  "http_server_starting",
			Message: fmt.Sprintf("listening on %s", addr),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(logger.Entry{
				Action:  "http_server_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	<-ctx.Done()
	log.Info(logger.Entry{Action: "admin_service_stopping", Message: "shutting down admin service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	} else {
		log.Info(logger.Entry{Action: "http_server_stopped", Message: "http server stopped gracefully"})
	}

	log.Info(logger.Entry{Action: "admin_service_stopped", Message: "admin service stopped"})
}
