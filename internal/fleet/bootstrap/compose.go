// ============================================================================
// BOOTSTRAP (Compose Root)
// ============================================================================
//
// Точка сборки Fleet Service: симулятор позиций, REST чтения флота,
// смена статуса аппарата оператором и WebSocket панель отслеживания.
//
// 📚 СЛОИ (создаются в таком порядке):
// 1. ИНФРАСТРУКТУРА: PostgreSQL, RabbitMQ, Redis, JWT, fan-out реестр
// 2. REPOSITORIES: Реализации интерфейсов для БД
// 3. USE CASES: Симулятор и операции над флотом
// 4. ADAPTERS: HTTP, WebSocket
// 5. SERVER: Запуск всех компонентов
//
// ============================================================================

package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/fleet/adapter/in/in_ws"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/adapter/in/transport"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/adapter/out/out_amqp"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/adapter/out/out_cache"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/adapter/out/out_fanout"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/adapter/out/repo"
	"github.com/explorer2005/skycab-booking-system/internal/fleet/application/usecase"
	"github.com/explorer2005/skycab-booking-system/internal/shared/auth"
	"github.com/explorer2005/skycab-booking-system/internal/shared/cache"
	"github.com/explorer2005/skycab-booking-system/internal/shared/config"
	db_conn "github.com/explorer2005/skycab-booking-system/internal/shared/db"
	"github.com/explorer2005/skycab-booking-system/internal/shared/fanout"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
	"github.com/explorer2005/skycab-booking-system/internal/shared/mq"
)

// Run запускает Fleet Service со всеми его компонентами
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "fleet_service_starting", Message: "initializing fleet service"})

	// ========================================================================
	// СЛОЙ 1: ИНФРАСТРУКТУРА
	// ========================================================================

	dbPool, err := db_conn.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db_conn.Close(dbPool, log)

	if err := db_conn.Migrate(ctx, dbPool, log); err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_migration_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	mqConn, err := mq.NewRabbitMQ(ctx, cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer mqConn.Close()

	if err := mq.SetupTopology(mqConn, log); err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_topology_setup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	redisConn, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "redis_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer redisConn.Close()

	jwtService := auth.NewJWTService(cfg.JWT)
	registry := fanout.NewRegistry(log)

	// ========================================================================
	// СЛОЙ 2: WEBSOCKET HUB (панель отслеживания)
	// ========================================================================

	trackingWS := in_ws.NewTrackingWSHandler(jwtService, registry, log)
	go trackingWS.GetHub().Run(ctx)

	// ========================================================================
	// СЛОЙ 3: REPOSITORIES + PUBLISHERS
	// ========================================================================

	vehicleRepo := repo.NewVehiclePgRepository(dbPool, log)
	positionPublisher := out_amqp.NewPositionPublisher(mqConn, log)
	changeStream := out_fanout.NewChangeStream(registry)
	snapshotCache := out_cache.NewSnapshotCache(redisConn)

	// ========================================================================
	// СЛОЙ 4: USE CASES
	// ========================================================================

	listVehiclesUC := usecase.NewListVehiclesService(vehicleRepo, snapshotCache, log)
	updateStatusUC := usecase.NewUpdateVehicleStatusService(vehicleRepo, changeStream, snapshotCache, log)

	// Симулятор позиций: фоновый процесс, живет до завершения сервиса
	simulator := usecase.NewSimulator(
		vehicleRepo,
		positionPublisher,
		changeStream,
		snapshotCache,
		cfg.Simulator.TickInterval(),
		cfg.Simulator.MaxDeltaDegrees,
		log,
	)
	go simulator.Run(ctx)

	// ========================================================================
	// СЛОЙ 5: HTTP HANDLER + СЕРВЕР
	// ========================================================================

	httpHandler := transport.NewHTTPHandler(listVehiclesUC, updateStatusUC, log)

	mux := http.NewServeMux()
	authMiddleware := transport.JWTMiddleware(jwtService, log)
	httpHandler.RegisterRoutes(mux, authMiddleware)

	// WebSocket endpoint панели отслеживания
	mux.HandleFunc("/ws", trackingWS.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Services.FleetServicePort)
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
	log.Info(logger.Entry{Action: "fleet_service_stopping", Message: "shutting down fleet service"})

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

	log.Info(logger.Entry{Action: "fleet_service_stopped", Message: "fleet service stopped"})
}
