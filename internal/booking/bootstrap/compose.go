// ============================================================================
// BOOTSTRAP (Compose Root)
// ============================================================================
//
// 📦 НАЗНАЧЕНИЕ:
// Этот файл — "точка сборки" всего Booking Service. Здесь мы:
// 1. Создаем все зависимости (БД, RabbitMQ, WebSocket, fan-out реестр)
// 2. Собираем Use Cases с их зависимостями
// 3. Связываем адаптеры с Use Cases
// 4. Запускаем HTTP сервер и фоновые процессы
//
// 🏗️ АРХИТЕКТУРА:
//
//   Инфраструктура → Адаптеры → Use Cases → Domain
//   (PostgreSQL)     (Repository)  (Business Logic)  (Entities)
//
// 📚 СЛОИ (создаются в таком порядке):
// 1. ИНФРАСТРУКТУРА: PostgreSQL, RabbitMQ, JWT, fan-out реестр
// 2. REPOSITORIES: Реализации интерфейсов для БД
// 3. USE CASES: Бизнес-логика
// 4. ADAPTERS: HTTP, WebSocket, AMQP
// 5. SERVER: Запуск всех компонентов
//
// ============================================================================

package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/booking/adapter/in/in_amqp"
	"github.com/explorer2005/skycab-booking-system/internal/booking/adapter/in/in_ws"
	"github.com/explorer2005/skycab-booking-system/internal/booking/adapter/in/transport"
	"github.com/explorer2005/skycab-booking-system/internal/booking/adapter/out/out_amqp"
	"github.com/explorer2005/skycab-booking-system/internal/booking/adapter/out/out_fanout"
	"github.com/explorer2005/skycab-booking-system/internal/booking/adapter/out/repo"
	"github.com/explorer2005/skycab-booking-system/internal/booking/application/usecase"
	"github.com/explorer2005/skycab-booking-system/internal/shared/auth"
	"github.com/explorer2005/skycab-booking-system/internal/shared/config"
	db_conn "github.com/explorer2005/skycab-booking-system/internal/shared/db"
	"github.com/explorer2005/skycab-booking-system/internal/shared/fanout"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"
	"github.com/explorer2005/skycab-booking-system/internal/shared/mq"
)

// Run запускает Booking Service со всеми его компонентами.
//
// ЧТО ПРОИСХОДИТ ВНУТРИ:
// 1. Инициализация инфраструктуры (БД, RabbitMQ)
// 2. Создание fan-out реестра и WebSocket hub
// 3. Создание всех Use Cases
// 4. Запуск AMQP consumers (в фоне)
// 5. Запуск HTTP сервера (блокирующий)
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "booking_service_starting", Message: "initializing booking service"})

	// ========================================================================
	// СЛОЙ 1: ИНФРАСТРУКТУРА
	// ========================================================================

	// 1. Инициализация PostgreSQL
	dbPool, err := db_conn.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db_conn.Close(dbPool, log)

	// Применяем миграции (таблицы, индексы, seed флота)
	if err := db_conn.Migrate(ctx, dbPool, log); err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_migration_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// 2. Инициализация RabbitMQ
	mqConn, err := mq.NewRabbitMQ(ctx, cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer mqConn.Close()

	// Топология RabbitMQ (exchanges, queues, bindings)
	if err := mq.SetupTopology(mqConn, log); err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_topology_setup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// 3. JWT Service
	jwtService := auth.NewJWTService(cfg.JWT)

	// 4. Fan-out реестр: один на процесс, все подписки сессий живут здесь
	registry := fanout.NewRegistry(log)

	// ========================================================================
	// СЛОЙ 2: WEBSOCKET HUB (real-time уведомления)
	// ========================================================================

	riderWS := in_ws.NewRiderWSHandler(jwtService, registry, log)
	wsHub := riderWS.GetHub()
	go wsHub.Run(ctx)

	// ========================================================================
	// СЛОЙ 3: REPOSITORIES
	// ========================================================================

	bookingRepo := repo.NewBookingPgRepository(dbPool, log)

	// ========================================================================
	// СЛОЙ 4: PUBLISHERS
	// ========================================================================

	eventPublisher := out_amqp.NewEventPublisher(mqConn, log) // Publish в RabbitMQ
	changeStream := out_fanout.NewChangeStream(registry)      // Локальный fan-out

	// ========================================================================
	// СЛОЙ 5: USE CASES
	// ========================================================================

	createBookingUC := usecase.NewCreateBookingService(bookingRepo, eventPublisher, changeStream, log)
	transitionBookingUC := usecase.NewTransitionBookingService(bookingRepo, eventPublisher, changeStream, log)
	listBookingsUC := usecase.NewListBookingsService(bookingRepo, log)

	// ========================================================================
	// СЛОЙ 6: CONSUMERS
	// ========================================================================

	// Позиции флота из fleet_fanout → локальный реестр → сессии пассажиров
	fleetConsumer := in_amqp.NewFleetPositionConsumer(mqConn, registry, log)
	go func() {
		if err := fleetConsumer.Start(ctx); err != nil {
			log.Error(logger.Entry{
				Action:  "fleet_position_consumer_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	// ========================================================================
	// СЛОЙ 7: HTTP HANDLER + СЕРВЕР
	// ========================================================================

	httpHandler := transport.NewHTTPHandler(createBookingUC, transitionBookingUC, listBookingsUC, log)

	mux := http.NewServeMux()
	authMiddleware := transport.JWTMiddleware(jwtService, log)
	httpHandler.RegisterRoutes(mux, authMiddleware)

	// WebSocket endpoint для пассажиров и админов
	mux.HandleFunc("/ws", riderWS.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Services.BookingServicePort)
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

	// Ожидаем завершения контекста
	<-ctx.Done()
	log.Info(logger.Entry{Action: "booking_service_stopping", Message: "shutting down booking service"})

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

	log.Info(logger.Entry{Action: "booking_service_stopped", Message: "booking service stopped"})
}
