package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/explorer2005/skycab-booking-system/internal/shared/config"
	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// Nil возвращается Get при отсутствии ключа
var Nil = redis.Nil

// Redis — тонкая обертка над go-redis для кэширования снапшотов
type Redis struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedis создает подключение к Redis и проверяет его пингом
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr(),
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info(logger.Entry{
		Action:  "redis_connected",
		Message: cfg.Addr(),
	})

	return &Redis{client: client, log: log}, nil
}

// Set сохраняет значение с TTL
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Get возвращает значение или cache.Nil
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	return r.client.Get(ctx, key).Bytes()
}

// Del удаляет ключ
func (r *Redis) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Close закрывает подключение
func (r *Redis) Close() {
	if err := r.client.Close(); err != nil {
		r.log.Error(logger.Entry{
			Action:  "redis_close_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}
