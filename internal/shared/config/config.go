package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config — полная конфигурация проекта
type Config struct {
	Database  DBConfig
	RabbitMQ  MQConfig
	Redis     RedisConfig
	WebSocket WSConfig
	Services  ServicesConfig
	JWT       JWTConfig
	Simulator SimulatorConfig
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type MQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	DB   int    `yaml:"db"`
}

type WSConfig struct {
	Port int `yaml:"port"`
}

type ServicesConfig struct {
	BookingServicePort int `yaml:"booking_service"`
	FleetServicePort   int `yaml:"fleet_service"`
	AdminServicePort   int `yaml:"admin_service"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	ExpiryMinutes int    `yaml:"expiry_minutes"`
}

// SimulatorConfig — настройки тикера симулятора флота
type SimulatorConfig struct {
	TickSeconds     int     `yaml:"tick_seconds"`
	MaxDeltaDegrees float64 `yaml:"max_delta_degrees"`
}

// Load — загрузка из CONFIG_DIR (по умолчанию ./config) + ENV перекрывает
func Load() Config {
	configDir := getEnv("CONFIG_DIR", "./config")

	cfg := Config{
		Database:  DBConfig{Host: "localhost", Port: 5432, User: "skycab_user", Password: "skycab_pass", Database: "skycab_db", SSLMode: "disable"},
		RabbitMQ:  MQConfig{Host: "localhost", Port: 5672, User: "guest", Password: "guest", VHost: "/"},
		Redis:     RedisConfig{Host: "localhost", Port: 6379, DB: 0},
		WebSocket: WSConfig{Port: 8080},
		Services:  ServicesConfig{BookingServicePort: 3000, FleetServicePort: 3001, AdminServicePort: 3004},
		JWT:       JWTConfig{Secret: "dev_secret", ExpiryMinutes: 60},
		Simulator: SimulatorConfig{TickSeconds: 5, MaxDeltaDegrees: 0.00075},
	}

	// YAML файлы необязательны: отсутствие файла оставляет defaults
	loadYAML(filepath.Join(configDir, "db.yaml"), &cfg.Database)
	loadYAML(filepath.Join(configDir, "mq.yaml"), &cfg.RabbitMQ)
	loadYAML(filepath.Join(configDir, "redis.yaml"), &cfg.Redis)
	loadYAML(filepath.Join(configDir, "ws.yaml"), &cfg.WebSocket)
	loadYAML(filepath.Join(configDir, "services.yaml"), &cfg.Services)
	loadYAML(filepath.Join(configDir, "jwt.yaml"), &cfg.JWT)
	loadYAML(filepath.Join(configDir, "simulator.yaml"), &cfg.Simulator)

	// ENV имеет высший приоритет
	overrideStr(&cfg.Database.Host, "DB_HOST")
	overrideInt(&cfg.Database.Port, "DB_PORT")
	overrideStr(&cfg.Database.User, "DB_USER")
	overrideStr(&cfg.Database.Password, "DB_PASSWORD")
	overrideStr(&cfg.Database.Database, "DB_NAME")
	overrideStr(&cfg.Database.SSLMode, "DB_SSLMODE")

	overrideStr(&cfg.RabbitMQ.Host, "RABBITMQ_HOST")
	overrideInt(&cfg.RabbitMQ.Port, "RABBITMQ_PORT")
	overrideStr(&cfg.RabbitMQ.User, "RABBITMQ_USER")
	overrideStr(&cfg.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	overrideStr(&cfg.RabbitMQ.VHost, "RABBITMQ_VHOST")

	overrideStr(&cfg.Redis.Host, "REDIS_HOST")
	overrideInt(&cfg.Redis.Port, "REDIS_PORT")
	overrideInt(&cfg.Redis.DB, "REDIS_DB")

	overrideInt(&cfg.WebSocket.Port, "WS_PORT")

	overrideInt(&cfg.Services.BookingServicePort, "BOOKING_SERVICE_PORT")
	overrideInt(&cfg.Services.FleetServicePort, "FLEET_SERVICE_PORT")
	overrideInt(&cfg.Services.AdminServicePort, "ADMIN_SERVICE_PORT")

	overrideStr(&cfg.JWT.Secret, "JWT_SECRET")
	overrideInt(&cfg.JWT.ExpiryMinutes, "JWT_EXPIRY_MINUTES")

	overrideInt(&cfg.Simulator.TickSeconds, "SIMULATOR_TICK_SECONDS")
	overrideFloat(&cfg.Simulator.MaxDeltaDegrees, "SIMULATOR_MAX_DELTA_DEGREES")

	return cfg
}

func loadYAML(path string, out any) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return
	}
	// некорректный YAML игнорируем так же, как отсутствующий файл
	_ = yaml.Unmarshal(data, out)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func overrideStr(dst *string, envKey string) {
	if v := os.Getenv(envKey); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, envKey string) {
	if v := os.Getenv(envKey); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideFloat(dst *float64, envKey string) {
	if v := os.Getenv(envKey); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// DSN возвращает строку подключения к БД
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// AMQPURL возвращает URL подключения к RabbitMQ
func (c MQConfig) AMQPURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

// Addr возвращает host:port для Redis
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TickInterval возвращает период тика симулятора
func (c SimulatorConfig) TickInterval() time.Duration {
	if c.TickSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TickSeconds) * time.Second
}
