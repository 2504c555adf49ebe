package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir()) // пустой каталог: только defaults

	cfg := Load()

	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Services.BookingServicePort != 3000 {
		t.Errorf("BookingServicePort = %d, want 3000", cfg.Services.BookingServicePort)
	}
	if cfg.Simulator.TickSeconds != 5 {
		t.Errorf("Simulator.TickSeconds = %d, want 5", cfg.Simulator.TickSeconds)
	}
	if cfg.Simulator.MaxDeltaDegrees != 0.00075 {
		t.Errorf("Simulator.MaxDeltaDegrees = %g, want 0.00075", cfg.Simulator.MaxDeltaDegrees)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	dbYAML := "host: db.internal\nport: 6432\nuser: svc\npassword: pw\ndatabase: skycab\nsslmode: require\n"
	if err := os.WriteFile(filepath.Join(dir, "db.yaml"), []byte(dbYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_DIR", dir)

	cfg := Load()

	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %s, want db.internal", cfg.Database.Host)
	}
	if cfg.Database.Port != 6432 {
		t.Errorf("Database.Port = %d, want 6432", cfg.Database.Port)
	}
	// Остальные секции остались на defaults
	if cfg.RabbitMQ.Port != 5672 {
		t.Errorf("RabbitMQ.Port = %d, want 5672", cfg.RabbitMQ.Port)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "db.yaml"), []byte("host: from-yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("DB_HOST", "from-env")
	t.Setenv("SIMULATOR_TICK_SECONDS", "2")

	cfg := Load()

	if cfg.Database.Host != "from-env" {
		t.Errorf("Database.Host = %s, want from-env", cfg.Database.Host)
	}
	if cfg.Simulator.TickInterval() != 2*time.Second {
		t.Errorf("TickInterval = %s, want 2s", cfg.Simulator.TickInterval())
	}
}

func TestInvalidYAMLKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "db.yaml"), []byte("{{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_DIR", dir)

	cfg := Load()

	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %s, want localhost default", cfg.Database.Host)
	}
}

func TestDSNAndAMQPURL(t *testing.T) {
	db := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	want := "host=h port=5432 user=u password=p dbname=d sslmode=disable"
	if got := db.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	mq := MQConfig{Host: "h", Port: 5672, User: "u", Password: "p", VHost: "/"}
	if got := mq.AMQPURL(); got != "amqp://u:p@h:5672/" {
		t.Errorf("AMQPURL() = %q", got)
	}
}

func TestTickIntervalGuardsNonPositive(t *testing.T) {
	c := SimulatorConfig{TickSeconds: 0}
	if got := c.TickInterval(); got != 5*time.Second {
		t.Errorf("TickInterval() with zero ticks = %s, want 5s", got)
	}
}
