package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Log:      LogConfig{Level: "info", Format: "json"},
		History:  HistoryConfig{Backend: HistoryMemory, Capacity: 100},
		Temporal: TemporalConfig{TaskQueue: "identification-queue"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("butterfly-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.History.Backend != HistoryMemory {
		t.Errorf("expected memory history, got %q", cfg.History.Backend)
	}
	if cfg.Telemetry.ServiceName != "butterfly-test" {
		t.Errorf("expected service name to default to the caller, got %q", cfg.Telemetry.ServiceName)
	}
	if cfg.Classifier.Seed != 0 {
		t.Errorf("expected unseeded classifier, got %d", cfg.Classifier.Seed)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BUTTERFLY_SERVER_PORT", "9090")
	t.Setenv("BUTTERFLY_CLASSIFIER_SEED", "42")
	t.Setenv("BUTTERFLY_VALKEY_ENABLED", "true")

	cfg, err := Load("butterfly-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Classifier.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Classifier.Seed)
	}
	if !cfg.Valkey.Enabled {
		t.Error("expected valkey enabled")
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Log.Level = "loud"
	cfg.History.Backend = "postgres"
	cfg.Valkey.Enabled = true

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"server.port", "log.level", "database.host", "database.user", "valkey.addr"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.History.Backend = "s3"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "history.backend") {
		t.Fatalf("expected history.backend error, got %v", err)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "guide", SSLMode: "disable"}
	if got := d.DSN(); got != "postgres://u:p@db:5432/guide?sslmode=disable" {
		t.Errorf("unexpected DSN %q", got)
	}
}
