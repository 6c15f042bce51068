package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), "test-version")
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Version != "test-version" {
		t.Errorf("Version = %q, want test-version", cfg.Version)
	}
	if cfg.Diagrams.DefaultType != "database_tables" {
		t.Errorf("DefaultType = %q, want database_tables", cfg.Diagrams.DefaultType)
	}
	if cfg.Diagrams.Direction != "LR" {
		t.Errorf("Direction = %q, want LR", cfg.Diagrams.Direction)
	}
	if !cfg.Diagrams.ShowAttributes {
		t.Error("ShowAttributes should default to true")
	}
	if cfg.Diagrams.ShowMethods {
		t.Error("ShowMethods should default to false")
	}

	wantExcluded := []string{"schema_migrations", "ar_internal_metadata"}
	if !reflect.DeepEqual(cfg.Diagrams.ExcludedTables, wantExcluded) {
		t.Errorf("ExcludedTables = %v, want %v", cfg.Diagrams.ExcludedTables, wantExcluded)
	}

	if !cfg.Cache.Enabled {
		t.Error("cache should default to enabled")
	}
	if cfg.Cache.MaxEntries != 1000 {
		t.Errorf("MaxEntries = %d, want 1000", cfg.Cache.MaxEntries)
	}
	if cfg.Cache.DefaultTTL() != 5*time.Minute {
		t.Errorf("DefaultTTL = %v, want 5m", cfg.Cache.DefaultTTL())
	}
	if got := cfg.Cache.TTLFor("model_associations"); got != 10*time.Minute {
		t.Errorf("TTLFor(model_associations) = %v, want 10m out of the box", got)
	}
	if got := cfg.Cache.TTLFor("model_associations_flowchart"); got != 10*time.Minute {
		t.Errorf("TTLFor(model_associations_flowchart) = %v, want 10m out of the box", got)
	}
	if got := cfg.Cache.TTLFor("database_tables"); got != cfg.Cache.DefaultTTL() {
		t.Errorf("TTLFor(database_tables) = %v, want default %v", got, cfg.Cache.DefaultTTL())
	}

	if cfg.Redis.Host != "" {
		t.Errorf("Redis.Host = %q, want empty", cfg.Redis.Host)
	}
	if cfg.Schema.Driver != "postgres" {
		t.Errorf("Schema.Driver = %q, want postgres", cfg.Schema.Driver)
	}
	if cfg.Schema.Configured() {
		t.Error("schema should not be configured without a database name")
	}
}

func TestLoadFileEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
env: "test"
diagrams:
  default_type: "model_associations"
  direction: "TB"
  excluded_tables: "schema_migrations,audit_*"
cache:
  type_ttls: "database_tables=60,model_associations=600"
redis:
  host: "redis.example.com"
schema:
  host: "db.example.com"
  database: "appdb"
`)

	t.Setenv("DIAGRAM_DIRECTION", "RL")
	t.Setenv("SCHEMA_DB_PASSWORD", "hunter2")

	cfg, err := LoadFile(path, "test-version")
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Diagrams.DefaultType != "model_associations" {
		t.Errorf("DefaultType = %q, want model_associations (from yaml)", cfg.Diagrams.DefaultType)
	}
	if cfg.Diagrams.Direction != "RL" {
		t.Errorf("Direction = %q, want RL (from env)", cfg.Diagrams.Direction)
	}

	wantExcluded := []string{"schema_migrations", "audit_*"}
	if !reflect.DeepEqual(cfg.Diagrams.ExcludedTables, wantExcluded) {
		t.Errorf("ExcludedTables = %v, want %v", cfg.Diagrams.ExcludedTables, wantExcluded)
	}

	if got := cfg.Cache.TTLFor("database_tables"); got != time.Minute {
		t.Errorf("TTLFor(database_tables) = %v, want 1m", got)
	}
	if got := cfg.Cache.TTLFor("model_associations"); got != 10*time.Minute {
		t.Errorf("TTLFor(model_associations) = %v, want 10m", got)
	}
	if got := cfg.Cache.TTLFor("database_tables_inferred"); got != cfg.Cache.DefaultTTL() {
		t.Errorf("TTLFor without override = %v, want default %v", got, cfg.Cache.DefaultTTL())
	}

	if cfg.Redis.Host != "redis.example.com" {
		t.Errorf("Redis.Host = %q, want redis.example.com", cfg.Redis.Host)
	}
	if cfg.Schema.Password != "hunter2" {
		t.Error("schema password should come from the environment")
	}
	if !cfg.Schema.Configured() {
		t.Error("schema should be configured")
	}
}

func TestLoadFileInvalidTTL(t *testing.T) {
	for _, ttls := range []string{"bogus", "database_tables=soon"} {
		path := writeConfig(t, "cache:\n  type_ttls: \""+ttls+"\"\n")
		if _, err := LoadFile(path, "v"); err == nil {
			t.Errorf("expected error for type_ttls %q", ttls)
		}
	}
}

func TestSchemaConnectionConfig(t *testing.T) {
	schema := SchemaConfig{
		Driver:   "postgres",
		Host:     "db.example.com",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "appdb",
		SSLMode:  "require",
	}

	got := schema.ConnectionConfig()
	want := map[string]any{
		"host":     "db.example.com",
		"port":     5433,
		"user":     "app",
		"password": "secret",
		"database": "appdb",
		"ssl_mode": "require",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConnectionConfig() = %v, want %v", got, want)
	}
}

func TestRedisAddr(t *testing.T) {
	redis := RedisConfig{Host: "redis.example.com", Port: 6380}
	if got := redis.Addr(); got != "redis.example.com:6380" {
		t.Errorf("Addr() = %q, want redis.example.com:6380", got)
	}
}
