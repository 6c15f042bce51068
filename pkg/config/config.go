// Package config loads engine configuration from config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the diagram engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values for fields
// that support both. Secrets (passwords) must only come from environment
// variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Diagram rendering defaults
	Diagrams DiagramsConfig `yaml:"diagrams"`

	// Result cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Redis configuration (optional - if host is set, the cache is shared)
	Redis RedisConfig `yaml:"redis"`

	// Schema introspection target
	Schema SchemaConfig `yaml:"schema"`

	// Model descriptor source
	Models ModelsConfig `yaml:"models"`
}

// DiagramsConfig holds rendering defaults applied to every builder.
type DiagramsConfig struct {
	// DefaultType is the diagram type used when a caller names none.
	DefaultType string `yaml:"default_type" env:"DIAGRAM_DEFAULT_TYPE" env-default:"database_tables"`

	// Direction is the Mermaid flow direction (LR, RL, TB, TD, BT).
	Direction string `yaml:"direction" env:"DIAGRAM_DIRECTION" env-default:"LR"`

	ShowAttributes  bool `yaml:"show_attributes" env:"DIAGRAM_SHOW_ATTRIBUTES" env-default:"true"`
	ShowMethods     bool `yaml:"show_methods" env:"DIAGRAM_SHOW_METHODS" env-default:"false"`
	ShowCardinality bool `yaml:"show_cardinality" env:"DIAGRAM_SHOW_CARDINALITY" env-default:"true"`

	// ExcludedTablesStr is a comma-separated list of glob patterns for
	// tables dropped from session scopes, typically framework bookkeeping
	// tables.
	// Format: "schema_migrations,ar_internal_metadata,pg_*"
	ExcludedTablesStr string `yaml:"excluded_tables" env:"DIAGRAM_EXCLUDED_TABLES" env-default:"schema_migrations,ar_internal_metadata"`

	// ExcludedTables is parsed from ExcludedTablesStr (not from config file).
	ExcludedTables []string `yaml:"-"`
}

// CacheConfig holds diagram result cache settings.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled" env:"DIAGRAM_CACHE_ENABLED" env-default:"true"`
	MaxEntries int  `yaml:"max_entries" env:"DIAGRAM_CACHE_MAX_ENTRIES" env-default:"1000"`

	// DefaultTTLSeconds applies to diagram types without an explicit TTL.
	DefaultTTLSeconds int `yaml:"default_ttl_seconds" env:"DIAGRAM_CACHE_TTL_SECONDS" env-default:"300"`

	// CleanupIntervalSeconds is how often the in-memory store sweeps expired
	// entries.
	CleanupIntervalSeconds int `yaml:"cleanup_interval_seconds" env:"DIAGRAM_CACHE_CLEANUP_INTERVAL_SECONDS" env-default:"300"`

	// TypeTTLsStr is a comma-separated list of type=seconds pairs overriding
	// the default TTL per diagram type. Association diagrams cost more to
	// build than table diagrams, so they start with a longer TTL.
	// Format: "database_tables=60,model_associations=600"
	TypeTTLsStr string `yaml:"type_ttls" env:"DIAGRAM_CACHE_TYPE_TTLS" env-default:"model_associations=600,model_associations_flowchart=600"`

	// TypeTTLs is parsed from TypeTTLsStr (not from config file).
	TypeTTLs map[string]time.Duration `yaml:"-"`
}

// DefaultTTL returns the TTL for diagram types without an explicit override.
func (c *CacheConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

// TTLFor returns the TTL for one diagram type.
func (c *CacheConfig) TTLFor(diagramType string) time.Duration {
	if ttl, ok := c.TypeTTLs[diagramType]; ok {
		return ttl
	}
	return c.DefaultTTL()
}

// CleanupInterval returns the expired-entry sweep interval.
func (c *CacheConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}

// RedisConfig holds Redis connection settings for the shared cache.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Addr returns the host:port address, with localhost rewritten when running
// inside Docker.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", ResolveHostForDocker(c.Host), c.Port)
}

// SchemaConfig describes the database whose schema the analyzers introspect.
type SchemaConfig struct {
	// Driver selects the schema source adapter ("postgres", "mssql",
	// "memory").
	Driver   string `yaml:"driver" env:"SCHEMA_DRIVER" env-default:"postgres"`
	Host     string `yaml:"host" env:"SCHEMA_DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"SCHEMA_DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"SCHEMA_DB_USER" env-default:""`
	Password string `yaml:"-" env:"SCHEMA_DB_PASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"SCHEMA_DB_NAME" env-default:""`
	SSLMode  string `yaml:"ssl_mode" env:"SCHEMA_DB_SSLMODE" env-default:"disable"`
}

// Configured reports whether an introspection target is set up at all.
func (c *SchemaConfig) Configured() bool {
	return c.Database != ""
}

// ConnectionConfig returns the driver options map handed to the schema
// source registry. Localhost hosts are rewritten when running inside Docker.
func (c *SchemaConfig) ConnectionConfig() map[string]any {
	return map[string]any{
		"host":     ResolveHostForDocker(c.Host),
		"port":     c.Port,
		"user":     c.User,
		"password": c.Password,
		"database": c.Database,
		"ssl_mode": c.SSLMode,
	}
}

// ModelsConfig locates model descriptors for association diagrams.
type ModelsConfig struct {
	// DescriptorPath points at a YAML descriptor file. Empty leaves the
	// model association strategies without a source unless the embedding
	// application supplies its own provider.
	DescriptorPath string `yaml:"descriptor_path" env:"MODEL_DESCRIPTOR_PATH" env-default:""`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config.
func Load(version string) (*Config, error) {
	return LoadFile("config.yaml", version)
}

// LoadFile reads configuration from the given YAML file. A missing file is
// not an error; configuration then comes from environment variables alone.
func LoadFile(path, version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.parseComplexFields(); err != nil {
		return nil, fmt.Errorf("failed to parse config fields: %w", err)
	}

	return cfg, nil
}

// parseComplexFields handles fields that need post-processing after loading.
func (c *Config) parseComplexFields() error {
	c.Diagrams.ExcludedTables = splitList(c.Diagrams.ExcludedTablesStr)

	ttls, err := parseTypeTTLs(c.Cache.TypeTTLsStr)
	if err != nil {
		return err
	}
	c.Cache.TypeTTLs = ttls
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseTypeTTLs parses the per-type TTL string into a map.
// Format: "type1=seconds,type2=seconds"
func parseTypeTTLs(value string) (map[string]time.Duration, error) {
	ttls := make(map[string]time.Duration)
	if value == "" {
		return ttls, nil
	}

	for _, pair := range strings.Split(value, ",") {
		parts := strings.Split(pair, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid ttl pair %q, want type=seconds", pair)
		}
		name := strings.TrimSpace(parts[0])
		seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid ttl for %q: %w", name, err)
		}
		ttls[name] = time.Duration(seconds) * time.Second
	}
	return ttls, nil
}
