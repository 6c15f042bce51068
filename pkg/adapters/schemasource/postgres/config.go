package postgres

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// Connection defaults applied when the options map leaves them out.
const (
	DefaultPort    = 5432
	DefaultSSLMode = "require"
)

// Config contains PostgreSQL-specific connection options.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // "disable", "require", "verify-ca", "verify-full"
}

// FromMap builds a Config from the driver options map the schema source
// registry hands to the factory. Host, user and database are required.
func FromMap(config map[string]any) (*Config, error) {
	cfg := &Config{
		Port:    DefaultPort,
		SSLMode: DefaultSSLMode,
	}

	var err error
	if cfg.Host, err = requiredString(config, "host"); err != nil {
		return nil, err
	}
	if cfg.User, err = requiredString(config, "user"); err != nil {
		return nil, err
	}
	if cfg.Database, err = requiredString(config, "database"); err != nil {
		return nil, err
	}

	cfg.Password, _ = config["password"].(string)
	if mode, ok := config["ssl_mode"].(string); ok {
		cfg.SSLMode = mode
	}
	switch port := config["port"].(type) {
	case int:
		cfg.Port = port
	case float64: // JSON numbers decode as float64
		cfg.Port = int(port)
	}

	return cfg, nil
}

func requiredString(config map[string]any, key string) (string, error) {
	value, ok := config[key].(string)
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

// ConnString renders the pgx connection URL. Credentials go through
// url.UserPassword, so characters like @ and / in them survive parsing.
func (c *Config) ConnString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = DefaultSSLMode
	}

	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}
