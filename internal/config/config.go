package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseUri             string        `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int           `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int           `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int           `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // seconds
	Port                    int           `envconfig:"PORT" default:"8080"`
	AllowedOrigins          []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RedisURL                string        `envconfig:"REDIS_URL"`
	PageCacheTTL            time.Duration `envconfig:"PAGE_CACHE_TTL" default:"5m"`
	LogLevel                string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFilePath             string        `envconfig:"LOG_FILE_PATH"`
	ShutdownTimeout         time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then decodes the environment.
// envFiles defaults to ".env"; a missing file is not an error.
func Load(envFiles ...string) (*Config, bool, error) {
	loadedEnv := godotenv.Load(envFiles...) == nil

	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, loadedEnv, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, loadedEnv, err
	}
	return c, loadedEnv, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.PageCacheTTL <= 0 {
		return fmt.Errorf("PAGE_CACHE_TTL must be positive, got %s", c.PageCacheTTL)
	}
	for i, origin := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
