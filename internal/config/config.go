// Package config loads the server configuration from the environment.
//
// SOURCES, IN ORDER OF PRECEDENCE:
//  1. real environment variables
//  2. a .env file in the working directory (optional, never overrides 1)
//  3. the envDefault values below
//
// JWT_SECRET has no default: a server that would sign sessions with a
// well-known key refuses to start instead.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	minSecretLength = 16
)

// Config contains server configuration parameters.
type Config struct {
	// Env is development, production or test. NodeEnv is honoured when Env
	// is unset so existing deployments keep their flag.
	Env     string `env:"APP_ENV"`
	NodeEnv string `env:"NODE_ENV"`

	Port     int    `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret  string `env:"JWT_SECRET,required"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`

	DBPath string `env:"DB_PATH" envDefault:"data/resume.db"`
	Mongo  Mongo  `envPrefix:"MONGO_"`

	FrontendURL        string   `env:"FRONTEND_URL"`
	VercelURL          string   `env:"VERCEL_URL"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Mongo selects the MongoDB store. Leaving URL empty keeps the embedded
// SQLite store.
type Mongo struct {
	URL string `env:"URL"`
	DB  string `env:"DB" envDefault:"resume_builder"`
}

// Load reads the optional .env files (".env" when none are given) and then
// parses the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	return Parse(env.ToMap(os.Environ()))
}

// Parse builds a Config from the given variables only.
func Parse(environ map[string]string) (*Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("config: failed to parse: %w", err)
	}

	if cfg.Env == "" {
		cfg.Env = cfg.NodeEnv
	}
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("config: APP_ENV must be %s, %s or %s, got %q",
			EnvDevelopment, EnvProduction, EnvTest, c.Env)
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT out of range: %d", c.Port)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

// IsProduction reports whether cookies must be Secure and SameSite=None.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// UseMongo reports whether MONGO_URL selects the MongoDB store.
func (c *Config) UseMongo() bool {
	return c.Mongo.URL != ""
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AllowedOrigins is the CORS allow-list: the two local dev servers, the
// configured frontend, the Vercel deployment and any extra origins.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	if c.VercelURL != "" {
		origins = append(origins, "https://"+strings.TrimPrefix(c.VercelURL, "https://"))
	}
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SlogLevel converts LogLevel for slog.HandlerOptions.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return level, nil
}
