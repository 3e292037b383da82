package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Addr         string        `validate:"required"`
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
	IdleTimeout  time.Duration `validate:"gt=0"`
}

type GRPCConfig struct {
	Addr string `validate:"required"`
}

type DBConfig struct {
	Driver          string `validate:"required,oneof=sqlite postgres"`
	DSN             string `validate:"required"`
	MaxOpenConns    int    `validate:"gte=0"`
	MaxIdleConns    int    `validate:"gte=0"`
	ConnMaxIdleTime time.Duration
}

type Config struct {
	HTTP            HTTPConfig
	GRPC            GRPCConfig
	DB              DBConfig
	LogLevel        string        `validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// Load reads the configuration from the environment. Variables found in the
// optional env files are added to the environment first; already set
// variables win.
func Load(logger *slog.Logger, envFiles ...string) (*Config, error) {
	const op = "config.Load"

	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%s: failed to load %s: %w", op, file, err)
		}
		logger.Info("Loaded environment file", slog.String("file", file))
	}

	env := envReader{logger: logger}
	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:         env.str("MOVIEDB_HTTP_ADDR", ":8081"),
			ReadTimeout:  env.duration("MOVIEDB_HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: env.duration("MOVIEDB_HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  env.duration("MOVIEDB_HTTP_IDLE_TIMEOUT", 120*time.Second),
		},
		GRPC: GRPCConfig{
			Addr: env.str("MOVIEDB_GRPC_ADDR", ":9092"),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(env.str("MOVIEDB_DB_DRIVER", "sqlite")),
			DSN:             env.str("MOVIEDB_DB_DSN", "movies.db"),
			MaxOpenConns:    env.int("MOVIEDB_DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    env.int("MOVIEDB_DB_MAX_IDLE_CONNS", 25),
			ConnMaxIdleTime: env.duration("MOVIEDB_DB_MAX_IDLE_TIME", 15*time.Minute),
		},
		LogLevel:        strings.ToLower(env.str("MOVIEDB_LOG_LEVEL", "info")),
		ShutdownTimeout: env.duration("MOVIEDB_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%s: config validation failed: %w", op, err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

type envReader struct {
	logger *slog.Logger
}

func (e envReader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (e envReader) int(key string, def int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.logger.Warn("Invalid integer in environment, using default", slog.String("key", key), slog.String("value", raw), slog.Int("default", def))
		return def
	}
	return v
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		e.logger.Warn("Invalid duration in environment, using default", slog.String("key", key), slog.String("value", raw), slog.Duration("default", def))
		return def
	}
	return v
}
