// Package config provides configuration for the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/starquake/quizbase/internal/logging"
)

// ErrDBUriNotSetInProduction is returned when DB_URI is not set in production. We need this to prevent accidental
// production deployments without a database.
var ErrDBUriNotSetInProduction = errors.New("DB_URI must be set in production")

const (
	// AppEnvironmentDefault is the default application environment.
	AppEnvironmentDefault = "development"
	// AppEnvironmentProduction is the production application environment.
	AppEnvironmentProduction = "production"
	// HostDefault is the default host to listen on. Can be an IP address or hostname.
	HostDefault = "localhost"
	// PortDefault is the default port to listen on.
	PortDefault = "8080"

	// DBDriverDefault is the default database driver. Currently, only sqlite is supported.
	DBDriverDefault = "sqlite"
	// DBURIDefault is the default database URI. Default is quiz.sqlite in the current directory.
	DBURIDefault = "file:quiz.sqlite?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	// DBMaxOpenConnsDefault is the default maximum number of open database connections.
	DBMaxOpenConnsDefault = 10
	// DBMaxIdleConnsDefault is the default maximum number of idle database connections.
	DBMaxIdleConnsDefault = 10
	// DBConnMaxLifetimeDefault is the default maximum lifetime of a database connection.
	DBConnMaxLifetimeDefault = 5 * time.Minute

	// LogLevelDefault is the default minimum log level.
	LogLevelDefault = slog.LevelInfo
	// LogFormatDefault is the default log output format.
	LogFormatDefault = logging.FormatText
)

// CORSAllowedOriginsDefault allows every origin.
//
//nolint:gochecknoglobals // Slices cannot be constants.
var CORSAllowedOriginsDefault = []string{"*"}

// Config represents the application configuration.
type Config struct {
	AppEnvironment string

	Host string
	Port string

	DBDriver string
	DBURI    string

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	LogLevel  slog.Level
	LogFormat logging.Format

	CORSAllowedOrigins []string

	// QuizDeleteCascade deletes a quiz's questions together with the quiz instead of orphaning them.
	QuizDeleteCascade bool
}

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool {
	return c.AppEnvironment == AppEnvironmentProduction
}

// Parse parses environment variables into the config.
func Parse(getenv func(string) string) (*Config, error) {
	c := Config{
		AppEnvironment:     AppEnvironmentDefault,
		Host:               HostDefault,
		Port:               PortDefault,
		DBDriver:           DBDriverDefault,
		DBURI:              DBURIDefault,
		DBMaxOpenConns:     DBMaxOpenConnsDefault,
		DBMaxIdleConns:     DBMaxIdleConnsDefault,
		DBConnMaxLifetime:  DBConnMaxLifetimeDefault,
		LogLevel:           LogLevelDefault,
		LogFormat:          LogFormatDefault,
		CORSAllowedOrigins: CORSAllowedOriginsDefault,
	}
	// Overwrite defaults with environment variables.
	if val := getenv("APP_ENV"); val != "" {
		c.AppEnvironment = val
	}
	if val := getenv("HOST"); val != "" {
		c.Host = val
	}
	if val := getenv("PORT"); val != "" {
		c.Port = val
	}
	if val := getenv("DB_DRIVER"); val != "" {
		c.DBDriver = val
	}
	if val := getenv("DB_URI"); val != "" {
		c.DBURI = val
	}
	if val := getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = parseList(val)
	}

	// Strict validation for types
	var err error
	if val := getenv("DB_MAX_OPEN_CONNS"); val != "" {
		if c.DBMaxOpenConns, err = strconv.Atoi(val); err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %q, err: %w", val, err)
		}
	}

	if val := getenv("DB_MAX_IDLE_CONNS"); val != "" {
		if c.DBMaxIdleConns, err = strconv.Atoi(val); err != nil {
			return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %q, err: %w", val, err)
		}
	}

	if val := getenv("DB_CONN_MAX_LIFETIME"); val != "" {
		if c.DBConnMaxLifetime, err = time.ParseDuration(val); err != nil {
			return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %q, err: %w", val, err)
		}
	}

	if val := getenv("LOG_LEVEL"); val != "" {
		if c.LogLevel, err = logging.ParseLevel(val); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	if val := getenv("LOG_FORMAT"); val != "" {
		if c.LogFormat, err = logging.ParseFormat(val); err != nil {
			return nil, fmt.Errorf("invalid LOG_FORMAT: %w", err)
		}
	}

	if val := getenv("QUIZ_DELETE_CASCADE"); val != "" {
		if c.QuizDeleteCascade, err = strconv.ParseBool(val); err != nil {
			return nil, fmt.Errorf("invalid QUIZ_DELETE_CASCADE: %q, err: %w", val, err)
		}
	}

	// Mandatory fields
	if c.IsProduction() && getenv("DB_URI") == "" {
		return nil, ErrDBUriNotSetInProduction
	}

	return &c, nil
}

// parseList splits a comma-separated list, dropping empty entries.
func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
