// Package container provides dependency injection and lifecycle management
// for the travel expense service.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Export   ExportConfig
	Events   EventsConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MigrationsDir replaces the embedded migrations when non-empty
	MigrationsDir string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	Mode            string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig holds token and password settings.
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

// ExportConfig holds export file settings.
type ExportConfig struct {
	// OutputDir is the root of generated export files
	OutputDir string

	// ArchivePath is the bbolt file indexing exports
	ArchivePath string

	// FontPath enables the pdf format when set
	FontPath string

	Retention     time.Duration
	SweepInterval time.Duration
}

// EventsConfig holds event dispatch settings.
type EventsConfig struct {
	// Async delivers events to handlers in the background
	Async bool
}

// DefaultConfig returns a Config with sensible defaults. JWTSecret is left empty.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:         "data/travel_expense.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Mode:            "release",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Issuer:     "travel-expense",
			TokenTTL:   24 * time.Hour,
			BcryptCost: 10,
		},
		Export: ExportConfig{
			OutputDir:     "data/exports",
			ArchivePath:   "data/exports.db",
			Retention:     7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required")
	}
	if c.Export.ArchivePath == "" {
		return fmt.Errorf("export.archive_path is required")
	}
	return nil
}
