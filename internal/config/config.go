package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix prefixes every environment override, e.g. TRAVEL_SERVER_PORT
const EnvPrefix = "TRAVEL"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Export   ExportConfig   `mapstructure:"export"`
	Events   EventsConfig   `mapstructure:"events"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// MigrationsDir overrides the embedded migrations when set
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// AuthConfig holds token and password hashing configuration
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	Issuer     string        `mapstructure:"issuer"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

// ExportConfig holds regulation export configuration
type ExportConfig struct {
	OutputDir     string        `mapstructure:"output_dir"`
	ArchivePath   string        `mapstructure:"archive_path"`
	FontPath      string        `mapstructure:"font_path"`
	Retention     time.Duration `mapstructure:"retention"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// EventsConfig holds event dispatch configuration
type EventsConfig struct {
	// Async runs event handlers in the background instead of inside the request
	Async bool `mapstructure:"async"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A .env file in the
// working directory is applied first; variables already set in the environment win.
// An empty configPath skips the file and uses defaults plus environment.
func Load(configPath string) (*Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/travel_expense.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 0)
	v.SetDefault("database.migrations_dir", "")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "travel-expense")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)

	// Export defaults
	v.SetDefault("export.output_dir", "data/exports")
	v.SetDefault("export.archive_path", "data/exports.db")
	v.SetDefault("export.font_path", "")
	v.SetDefault("export.retention", 7*24*time.Hour)
	v.SetDefault("export.sweep_interval", time.Hour)

	// Events defaults
	v.SetDefault("events.async", false)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds the unprefixed names commonly used in deployments
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string][]string{
		"auth.jwt_secret":  {"TRAVEL_AUTH_JWT_SECRET", "JWT_SECRET"},
		"server.port":      {"TRAVEL_SERVER_PORT", "PORT"},
		"database.path":    {"TRAVEL_DATABASE_PATH", "DATABASE_PATH"},
		"export.font_path": {"TRAVEL_EXPORT_FONT_PATH", "FONT_PATH"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of debug, release, test")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}

	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required")
	}
	if c.Export.ArchivePath == "" {
		return fmt.Errorf("export.archive_path is required")
	}
	if c.Export.Retention <= 0 {
		return fmt.Errorf("export.retention must be positive")
	}
	if c.Export.SweepInterval <= 0 {
		return fmt.Errorf("export.sweep_interval must be positive")
	}

	return nil
}
