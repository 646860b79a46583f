package config

import (
	"github.com/garyjia/travel-expense/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Server: container.ServerConfig{
			Host:            c.Server.Host,
			Port:            c.Server.Port,
			Mode:            c.Server.Mode,
			AllowedOrigins:  c.Server.AllowedOrigins,
			ReadTimeout:     c.Server.ReadTimeout,
			WriteTimeout:    c.Server.WriteTimeout,
			ShutdownTimeout: c.Server.ShutdownTimeout,
		},
		Auth: container.AuthConfig{
			JWTSecret:  c.Auth.JWTSecret,
			Issuer:     c.Auth.Issuer,
			TokenTTL:   c.Auth.TokenTTL,
			BcryptCost: c.Auth.BcryptCost,
		},
		Export: container.ExportConfig{
			OutputDir:     c.Export.OutputDir,
			ArchivePath:   c.Export.ArchivePath,
			FontPath:      c.Export.FontPath,
			Retention:     c.Export.Retention,
			SweepInterval: c.Export.SweepInterval,
		},
		Events: container.EventsConfig{
			Async: c.Events.Async,
		},
	}
}
