// Package config loads process configuration from flags and environment
// variables, generalized from the teacher's two-field config.Config and
// cmd/editor-service/main.go's getEnvOrDefault flag wiring.
package config

import (
	"flag"
	"os"
)

// Config holds everything a jupiter-server process needs at startup.
type Config struct {
	Port string
	Env  string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	UseDB          bool
	MigrationsPath string
	AutosaveSecs   int

	LogLevel string

	DiscoveryEnabled bool
	DiscoveryName    string
}

// Load parses command-line flags (falling back to environment variables,
// then hard-coded defaults) into a Config. It must be called at most once
// per process, before flag.Parse() is called elsewhere.
func Load() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Port, "port", "8080", "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "environment (dev, prod)")

	flag.StringVar(&cfg.DBHost, "db-host", getEnvOrDefault("DB_HOST", "localhost"), "database host")
	flag.StringVar(&cfg.DBPort, "db-port", getEnvOrDefault("DB_PORT", "5432"), "database port")
	flag.StringVar(&cfg.DBUser, "db-user", getEnvOrDefault("DB_USER", "postgres"), "database user")
	flag.StringVar(&cfg.DBPass, "db-pass", getEnvOrDefault("DB_PASSWORD", "postgres"), "database password")
	flag.StringVar(&cfg.DBName, "db-name", getEnvOrDefault("DB_NAME", "jupiter"), "database name")
	flag.BoolVar(&cfg.UseDB, "use-db", false, "enable Postgres persistence")
	flag.StringVar(&cfg.MigrationsPath, "migrations-path", getEnvOrDefault("MIGRATIONS_PATH", "internal/store/migrations"), "path to the schema migration SQL files")
	flag.IntVar(&cfg.AutosaveSecs, "autosave-seconds", 30, "how often dirty documents are flushed to Postgres")

	flag.StringVar(&cfg.LogLevel, "log-level", getEnvOrDefault("LOG_LEVEL", "info"), "log level")

	flag.BoolVar(&cfg.DiscoveryEnabled, "discovery", false, "advertise/browse for peers via mDNS")
	flag.StringVar(&cfg.DiscoveryName, "discovery-name", getEnvOrDefault("DISCOVERY_NAME", "jupiter-server"), "mDNS instance name")

	flag.Parse()
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
