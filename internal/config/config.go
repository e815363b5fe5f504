package config

import "os"

// Config holds all configuration for the trilens CLI.
type Config struct {
	RedisURL      string
	DatabaseURL   string
	OpenAIAPIKey  string
	OpenAIModel   string
	MigrationsDir string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		RedisURL:      getEnv("TRILENS_REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:   getEnv("TRILENS_DATABASE_URL", "postgres://localhost:5432/trilens?sslmode=disable"),
		OpenAIAPIKey:  getEnv("TRILENS_OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("TRILENS_OPENAI_MODEL", "gpt-4o-mini"),
		MigrationsDir: getEnv("TRILENS_MIGRATIONS_DIR", "migrations"),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
