package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"bookreview-backend/internal/infrastructure/database"
)

// PostgresConfig combines the Database section with the DB_* pool tunables.
// Unlike the rest of Load, malformed pool values are an error.
func (c *Config) PostgresConfig() (*database.DBConfig, error) {
	db := &database.DBConfig{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Username: c.Database.User,
		Password: c.Database.Password,
		DBName:   c.Database.Database,
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	var err error
	if db.MaxConns, err = poolInt32("DB_MAX_CONNECTIONS", 25); err != nil {
		return nil, err
	}
	if db.MinConns, err = poolInt32("DB_MIN_CONNECTIONS", 5); err != nil {
		return nil, err
	}
	if db.MinConns > db.MaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)", db.MinConns, db.MaxConns)
	}

	maxRetries, err := poolInt32("DB_MAX_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	db.MaxRetries = int(maxRetries)

	durations := []struct {
		key      string
		fallback time.Duration
		dest     *time.Duration
	}{
		{"DB_MAX_CONN_LIFETIME", 5 * time.Minute, &db.MaxConnLifetime},
		{"DB_MAX_CONN_IDLE_TIME", time.Minute, &db.MaxConnIdleTime},
		{"DB_HEALTH_CHECK_PERIOD", time.Minute, &db.HealthCheckPeriod},
		{"DB_RETRY_DELAY", time.Second, &db.RetryDelay},
		{"DB_CONNECT_TIMEOUT", 10 * time.Second, &db.ConnectTimeout},
	}
	for _, d := range durations {
		if *d.dest, err = poolDuration(d.key, d.fallback); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func poolInt32(key string, fallback int32) (int32, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return int32(v), nil
}

func poolDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}
