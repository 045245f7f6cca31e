package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig Postgres connection settings (vocabulary tables)
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds a lib/pq connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis settings (adjudication session store)
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const (
	VocabularyBuiltin  = "builtin"
	VocabularyPostgres = "postgres"

	SessionStoreNone  = "none"
	SessionStoreRedis = "redis"
)

// Config cleaning pipeline configuration
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig

	Pipeline struct {
		InputPath         string // raw dataset snapshot (JSON array)
		OutputPath        string // cleaned dataset (JSON)
		XLSXOutputPath    string // optional spreadsheet copy, empty = disabled
		ParquetOutputPath string // optional parquet copy, empty = disabled
		MinRecordID       int64  // records below this ID are device test entries
		VocabularySource  string // "builtin" or "postgres"
	}

	Adjudication struct {
		DirectivesPath string // replay file; empty = interactive terminal
		SessionStore   string // "none" or "redis"
		SessionID      string // empty = generated per run
		SessionTTL     int    // seconds, 0 = no expiry
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "bp_validation")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = 2

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Pipeline.InputPath = getEnv("INPUT_PATH", "data/raw.json")
	cfg.Pipeline.OutputPath = getEnv("OUTPUT_PATH", "data/cleaned.json")
	cfg.Pipeline.XLSXOutputPath = getEnv("XLSX_OUTPUT_PATH", "")
	cfg.Pipeline.ParquetOutputPath = getEnv("PARQUET_OUTPUT_PATH", "")
	cfg.Pipeline.MinRecordID = int64(parseInt(getEnv("MIN_RECORD_ID", "100"), 100))
	cfg.Pipeline.VocabularySource = getEnv("VOCABULARY_SOURCE", VocabularyBuiltin)

	cfg.Adjudication.DirectivesPath = getEnv("DIRECTIVES_PATH", "")
	cfg.Adjudication.SessionStore = getEnv("SESSION_STORE", SessionStoreNone)
	cfg.Adjudication.SessionID = getEnv("SESSION_ID", "")
	cfg.Adjudication.SessionTTL = parseInt(getEnv("SESSION_TTL", "604800"), 604800) // 7 days

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "console")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Pipeline.VocabularySource {
	case VocabularyBuiltin, VocabularyPostgres:
	default:
		return fmt.Errorf("unsupported VOCABULARY_SOURCE %q", c.Pipeline.VocabularySource)
	}
	switch c.Adjudication.SessionStore {
	case SessionStoreNone, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.Adjudication.SessionStore)
	}
	if c.Pipeline.InputPath == "" || c.Pipeline.OutputPath == "" {
		return fmt.Errorf("INPUT_PATH and OUTPUT_PATH are required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
