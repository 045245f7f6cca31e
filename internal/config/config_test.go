package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "bp_validation", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, "data/raw.json", cfg.Pipeline.InputPath)
	assert.Equal(t, "data/cleaned.json", cfg.Pipeline.OutputPath)
	assert.Equal(t, "", cfg.Pipeline.XLSXOutputPath)
	assert.Equal(t, int64(100), cfg.Pipeline.MinRecordID)
	assert.Equal(t, VocabularyBuiltin, cfg.Pipeline.VocabularySource)

	assert.Equal(t, SessionStoreNone, cfg.Adjudication.SessionStore)
	assert.Equal(t, 604800, cfg.Adjudication.SessionTTL)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Setenv("INPUT_PATH", "/tmp/in.json")
	os.Setenv("OUTPUT_PATH", "/tmp/out.json")
	os.Setenv("MIN_RECORD_ID", "250")
	os.Setenv("VOCABULARY_SOURCE", "postgres")
	os.Setenv("SESSION_STORE", "redis")
	os.Setenv("SESSION_ID", "session-1")
	os.Setenv("REDIS_ADDR", "test-redis:6380")
	os.Setenv("DB_PORT", "6543")
	os.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/in.json", cfg.Pipeline.InputPath)
	assert.Equal(t, "/tmp/out.json", cfg.Pipeline.OutputPath)
	assert.Equal(t, int64(250), cfg.Pipeline.MinRecordID)
	assert.Equal(t, VocabularyPostgres, cfg.Pipeline.VocabularySource)
	assert.Equal(t, SessionStoreRedis, cfg.Adjudication.SessionStore)
	assert.Equal(t, "session-1", cfg.Adjudication.SessionID)
	assert.Equal(t, "test-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Log.Level)

	os.Clearenv()
}

func TestLoad_RejectsUnknownSources(t *testing.T) {
	os.Clearenv()
	os.Setenv("VOCABULARY_SOURCE", "csv")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VOCABULARY_SOURCE")

	os.Clearenv()
	os.Setenv("SESSION_STORE", "memcached")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_STORE")

	os.Clearenv()
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.GetDSN())
}

func TestGetEnv(t *testing.T) {
	os.Clearenv()
	assert.Equal(t, "default-value", getEnv("TEST_KEY", "default-value"))

	os.Setenv("TEST_KEY", "env-value")
	assert.Equal(t, "env-value", getEnv("TEST_KEY", "default-value"))

	os.Unsetenv("TEST_KEY")
}
