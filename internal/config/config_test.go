package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("DB_DSN", "")

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "root:root@tcp(localhost:3306)/mysticmatch?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DB.DSN)
	assert.Equal(t, 50, cfg.Match.CandidateBatch)
	assert.Equal(t, 24*time.Hour, cfg.Session.RegistrationTTL)
	assert.Equal(t, "redis", cfg.Session.Backend)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_NAME", "dev")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("BOT_WORKERS", "2")
	t.Setenv("SESSION_CHAT_TTL", "90m")
	t.Setenv("LOG_SOURCE", "yes")

	cfg := New()

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "file:dev.db?_foreign_keys=on", cfg.DB.DSN)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 2, cfg.Bot.Workers)
	assert.Equal(t, 90*time.Minute, cfg.Session.ChatTTL)
	assert.True(t, cfg.Log.Source)
}

func TestNew_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("SESSION_REGISTRATION_TTL", "soon")

	cfg := New()

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Session.RegistrationTTL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
app:
  env: development
bot:
  token: from-file
  workers: 4
session:
  backend: memory
  registration_ttl: 1h
match:
  candidate_batch: 10
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.ENV)
	assert.Equal(t, "from-env", cfg.Bot.Token)
	assert.Equal(t, 4, cfg.Bot.Workers)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, time.Hour, cfg.Session.RegistrationTTL)
	assert.Equal(t, 10, cfg.Match.CandidateBatch)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		assert.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"", "0", "off", "nope"} {
		assert.False(t, isTruthy(v), v)
	}
}
