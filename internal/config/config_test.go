package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("IMPORT_MAX_BYTES", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "officedesk_session", cfg.SessionCookie)
	assert.Equal(t, 10<<20, cfg.ImportMaxBytes)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("IMPORT_MAX_BYTES", "2048")
	t.Setenv("S3_BUCKET", "imports")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2048, cfg.ImportMaxBytes)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("IMPORT_MAX_BYTES", "-5")

	cfg := Load()

	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10<<20, cfg.ImportMaxBytes)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC", cfg.DSN())
}
