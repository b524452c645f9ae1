package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farmaceutico/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.HTTP.Port)
	assert.Equal(t, "/api/v1", cfg.HTTP.APIPrefix)
	assert.Equal(t, "memory", cfg.App.Storage)
	assert.Equal(t, "memory", cfg.Sales.DraftStore)
	assert.Equal(t, 120, cfg.Sales.DraftTTLMinutes)
	assert.Equal(t, 30, cfg.Sales.ExpiryAlertDays)
	assert.Equal(t, "0 7 * * *", cfg.Worker.ExpiryScanCron)
	assert.Equal(t, 5, cfg.Worker.Concurrency)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_PORT", "8088")
	t.Setenv("STORAGE_DRIVER", "POSTGRES")
	t.Setenv("DRAFT_TTL_MINUTES", "no-numero")
	t.Setenv("REDIS_DB", "2")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.App.Storage)
	assert.Equal(t, 120, cfg.Sales.DraftTTLMinutes, "un entero ilegible cae al default")
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_Invalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DRAFT_STORE", "mongo")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestLoad_ProductionExigeSecreto(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "crm", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/crm?sslmode=disable", db.ConnectionString())

	db.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", db.ConnectionString())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
