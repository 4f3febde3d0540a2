package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, "motosync", cfg.System.Appid)
	assert.Equal(t, "Asia/Manila", cfg.System.Location)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `
system:
  appid: motosync-test
  location: Asia/Manila
web:
  host: 127.0.0.1
  port: 2816
database:
  name: motosync_test
  user: tester
`
	cfile := filepath.Join(t.TempDir(), "motosync.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "motosync-test", cfg.System.Appid)
	assert.Equal(t, "127.0.0.1", cfg.Web.Host)
	assert.Equal(t, 2816, cfg.Web.Port)
	assert.Equal(t, "motosync_test", cfg.Database.Name)
	assert.Equal(t, "tester", cfg.Database.User)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MOTOSYNC_WEB_PORT", "3816")
	t.Setenv("MOTOSYNC_DB_HOST", "db.internal")
	t.Setenv("MOTOSYNC_SYSTEM_DEBUG", "false")

	cfg := LoadConfig("")
	assert.Equal(t, 3816, cfg.Web.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.False(t, cfg.System.Debug)
}

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	cfg := LoadConfig("/nonexistent/motosync.yml")
	assert.Equal(t, DefaultAppConfig.Web.Port, cfg.Web.Port)
}
