package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	content := `
server_port = "9270"
handle_cors = false
default_max_app_count = 5
idle_version_hours = 24

[db]
host = "db.internal"
port = 5433
user = "appsrv"
password = "secret"
dbname = "appcloud_test"
sslmode = "require"
`
	dir := t.TempDir()
	filename := filepath.Join(dir, "appcloudsrv.conf")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o600))

	cp, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, "9270", cp.ServerPort)
	assert.False(t, cp.HandleCORS)
	assert.Equal(t, 5, cp.DefaultMaxAppCount)
	assert.Equal(t, 24, cp.IdleVersionHours)
	// keys not present in the file keep their defaults
	assert.Equal(t, "@every 1h", cp.SweepSchedule)
	assert.Equal(t,
		"host=db.internal port=5433 user=appsrv password=secret dbname=appcloud_test sslmode=require",
		cp.DB.Dsn())
	assert.Same(t, cp, Config())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	cp, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "8270", cp.ServerPort)
	assert.Equal(t, 5432, cp.DB.Port)
}
