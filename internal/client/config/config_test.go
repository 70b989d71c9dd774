package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, DefaultSessionDB, cfg.SessionDB)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://files.test/api/v1/\nsession_db: from-file.db\ntimeout: 3s\n"), 0o600))
	t.Setenv("EMPDIR_SESSION_DB", "from-env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://files.test/api/v1", cfg.ServerURL)
	assert.Equal(t, "from-env.db", cfg.SessionDB)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{ServerURL: DefaultServerURL, SessionDB: "s.db", Timeout: time.Second}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.ServerURL = "ftp://example.com"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.SessionDB = ""
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Timeout = 0
	assert.Error(t, bad.Validate())
}
