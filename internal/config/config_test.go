package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ReadsYAML(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: /tmp/forge.db\nlog_level: DEBUG\nlog_file: /tmp/sf.log\nunknown_key: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{DatabasePath: "/tmp/forge.db", LogLevel: "debug", LogFile: "/tmp/sf.log"}, cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_path: from-file.db\nlog_level: info\n"), 0o644))

	t.Run("with file", func(t *testing.T) {
		t.Setenv(EnvDBPath, "from-env.db")
		t.Setenv(EnvLogLevel, "warn")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env.db", cfg.DatabasePath)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("without file", func(t *testing.T) {
		t.Setenv(EnvDBPath, "from-env.db")
		t.Setenv(EnvLogLevel, "")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "from-env.db", cfg.DatabasePath)
		assert.Equal(t, "info", cfg.LogLevel)
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log_level: [unterminated"), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "parse config")

	loud := filepath.Join(dir, "loud.yaml")
	require.NoError(t, os.WriteFile(loud, []byte("log_level: shouting\n"), 0o644))
	_, err = Load(loud)
	assert.ErrorContains(t, err, "invalid log_level")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &Config{DatabasePath: "forge.db", LogLevel: "error", LogFile: "sf.log"}
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/sf.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/sf.yaml", p)

	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", "/home/student")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/student", ".studyforge", "config.yaml"), p)
}
