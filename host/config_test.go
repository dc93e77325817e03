package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadingNonExistingConfigFile(t *testing.T) {
	cfg := Config{
		ConfigFile: "non-existing-file",
	}
	_, err := ReadConfigFile(&cfg)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigFile(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.ConfigFile = filepath.Join(dir, "config.ini")
	content := "datadir = /tmp\n\n[Registry]\nbackend = memory\ncache-size = 5\n\n[Sequencer]\nstart-seq = 42\n"
	require.NoError(t, os.WriteFile(cfg.ConfigFile, []byte(content), 0o600))

	// Act
	cfg, err := ReadConfigFile(cfg)

	// Verify
	require.NoError(t, err)
	require.Equal(t, "/tmp", cfg.DataDir)
	require.Equal(t, BackendMemory, cfg.Registry.Backend)
	require.Equal(t, 5, cfg.Registry.CacheSize)
	require.EqualValues(t, 42, cfg.Sequencer.StartSeq)
	require.Equal(t, defaultQueueSize, cfg.Sequencer.QueueSize)
}

func TestReadConfigFilePathNotSet(t *testing.T) {
	cfg, err := ReadConfigFile(&Config{})
	require.NoError(t, err)
	require.Equal(t, &Config{}, cfg)
}

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags(DefaultConfig(), []string{"--backend", "memory", "--metrics-port", "9100", "--debuglog"})
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Registry.Backend)
	require.NotNil(t, cfg.MetricsPort)
	require.EqualValues(t, 9100, *cfg.MetricsPort)
	require.True(t, cfg.DebugLog)

	_, err = ParseFlags(DefaultConfig(), []string{"--backend", "postgres"})
	require.Error(t, err)
}

func TestSetupConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.PoeDir = filepath.Join(dir, "poe")

	cfg, err := SetupConfig(cfg)
	require.NoError(t, err)
	require.DirExists(t, cfg.PoeDir)
	require.Equal(t, filepath.Join(dir, "poe", defaultDataDirname), cfg.DataDir)
	require.Equal(t, filepath.Join(dir, "poe", defaultDbDirName), cfg.DbDir)
	require.Equal(t, filepath.Join(dir, "poe", defaultLogDirname, defaultLogFilename), cfg.LogFile())
}

func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("POE_TEST_DIR", "/var/lib")
	require.Equal(t, "/var/lib/poe", cleanAndExpandPath("$POE_TEST_DIR/poe/"))
	require.Equal(t, "", cleanAndExpandPath(""))
}
