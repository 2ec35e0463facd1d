package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv("FONDSPOD_CONFIG_DIR", t.TempDir())

	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), settings)
}

func TestLoadReadsFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "language: en\nlogging:\n  level: debug\nnumbering:\n  fond_digits: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("FONDSPOD_NUMBERING_ITEM_DIGITS", "5")

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "en", settings.Language)
	assert.Equal(t, "debug", settings.Logging.Level)
	assert.Equal(t, "development", settings.Logging.Mode)
	assert.Equal(t, 3, settings.Numbering.FondDigits)
	assert.Equal(t, 2, settings.Numbering.FileDigits)
	assert.Equal(t, 5, settings.Numbering.ItemDigits)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidDigits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("numbering:\n  file_digits: 0\n"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "numbering.file_digits")
}
