// Package config resolves fondspod's on-disk locations and loads user settings.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DatabaseFileName is the database file kept at the root of every archive library.
const DatabaseFileName = ".fondspod.db"

// GetConfigDir resolves the directory holding config.yaml and libraries.yaml.
// FONDSPOD_CONFIG_DIR wins, then the XDG config home, then ~/.config.
func GetConfigDir() string {
	if explicit := os.Getenv("FONDSPOD_CONFIG_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	configHome := xdg.ConfigHome
	if configHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "fondspod")
			}
		}
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Join(configHome, "fondspod")
}

// GetConfigPath returns the default settings file path.
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// GetLibrariesPath returns the archive-library registry path.
func GetLibrariesPath() string {
	return filepath.Join(GetConfigDir(), "libraries.yaml")
}

// LibraryDatabasePath returns the database file inside a library root folder.
func LibraryDatabasePath(root string) string {
	return filepath.Join(root, DatabaseFileName)
}
