package config

import (
	"path/filepath"
	"testing"
)

func TestGetConfigDirWithExplicitEnv(t *testing.T) {
	tmpDir := t.TempDir()
	customDir := filepath.Join(tmpDir, "custom")

	t.Setenv("FONDSPOD_CONFIG_DIR", customDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	got := GetConfigDir()
	if got != customDir {
		t.Fatalf("expected %q, got %q", customDir, got)
	}
}

func TestGetConfigDirFallsBackToXDG(t *testing.T) {
	tmpDir := t.TempDir()
	xdgDir := filepath.Join(tmpDir, "xdg")

	t.Setenv("FONDSPOD_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", xdgDir)

	got := GetConfigDir()
	want := filepath.Join(xdgDir, "fondspod")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestConfigAndLibraryPaths(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FONDSPOD_CONFIG_DIR", tmpDir)

	if got, want := GetConfigPath(), filepath.Join(tmpDir, "config.yaml"); got != want {
		t.Fatalf("GetConfigPath expected %q, got %q", want, got)
	}
	if got, want := GetLibrariesPath(), filepath.Join(tmpDir, "libraries.yaml"); got != want {
		t.Fatalf("GetLibrariesPath expected %q, got %q", want, got)
	}

	root := filepath.Join(tmpDir, "archive")
	if got, want := LibraryDatabasePath(root), filepath.Join(root, ".fondspod.db"); got != want {
		t.Fatalf("LibraryDatabasePath expected %q, got %q", want, got)
	}
}
