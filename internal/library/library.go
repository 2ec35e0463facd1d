// Package library keeps the registry of archive libraries. Each library is a
// folder holding its own database; the registry is a YAML file in the config
// directory.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fondspod/fondspod/internal/config"
	"github.com/fondspod/fondspod/internal/database"
)

// Library is one registered archive library.
type Library struct {
	ID         string     `yaml:"id" json:"id"`
	Name       string     `yaml:"name" json:"name"`
	Path       string     `yaml:"path" json:"path"`
	CreatedAt  time.Time  `yaml:"created_at" json:"created_at"`
	LastOpened *time.Time `yaml:"last_opened,omitempty" json:"last_opened,omitempty"`
}

// DatabasePath returns the library's database file.
func (l Library) DatabasePath() string {
	return config.LibraryDatabasePath(l.Path)
}

// Registry is the set of known libraries backed by a YAML file.
type Registry struct {
	path      string
	Libraries []Library `yaml:"libraries"`
	now       func() time.Time
}

// Load reads the registry at path. A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path, now: time.Now}

	//nolint:gosec // G304: registry path comes from the config directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("read library registry: %w", err)
	}

	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse library registry %s: %w", path, err)
	}
	return r, nil
}

// Save writes the registry back to its file.
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode library registry: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("write library registry: %w", err)
	}
	return nil
}

// Add registers a library folder, creating it and initializing its database.
// Registering the same folder twice fails with ErrDuplicateKey.
func (r *Registry) Add(name, root string) (*Library, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("add library: name and path are required: %w", database.ErrMalformedInput)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("add library: resolve %s: %w", root, err)
	}
	for _, lib := range r.Libraries {
		if lib.Path == abs {
			return nil, fmt.Errorf("add library %s: %w", abs, database.ErrDuplicateKey)
		}
	}

	dbCtx, err := database.OpenLibrary(abs)
	if err != nil {
		return nil, fmt.Errorf("add library %s: %w", abs, err)
	}
	if err := database.CloseDatabase(dbCtx); err != nil {
		return nil, fmt.Errorf("add library %s: %w", abs, err)
	}

	lib := Library{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      abs,
		CreatedAt: r.now().UTC(),
	}
	r.Libraries = append(r.Libraries, lib)
	if err := r.Save(); err != nil {
		return nil, err
	}
	return &lib, nil
}

// Remove unregisters a library. Its folder and database stay on disk.
func (r *Registry) Remove(ref string) (bool, error) {
	idx := r.index(ref)
	if idx < 0 {
		return false, nil
	}
	r.Libraries = append(r.Libraries[:idx], r.Libraries[idx+1:]...)
	return true, r.Save()
}

// Rename changes a library's display name.
func (r *Registry) Rename(ref, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("rename library: name is empty: %w", database.ErrMalformedInput)
	}
	idx := r.index(ref)
	if idx < 0 {
		return fmt.Errorf("rename library %q: %w", ref, database.ErrNotFound)
	}
	r.Libraries[idx].Name = name
	return r.Save()
}

// Find resolves a library by id, name or folder path.
func (r *Registry) Find(ref string) (*Library, error) {
	idx := r.index(ref)
	if idx < 0 {
		return nil, fmt.Errorf("library %q: %w", ref, database.ErrNotFound)
	}
	lib := r.Libraries[idx]
	return &lib, nil
}

// List returns the libraries in registration order.
func (r *Registry) List() []Library {
	out := make([]Library, len(r.Libraries))
	copy(out, r.Libraries)
	return out
}

// SetLastOpened records when a library was last used.
func (r *Registry) SetLastOpened(ref string, at time.Time) error {
	idx := r.index(ref)
	if idx < 0 {
		return fmt.Errorf("library %q: %w", ref, database.ErrNotFound)
	}
	at = at.UTC()
	r.Libraries[idx].LastOpened = &at
	return r.Save()
}

// Default picks the library to work on: preferred when set, otherwise the
// most recently opened, otherwise the first registered.
func (r *Registry) Default(preferred string) (*Library, error) {
	if preferred != "" {
		return r.Find(preferred)
	}
	if len(r.Libraries) == 0 {
		return nil, fmt.Errorf("no archive library registered: %w", database.ErrNotFound)
	}

	libs := r.List()
	sort.SliceStable(libs, func(i, j int) bool {
		a, b := libs[i].LastOpened, libs[j].LastOpened
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return &libs[0], nil
}

// Open opens the library's database.
func Open(ctx context.Context, lib Library) (*database.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return database.OpenLibrary(lib.Path)
}

func (r *Registry) index(ref string) int {
	if ref == "" {
		return -1
	}
	if _, err := uuid.Parse(ref); err == nil {
		for i, lib := range r.Libraries {
			if lib.ID == ref {
				return i
			}
		}
	}
	for i, lib := range r.Libraries {
		if lib.Name == ref {
			return i
		}
	}
	if abs, err := filepath.Abs(ref); err == nil {
		for i, lib := range r.Libraries {
			if lib.Path == abs {
				return i
			}
		}
	}
	return -1
}
