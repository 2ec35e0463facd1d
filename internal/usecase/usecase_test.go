package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/library"
	"github.com/fondspod/fondspod/internal/services"
)

func testOptions() []services.Option {
	return []services.Option{
		services.WithAuditor(database.Auditor{User: "tester", Machine: "bench"}),
		services.WithClock(func() time.Time { return time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC) }),
	}
}

func setupLibrary(t *testing.T) (string, *database.Context) {
	t.Helper()
	root := t.TempDir()
	dbCtx, err := database.OpenLibrary(root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDatabase(dbCtx) })
	return root, dbCtx
}

// seedYearFond creates GA01 with only Year assigned, giving series GA01-2023 and GA01-2024.
func seedYearFond(t *testing.T, dbCtx *database.Context) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, services.NewClassificationService(dbCtx, testOptions()...).CreateTop(ctx, "GA", "文化"))

	created, err := NewFond(dbCtx, testOptions()...).Create(ctx, services.CreateFondInput{
		ClassificationCode: "GA",
		Name:               "文书档案",
		CreatedAt:          "2023-01-01",
		SchemaNos:          []string{services.YearSchema},
	})
	require.NoError(t, err)
	require.Equal(t, "GA01", created.FondNo)
	require.Equal(t, 2, created.SeriesCount)
}

func TestFondCreateRequiresActiveClassification(t *testing.T) {
	_, dbCtx := setupLibrary(t)
	ctx := context.Background()
	classifications := services.NewClassificationService(dbCtx, testOptions()...)
	fond := NewFond(dbCtx, testOptions()...)

	_, err := fond.Create(ctx, services.CreateFondInput{ClassificationCode: "ZZ", Name: "x"})
	require.ErrorIs(t, err, database.ErrNotFound)

	require.NoError(t, classifications.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, classifications.Deactivate(ctx, "GA"))
	_, err = fond.Create(ctx, services.CreateFondInput{ClassificationCode: "GA", Name: "x"})
	require.ErrorIs(t, err, database.ErrProtected)

	fonds, err := services.NewFondService(dbCtx).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, fonds)

	require.NoError(t, classifications.Activate(ctx, "GA"))
	created, err := fond.Create(ctx, services.CreateFondInput{ClassificationCode: "GA", Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "GA01", created.FondNo)
}

func TestArchiveFileFolderLifecycle(t *testing.T) {
	root, dbCtx := setupLibrary(t)
	seedYearFond(t, dbCtx)
	ctx := context.Background()
	archive := NewArchive(dbCtx, root, nil, testOptions()...)

	file, dir, err := archive.CreateFile(ctx, "GA01-2023", "会议纪要")
	require.NoError(t, err)
	assert.Equal(t, "GA01-2023-01", file.FileNo)
	assert.Equal(t, filepath.Join(root, "GA01", "GA01-2023-01"), dir)
	assert.DirExists(t, dir)

	_, _, err = archive.CreateFile(ctx, "GA01-1999", "x")
	require.ErrorIs(t, err, database.ErrNotFound)

	deleted, err := archive.DeleteFile(ctx, file.FileNo)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoDirExists(t, dir)
}

func TestArchiveAddItemCopiesAttachment(t *testing.T) {
	root, dbCtx := setupLibrary(t)
	seedYearFond(t, dbCtx)
	ctx := context.Background()
	archive := NewArchive(dbCtx, root, nil, testOptions()...)

	file, dir, err := archive.CreateFile(ctx, "GA01-2024", "预算")
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "scan.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0o600))

	result, err := archive.AddItem(ctx, AddItemInput{FileNo: file.FileNo, Name: "扫描件", Source: src, Copy: true})
	require.NoError(t, err)
	assert.Equal(t, "I001", result.Item.ItemNo)
	assert.Equal(t, filepath.Join(dir, "scan.txt"), result.Item.Path)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", result.Hash)
	assert.FileExists(t, result.Item.Path)

	linked, err := archive.AddItem(ctx, AddItemInput{FileNo: file.FileNo, Name: "原件", Source: src})
	require.NoError(t, err)
	assert.Equal(t, "I002", linked.Item.ItemNo)
	assert.Equal(t, src, linked.Item.Path)
	assert.Empty(t, linked.Hash)

	deleted, err := archive.DeleteFile(ctx, file.FileNo)
	require.NoError(t, err)
	assert.False(t, deleted, "file with items stays")

	for _, itemNo := range []string{"I001", "I002"} {
		ok, err := archive.DeleteItem(ctx, itemNo)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	deleted, err = archive.DeleteFile(ctx, file.FileNo)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.DirExists(t, dir, "folder holding attachments is kept")
}

func TestArchiveAddItemCleansUpOnFailure(t *testing.T) {
	root, dbCtx := setupLibrary(t)
	seedYearFond(t, dbCtx)
	ctx := context.Background()
	archive := NewArchive(dbCtx, root, nil, testOptions()...)

	src := filepath.Join(t.TempDir(), "scan.txt")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o600))

	_, err := archive.AddItem(ctx, AddItemInput{FileNo: "GA01-2024-09", Name: "x", Source: src, Copy: true})
	require.ErrorIs(t, err, database.ErrNotFound)
	assert.NoDirExists(t, filepath.Join(root, "GA01", "GA01-2024-09"))

	file, dir, err := archive.CreateFile(ctx, "GA01-2024", "预算")
	require.NoError(t, err)
	_, err = archive.AddItem(ctx, AddItemInput{FileNo: file.FileNo, Source: src, Copy: true})
	require.ErrorIs(t, err, database.ErrMalformedInput)
	assert.NoFileExists(t, filepath.Join(dir, "scan.txt"))

	_, err = archive.AddItem(ctx, AddItemInput{FileNo: "GA01-2024-09", Name: "x", Copy: true})
	require.ErrorIs(t, err, database.ErrMalformedInput)

	_, err = archive.AddItem(ctx, AddItemInput{FileNo: "GA01-2024-09", Name: "x", Source: filepath.Join(root, "missing"), Copy: true})
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestArchiveAddItemStaysInsideRoot(t *testing.T) {
	root, dbCtx := setupLibrary(t)
	seedYearFond(t, dbCtx)
	ctx := context.Background()
	archive := NewArchive(dbCtx, root, nil, testOptions()...)

	src := filepath.Join(t.TempDir(), "scan.txt")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o600))

	escape := filepath.Join("..", "..", "outside")
	_, err := archive.AddItem(ctx, AddItemInput{FileNo: escape, Name: "x", Source: src, Copy: true})
	require.ErrorIs(t, err, database.ErrNotFound)
	assert.NoDirExists(t, filepath.Join(root, escape))
}

func TestRegenerateLibraries(t *testing.T) {
	registry, err := library.Load(filepath.Join(t.TempDir(), "libraries.yaml"))
	require.NoError(t, err)

	var libs []library.Library
	for _, name := range []string{"one", "two", "three"} {
		lib, err := registry.Add(name, filepath.Join(t.TempDir(), name))
		require.NoError(t, err)
		libs = append(libs, *lib)
	}

	ctx := context.Background()
	seed, err := library.Open(ctx, libs[0])
	require.NoError(t, err)
	seedYearFond(t, seed)
	_, err = seed.DB.ExecContext(ctx, `DELETE FROM series WHERE series_no = 'GA01-2024'`)
	require.NoError(t, err)
	require.NoError(t, database.CloseDatabase(seed))

	results, err := RegenerateLibraries(ctx, libs, nil, testOptions()...)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "one", results[0].Library.Name)
	assert.Equal(t, 1, results[0].Inserted)
	assert.Zero(t, results[1].Inserted)
	assert.Zero(t, results[2].Inserted)

	results, err = RegenerateLibraries(ctx, libs, nil, testOptions()...)
	require.NoError(t, err)
	assert.Zero(t, results[0].Inserted, "second run is a no-op")
}

func TestRegenerateLibrariesStopsOnOpenFailure(t *testing.T) {
	boom := errors.New("boom")
	libs := []library.Library{{Name: "broken"}}
	failing := func(context.Context, library.Library) (*database.Context, error) { return nil, boom }

	_, err := RegenerateLibraries(context.Background(), libs, failing)
	require.ErrorIs(t, err, boom)
}
