package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/fondspod/fondspod/internal/config"
)

func setupTestDB(t *testing.T) *Context {
	t.Helper()
	root := t.TempDir()

	ctx, err := OpenLibrary(root)
	if err != nil {
		t.Fatalf("OpenLibrary returned error: %v", err)
	}

	t.Cleanup(func() {
		if err := CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

func TestDatabaseCreationAndMigration(t *testing.T) {
	root := t.TempDir()
	ctx, err := OpenLibrary(root)
	if err != nil {
		t.Fatalf("OpenLibrary returned error: %v", err)
	}
	defer func() { _ = CloseDatabase(ctx) }()

	dbPath := config.LibraryDatabasePath(root)
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file to exist at %s: %v", dbPath, err)
	}

	var version int
	var dirty bool
	if err := ctx.DB.QueryRow("SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty); err != nil {
		t.Fatalf("failed to read migration version: %v", err)
	}
	if version != 1 || dirty {
		t.Fatalf("expected clean migration version 1, got %d (dirty=%v)", version, dirty)
	}

	tables := []string{"fond_classifications", "schemas", "schema_items", "fonds", "fond_schemas", "series", "files", "items", "sequences"}
	for _, table := range tables {
		if !tableExists(t, ctx.DB, table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	assertCount(t, ctx.DB, "schemas", 1)
}

func TestReopenKeepsData(t *testing.T) {
	root := t.TempDir()
	ctx, err := OpenLibrary(root)
	if err != nil {
		t.Fatalf("OpenLibrary returned error: %v", err)
	}
	insertClassification(t, ctx.DB, "GA", "文化", nil)
	if err := CloseDatabase(ctx); err != nil {
		t.Fatalf("CloseDatabase error: %v", err)
	}

	reopened, err := OpenLibrary(root)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer func() { _ = CloseDatabase(reopened) }()

	assertCount(t, reopened.DB, "fond_classifications", 1)
	assertCount(t, reopened.DB, "schemas", 1)
}

func TestCreateDatabaseRequiresPath(t *testing.T) {
	if _, err := CreateDatabase(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := OpenLibrary(""); err == nil {
		t.Fatalf("expected error for empty library root")
	}
}

func TestMemoryDatabasesAreIsolated(t *testing.T) {
	first, err := CreateDatabase(":memory:")
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	defer func() { _ = CloseDatabase(first) }()
	second, err := CreateDatabase(":memory:")
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	defer func() { _ = CloseDatabase(second) }()

	insertClassification(t, first.DB, "GA", "文化", nil)

	assertCount(t, first.DB, "fond_classifications", 1)
	assertCount(t, second.DB, "fond_classifications", 0)
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := ctx.DB.Exec(`INSERT INTO fonds(fond_no, fond_classification_code, name, created_at) VALUES('X01', 'X', 'x', '2024')`)
	if err == nil {
		t.Fatalf("expected foreign key violation")
	}
}

func TestClearDatabaseRemovesAllRows(t *testing.T) {
	ctx := setupTestDB(t)

	insertClassification(t, ctx.DB, "GA", "文化", nil)
	parent := "GA"
	insertClassification(t, ctx.DB, "GA1", "图书", &parent)
	mustExec(t, ctx.DB, `INSERT INTO schemas(schema_no, name) VALUES('DEPT', '部门')`)
	mustExec(t, ctx.DB, `INSERT INTO schema_items(schema_no, item_no, item_name) VALUES('DEPT', '01', '人事')`)
	mustExec(t, ctx.DB, `INSERT INTO fonds(fond_no, fond_classification_code, name, created_at) VALUES('GA01', 'GA', '档案', '2022-03-01')`)
	mustExec(t, ctx.DB, `INSERT INTO fond_schemas(fond_no, schema_no, order_no) VALUES('GA01', 'DEPT', 0)`)
	mustExec(t, ctx.DB, `INSERT INTO series(series_no, fond_no, name, created_at) VALUES('GA01-01', 'GA01', '人事', CURRENT_TIMESTAMP)`)
	mustExec(t, ctx.DB, `INSERT INTO files(file_no, series_no, name) VALUES('GA01-01-01', 'GA01-01', 'f')`)
	mustExec(t, ctx.DB, `INSERT INTO items(item_no, file_no, name) VALUES('I001', 'GA01-01-01', 'i')`)
	mustExec(t, ctx.DB, `INSERT INTO sequences(prefix, next_value, digits) VALUES('GA', 2, 2)`)

	if err := ClearDatabase(ctx); err != nil {
		t.Fatalf("ClearDatabase returned error: %v", err)
	}

	for _, table := range []string{"items", "files", "series", "fond_schemas", "fonds", "schema_items", "fond_classifications", "sequences"} {
		assertCount(t, ctx.DB, table, 0)
	}
	assertCount(t, ctx.DB, "schemas", 1)
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("tableExists query failed for %s: %v", table, err)
	}
	return true
}

func insertClassification(t *testing.T, db *sql.DB, code, name string, parent *string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO fond_classifications(code, name, parent_code) VALUES(?, ?, ?)`, code, name, parent); err != nil {
		t.Fatalf("insertClassification failed: %v", err)
	}
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q failed: %v", query, err)
	}
}

func assertCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count query failed for %s: %v", table, err)
	}
	if count != expected {
		t.Fatalf("expected %s to have %d rows, got %d", table, expected, count)
	}
}

func TestLibraryDatabaseLivesInRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "archive")
	ctx, err := OpenLibrary(root)
	if err != nil {
		t.Fatalf("OpenLibrary returned error: %v", err)
	}
	defer func() { _ = CloseDatabase(ctx) }()

	if _, err := os.Stat(filepath.Join(root, ".fondspod.db")); err != nil {
		t.Fatalf("expected database in library root: %v", err)
	}
}
