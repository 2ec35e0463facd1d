package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fondspod/fondspod/internal/database"
)

var testAuditor = database.Auditor{User: "tester", Machine: "bench"}

func setupServiceDB(t *testing.T) *database.Context {
	t.Helper()
	ctx, err := database.CreateDatabase(":memory:")
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}

	t.Cleanup(func() {
		if err := database.CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 9, 0, 0, 0, time.UTC)
	}
}

// fixture wires every service against one database with a fixed clock.
type fixture struct {
	db             *database.Context
	classification *ClassificationService
	schema         *SchemaService
	fond           *FondService
	sequence       *SequenceService
	archive        *ArchiveService
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	db := setupServiceDB(t)
	opts = append([]Option{WithAuditor(testAuditor), WithClock(fixedClock(2024))}, opts...)
	return fixture{
		db:             db,
		classification: NewClassificationService(db, opts...),
		schema:         NewSchemaService(db, opts...),
		fond:           NewFondService(db, opts...),
		sequence:       NewSequenceService(db, opts...),
		archive:        NewArchiveService(db, opts...),
	}
}

// seedDepartmentFond builds the GA01 fond with a two-item DEPT schema and
// Year assigned, without generating any series.
func seedDepartmentFond(t *testing.T, f fixture) string {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, f.schema.CreateSchema(ctx, "DEPT", "部门"))
	require.NoError(t, f.schema.AddSchemaItem(ctx, "DEPT", "01", "人事"))
	require.NoError(t, f.schema.AddSchemaItem(ctx, "DEPT", "02", "财务"))

	created, err := f.fond.Create(ctx, CreateFondInput{
		ClassificationCode: "GA",
		Name:               "文书档案",
		CreatedAt:          "2022-03-01",
	})
	require.NoError(t, err)
	require.Equal(t, "GA01", created.FondNo)
	require.Zero(t, created.SeriesCount)

	require.NoError(t, f.schema.AssignToFond(ctx, "GA01", "DEPT", 0))
	require.NoError(t, f.schema.AssignToFond(ctx, "GA01", YearSchema, 1))
	return created.FondNo
}
