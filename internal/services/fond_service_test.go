package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fondspod/fondspod/internal/database"
)

func seriesNos(records []database.SeriesRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.SeriesNo)
	}
	return out
}

func TestGenerateSeriesDepartmentByYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fondNo := seedDepartmentFond(t, f)

	inserted, err := f.fond.GenerateSeries(ctx, fondNo, "2022-03-01")
	require.NoError(t, err)
	assert.Equal(t, 6, inserted)

	stored, err := f.fond.ListSeries(ctx, fondNo)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"GA01-01-2022", "GA01-01-2023", "GA01-01-2024",
		"GA01-02-2022", "GA01-02-2023", "GA01-02-2024",
	}, seriesNos(stored))
	assert.Equal(t, "人事-2022", stored[0].Name)
	assert.Equal(t, "财务-2024", stored[5].Name)
	assert.Equal(t, 2024, stored[0].CreatedAt.Year())
}

func TestGenerateSeriesIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fondNo := seedDepartmentFond(t, f)

	first, err := f.fond.GenerateSeries(ctx, fondNo, "2022-03-01")
	require.NoError(t, err)
	require.Equal(t, 6, first)
	before, err := f.fond.ListSeries(ctx, fondNo)
	require.NoError(t, err)

	second, err := f.fond.GenerateSeries(ctx, fondNo, "2022-03-01")
	require.NoError(t, err)
	assert.Zero(t, second)

	after, err := f.fond.ListSeries(ctx, fondNo)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGenerateSeriesCardinality(t *testing.T) {
	shapes := [][]int{{1}, {3}, {2, 2}, {3, 1, 2}, {4, 0, 2}}
	for _, shape := range shapes {
		t.Run(fmt.Sprint(shape), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))

			var schemaNos []string
			want := 1
			for i, n := range shape {
				schemaNo := fmt.Sprintf("S%d", i)
				require.NoError(t, f.schema.CreateSchema(ctx, schemaNo, schemaNo))
				for j := 0; j < n; j++ {
					require.NoError(t, f.schema.AddSchemaItem(ctx, schemaNo, fmt.Sprintf("%02d", j+1), fmt.Sprintf("item%d", j+1)))
				}
				schemaNos = append(schemaNos, schemaNo)
				if n > 0 {
					want *= n
				}
			}

			created, err := f.fond.Create(ctx, CreateFondInput{
				ClassificationCode: "GA",
				Name:               "fond",
				CreatedAt:          "2024-01-01",
				SchemaNos:          schemaNos,
			})
			require.NoError(t, err)
			assert.Equal(t, want, created.SeriesCount)

			count, err := f.fond.ListSeries(ctx, created.FondNo)
			require.NoError(t, err)
			assert.Len(t, count, want)
		})
	}
}

func TestGenerateSeriesYearExpansion(t *testing.T) {
	for _, y0 := range []int{2024, 2020, 2001} {
		t.Run(fmt.Sprint(y0), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))

			created, err := f.fond.Create(ctx, CreateFondInput{
				ClassificationCode: "GA",
				Name:               "fond",
				CreatedAt:          fmt.Sprintf("%d-05-01", y0),
				SchemaNos:          []string{YearSchema},
			})
			require.NoError(t, err)
			assert.Equal(t, 2024-y0+1, created.SeriesCount)

			stored, err := f.fond.ListSeries(ctx, created.FondNo)
			require.NoError(t, err)
			for i, s := range stored {
				label := fmt.Sprint(y0 + i)
				assert.Equal(t, "GA01-"+label, s.SeriesNo)
				assert.Equal(t, label, s.Name)
			}
		})
	}
}

func TestGenerateSeriesPicksUpNewYearsAndItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fondNo := seedDepartmentFond(t, f)

	_, err := f.fond.GenerateSeries(ctx, fondNo, "2022-03-01")
	require.NoError(t, err)

	later := NewFondService(f.db, WithClock(fixedClock(2025)))
	inserted, err := later.RegenerateSeries(ctx, fondNo)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted, "one new year for each department")

	require.NoError(t, f.schema.AddSchemaItem(ctx, "DEPT", "03", "后勤"))
	inserted, err = later.RegenerateSeries(ctx, fondNo)
	require.NoError(t, err)
	assert.Equal(t, 4, inserted, "2022..2025 for the new department")
}

func TestGenerateSeriesWithoutSchemas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))

	created, err := f.fond.Create(ctx, CreateFondInput{ClassificationCode: "GA", Name: "fond", CreatedAt: "2020"})
	require.NoError(t, err)
	assert.Zero(t, created.SeriesCount)

	inserted, err := f.fond.GenerateSeries(ctx, created.FondNo, "2020")
	require.NoError(t, err)
	assert.Zero(t, inserted)

	inserted, err = f.fond.GenerateSeries(ctx, "NOPE", "2020")
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestGenerateSeriesReportsProgress(t *testing.T) {
	var calls [][2]int
	f := newFixture(t, WithProgress(func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}))
	ctx := context.Background()
	fondNo := seedDepartmentFond(t, f)

	_, err := f.fond.GenerateSeries(ctx, fondNo, "2022-03-01")
	require.NoError(t, err)
	require.Len(t, calls, 6)
	assert.Equal(t, [2]int{6, 6}, calls[5])
}

func TestPlanSeriesDoesNotWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fondNo := seedDepartmentFond(t, f)

	plan, err := f.fond.PlanSeries(ctx, fondNo)
	require.NoError(t, err)
	assert.Len(t, plan, 6)

	stored, err := f.fond.ListSeries(ctx, fondNo)
	require.NoError(t, err)
	assert.Empty(t, stored)

	_, err = f.fond.PlanSeries(ctx, "NOPE")
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestCreateFondMintsNumbersPerClassification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, f.classification.CreateTop(ctx, "GB", "科技"))

	var got []string
	for _, code := range []string{"GA", "GA", "GB", "GA"} {
		created, err := f.fond.Create(ctx, CreateFondInput{ClassificationCode: code, Name: "fond"})
		require.NoError(t, err)
		got = append(got, created.FondNo)
	}
	assert.Equal(t, []string{"GA01", "GA02", "GB01", "GA03"}, got)

	fond, err := f.fond.Get(ctx, "GA02")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", fond.CreatedAt, "defaults to today")
	assert.Equal(t, "GA", fond.ClassificationCode)
	assert.Equal(t, "tester", fond.CreatedBy)

	byClass, err := f.fond.ListByClassification(ctx, "GA")
	require.NoError(t, err)
	assert.Len(t, byClass, 3)

	all, err := f.fond.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCreateFondIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))

	_, err := f.fond.Create(ctx, CreateFondInput{
		ClassificationCode: "GA",
		Name:               "fond",
		SchemaNos:          []string{YearSchema, "MISSING"},
	})
	require.ErrorIs(t, err, database.ErrNotFound)

	all, err := f.fond.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	next, err := f.sequence.Peek(ctx, "GA")
	require.NoError(t, err)
	assert.EqualValues(t, 1, next, "failed create does not consume a number")

	_, err = f.fond.Create(ctx, CreateFondInput{ClassificationCode: "NOPE", Name: "fond"})
	require.ErrorIs(t, err, database.ErrNotFound)
	_, err = f.fond.Create(ctx, CreateFondInput{ClassificationCode: "GA"})
	require.ErrorIs(t, err, database.ErrMalformedInput)
}

func TestCreateFondSkipsNumbersTakenByLongerCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, f.classification.CreateChild(ctx, "GA", "GA1", "图书"))

	first, err := f.fond.Create(ctx, CreateFondInput{ClassificationCode: "GA1", Name: "child fond"})
	require.NoError(t, err)
	require.Equal(t, "GA101", first.FondNo)

	for range 100 {
		_, err := f.sequence.NextNumber(ctx, "GA", FondDigits)
		require.NoError(t, err)
	}

	for range 2 {
		created, err := f.fond.Create(ctx, CreateFondInput{ClassificationCode: "GA", Name: "fond"})
		require.NoError(t, err)
		assert.NotEqual(t, "GA101", created.FondNo)
	}

	byClass, err := f.fond.ListByClassification(ctx, "GA")
	require.NoError(t, err)
	var nos []string
	for _, fond := range byClass {
		nos = append(nos, fond.FondNo)
	}
	assert.ElementsMatch(t, []string{"GA102", "GA103"}, nos)
}

func TestCreateFondHonoursDigits(t *testing.T) {
	f := newFixture(t, WithDigits(Digits{Fond: 4}))
	ctx := context.Background()
	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))

	created, err := f.fond.Create(ctx, CreateFondInput{ClassificationCode: "GA", Name: "fond"})
	require.NoError(t, err)
	assert.Equal(t, "GA0001", created.FondNo)
}

func TestDeleteFondGuardsFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fondNo := seedDepartmentFond(t, f)
	_, err := f.fond.GenerateSeries(ctx, fondNo, "2022-03-01")
	require.NoError(t, err)

	file, err := f.archive.CreateFile(ctx, "GA01-01-2023", "会议纪要")
	require.NoError(t, err)

	deleted, err := f.fond.Delete(ctx, fondNo)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.fond.DeleteSeries(ctx, "GA01-01-2023")
	require.NoError(t, err)
	assert.False(t, deleted)

	removed, err := f.archive.DeleteFile(ctx, file.FileNo)
	require.NoError(t, err)
	require.True(t, removed)

	deleted, err = f.fond.DeleteSeries(ctx, "GA01-01-2023")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.fond.Delete(ctx, fondNo)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.fond.Get(ctx, fondNo)
	require.ErrorIs(t, err, database.ErrNotFound)
	assigned, err := f.schema.ListForFond(ctx, fondNo)
	require.NoError(t, err)
	assert.Empty(t, assigned)

	deleted, err = f.fond.Delete(ctx, fondNo)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.classification.Delete(ctx, "GA")
	require.NoError(t, err)
	assert.True(t, deleted, "classification is free once the fond is gone")
}

func TestRegenerateAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))

	for _, createdAt := range []string{"2023", "2024"} {
		_, err := f.fond.Create(ctx, CreateFondInput{
			ClassificationCode: "GA",
			Name:               "fond",
			CreatedAt:          createdAt,
			SchemaNos:          []string{YearSchema},
		})
		require.NoError(t, err)
	}

	later := NewFondService(f.db, WithClock(fixedClock(2026)))
	total, err := later.RegenerateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	_, err = later.RegenerateSeries(ctx, "NOPE")
	require.ErrorIs(t, err, database.ErrNotFound)
}
