package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fondspod/fondspod/internal/database"
	sqldb "github.com/fondspod/fondspod/internal/database/sqlc"
	"github.com/fondspod/fondspod/internal/series"
)

const fondDateLayout = "2006-01-02"

// FondService manages fonds and the series generated for them.
type FondService struct {
	store
}

// NewFondService creates a new FondService.
func NewFondService(ctx *database.Context, opts ...Option) *FondService {
	return &FondService{store: newStore("fond", ctx, opts)}
}

// CreateFondInput describes a new fond. SchemaNos are assigned in order;
// CreatedAt defaults to today.
type CreateFondInput struct {
	ClassificationCode string
	Name               string
	CreatedAt          string
	SchemaNos          []string
}

// CreateFondResult reports the minted fond number and the series generated.
type CreateFondResult struct {
	FondNo      string
	SeriesCount int
}

// Create mints a fond number from the classification code, stores the fond
// with its schema assignments and generates its series, all in one transaction.
func (s *FondService) Create(ctx context.Context, input CreateFondInput) (*CreateFondResult, error) {
	code := strings.TrimSpace(input.ClassificationCode)
	if code == "" || strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("create fond: classification code and name are required: %w", database.ErrMalformedInput)
	}
	createdAt := strings.TrimSpace(input.CreatedAt)
	if createdAt == "" {
		createdAt = s.now().Format(fondDateLayout)
	}

	var result CreateFondResult
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if _, err := q.FindClassificationByCode(txCtx, code); err != nil {
			return database.TranslateError(fmt.Sprintf("create fond: classification %q", code), err)
		}

		fondNo, err := s.nextFondNo(txCtx, q, code)
		if err != nil {
			return err
		}

		err = q.InsertFond(txCtx, sqldb.InsertFondParams{
			FondNo:                 fondNo,
			FondClassificationCode: code,
			Name:                   input.Name,
			CreatedAt:              createdAt,
			CreatedBy:              s.auditor.User,
			CreatedMachine:         s.auditor.Machine,
		})
		if err != nil {
			return database.TranslateError(fmt.Sprintf("create fond %q", fondNo), err)
		}

		for i, schemaNo := range input.SchemaNos {
			err := q.InsertFondSchema(txCtx, sqldb.InsertFondSchemaParams{
				FondNo:   fondNo,
				SchemaNo: schemaNo,
				OrderNo:  int64(i),
			})
			if err != nil {
				return database.TranslateError(fmt.Sprintf("assign schema %q to fond %q", schemaNo, fondNo), err)
			}
		}

		inserted, err := s.generate(txCtx, q, fondNo, createdAt)
		if err != nil {
			return err
		}

		result = CreateFondResult{FondNo: fondNo, SeriesCount: inserted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("fond created", "fond_no", result.FondNo, "series", result.SeriesCount)
	return &result, nil
}

// nextFondNo takes numbers from the classification's counter until one is
// free. Codes that extend another code, such as GA1 under GA, mint numbers in
// the same space.
func (s *FondService) nextFondNo(ctx context.Context, q *sqldb.Queries, code string) (string, error) {
	for {
		fondNo, err := nextNumber(ctx, q, code, code, s.digits.Fond)
		if err != nil {
			return "", err
		}
		_, err = q.FindFond(ctx, fondNo)
		if isNoRows(err) {
			return fondNo, nil
		}
		if err != nil {
			return "", database.TranslateError(fmt.Sprintf("create fond: check %q", fondNo), err)
		}
		s.log.Debug("fond number taken, skipping", "fond_no", fondNo, "classification", code)
	}
}

// GenerateSeries inserts every planned series the fond does not have yet and
// returns how many were inserted. The whole run is one transaction.
func (s *FondService) GenerateSeries(ctx context.Context, fondNo, createdAt string) (int, error) {
	var inserted int
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		var err error
		inserted, err = s.generate(txCtx, q, fondNo, createdAt)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// RegenerateSeries runs GenerateSeries with the fond's stored creation date.
func (s *FondService) RegenerateSeries(ctx context.Context, fondNo string) (int, error) {
	var inserted int
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		fond, err := q.FindFond(txCtx, fondNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("regenerate series: fond %q", fondNo), err)
		}
		inserted, err = s.generate(txCtx, q, fond.FondNo, fond.CreatedAt)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// RegenerateAll regenerates series for every fond and returns the total inserted.
func (s *FondService) RegenerateAll(ctx context.Context) (int, error) {
	fonds, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, fond := range fonds {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		inserted, err := s.RegenerateSeries(ctx, fond.FondNo)
		if err != nil {
			return total, err
		}
		total += inserted
	}
	return total, nil
}

// PlanSeries lists the series the fond should hold without writing anything.
func (s *FondService) PlanSeries(ctx context.Context, fondNo string) ([]series.Candidate, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	fond, err := q.FindFond(ctx, fondNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("plan series: fond %q", fondNo), err)
	}

	dims, err := s.dimensions(ctx, q, fondNo)
	if err != nil {
		return nil, err
	}
	return series.Plan(fondNo, fond.CreatedAt, s.now(), dims), nil
}

func (s *FondService) generate(ctx context.Context, q *sqldb.Queries, fondNo, createdAt string) (int, error) {
	dims, err := s.dimensions(ctx, q, fondNo)
	if err != nil {
		return 0, err
	}
	if len(dims) == 0 {
		return 0, nil
	}

	now := s.now()
	plan := series.Plan(fondNo, createdAt, now, dims)

	inserted := 0
	for i, candidate := range plan {
		exists, err := q.SeriesExists(ctx, candidate.SeriesNo)
		if err != nil {
			return 0, database.TranslateError(fmt.Sprintf("check series %q", candidate.SeriesNo), err)
		}
		if !exists {
			err = q.InsertSeries(ctx, sqldb.InsertSeriesParams{
				SeriesNo:  candidate.SeriesNo,
				FondNo:    fondNo,
				Name:      candidate.Name,
				CreatedAt: now,
			})
			if err != nil {
				return 0, database.TranslateError(fmt.Sprintf("insert series %q", candidate.SeriesNo), err)
			}
			inserted++
		}
		if s.progress != nil {
			s.progress(i+1, len(plan))
		}
	}

	s.log.Debug("series generated", "fond_no", fondNo, "planned", len(plan), "inserted", inserted)
	return inserted, nil
}

// dimensions loads the fond's assigned schemas with their items, in order.
// Year dimensions are left empty for series.Plan to expand.
func (s *FondService) dimensions(ctx context.Context, q *sqldb.Queries, fondNo string) ([]series.Dimension, error) {
	assignments, err := q.ListFondSchemas(ctx, fondNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("load schemas of fond %q", fondNo), err)
	}

	dims := make([]series.Dimension, 0, len(assignments))
	for _, assignment := range assignments {
		dim := series.Dimension{SchemaNo: assignment.SchemaNo}
		if !dim.IsYear() {
			rows, err := q.ListSchemaItems(ctx, assignment.SchemaNo)
			if err != nil {
				return nil, database.TranslateError(fmt.Sprintf("load items of schema %q", assignment.SchemaNo), err)
			}
			for _, row := range rows {
				dim.Items = append(dim.Items, series.Item{No: row.ItemNo, Name: row.ItemName})
			}
		}
		dims = append(dims, dim)
	}
	return dims, nil
}

// Get returns the fond or ErrNotFound.
func (s *FondService) Get(ctx context.Context, fondNo string) (*database.FondRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	row, err := q.FindFond(ctx, fondNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("get fond %q", fondNo), err)
	}
	record := database.FondRecordFromRow(row)
	return &record, nil
}

// List returns every fond in creation order.
func (s *FondService) List(ctx context.Context) ([]database.FondRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListFonds(ctx)
	if err != nil {
		return nil, database.TranslateError("list fonds", err)
	}
	return fondRecords(rows), nil
}

// ListByClassification returns the fonds filed under a classification code.
func (s *FondService) ListByClassification(ctx context.Context, code string) ([]database.FondRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListFondsByClassification(ctx, code)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("list fonds of %q", code), err)
	}
	return fondRecords(rows), nil
}

func fondRecords(rows []sqldb.Fond) []database.FondRecord {
	result := make([]database.FondRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.FondRecordFromRow(row))
	}
	return result
}

// Delete removes a fond with its schema assignments and series. It reports
// false when the fond is absent or any of its series holds files.
func (s *FondService) Delete(ctx context.Context, fondNo string) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if _, err := q.FindFond(txCtx, fondNo); err != nil {
			if isNoRows(err) {
				return nil
			}
			return database.TranslateError(fmt.Sprintf("delete fond %q", fondNo), err)
		}

		files, err := q.CountFilesByFond(txCtx, fondNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("count files of fond %q", fondNo), err)
		}
		if files > 0 {
			s.log.Info("fond not deleted: series hold files", "fond_no", fondNo, "files", files)
			return nil
		}

		if _, err := q.DeleteSeriesByFond(txCtx, fondNo); err != nil {
			return database.TranslateError(fmt.Sprintf("delete series of fond %q", fondNo), err)
		}
		if _, err := q.DeleteFondSchemasByFond(txCtx, fondNo); err != nil {
			return database.TranslateError(fmt.Sprintf("delete schemas of fond %q", fondNo), err)
		}
		affected, err := q.DeleteFond(txCtx, fondNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("delete fond %q", fondNo), err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Debug("fond deleted", "fond_no", fondNo)
	}
	return deleted, nil
}

// ListSeries returns the fond's series in creation order.
func (s *FondService) ListSeries(ctx context.Context, fondNo string) ([]database.SeriesRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListSeriesByFond(ctx, fondNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("list series of fond %q", fondNo), err)
	}

	result := make([]database.SeriesRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.SeriesRecordFromRow(row))
	}
	return result, nil
}

// GetSeries returns one series or ErrNotFound.
func (s *FondService) GetSeries(ctx context.Context, seriesNo string) (*database.SeriesRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	row, err := q.FindSeries(ctx, seriesNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("get series %q", seriesNo), err)
	}
	record := database.SeriesRecordFromRow(row)
	return &record, nil
}

// DeleteSeries removes a series that holds no files.
func (s *FondService) DeleteSeries(ctx context.Context, seriesNo string) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		files, err := q.CountFilesBySeries(txCtx, seriesNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("count files of series %q", seriesNo), err)
		}
		if files > 0 {
			s.log.Info("series not deleted: holds files", "series_no", seriesNo, "files", files)
			return nil
		}

		affected, err := q.DeleteSeries(txCtx, seriesNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("delete series %q", seriesNo), err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
