package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fondspod/fondspod/internal/database"
	sqldb "github.com/fondspod/fondspod/internal/database/sqlc"
)

// ArchiveService manages the files filed under series and the items inside files.
type ArchiveService struct {
	store
}

// NewArchiveService creates a new ArchiveService.
func NewArchiveService(ctx *database.Context, opts ...Option) *ArchiveService {
	return &ArchiveService{store: newStore("archive", ctx, opts)}
}

// CreateFile files a new file under seriesNo, numbered seriesNo-NN.
func (s *ArchiveService) CreateFile(ctx context.Context, seriesNo, name string) (*database.FileRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("create file: name is required: %w", database.ErrMalformedInput)
	}

	var record database.FileRecord
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if _, err := q.FindSeries(txCtx, seriesNo); err != nil {
			return database.TranslateError(fmt.Sprintf("create file: series %q", seriesNo), err)
		}

		fileNo, err := nextNumber(txCtx, q, fileSequencePrefix+seriesNo, seriesNo+"-", s.digits.File)
		if err != nil {
			return err
		}

		err = q.InsertFile(txCtx, sqldb.InsertFileParams{
			FileNo:         fileNo,
			SeriesNo:       seriesNo,
			Name:           name,
			CreatedBy:      s.auditor.User,
			CreatedMachine: s.auditor.Machine,
		})
		if err != nil {
			return database.TranslateError(fmt.Sprintf("create file %q", fileNo), err)
		}

		row, err := q.FindFile(txCtx, fileNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("read file %q", fileNo), err)
		}
		record = database.FileRecordFromRow(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("file created", "file_no", record.FileNo, "series_no", seriesNo)
	return &record, nil
}

// GetFile returns one file.
func (s *ArchiveService) GetFile(ctx context.Context, fileNo string) (*database.FileRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	row, err := q.FindFile(ctx, fileNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("get file %q", fileNo), err)
	}
	record := database.FileRecordFromRow(row)
	return &record, nil
}

// ListFiles returns the files of a series in creation order.
func (s *ArchiveService) ListFiles(ctx context.Context, seriesNo string) ([]database.FileRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListFilesBySeries(ctx, seriesNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("list files of series %q", seriesNo), err)
	}

	result := make([]database.FileRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.FileRecordFromRow(row))
	}
	return result, nil
}

// DeleteFile removes a file that holds no items.
func (s *ArchiveService) DeleteFile(ctx context.Context, fileNo string) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		items, err := q.CountItemsByFile(txCtx, fileNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("count items of file %q", fileNo), err)
		}
		if items > 0 {
			s.log.Info("file not deleted: holds items", "file_no", fileNo, "items", items)
			return nil
		}

		affected, err := q.DeleteFile(txCtx, fileNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("delete file %q", fileNo), err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// CreateItem adds an item to a file, numbered I001, I002, ... across the library.
func (s *ArchiveService) CreateItem(ctx context.Context, fileNo, name, path string) (*database.ItemRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("create item: name is required: %w", database.ErrMalformedInput)
	}

	var itemNo string
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if _, err := q.FindFile(txCtx, fileNo); err != nil {
			return database.TranslateError(fmt.Sprintf("create item: file %q", fileNo), err)
		}

		var err error
		itemNo, err = nextNumber(txCtx, q, itemSequenceKey, ItemPrefix, s.digits.Item)
		if err != nil {
			return err
		}

		err = q.InsertItem(txCtx, sqldb.InsertItemParams{
			ItemNo:         itemNo,
			FileNo:         fileNo,
			Name:           name,
			Path:           database.NullString(path),
			CreatedBy:      s.auditor.User,
			CreatedMachine: s.auditor.Machine,
		})
		if err != nil {
			return database.TranslateError(fmt.Sprintf("create item %q", itemNo), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("item created", "item_no", itemNo, "file_no", fileNo)
	return &database.ItemRecord{
		ItemNo:         itemNo,
		FileNo:         fileNo,
		Name:           name,
		Path:           path,
		CreatedBy:      s.auditor.User,
		CreatedMachine: s.auditor.Machine,
		CreatedAt:      s.now(),
	}, nil
}

// ListItems returns the items of a file in creation order.
func (s *ArchiveService) ListItems(ctx context.Context, fileNo string) ([]database.ItemRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListItemsByFile(ctx, fileNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("list items of file %q", fileNo), err)
	}

	result := make([]database.ItemRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.ItemRecordFromRow(row))
	}
	return result, nil
}

// DeleteItem removes an item.
func (s *ArchiveService) DeleteItem(ctx context.Context, itemNo string) (bool, error) {
	q, err := s.queries()
	if err != nil {
		return false, err
	}

	affected, err := q.DeleteItem(ctx, itemNo)
	if err != nil {
		return false, database.TranslateError(fmt.Sprintf("delete item %q", itemNo), err)
	}
	return affected > 0, nil
}
