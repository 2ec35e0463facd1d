package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fondspod/fondspod/internal/database"
	sqldb "github.com/fondspod/fondspod/internal/database/sqlc"
)

// ClassificationService manages the two-level fond classification tree.
type ClassificationService struct {
	store
}

// NewClassificationService creates a new ClassificationService.
func NewClassificationService(ctx *database.Context, opts ...Option) *ClassificationService {
	return &ClassificationService{store: newStore("classification", ctx, opts)}
}

// CreateTop adds an active top-level node after its existing siblings.
func (s *ClassificationService) CreateTop(ctx context.Context, code, name string) error {
	return s.create(ctx, "", code, name)
}

// CreateChild adds an active node under a top-level parent. The tree is
// exactly two levels deep, so the parent must itself be top-level.
func (s *ClassificationService) CreateChild(ctx context.Context, parentCode, code, name string) error {
	if strings.TrimSpace(parentCode) == "" {
		return fmt.Errorf("create classification: parent code is empty: %w", database.ErrMalformedInput)
	}
	return s.create(ctx, parentCode, code, name)
}

func (s *ClassificationService) create(ctx context.Context, parentCode, code, name string) error {
	code = strings.TrimSpace(code)
	if code == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("create classification: code and name are required: %w", database.ErrMalformedInput)
	}

	return s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if parentCode != "" {
			parent, err := q.FindClassificationByCode(txCtx, parentCode)
			if err != nil {
				return database.TranslateError(fmt.Sprintf("find parent classification %q", parentCode), err)
			}
			if parent.ParentCode.Valid {
				return fmt.Errorf("create classification %q: parent %q is not top-level: %w", code, parentCode, database.ErrMalformedInput)
			}
		}

		err := q.InsertClassification(txCtx, sqldb.InsertClassificationParams{
			Code:           code,
			Name:           name,
			ParentCode:     database.NullString(parentCode),
			CreatedBy:      s.auditor.User,
			CreatedMachine: s.auditor.Machine,
		})
		if err != nil {
			return database.TranslateError(fmt.Sprintf("create classification %q", code), err)
		}

		s.log.Debug("classification created", "code", code, "parent_code", parentCode)
		return nil
	})
}

// Get returns the node with the given code or ErrNotFound.
func (s *ClassificationService) Get(ctx context.Context, code string) (*database.ClassificationRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	row, err := q.FindClassificationByCode(ctx, code)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("get classification %q", code), err)
	}

	record := database.ClassificationRecordFromRow(row)
	return &record, nil
}

// ListTop returns the top-level nodes by sort order, then creation order.
func (s *ClassificationService) ListTop(ctx context.Context) ([]database.ClassificationRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListTopClassifications(ctx)
	if err != nil {
		return nil, database.TranslateError("list top classifications", err)
	}
	return database.ClassificationRecordsFromRows(rows), nil
}

// ListChildren returns the children of parentCode; unknown parents have none.
func (s *ClassificationService) ListChildren(ctx context.Context, parentCode string) ([]database.ClassificationRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListChildClassifications(ctx, parentCode)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("list children of %q", parentCode), err)
	}
	return database.ClassificationRecordsFromRows(rows), nil
}

// Activate marks the node active. Children are not touched.
func (s *ClassificationService) Activate(ctx context.Context, code string) error {
	return s.setActive(ctx, code, true)
}

// Deactivate marks the node inactive. Children are not touched.
func (s *ClassificationService) Deactivate(ctx context.Context, code string) error {
	return s.setActive(ctx, code, false)
}

func (s *ClassificationService) setActive(ctx context.Context, code string, active bool) error {
	q, err := s.queries()
	if err != nil {
		return err
	}

	affected, err := q.SetClassificationActive(ctx, sqldb.SetClassificationActiveParams{
		Active: database.BoolToInt64(active),
		Code:   code,
	})
	if err != nil {
		return database.TranslateError(fmt.Sprintf("set classification %q active", code), err)
	}
	if affected == 0 {
		return fmt.Errorf("set classification %q active: %w", code, database.ErrNotFound)
	}

	s.log.Debug("classification active changed", "code", code, "active", active)
	return nil
}

// Rename changes a node's display name.
func (s *ClassificationService) Rename(ctx context.Context, code, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("rename classification %q: name is empty: %w", code, database.ErrMalformedInput)
	}

	q, err := s.queries()
	if err != nil {
		return err
	}

	affected, err := q.UpdateClassificationName(ctx, sqldb.UpdateClassificationNameParams{Name: name, Code: code})
	if err != nil {
		return database.TranslateError(fmt.Sprintf("rename classification %q", code), err)
	}
	if affected == 0 {
		return fmt.Errorf("rename classification %q: %w", code, database.ErrNotFound)
	}
	return nil
}

// SetSortOrder moves a single node within its sibling group.
func (s *ClassificationService) SetSortOrder(ctx context.Context, code string, order int64) error {
	q, err := s.queries()
	if err != nil {
		return err
	}

	affected, err := q.UpdateClassificationSortOrder(ctx, sqldb.UpdateClassificationSortOrderParams{SortOrder: order, Code: code})
	if err != nil {
		return database.TranslateError(fmt.Sprintf("set sort order of %q", code), err)
	}
	if affected == 0 {
		return fmt.Errorf("set sort order of %q: %w", code, database.ErrNotFound)
	}
	return nil
}

// Reorder renumbers a sibling group 0..n-1 in the order given. codes must
// name every sibling exactly once; an empty parentCode selects the top level.
func (s *ClassificationService) Reorder(ctx context.Context, parentCode string, codes []string) error {
	return s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		var (
			siblings []sqldb.FondClassification
			err      error
		)
		if parentCode == "" {
			siblings, err = q.ListTopClassifications(txCtx)
		} else {
			siblings, err = q.ListChildClassifications(txCtx, parentCode)
		}
		if err != nil {
			return database.TranslateError("reorder classifications", err)
		}

		if !sameCodeSet(siblings, codes) {
			return fmt.Errorf("reorder classifications under %q: codes must list every sibling once: %w", parentCode, database.ErrMalformedInput)
		}

		for i, code := range codes {
			if _, err := q.UpdateClassificationSortOrder(txCtx, sqldb.UpdateClassificationSortOrderParams{
				SortOrder: int64(i),
				Code:      code,
			}); err != nil {
				return database.TranslateError(fmt.Sprintf("reorder classification %q", code), err)
			}
		}
		return nil
	})
}

func sameCodeSet(siblings []sqldb.FondClassification, codes []string) bool {
	if len(siblings) != len(codes) {
		return false
	}
	remaining := make(map[string]struct{}, len(siblings))
	for _, sibling := range siblings {
		remaining[sibling.Code] = struct{}{}
	}
	for _, code := range codes {
		if _, ok := remaining[code]; !ok {
			return false
		}
		delete(remaining, code)
	}
	return true
}

// Delete removes a childless node that no fond references. It reports false,
// without error, when the node is absent or still in use.
func (s *ClassificationService) Delete(ctx context.Context, code string) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if _, err := q.FindClassificationByCode(txCtx, code); err != nil {
			if isNoRows(err) {
				return nil
			}
			return database.TranslateError(fmt.Sprintf("delete classification %q", code), err)
		}

		children, err := q.CountClassificationChildren(txCtx, code)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("count children of %q", code), err)
		}
		if children > 0 {
			s.log.Info("classification not deleted: has children", "code", code, "children", children)
			return nil
		}

		fonds, err := q.CountFondsByClassification(txCtx, code)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("count fonds of %q", code), err)
		}
		if fonds > 0 {
			s.log.Info("classification not deleted: referenced by fonds", "code", code, "fonds", fonds)
			return nil
		}

		affected, err := q.DeleteClassification(txCtx, code)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("delete classification %q", code), err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Debug("classification deleted", "code", code)
	}
	return deleted, nil
}
