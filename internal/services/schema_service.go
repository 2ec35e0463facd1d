package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fondspod/fondspod/internal/database"
	sqldb "github.com/fondspod/fondspod/internal/database/sqlc"
	"github.com/fondspod/fondspod/internal/series"
)

// YearSchema is the reserved schema whose items are the years a fond spans.
const YearSchema = series.YearSchema

// IsProtectedSchema reports whether a schema is reserved by the system.
func IsProtectedSchema(schemaNo string) bool {
	return schemaNo == YearSchema
}

// SchemaService manages schemas, their items and their assignment to fonds.
type SchemaService struct {
	store
}

// NewSchemaService creates a new SchemaService.
func NewSchemaService(ctx *database.Context, opts ...Option) *SchemaService {
	return &SchemaService{store: newStore("schema", ctx, opts)}
}

// CreateSchema adds a schema after the existing ones.
func (s *SchemaService) CreateSchema(ctx context.Context, schemaNo, name string) error {
	schemaNo = strings.TrimSpace(schemaNo)
	if schemaNo == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("create schema: number and name are required: %w", database.ErrMalformedInput)
	}

	q, err := s.queries()
	if err != nil {
		return err
	}

	err = q.InsertSchema(ctx, sqldb.InsertSchemaParams{
		SchemaNo:       schemaNo,
		Name:           name,
		CreatedBy:      s.auditor.User,
		CreatedMachine: s.auditor.Machine,
	})
	if err != nil {
		return database.TranslateError(fmt.Sprintf("create schema %q", schemaNo), err)
	}

	s.log.Debug("schema created", "schema_no", schemaNo)
	return nil
}

// RenameSchema changes a schema's display name. Year cannot be renamed.
func (s *SchemaService) RenameSchema(ctx context.Context, schemaNo, name string) error {
	if IsProtectedSchema(schemaNo) {
		return fmt.Errorf("rename schema %q: %w", schemaNo, database.ErrProtected)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("rename schema %q: name is empty: %w", schemaNo, database.ErrMalformedInput)
	}

	q, err := s.queries()
	if err != nil {
		return err
	}

	affected, err := q.UpdateSchemaName(ctx, sqldb.UpdateSchemaNameParams{Name: name, SchemaNo: schemaNo})
	if err != nil {
		return database.TranslateError(fmt.Sprintf("rename schema %q", schemaNo), err)
	}
	if affected == 0 {
		return fmt.Errorf("rename schema %q: %w", schemaNo, database.ErrNotFound)
	}
	return nil
}

// DeleteSchema removes a schema together with its items. It reports false for
// Year, for schemas assigned to any fond and for unknown schemas.
func (s *SchemaService) DeleteSchema(ctx context.Context, schemaNo string) (bool, error) {
	if IsProtectedSchema(schemaNo) {
		s.log.Info("schema not deleted: protected", "schema_no", schemaNo)
		return false, nil
	}

	var deleted bool
	err := s.withTx(ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		refs, err := q.CountFondSchemasBySchema(txCtx, schemaNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("count fonds using schema %q", schemaNo), err)
		}
		if refs > 0 {
			s.log.Info("schema not deleted: assigned to fonds", "schema_no", schemaNo, "fonds", refs)
			return nil
		}

		if _, err := q.DeleteSchemaItemsBySchema(txCtx, schemaNo); err != nil {
			return database.TranslateError(fmt.Sprintf("delete items of schema %q", schemaNo), err)
		}
		affected, err := q.DeleteSchema(txCtx, schemaNo)
		if err != nil {
			return database.TranslateError(fmt.Sprintf("delete schema %q", schemaNo), err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Debug("schema deleted", "schema_no", schemaNo)
	}
	return deleted, nil
}

// GetSchema returns the schema or ErrNotFound.
func (s *SchemaService) GetSchema(ctx context.Context, schemaNo string) (*database.SchemaRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	row, err := q.FindSchema(ctx, schemaNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("get schema %q", schemaNo), err)
	}
	record := database.SchemaRecordFromRow(row)
	return &record, nil
}

// ListSchemas returns every schema, Year included, by sort order then creation order.
func (s *SchemaService) ListSchemas(ctx context.Context) ([]database.SchemaRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListSchemas(ctx)
	if err != nil {
		return nil, database.TranslateError("list schemas", err)
	}

	result := make([]database.SchemaRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.SchemaRecordFromRow(row))
	}
	return result, nil
}

// AddSchemaItem appends an item to a schema. A missing schema surfaces as
// ErrNotFound from the foreign key. Year items are computed and cannot be added.
func (s *SchemaService) AddSchemaItem(ctx context.Context, schemaNo, itemNo, itemName string) error {
	if IsProtectedSchema(schemaNo) {
		return fmt.Errorf("add item to schema %q: %w", schemaNo, database.ErrProtected)
	}
	itemNo = strings.TrimSpace(itemNo)
	if itemNo == "" || strings.TrimSpace(itemName) == "" {
		return fmt.Errorf("add item to schema %q: number and name are required: %w", schemaNo, database.ErrMalformedInput)
	}

	q, err := s.queries()
	if err != nil {
		return err
	}

	err = q.InsertSchemaItem(ctx, sqldb.InsertSchemaItemParams{
		SchemaNo: schemaNo,
		ItemNo:   itemNo,
		ItemName: itemName,
	})
	if err != nil {
		return database.TranslateError(fmt.Sprintf("add item %q to schema %q", itemNo, schemaNo), err)
	}

	s.log.Debug("schema item added", "schema_no", schemaNo, "item_no", itemNo)
	return nil
}

// ListSchemaItems returns a schema's items in insertion order.
func (s *SchemaService) ListSchemaItems(ctx context.Context, schemaNo string) ([]database.SchemaItemRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListSchemaItems(ctx, schemaNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("list items of schema %q", schemaNo), err)
	}

	result := make([]database.SchemaItemRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.SchemaItemRecordFromRow(row))
	}
	return result, nil
}

// DeleteSchemaItem removes an item. Series already generated from it are kept;
// a warning is logged when any exist.
func (s *SchemaService) DeleteSchemaItem(ctx context.Context, schemaNo, itemNo string) (bool, error) {
	q, err := s.queries()
	if err != nil {
		return false, err
	}

	embedded, err := q.CountSeriesEmbeddingItem(ctx, sqldb.CountSeriesEmbeddingItemParams{SchemaNo: schemaNo, ItemNo: itemNo})
	if err != nil {
		return false, database.TranslateError(fmt.Sprintf("count series using item %q", itemNo), err)
	}

	affected, err := q.DeleteSchemaItem(ctx, sqldb.DeleteSchemaItemParams{SchemaNo: schemaNo, ItemNo: itemNo})
	if err != nil {
		return false, database.TranslateError(fmt.Sprintf("delete item %q of schema %q", itemNo, schemaNo), err)
	}
	if affected > 0 && embedded > 0 {
		s.log.Warn("schema item deleted while generated series still use it",
			"schema_no", schemaNo, "item_no", itemNo, "series", embedded)
	}
	return affected > 0, nil
}

// AssignToFond adds schemaNo to the fond's dimensions at position orderNo.
func (s *SchemaService) AssignToFond(ctx context.Context, fondNo, schemaNo string, orderNo int64) error {
	q, err := s.queries()
	if err != nil {
		return err
	}

	err = q.InsertFondSchema(ctx, sqldb.InsertFondSchemaParams{
		FondNo:   fondNo,
		SchemaNo: schemaNo,
		OrderNo:  orderNo,
	})
	if err != nil {
		return database.TranslateError(fmt.Sprintf("assign schema %q to fond %q", schemaNo, fondNo), err)
	}

	s.log.Debug("schema assigned", "fond_no", fondNo, "schema_no", schemaNo, "order_no", orderNo)
	return nil
}

// UnassignFromFond removes a schema from a fond's dimensions. Existing series are kept.
func (s *SchemaService) UnassignFromFond(ctx context.Context, fondNo, schemaNo string) (bool, error) {
	q, err := s.queries()
	if err != nil {
		return false, err
	}

	affected, err := q.DeleteFondSchema(ctx, sqldb.DeleteFondSchemaParams{FondNo: fondNo, SchemaNo: schemaNo})
	if err != nil {
		return false, database.TranslateError(fmt.Sprintf("unassign schema %q from fond %q", schemaNo, fondNo), err)
	}
	return affected > 0, nil
}

// ListForFond returns the fond's assignments by order_no, then creation order.
func (s *SchemaService) ListForFond(ctx context.Context, fondNo string) ([]database.FondSchemaRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListFondSchemas(ctx, fondNo)
	if err != nil {
		return nil, database.TranslateError(fmt.Sprintf("list schemas of fond %q", fondNo), err)
	}
	return fondSchemaRecords(rows), nil
}

func fondSchemaRecords(rows []sqldb.FondSchema) []database.FondSchemaRecord {
	result := make([]database.FondSchemaRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.FondSchemaRecordFromRow(row))
	}
	return result
}
