package sqldb

import (
	"context"
)

const insertSchema = `INSERT INTO schemas (schema_no, name, sort_order, created_by, created_machine)
VALUES (?1, ?2, (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM schemas), ?3, ?4)`

type InsertSchemaParams struct {
	SchemaNo       string
	Name           string
	CreatedBy      string
	CreatedMachine string
}

func (q *Queries) InsertSchema(ctx context.Context, arg InsertSchemaParams) error {
	_, err := q.db.ExecContext(ctx, insertSchema,
		arg.SchemaNo,
		arg.Name,
		arg.CreatedBy,
		arg.CreatedMachine,
	)
	return err
}

const findSchema = `SELECT schema_no, name, sort_order, created_by, created_machine, created_at
FROM schemas WHERE schema_no = ?`

func (q *Queries) FindSchema(ctx context.Context, schemaNo string) (Schema, error) {
	row := q.db.QueryRowContext(ctx, findSchema, schemaNo)
	var i Schema
	err := row.Scan(
		&i.SchemaNo,
		&i.Name,
		&i.SortOrder,
		&i.CreatedBy,
		&i.CreatedMachine,
		&i.CreatedAt,
	)
	return i, err
}

const listSchemas = `SELECT schema_no, name, sort_order, created_by, created_machine, created_at
FROM schemas ORDER BY sort_order, rowid`

func (q *Queries) ListSchemas(ctx context.Context) ([]Schema, error) {
	rows, err := q.db.QueryContext(ctx, listSchemas)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Schema
	for rows.Next() {
		var i Schema
		if err := rows.Scan(
			&i.SchemaNo,
			&i.Name,
			&i.SortOrder,
			&i.CreatedBy,
			&i.CreatedMachine,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateSchemaName = `UPDATE schemas SET name = ? WHERE schema_no = ?`

type UpdateSchemaNameParams struct {
	Name     string
	SchemaNo string
}

func (q *Queries) UpdateSchemaName(ctx context.Context, arg UpdateSchemaNameParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSchemaName, arg.Name, arg.SchemaNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSchema = `DELETE FROM schemas WHERE schema_no = ?`

func (q *Queries) DeleteSchema(ctx context.Context, schemaNo string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSchema, schemaNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const insertSchemaItem = `INSERT INTO schema_items (schema_no, item_no, item_name) VALUES (?, ?, ?)`

type InsertSchemaItemParams struct {
	SchemaNo string
	ItemNo   string
	ItemName string
}

func (q *Queries) InsertSchemaItem(ctx context.Context, arg InsertSchemaItemParams) error {
	_, err := q.db.ExecContext(ctx, insertSchemaItem, arg.SchemaNo, arg.ItemNo, arg.ItemName)
	return err
}

const listSchemaItems = `SELECT schema_no, item_no, item_name, created_at
FROM schema_items WHERE schema_no = ? ORDER BY rowid`

func (q *Queries) ListSchemaItems(ctx context.Context, schemaNo string) ([]SchemaItem, error) {
	rows, err := q.db.QueryContext(ctx, listSchemaItems, schemaNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SchemaItem
	for rows.Next() {
		var i SchemaItem
		if err := rows.Scan(
			&i.SchemaNo,
			&i.ItemNo,
			&i.ItemName,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteSchemaItem = `DELETE FROM schema_items WHERE schema_no = ? AND item_no = ?`

type DeleteSchemaItemParams struct {
	SchemaNo string
	ItemNo   string
}

func (q *Queries) DeleteSchemaItem(ctx context.Context, arg DeleteSchemaItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSchemaItem, arg.SchemaNo, arg.ItemNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSchemaItemsBySchema = `DELETE FROM schema_items WHERE schema_no = ?`

func (q *Queries) DeleteSchemaItemsBySchema(ctx context.Context, schemaNo string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSchemaItemsBySchema, schemaNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countSeriesEmbeddingItem = `SELECT COUNT(*) FROM series s
JOIN fond_schemas fs ON fs.fond_no = s.fond_no
WHERE fs.schema_no = ?1
  AND instr('-' || substr(s.series_no, length(s.fond_no) + 2) || '-', '-' || ?2 || '-') > 0`

type CountSeriesEmbeddingItemParams struct {
	SchemaNo string
	ItemNo   string
}

func (q *Queries) CountSeriesEmbeddingItem(ctx context.Context, arg CountSeriesEmbeddingItemParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSeriesEmbeddingItem, arg.SchemaNo, arg.ItemNo)
	var count int64
	err := row.Scan(&count)
	return count, err
}
