package sqldb

import (
	"context"
)

const insertFondSchema = `INSERT INTO fond_schemas (fond_no, schema_no, order_no) VALUES (?, ?, ?)`

type InsertFondSchemaParams struct {
	FondNo   string
	SchemaNo string
	OrderNo  int64
}

func (q *Queries) InsertFondSchema(ctx context.Context, arg InsertFondSchemaParams) error {
	_, err := q.db.ExecContext(ctx, insertFondSchema, arg.FondNo, arg.SchemaNo, arg.OrderNo)
	return err
}

const listFondSchemas = `SELECT fond_no, schema_no, order_no FROM fond_schemas
WHERE fond_no = ? ORDER BY order_no, rowid`

func (q *Queries) ListFondSchemas(ctx context.Context, fondNo string) ([]FondSchema, error) {
	rows, err := q.db.QueryContext(ctx, listFondSchemas, fondNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FondSchema
	for rows.Next() {
		var i FondSchema
		if err := rows.Scan(&i.FondNo, &i.SchemaNo, &i.OrderNo); err != nil {
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

const countFondSchemasBySchema = `SELECT COUNT(*) FROM fond_schemas WHERE schema_no = ?`

func (q *Queries) CountFondSchemasBySchema(ctx context.Context, schemaNo string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFondSchemasBySchema, schemaNo)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteFondSchema = `DELETE FROM fond_schemas WHERE fond_no = ? AND schema_no = ?`

type DeleteFondSchemaParams struct {
	FondNo   string
	SchemaNo string
}

func (q *Queries) DeleteFondSchema(ctx context.Context, arg DeleteFondSchemaParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteFondSchema, arg.FondNo, arg.SchemaNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteFondSchemasByFond = `DELETE FROM fond_schemas WHERE fond_no = ?`

func (q *Queries) DeleteFondSchemasByFond(ctx context.Context, fondNo string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteFondSchemasByFond, fondNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
