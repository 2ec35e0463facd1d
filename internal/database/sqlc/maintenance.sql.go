package sqldb

import "context"

const deferForeignKeys = `PRAGMA defer_foreign_keys = ON`

func (q *Queries) DeferForeignKeys(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deferForeignKeys)
	return err
}

const deleteAllItems = `DELETE FROM items`

func (q *Queries) DeleteAllItems(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllItems)
	return err
}

const deleteAllFiles = `DELETE FROM files`

func (q *Queries) DeleteAllFiles(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllFiles)
	return err
}

const deleteAllSeries = `DELETE FROM series`

func (q *Queries) DeleteAllSeries(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllSeries)
	return err
}

const deleteAllFondSchemas = `DELETE FROM fond_schemas`

func (q *Queries) DeleteAllFondSchemas(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllFondSchemas)
	return err
}

const deleteAllFonds = `DELETE FROM fonds`

func (q *Queries) DeleteAllFonds(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllFonds)
	return err
}

const deleteAllSchemaItems = `DELETE FROM schema_items`

func (q *Queries) DeleteAllSchemaItems(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllSchemaItems)
	return err
}

const deleteAllSequences = `DELETE FROM sequences`

func (q *Queries) DeleteAllSequences(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllSequences)
	return err
}

const deleteUserSchemas = `DELETE FROM schemas WHERE schema_no <> 'Year'`

func (q *Queries) DeleteUserSchemas(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteUserSchemas)
	return err
}
