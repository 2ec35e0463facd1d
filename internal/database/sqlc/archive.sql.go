package sqldb

import (
	"context"
	"database/sql"
)

const insertFile = `INSERT INTO files (file_no, series_no, name, created_by, created_machine) VALUES (?, ?, ?, ?, ?)`

type InsertFileParams struct {
	FileNo         string
	SeriesNo       string
	Name           string
	CreatedBy      string
	CreatedMachine string
}

func (q *Queries) InsertFile(ctx context.Context, arg InsertFileParams) error {
	_, err := q.db.ExecContext(ctx, insertFile,
		arg.FileNo,
		arg.SeriesNo,
		arg.Name,
		arg.CreatedBy,
		arg.CreatedMachine,
	)
	return err
}

const findFile = `SELECT file_no, series_no, name, created_by, created_machine, created_at FROM files WHERE file_no = ?`

func (q *Queries) FindFile(ctx context.Context, fileNo string) (File, error) {
	row := q.db.QueryRowContext(ctx, findFile, fileNo)
	var i File
	err := row.Scan(
		&i.FileNo,
		&i.SeriesNo,
		&i.Name,
		&i.CreatedBy,
		&i.CreatedMachine,
		&i.CreatedAt,
	)
	return i, err
}

const listFilesBySeries = `SELECT file_no, series_no, name, created_by, created_machine, created_at FROM files
WHERE series_no = ? ORDER BY rowid`

func (q *Queries) ListFilesBySeries(ctx context.Context, seriesNo string) ([]File, error) {
	rows, err := q.db.QueryContext(ctx, listFilesBySeries, seriesNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []File
	for rows.Next() {
		var i File
		if err := rows.Scan(
			&i.FileNo,
			&i.SeriesNo,
			&i.Name,
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

const countItemsByFile = `SELECT COUNT(*) FROM items WHERE file_no = ?`

func (q *Queries) CountItemsByFile(ctx context.Context, fileNo string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countItemsByFile, fileNo)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteFile = `DELETE FROM files WHERE file_no = ?`

func (q *Queries) DeleteFile(ctx context.Context, fileNo string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteFile, fileNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const insertItem = `INSERT INTO items (item_no, file_no, name, path, created_by, created_machine) VALUES (?, ?, ?, ?, ?, ?)`

type InsertItemParams struct {
	ItemNo         string
	FileNo         string
	Name           string
	Path           sql.NullString
	CreatedBy      string
	CreatedMachine string
}

func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) error {
	_, err := q.db.ExecContext(ctx, insertItem,
		arg.ItemNo,
		arg.FileNo,
		arg.Name,
		arg.Path,
		arg.CreatedBy,
		arg.CreatedMachine,
	)
	return err
}

const listItemsByFile = `SELECT item_no, file_no, name, path, created_by, created_machine, created_at FROM items
WHERE file_no = ? ORDER BY rowid`

func (q *Queries) ListItemsByFile(ctx context.Context, fileNo string) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, listItemsByFile, fileNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(
			&i.ItemNo,
			&i.FileNo,
			&i.Name,
			&i.Path,
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

const deleteItem = `DELETE FROM items WHERE item_no = ?`

func (q *Queries) DeleteItem(ctx context.Context, itemNo string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteItem, itemNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
