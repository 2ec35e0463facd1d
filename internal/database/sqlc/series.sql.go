package sqldb

import (
	"context"
	"database/sql"
	"time"
)

const insertSeries = `INSERT INTO series (series_no, fond_no, name, created_at) VALUES (?, ?, ?, ?)`

type InsertSeriesParams struct {
	SeriesNo  string
	FondNo    string
	Name      string
	CreatedAt time.Time
}

func (q *Queries) InsertSeries(ctx context.Context, arg InsertSeriesParams) error {
	_, err := q.db.ExecContext(ctx, insertSeries,
		arg.SeriesNo,
		arg.FondNo,
		arg.Name,
		arg.CreatedAt,
	)
	return err
}

const seriesExists = `SELECT EXISTS(SELECT 1 FROM series WHERE series_no = ?)`

func (q *Queries) SeriesExists(ctx context.Context, seriesNo string) (bool, error) {
	row := q.db.QueryRowContext(ctx, seriesExists, seriesNo)
	var exists int64
	err := row.Scan(&exists)
	return exists != 0, err
}

const findSeries = `SELECT series_no, fond_no, name, created_at FROM series WHERE series_no = ?`

func (q *Queries) FindSeries(ctx context.Context, seriesNo string) (Series, error) {
	row := q.db.QueryRowContext(ctx, findSeries, seriesNo)
	var i Series
	err := row.Scan(
		&i.SeriesNo,
		&i.FondNo,
		&i.Name,
		&i.CreatedAt,
	)
	return i, err
}

const listSeriesByFond = `SELECT series_no, fond_no, name, created_at FROM series
WHERE fond_no = ? ORDER BY rowid`

func (q *Queries) ListSeriesByFond(ctx context.Context, fondNo string) ([]Series, error) {
	rows, err := q.db.QueryContext(ctx, listSeriesByFond, fondNo)
	if err != nil {
		return nil, err
	}
	return scanSeries(rows)
}

func scanSeries(rows *sql.Rows) ([]Series, error) {
	defer rows.Close()
	var items []Series
	for rows.Next() {
		var i Series
		if err := rows.Scan(
			&i.SeriesNo,
			&i.FondNo,
			&i.Name,
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

const countFilesBySeries = `SELECT COUNT(*) FROM files WHERE series_no = ?`

func (q *Queries) CountFilesBySeries(ctx context.Context, seriesNo string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFilesBySeries, seriesNo)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteSeries = `DELETE FROM series WHERE series_no = ?`

func (q *Queries) DeleteSeries(ctx context.Context, seriesNo string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSeries, seriesNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSeriesByFond = `DELETE FROM series WHERE fond_no = ?`

func (q *Queries) DeleteSeriesByFond(ctx context.Context, fondNo string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSeriesByFond, fondNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
