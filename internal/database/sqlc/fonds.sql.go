package sqldb

import (
	"context"
	"database/sql"
)

const insertFond = `INSERT INTO fonds (fond_no, fond_classification_code, name, created_at, created_by, created_machine)
VALUES (?, ?, ?, ?, ?, ?)`

type InsertFondParams struct {
	FondNo                 string
	FondClassificationCode string
	Name                   string
	CreatedAt              string
	CreatedBy              string
	CreatedMachine         string
}

func (q *Queries) InsertFond(ctx context.Context, arg InsertFondParams) error {
	_, err := q.db.ExecContext(ctx, insertFond,
		arg.FondNo,
		arg.FondClassificationCode,
		arg.Name,
		arg.CreatedAt,
		arg.CreatedBy,
		arg.CreatedMachine,
	)
	return err
}

const findFond = `SELECT fond_no, fond_classification_code, name, created_at, created_by, created_machine
FROM fonds WHERE fond_no = ?`

func (q *Queries) FindFond(ctx context.Context, fondNo string) (Fond, error) {
	row := q.db.QueryRowContext(ctx, findFond, fondNo)
	var i Fond
	err := row.Scan(
		&i.FondNo,
		&i.FondClassificationCode,
		&i.Name,
		&i.CreatedAt,
		&i.CreatedBy,
		&i.CreatedMachine,
	)
	return i, err
}

const listFonds = `SELECT fond_no, fond_classification_code, name, created_at, created_by, created_machine
FROM fonds ORDER BY rowid`

func (q *Queries) ListFonds(ctx context.Context) ([]Fond, error) {
	rows, err := q.db.QueryContext(ctx, listFonds)
	if err != nil {
		return nil, err
	}
	return scanFonds(rows)
}

const listFondsByClassification = `SELECT fond_no, fond_classification_code, name, created_at, created_by, created_machine
FROM fonds WHERE fond_classification_code = ? ORDER BY rowid`

func (q *Queries) ListFondsByClassification(ctx context.Context, fondClassificationCode string) ([]Fond, error) {
	rows, err := q.db.QueryContext(ctx, listFondsByClassification, fondClassificationCode)
	if err != nil {
		return nil, err
	}
	return scanFonds(rows)
}

func scanFonds(rows *sql.Rows) ([]Fond, error) {
	defer rows.Close()
	var items []Fond
	for rows.Next() {
		var i Fond
		if err := rows.Scan(
			&i.FondNo,
			&i.FondClassificationCode,
			&i.Name,
			&i.CreatedAt,
			&i.CreatedBy,
			&i.CreatedMachine,
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

const countFilesByFond = `SELECT COUNT(*) FROM files f
JOIN series s ON s.series_no = f.series_no
WHERE s.fond_no = ?`

func (q *Queries) CountFilesByFond(ctx context.Context, fondNo string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFilesByFond, fondNo)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteFond = `DELETE FROM fonds WHERE fond_no = ?`

func (q *Queries) DeleteFond(ctx context.Context, fondNo string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteFond, fondNo)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
