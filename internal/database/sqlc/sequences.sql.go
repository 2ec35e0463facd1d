package sqldb

import (
	"context"
)

const nextSequenceValue = `INSERT INTO sequences (prefix, next_value, digits) VALUES (?1, 2, ?2)
ON CONFLICT (prefix) DO UPDATE SET next_value = next_value + 1, updated_at = CURRENT_TIMESTAMP
RETURNING next_value - 1`

type NextSequenceValueParams struct {
	Prefix string
	Digits int64
}

func (q *Queries) NextSequenceValue(ctx context.Context, arg NextSequenceValueParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, nextSequenceValue, arg.Prefix, arg.Digits)
	var value int64
	err := row.Scan(&value)
	return value, err
}

const findSequence = `SELECT prefix, next_value, digits, created_at, updated_at FROM sequences WHERE prefix = ?`

func (q *Queries) FindSequence(ctx context.Context, prefix string) (Sequence, error) {
	row := q.db.QueryRowContext(ctx, findSequence, prefix)
	var i Sequence
	err := row.Scan(
		&i.Prefix,
		&i.NextValue,
		&i.Digits,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listSequences = `SELECT prefix, next_value, digits, created_at, updated_at FROM sequences ORDER BY prefix`

func (q *Queries) ListSequences(ctx context.Context) ([]Sequence, error) {
	rows, err := q.db.QueryContext(ctx, listSequences)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Sequence
	for rows.Next() {
		var i Sequence
		if err := rows.Scan(
			&i.Prefix,
			&i.NextValue,
			&i.Digits,
			&i.CreatedAt,
			&i.UpdatedAt,
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
