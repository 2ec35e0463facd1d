package sqldb

import (
	"context"
	"database/sql"
)

const insertClassification = `INSERT INTO fond_classifications (code, name, parent_code, active, sort_order, created_by, created_machine)
VALUES (?1, ?2, ?3, 1,
    (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM fond_classifications WHERE parent_code IS ?3),
    ?4, ?5)`

type InsertClassificationParams struct {
	Code           string
	Name           string
	ParentCode     sql.NullString
	CreatedBy      string
	CreatedMachine string
}

func (q *Queries) InsertClassification(ctx context.Context, arg InsertClassificationParams) error {
	_, err := q.db.ExecContext(ctx, insertClassification,
		arg.Code,
		arg.Name,
		arg.ParentCode,
		arg.CreatedBy,
		arg.CreatedMachine,
	)
	return err
}

const insertClassificationAt = `INSERT INTO fond_classifications (code, name, parent_code, active, sort_order, created_by, created_machine)
VALUES (?, ?, ?, ?, ?, ?, ?)`

type InsertClassificationAtParams struct {
	Code           string
	Name           string
	ParentCode     sql.NullString
	Active         int64
	SortOrder      int64
	CreatedBy      string
	CreatedMachine string
}

func (q *Queries) InsertClassificationAt(ctx context.Context, arg InsertClassificationAtParams) error {
	_, err := q.db.ExecContext(ctx, insertClassificationAt,
		arg.Code,
		arg.Name,
		arg.ParentCode,
		arg.Active,
		arg.SortOrder,
		arg.CreatedBy,
		arg.CreatedMachine,
	)
	return err
}

const findClassificationByCode = `SELECT code, name, parent_code, active, sort_order, created_by, created_machine, created_at
FROM fond_classifications WHERE code = ?`

func (q *Queries) FindClassificationByCode(ctx context.Context, code string) (FondClassification, error) {
	row := q.db.QueryRowContext(ctx, findClassificationByCode, code)
	var i FondClassification
	err := row.Scan(
		&i.Code,
		&i.Name,
		&i.ParentCode,
		&i.Active,
		&i.SortOrder,
		&i.CreatedBy,
		&i.CreatedMachine,
		&i.CreatedAt,
	)
	return i, err
}

const listTopClassifications = `SELECT code, name, parent_code, active, sort_order, created_by, created_machine, created_at
FROM fond_classifications WHERE parent_code IS NULL
ORDER BY sort_order, rowid`

func (q *Queries) ListTopClassifications(ctx context.Context) ([]FondClassification, error) {
	rows, err := q.db.QueryContext(ctx, listTopClassifications)
	if err != nil {
		return nil, err
	}
	return scanClassifications(rows)
}

const listChildClassifications = `SELECT code, name, parent_code, active, sort_order, created_by, created_machine, created_at
FROM fond_classifications WHERE parent_code = ?
ORDER BY sort_order, rowid`

func (q *Queries) ListChildClassifications(ctx context.Context, parentCode string) ([]FondClassification, error) {
	rows, err := q.db.QueryContext(ctx, listChildClassifications, parentCode)
	if err != nil {
		return nil, err
	}
	return scanClassifications(rows)
}

func scanClassifications(rows *sql.Rows) ([]FondClassification, error) {
	defer rows.Close()
	var items []FondClassification
	for rows.Next() {
		var i FondClassification
		if err := rows.Scan(
			&i.Code,
			&i.Name,
			&i.ParentCode,
			&i.Active,
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

const countClassificationChildren = `SELECT COUNT(*) FROM fond_classifications WHERE parent_code = ?`

func (q *Queries) CountClassificationChildren(ctx context.Context, parentCode string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countClassificationChildren, parentCode)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countFondsByClassification = `SELECT COUNT(*) FROM fonds WHERE fond_classification_code = ?`

func (q *Queries) CountFondsByClassification(ctx context.Context, fondClassificationCode string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFondsByClassification, fondClassificationCode)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countOrphanedFonds = `SELECT COUNT(*) FROM fonds
WHERE fond_classification_code NOT IN (SELECT code FROM fond_classifications)`

func (q *Queries) CountOrphanedFonds(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countOrphanedFonds)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const setClassificationActive = `UPDATE fond_classifications SET active = ? WHERE code = ?`

type SetClassificationActiveParams struct {
	Active int64
	Code   string
}

func (q *Queries) SetClassificationActive(ctx context.Context, arg SetClassificationActiveParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setClassificationActive, arg.Active, arg.Code)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateClassificationName = `UPDATE fond_classifications SET name = ? WHERE code = ?`

type UpdateClassificationNameParams struct {
	Name string
	Code string
}

func (q *Queries) UpdateClassificationName(ctx context.Context, arg UpdateClassificationNameParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateClassificationName, arg.Name, arg.Code)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateClassificationSortOrder = `UPDATE fond_classifications SET sort_order = ? WHERE code = ?`

type UpdateClassificationSortOrderParams struct {
	SortOrder int64
	Code      string
}

func (q *Queries) UpdateClassificationSortOrder(ctx context.Context, arg UpdateClassificationSortOrderParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateClassificationSortOrder, arg.SortOrder, arg.Code)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteClassification = `DELETE FROM fond_classifications WHERE code = ?`

func (q *Queries) DeleteClassification(ctx context.Context, code string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteClassification, code)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllClassifications = `DELETE FROM fond_classifications`

func (q *Queries) DeleteAllClassifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllClassifications)
	return err
}
