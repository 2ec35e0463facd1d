package services

import (
	"context"
	"fmt"

	"github.com/fondspod/fondspod/internal/database"
	sqldb "github.com/fondspod/fondspod/internal/database/sqlc"
)

// SequenceService mints persistent, per-prefix, zero-padded numbers.
type SequenceService struct {
	store
}

// NewSequenceService creates a new SequenceService.
func NewSequenceService(ctx *database.Context, opts ...Option) *SequenceService {
	return &SequenceService{store: newStore("sequence", ctx, opts)}
}

// NextNumber returns prefix followed by the next counter value padded to
// digits. The first call for a prefix yields 1. Values wider than digits are
// printed in full.
func (s *SequenceService) NextNumber(ctx context.Context, prefix string, digits int) (string, error) {
	q, err := s.queries()
	if err != nil {
		return "", err
	}

	number, err := nextNumber(ctx, q, prefix, prefix, digits)
	if err != nil {
		return "", err
	}

	s.log.Debug("sequence advanced", "prefix", prefix, "number", number)
	return number, nil
}

// Peek returns the value the next NextNumber call for prefix would use.
func (s *SequenceService) Peek(ctx context.Context, prefix string) (int64, error) {
	q, err := s.queries()
	if err != nil {
		return 0, err
	}

	row, err := q.FindSequence(ctx, prefix)
	if err != nil {
		if isNoRows(err) {
			return 1, nil
		}
		return 0, database.TranslateError(fmt.Sprintf("peek sequence %q", prefix), err)
	}
	return row.NextValue, nil
}

// List returns every counter ordered by prefix.
func (s *SequenceService) List(ctx context.Context) ([]database.SequenceRecord, error) {
	q, err := s.queries()
	if err != nil {
		return nil, err
	}

	rows, err := q.ListSequences(ctx)
	if err != nil {
		return nil, database.TranslateError("list sequences", err)
	}

	result := make([]database.SequenceRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.SequenceRecordFromRow(row))
	}
	return result, nil
}

// FormatNumber renders prefix followed by value zero-padded to digits.
func FormatNumber(prefix string, value int64, digits int) string {
	return fmt.Sprintf("%s%0*d", prefix, digits, value)
}

// nextNumber advances the counter stored under key and formats the value
// after display. The upsert is a single statement, so concurrent callers never
// observe the same value.
func nextNumber(ctx context.Context, q *sqldb.Queries, key, display string, digits int) (string, error) {
	if digits < 1 {
		return "", fmt.Errorf("next number for %q: digits must be positive, got %d: %w", key, digits, database.ErrMalformedInput)
	}

	value, err := q.NextSequenceValue(ctx, sqldb.NextSequenceValueParams{
		Prefix: key,
		Digits: int64(digits),
	})
	if err != nil {
		return "", database.TranslateError(fmt.Sprintf("next number for %q", key), err)
	}
	return FormatNumber(display, value, digits), nil
}
