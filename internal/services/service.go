// Package services implements the fondspod aggregates on top of a library database.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fondspod/fondspod/internal/database"
	sqldb "github.com/fondspod/fondspod/internal/database/sqlc"
	"github.com/fondspod/fondspod/internal/logger"
)

// Default zero-padding widths for minted numbers.
const (
	FondDigits = 2
	FileDigits = 2
	ItemDigits = 3
)

// ItemPrefix is the display prefix for item numbers.
const ItemPrefix = "I"

// Item and file counters use private sequence keys, apart from classification codes.
const (
	itemSequenceKey    = "item:" + ItemPrefix
	fileSequencePrefix = "file:"
)

// Digits holds the zero-padding widths used when minting numbers.
type Digits struct {
	Fond int
	File int
	Item int
}

// ProgressFunc observes series generation; done counts processed candidates.
type ProgressFunc func(done, total int)

// Option configures a service.
type Option func(*store)

// WithLogger sets the logger; services log nothing by default.
func WithLogger(l *logger.Logger) Option {
	return func(s *store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAuditor sets the identity recorded in created_by and created_machine.
func WithAuditor(a database.Auditor) Option {
	return func(s *store) { s.auditor = a }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDigits overrides the numbering widths. Zero fields keep the default.
func WithDigits(d Digits) Option {
	return func(s *store) {
		if d.Fond > 0 {
			s.digits.Fond = d.Fond
		}
		if d.File > 0 {
			s.digits.File = d.File
		}
		if d.Item > 0 {
			s.digits.Item = d.Item
		}
	}
}

// WithProgress registers a generation progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(s *store) { s.progress = fn }
}

// store carries what every service needs: the database handle and ambient collaborators.
type store struct {
	name     string
	ctx      *database.Context
	log      *logger.Logger
	auditor  database.Auditor
	now      func() time.Time
	digits   Digits
	progress ProgressFunc
}

func newStore(name string, dbCtx *database.Context, opts []Option) store {
	s := store{
		name:    name,
		ctx:     dbCtx,
		log:     logger.Nop(),
		auditor: database.CurrentAuditor(),
		now:     time.Now,
		digits:  Digits{Fond: FondDigits, File: FileDigits, Item: ItemDigits},
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.log = s.log.With("service", name)
	return s
}

func (s *store) withTx(ctx context.Context, fn func(context.Context, *sqldb.Queries) error) error {
	if s.ctx == nil || s.ctx.DB == nil {
		return fmt.Errorf("%s service: missing database context", s.name)
	}

	tx, err := s.ctx.DB.BeginTx(ctx, nil)
	if err != nil {
		return database.TranslateError(s.name+": begin transaction", err)
	}

	queries := sqldb.New(tx)

	if err := fn(ctx, queries); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return database.TranslateError(s.name+": commit", err)
	}

	return nil
}

func (s *store) queries() (*sqldb.Queries, error) {
	if s.ctx == nil {
		return nil, fmt.Errorf("%s service: missing database context", s.name)
	}
	if s.ctx.Queries == nil {
		if s.ctx.DB == nil {
			return nil, fmt.Errorf("%s service: database handle not initialised", s.name)
		}
		s.ctx.Queries = sqldb.New(s.ctx.DB)
	}
	return s.ctx.Queries, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
