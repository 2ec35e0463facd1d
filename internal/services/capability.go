package services

import "context"

// Activatable is implemented by records that can be switched on and off.
type Activatable interface {
	Activate(ctx context.Context, code string) error
	Deactivate(ctx context.Context, code string) error
}

// Sortable is implemented by records with a user-controlled display order.
type Sortable interface {
	SetSortOrder(ctx context.Context, code string, order int64) error
}

var (
	_ Activatable = (*ClassificationService)(nil)
	_ Sortable    = (*ClassificationService)(nil)
)
