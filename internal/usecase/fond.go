// Package usecase composes services into the flows the CLI and MCP server run.
package usecase

import (
	"context"
	"fmt"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/services"
)

type Fond struct {
	classificationService *services.ClassificationService
	fondService           *services.FondService
}

func NewFond(dbCtx *database.Context, opts ...services.Option) *Fond {
	return &Fond{
		classificationService: services.NewClassificationService(dbCtx, opts...),
		fondService:           services.NewFondService(dbCtx, opts...),
	}
}

// Create creates a fond under an active classification and generates its
// series. An inactive classification is rejected with ErrProtected.
func (u *Fond) Create(ctx context.Context, input services.CreateFondInput) (*services.CreateFondResult, error) {
	node, err := u.classificationService.Get(ctx, input.ClassificationCode)
	if err != nil {
		return nil, err
	}
	if !node.Active {
		return nil, fmt.Errorf("create fond: classification %q is inactive: %w", node.Code, database.ErrProtected)
	}

	return u.fondService.Create(ctx, input)
}
