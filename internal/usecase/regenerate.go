package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/library"
	"github.com/fondspod/fondspod/internal/services"
)

// Opener opens the database of a library.
type Opener func(ctx context.Context, lib library.Library) (*database.Context, error)

// LibraryResult is the outcome of regenerating one library.
type LibraryResult struct {
	Library  library.Library
	Inserted int
}

// maxParallelLibraries bounds how many library databases are open at once.
const maxParallelLibraries = 4

// RegenerateLibraries regenerates the series of every fond in every library.
// Libraries are separate database files and run concurrently; the first
// failure cancels the rest. Results keep the order of libs.
func RegenerateLibraries(ctx context.Context, libs []library.Library, open Opener, opts ...services.Option) ([]LibraryResult, error) {
	if open == nil {
		open = library.Open
	}

	results := make([]LibraryResult, len(libs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLibraries)

	for i, lib := range libs {
		g.Go(func() error {
			dbCtx, err := open(gctx, lib)
			if err != nil {
				return fmt.Errorf("open library %s: %w", lib.Name, err)
			}
			defer func() { _ = database.CloseDatabase(dbCtx) }()

			inserted, err := services.NewFondService(dbCtx, opts...).RegenerateAll(gctx)
			if err != nil {
				return fmt.Errorf("regenerate library %s: %w", lib.Name, err)
			}
			results[i] = LibraryResult{Library: lib, Inserted: inserted}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
