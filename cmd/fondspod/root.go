package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fondspod/fondspod/internal/config"
	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/i18n"
	"github.com/fondspod/fondspod/internal/library"
	"github.com/fondspod/fondspod/internal/logger"
	"github.com/fondspod/fondspod/internal/services"
)

// app carries what every command needs. It is filled in before any
// subcommand runs.
type app struct {
	configPath string
	libraryRef string
	lang       string

	settings *config.Settings
	log      *logger.Logger
	tr       *i18n.Translator
	registry *library.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "fondspod",
		Short:         "fondspod - archive fond and series management",
		Long:          "fondspod keeps fond classifications, schemas, fonds, series, files and items of archive libraries.",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.libraryRef, "library", "", "Library id, name or path (defaults to the configured or last opened library)")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (defaults to config.yaml in the config directory)")
	cmd.PersistentFlags().StringVar(&a.lang, "lang", "", "Output language: zh_CN or en")

	cmd.AddCommand(newLibraryCmd(a))
	cmd.AddCommand(newClassificationCmd(a))
	cmd.AddCommand(newSchemaCmd(a))
	cmd.AddCommand(newFondCmd(a))
	cmd.AddCommand(newSeriesCmd(a))
	cmd.AddCommand(newFileCmd(a))
	cmd.AddCommand(newItemCmd(a))
	cmd.AddCommand(newSequenceCmd(a))
	cmd.AddCommand(newMCPCmd(a))

	return cmd
}

func (a *app) load() error {
	settings, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.lang != "" {
		settings.Language = a.lang
	}
	a.settings = settings

	log, err := logger.New(settings.Logging.Mode, settings.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.log = log
	a.tr = i18n.New(settings.Language)

	registry, err := library.Load(config.GetLibrariesPath())
	if err != nil {
		return err
	}
	a.registry = registry
	return nil
}

// openLibrary opens the selected library and records it as last opened.
func (a *app) openLibrary(ctx context.Context) (*database.Context, *library.Library, error) {
	ref := a.libraryRef
	if ref == "" {
		ref = a.settings.Library
	}

	lib, err := a.registry.Default(ref)
	if err != nil {
		if ref == "" && errors.Is(err, database.ErrNotFound) {
			return nil, nil, errors.New(a.tr.T("library.none"))
		}
		return nil, nil, err
	}

	dbCtx, err := library.Open(ctx, *lib)
	if err != nil {
		return nil, nil, err
	}
	if err := a.registry.SetLastOpened(lib.ID, time.Now()); err != nil {
		a.log.Warn("failed to record last opened library", "library", lib.Name, "error", err)
	}
	a.log.Debug("library opened", "library", lib.Name, "path", lib.Path)
	return dbCtx, lib, nil
}

// withLibrary runs fn against the selected library and closes it afterwards.
func (a *app) withLibrary(cmd *cobra.Command, fn func(ctx context.Context, dbCtx *database.Context, lib *library.Library) error) error {
	ctx := cmd.Context()
	dbCtx, lib, err := a.openLibrary(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.CloseDatabase(dbCtx)
	}()
	return fn(ctx, dbCtx, lib)
}

func (a *app) serviceOptions() []services.Option {
	return []services.Option{
		services.WithLogger(a.log),
		services.WithAuditor(database.CurrentAuditor()),
		services.WithDigits(services.Digits{
			Fond: a.settings.Numbering.FondDigits,
			File: a.settings.Numbering.FileDigits,
			Item: a.settings.Numbering.ItemDigits,
		}),
	}
}
