package main

import (
	"context"
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/library"
	"github.com/fondspod/fondspod/internal/services"
	"github.com/fondspod/fondspod/internal/usecase"
)

func newSeriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "List, generate and delete series",
	}

	cmd.AddCommand(newSeriesListCmd(a))
	cmd.AddCommand(newSeriesGenerateCmd(a))
	cmd.AddCommand(newSeriesDeleteCmd(a))
	cmd.AddCommand(newSeriesRegenerateAllCmd(a))

	return cmd
}

func newSeriesListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list <fond_no>",
		Short: "List the series of a fond",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				svc := a.fondService(dbCtx)
				if _, err := svc.Get(ctx, args[0]); err != nil {
					return err
				}
				list, err := svc.ListSeries(ctx, args[0])
				if err != nil {
					return err
				}
				if format == formatJSON {
					return outputJSON(cmd, list)
				}

				width := nameWidth(45)
				t := newTable(cmd, table.Row{a.tr.T("header.series"), a.tr.T("header.name"), a.tr.T("header.created_at")})
				for _, s := range list {
					t.AppendRow(table.Row{s.SeriesNo, truncate(s.Name, width), formatDate(s.CreatedAt)})
				}
				t.Render()
				a.printTotal(cmd, len(list))
				return nil
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func newSeriesGenerateCmd(a *app) *cobra.Command {
	var (
		progress bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "generate <fond_no>",
		Short: "Insert the series a fond is missing",
		Long: "Expand the fond's assigned schemas into series and insert the ones that do not exist yet. " +
			"The Year schema runs from the fond's creation year to the current year. Running it again inserts nothing new.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fondNo := args[0]
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				if dryRun {
					planned, err := a.fondService(dbCtx).PlanSeries(ctx, fondNo)
					if err != nil {
						return err
					}
					t := newTable(cmd, table.Row{a.tr.T("header.series"), a.tr.T("header.name")})
					for _, c := range planned {
						t.AppendRow(table.Row{c.SeriesNo, c.Name})
					}
					t.Render()
					a.printf(cmd, "series.planned", fondNo, len(planned))
					return nil
				}

				var (
					extra []services.Option
					bar   *pb.ProgressBar
				)
				if progress {
					bar = pb.New(0)
					bar.SetWriter(cmd.ErrOrStderr())
					bar.Start()
					extra = append(extra, services.WithProgress(func(done, total int) {
						bar.SetTotal(int64(total))
						bar.SetCurrent(int64(done))
					}))
				}

				inserted, err := a.fondService(dbCtx, extra...).RegenerateSeries(ctx, fondNo)
				if bar != nil {
					bar.Finish()
				}
				if err != nil {
					return err
				}
				a.printf(cmd, "series.generated", fondNo, inserted)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar on stderr")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list the planned series")
	return cmd
}

func newSeriesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <series_no>",
		Short: "Delete a series without files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				svc := a.fondService(dbCtx)
				if _, err := svc.GetSeries(ctx, args[0]); err != nil {
					return err
				}
				deleted, err := svc.DeleteSeries(ctx, args[0])
				if err != nil {
					return err
				}
				if !deleted {
					a.printf(cmd, "series.delete_refused", args[0])
					return nil
				}
				a.printf(cmd, "series.deleted", args[0])
				return nil
			})
		},
	}
}

func newSeriesRegenerateAllCmd(a *app) *cobra.Command {
	var allLibraries bool

	cmd := &cobra.Command{
		Use:   "regenerate-all",
		Short: "Generate missing series for every fond",
		Long:  "Generate missing series for every fond of the selected library, or of every registered library with --all-libraries.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !allLibraries {
				return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
					inserted, err := a.fondService(dbCtx).RegenerateAll(ctx)
					if err != nil {
						return err
					}
					a.printf(cmd, "series.regenerated", humanize.Comma(int64(inserted)))
					return nil
				})
			}

			libs := a.registry.List()
			if len(libs) == 0 {
				return fmt.Errorf("%s: %w", a.tr.T("library.none"), database.ErrNotFound)
			}
			results, err := usecase.RegenerateLibraries(cmd.Context(), libs, library.Open, a.serviceOptions()...)
			if err != nil {
				return err
			}

			total := 0
			t := newTable(cmd, table.Row{a.tr.T("header.name"), a.tr.T("header.path"), a.tr.T("header.inserted")})
			for _, r := range results {
				t.AppendRow(table.Row{r.Library.Name, r.Library.Path, r.Inserted})
				total += r.Inserted
			}
			t.Render()
			a.printf(cmd, "series.regenerated", humanize.Comma(int64(total)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&allLibraries, "all-libraries", false, "Regenerate every registered library concurrently")
	return cmd
}
