package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/library"
	"github.com/fondspod/fondspod/internal/services"
	"github.com/fondspod/fondspod/internal/usecase"
)

func newFondCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fond",
		Short: "Manage fonds",
	}

	cmd.AddCommand(newFondCreateCmd(a))
	cmd.AddCommand(newFondListCmd(a))
	cmd.AddCommand(newFondDeleteCmd(a))
	cmd.AddCommand(newFondAssignCmd(a))
	cmd.AddCommand(newFondSchemasCmd(a))

	return cmd
}

func (a *app) fondService(dbCtx *database.Context, extra ...services.Option) *services.FondService {
	return services.NewFondService(dbCtx, append(a.serviceOptions(), extra...)...)
}

func newFondCreateCmd(a *app) *cobra.Command {
	var (
		createdAt string
		schemas   []string
	)

	cmd := &cobra.Command{
		Use:   "create <classification_code> <name>",
		Short: "Create a fond and generate its series",
		Long: "Create a fond under an active classification. The fond number is the classification code " +
			"followed by a zero-padded sequence. Schemas given with --schema are assigned in order and the " +
			"fond's series are generated right away.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				result, err := usecase.NewFond(dbCtx, a.serviceOptions()...).Create(ctx, services.CreateFondInput{
					ClassificationCode: args[0],
					Name:               args[1],
					CreatedAt:          createdAt,
					SchemaNos:          schemas,
				})
				if err != nil {
					return err
				}
				a.printf(cmd, "fond.created", result.FondNo, result.SeriesCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&createdAt, "created-at", "", "Creation date, YYYY or YYYY-MM-DD; its year starts the Year schema (defaults to today)")
	cmd.Flags().StringSliceVar(&schemas, "schema", nil, "Schema to assign, in order; repeat or separate with commas")
	return cmd
}

type fondRow struct {
	FondNo         string   `json:"fond_no"`
	Classification string   `json:"classification"`
	Name           string   `json:"name"`
	CreatedAt      string   `json:"created_at"`
	CreatedBy      string   `json:"created_by"`
	Schemas        []string `json:"schemas"`
}

func newFondListCmd(a *app) *cobra.Command {
	var (
		classification string
		format         string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fonds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				svc := a.fondService(dbCtx)
				var (
					fonds []database.FondRecord
					err   error
				)
				if classification == "" {
					fonds, err = svc.List(ctx)
				} else {
					fonds, err = svc.ListByClassification(ctx, classification)
				}
				if err != nil {
					return err
				}

				schemaSvc := a.schemaService(dbCtx)
				rows := make([]fondRow, 0, len(fonds))
				for _, f := range fonds {
					assigned, err := schemaSvc.ListForFond(ctx, f.FondNo)
					if err != nil {
						return err
					}
					schemaNos := make([]string, 0, len(assigned))
					for _, s := range assigned {
						schemaNos = append(schemaNos, s.SchemaNo)
					}
					rows = append(rows, fondRow{
						FondNo:         f.FondNo,
						Classification: f.ClassificationCode,
						Name:           f.Name,
						CreatedAt:      f.CreatedAt,
						CreatedBy:      f.CreatedBy,
						Schemas:        schemaNos,
					})
				}

				if format == formatJSON {
					return outputJSON(cmd, rows)
				}

				width := nameWidth(70)
				t := newTable(cmd, table.Row{
					a.tr.T("header.fond"), a.tr.T("header.classification"), a.tr.T("header.name"),
					a.tr.T("header.schema"), a.tr.T("header.created_at"), a.tr.T("header.created_by"),
				})
				for _, r := range rows {
					t.AppendRow(table.Row{
						r.FondNo, r.Classification, truncate(r.Name, width),
						strings.Join(r.Schemas, ","), r.CreatedAt, r.CreatedBy,
					})
				}
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&classification, "classification", "", "Only fonds of this classification")
	addFormatFlag(cmd, &format)
	return cmd
}

func newFondDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <fond_no>",
		Short: "Delete a fond whose series hold no files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				svc := a.fondService(dbCtx)
				if _, err := svc.Get(ctx, args[0]); err != nil {
					return err
				}
				deleted, err := svc.Delete(ctx, args[0])
				if err != nil {
					return err
				}
				if !deleted {
					a.printf(cmd, "fond.delete_refused", args[0])
					return nil
				}
				a.printf(cmd, "fond.deleted", args[0])
				return nil
			})
		},
	}
}

func newFondAssignCmd(a *app) *cobra.Command {
	var (
		order  int64
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "assign <fond_no> <schema_no>",
		Short: "Assign a schema to a fond, or remove it with --remove",
		Long: "Assign a schema to a fond at --order (appended when omitted). Run series generate " +
			"afterwards to add the new series. Removing an assignment keeps existing series.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fondNo, schemaNo := args[0], args[1]
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				svc := a.schemaService(dbCtx)

				if remove {
					removed, err := svc.UnassignFromFond(ctx, fondNo, schemaNo)
					if err != nil {
						return err
					}
					if !removed {
						return fmt.Errorf("%s: %w", a.tr.T("not_found", fondNo+"/"+schemaNo), database.ErrNotFound)
					}
					a.printf(cmd, "fond.unassigned", fondNo, schemaNo)
					return nil
				}

				position := order
				if !cmd.Flags().Changed("order") {
					assigned, err := svc.ListForFond(ctx, fondNo)
					if err != nil {
						return err
					}
					position = int64(len(assigned))
				}
				if err := svc.AssignToFond(ctx, fondNo, schemaNo, position); err != nil {
					return err
				}
				a.printf(cmd, "fond.assigned", schemaNo, fondNo)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&order, "order", 0, "Position of the schema in series numbers, 0 first")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the assignment instead")
	return cmd
}

func newFondSchemasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas <fond_no>",
		Short: "List the schemas assigned to a fond",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				if _, err := a.fondService(dbCtx).Get(ctx, args[0]); err != nil {
					return err
				}
				assigned, err := a.schemaService(dbCtx).ListForFond(ctx, args[0])
				if err != nil {
					return err
				}

				t := newTable(cmd, table.Row{a.tr.T("header.order"), a.tr.T("header.schema")})
				for _, s := range assigned {
					t.AppendRow(table.Row{s.OrderNo, s.SchemaNo})
				}
				t.Render()
				return nil
			})
		},
	}
}
