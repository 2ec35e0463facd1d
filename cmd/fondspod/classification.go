package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/library"
	"github.com/fondspod/fondspod/internal/services"
)

func newClassificationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "classification",
		Aliases: []string{"class"},
		Short:   "Manage the two-level fond classification tree",
	}

	cmd.AddCommand(newClassificationAddCmd(a))
	cmd.AddCommand(newClassificationListCmd(a))
	cmd.AddCommand(newClassificationToggleCmd(a, "activate", true))
	cmd.AddCommand(newClassificationToggleCmd(a, "deactivate", false))
	cmd.AddCommand(newClassificationDeleteCmd(a))
	cmd.AddCommand(newClassificationRenameCmd(a))
	cmd.AddCommand(newClassificationOrderCmd(a))
	cmd.AddCommand(newClassificationExportCmd(a))
	cmd.AddCommand(newClassificationImportCmd(a))

	return cmd
}

func (a *app) classificationService(dbCtx *database.Context) *services.ClassificationService {
	return services.NewClassificationService(dbCtx, a.serviceOptions()...)
}

func newClassificationAddCmd(a *app) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "add <code> <name>",
		Short: "Add a top-level classification, or a child with --parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				svc := a.classificationService(dbCtx)
				var err error
				if parent == "" {
					err = svc.CreateTop(ctx, args[0], args[1])
				} else {
					err = svc.CreateChild(ctx, parent, args[0], args[1])
				}
				if err != nil {
					return err
				}
				a.printf(cmd, "classification.created", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent classification code")
	return cmd
}

type classificationRow struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Parent    string `json:"parent,omitempty"`
	Active    bool   `json:"active"`
	SortOrder int64  `json:"sort_order"`
}

func newClassificationListCmd(a *app) *cobra.Command {
	var (
		parent string
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classifications; the whole tree unless --parent is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				rows, err := collectClassifications(ctx, a.classificationService(dbCtx), parent)
				if err != nil {
					return err
				}
				if format == formatJSON {
					return outputJSON(cmd, rows)
				}

				width := nameWidth(40)
				t := newTable(cmd, table.Row{
					a.tr.T("header.code"), a.tr.T("header.name"), a.tr.T("header.parent"),
					a.tr.T("header.active"), a.tr.T("header.order"),
				})
				for _, r := range rows {
					name := r.Name
					if r.Parent != "" && parent == "" {
						name = "  " + name
					}
					t.AppendRow(table.Row{r.Code, truncate(name, width), r.Parent, a.yesNo(r.Active), r.SortOrder})
				}
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Only list the children of this code")
	addFormatFlag(cmd, &format)
	return cmd
}

// collectClassifications lists the children of parent, or the whole tree
// with each top-level node followed by its children.
func collectClassifications(ctx context.Context, svc *services.ClassificationService, parent string) ([]classificationRow, error) {
	toRow := func(r database.ClassificationRecord) classificationRow {
		return classificationRow{Code: r.Code, Name: r.Name, Parent: r.ParentCode, Active: r.Active, SortOrder: r.SortOrder}
	}

	if parent != "" {
		children, err := svc.ListChildren(ctx, parent)
		if err != nil {
			return nil, err
		}
		rows := make([]classificationRow, 0, len(children))
		for _, c := range children {
			rows = append(rows, toRow(c))
		}
		return rows, nil
	}

	tops, err := svc.ListTop(ctx)
	if err != nil {
		return nil, err
	}
	var rows []classificationRow
	for _, top := range tops {
		rows = append(rows, toRow(top))
		children, err := svc.ListChildren(ctx, top.Code)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			rows = append(rows, toRow(c))
		}
	}
	return rows, nil
}

func newClassificationToggleCmd(a *app, use string, active bool) *cobra.Command {
	short := "Mark a classification active"
	key := "classification.activated"
	if !active {
		short = "Mark a classification inactive; no new fonds can use it"
		key = "classification.deactivated"
	}

	return &cobra.Command{
		Use:   use + " <code>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				var svc services.Activatable = a.classificationService(dbCtx)
				var err error
				if active {
					err = svc.Activate(ctx, args[0])
				} else {
					err = svc.Deactivate(ctx, args[0])
				}
				if err != nil {
					return err
				}
				a.printf(cmd, key, args[0])
				return nil
			})
		},
	}
}

func newClassificationDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a classification without children or fonds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				deleted, err := a.classificationService(dbCtx).Delete(ctx, args[0])
				if err != nil {
					return err
				}
				if !deleted {
					a.printf(cmd, "classification.delete_refused", args[0])
					return nil
				}
				a.printf(cmd, "classification.deleted", args[0])
				return nil
			})
		},
	}
}

func newClassificationRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <code> <name>",
		Short: "Rename a classification",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				if err := a.classificationService(dbCtx).Rename(ctx, args[0], args[1]); err != nil {
					return err
				}
				a.printf(cmd, "classification.renamed", args[0], args[1])
				return nil
			})
		},
	}
}

func newClassificationOrderCmd(a *app) *cobra.Command {
	var (
		parent   string
		position int64
	)

	cmd := &cobra.Command{
		Use:   "order <code>...",
		Short: "Reorder the siblings under --parent (top level when omitted)",
		Long: "Reorder siblings. Every sibling code must be listed exactly once, in the new order. " +
			"With --position a single code gets that sort order and the others are left alone.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				svc := a.classificationService(dbCtx)

				if cmd.Flags().Changed("position") {
					if len(args) != 1 {
						return fmt.Errorf("--position takes exactly one code: %w", database.ErrMalformedInput)
					}
					var sortable services.Sortable = svc
					if err := sortable.SetSortOrder(ctx, args[0], position); err != nil {
						return err
					}
					a.printf(cmd, "classification.reordered")
					return nil
				}

				if err := svc.Reorder(ctx, parent, args); err != nil {
					return err
				}
				a.printf(cmd, "classification.reordered")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent code of the siblings")
	cmd.Flags().Int64Var(&position, "position", 0, "Set the sort order of a single code")
	return cmd
}

func newClassificationExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the classification tree as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				data, err := a.classificationService(dbCtx).ExportJSON(ctx)
				if err != nil {
					return err
				}
				if output == "" {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				if err := os.WriteFile(output, data, 0o600); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				a.printf(cmd, "classification.exported", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newClassificationImportCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every classification with the tree in a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New(a.tr.T("classification.import_force"))
			}

			//nolint:gosec // G304: the user names the file to import
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				if err := a.classificationService(dbCtx).ImportJSON(ctx, data); err != nil {
					return err
				}
				a.printf(cmd, "classification.imported")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm replacing the existing tree")
	return cmd
}
