package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/library"
	"github.com/fondspod/fondspod/internal/services"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage schemas, the dimensions series are generated from",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <schema_no> <name>",
		Short: "Add a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				if err := a.schemaService(dbCtx).CreateSchema(ctx, args[0], args[1]); err != nil {
					return err
				}
				a.printf(cmd, "schema.created", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(newSchemaListCmd(a))

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <schema_no> <name>",
		Short: "Rename a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				if err := a.schemaService(dbCtx).RenameSchema(ctx, args[0], args[1]); err != nil {
					return err
				}
				a.printf(cmd, "schema.renamed", args[0], args[1])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <schema_no>",
		Short: "Delete a schema no fond uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				deleted, err := a.schemaService(dbCtx).DeleteSchema(ctx, args[0])
				if err != nil {
					return err
				}
				if !deleted {
					a.printf(cmd, "schema.delete_refused", args[0])
					return nil
				}
				a.printf(cmd, "schema.deleted", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(newSchemaItemCmd(a))
	return cmd
}

func (a *app) schemaService(dbCtx *database.Context) *services.SchemaService {
	return services.NewSchemaService(dbCtx, a.serviceOptions()...)
}

func newSchemaListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				schemas, err := a.schemaService(dbCtx).ListSchemas(ctx)
				if err != nil {
					return err
				}
				if format == formatJSON {
					return outputJSON(cmd, schemas)
				}

				t := newTable(cmd, table.Row{
					a.tr.T("header.schema"), a.tr.T("header.name"), a.tr.T("header.created_by"), a.tr.T("header.created_at"),
				})
				for _, s := range schemas {
					t.AppendRow(table.Row{s.SchemaNo, s.Name, s.CreatedBy, formatDate(s.CreatedAt)})
				}
				t.Render()
				return nil
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func newSchemaItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the items of a schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <schema_no> <item_no> <name>",
		Short: "Add an item to a schema",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				if err := a.schemaService(dbCtx).AddSchemaItem(ctx, args[0], args[1], args[2]); err != nil {
					return err
				}
				a.printf(cmd, "schema.item_added", args[0], args[1])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <schema_no>",
		Short: "List the items of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				svc := a.schemaService(dbCtx)
				if _, err := svc.GetSchema(ctx, args[0]); err != nil {
					return err
				}
				items, err := svc.ListSchemaItems(ctx, args[0])
				if err != nil {
					return err
				}

				t := newTable(cmd, table.Row{a.tr.T("header.item"), a.tr.T("header.name")})
				for _, item := range items {
					t.AppendRow(table.Row{item.ItemNo, item.ItemName})
				}
				t.Render()
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <schema_no> <item_no>",
		Short: "Delete an item; existing series are kept",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				deleted, err := a.schemaService(dbCtx).DeleteSchemaItem(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("%s: %w", a.tr.T("schema.item_missing", args[0], args[1]), database.ErrNotFound)
				}
				a.printf(cmd, "schema.item_deleted", args[0], args[1])
				return nil
			})
		},
	})

	return cmd
}
