package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/library"
	"github.com/fondspod/fondspod/internal/services"
	"github.com/fondspod/fondspod/internal/usecase"
)

func (a *app) archive(dbCtx *database.Context, lib *library.Library) *usecase.Archive {
	return usecase.NewArchive(dbCtx, lib.Path, a.log, a.serviceOptions()...)
}

func newFileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Manage the files of a series",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <series_no> <name>",
		Short: "Add a file to a series and create its folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, lib *library.Library) error {
				file, dir, err := a.archive(dbCtx, lib).CreateFile(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				a.printf(cmd, "file.created", file.FileNo, dir)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <series_no>",
		Short: "List the files of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				if _, err := a.fondService(dbCtx).GetSeries(ctx, args[0]); err != nil {
					return err
				}
				files, err := services.NewArchiveService(dbCtx, a.serviceOptions()...).ListFiles(ctx, args[0])
				if err != nil {
					return err
				}

				width := nameWidth(60)
				t := newTable(cmd, table.Row{
					a.tr.T("header.file"), a.tr.T("header.name"), a.tr.T("header.created_by"), a.tr.T("header.created_at"),
				})
				for _, f := range files {
					t.AppendRow(table.Row{f.FileNo, truncate(f.Name, width), f.CreatedBy, formatDate(f.CreatedAt)})
				}
				t.Render()
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <file_no>",
		Short: "Delete a file without items and its empty folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, lib *library.Library) error {
				deleted, err := a.archive(dbCtx, lib).DeleteFile(ctx, args[0])
				if err != nil {
					return err
				}
				if !deleted {
					a.printf(cmd, "file.delete_refused", args[0])
					return nil
				}
				a.printf(cmd, "file.deleted", args[0])
				return nil
			})
		},
	})

	return cmd
}

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the items of a file",
	}

	var (
		path     string
		copyFile bool
	)
	addCmd := &cobra.Command{
		Use:   "add <file_no> <name>",
		Short: "Add an item to a file",
		Long:  "Add an item to a file. --path records where the item lives; with --copy the file is copied into the file's folder.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, lib *library.Library) error {
				result, err := a.archive(dbCtx, lib).AddItem(ctx, usecase.AddItemInput{
					FileNo: args[0],
					Name:   args[1],
					Source: path,
					Copy:   copyFile,
				})
				if err != nil {
					return err
				}
				if result.Hash != "" {
					a.printf(cmd, "item.created_hashed", result.Item.ItemNo, result.Hash)
					return nil
				}
				a.printf(cmd, "item.created", result.Item.ItemNo)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&path, "path", "", "Path of the item's digital copy")
	addCmd.Flags().BoolVar(&copyFile, "copy", false, "Copy --path into the file's folder")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list <file_no>",
		Short: "List the items of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				items, err := services.NewArchiveService(dbCtx, a.serviceOptions()...).ListItems(ctx, args[0])
				if err != nil {
					return err
				}

				width := nameWidth(50) / 2
				t := newTable(cmd, table.Row{
					a.tr.T("header.item"), a.tr.T("header.name"), a.tr.T("header.path"), a.tr.T("header.created_at"),
				})
				for _, item := range items {
					t.AppendRow(table.Row{item.ItemNo, truncate(item.Name, width), truncate(item.Path, width), formatDate(item.CreatedAt)})
				}
				t.Render()
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <item_no>",
		Short: "Delete an item; attachments stay on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, lib *library.Library) error {
				deleted, err := a.archive(dbCtx, lib).DeleteItem(ctx, args[0])
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("%s: %w", a.tr.T("not_found", args[0]), database.ErrNotFound)
				}
				a.printf(cmd, "item.deleted", args[0])
				return nil
			})
		},
	})

	return cmd
}
