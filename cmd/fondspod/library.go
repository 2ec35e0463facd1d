package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/library"
)

func newLibraryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage archive libraries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <path>",
		Short: "Register a library folder and initialize its database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.registry.Add(args[0], args[1])
			if err != nil {
				return err
			}
			a.log.Info("library added", "id", lib.ID, "path", lib.Path)
			a.printf(cmd, "library.added", lib.Name, lib.Path)
			return nil
		},
	})

	var format string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			libs := a.registry.List()
			if format == formatJSON {
				return outputJSON(cmd, libs)
			}

			t := newTable(cmd, table.Row{
				a.tr.T("header.id"), a.tr.T("header.name"), a.tr.T("header.path"), a.tr.T("header.last_opened"),
			})
			for _, lib := range libs {
				t.AppendRow(table.Row{lib.ID, lib.Name, lib.Path, formatAgo(lib.LastOpened)})
			}
			t.Render()
			return nil
		},
	}
	addFormatFlag(listCmd, &format)
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id|name|path>",
		Short: "Unregister a library; its folder is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := a.registry.Remove(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%s: %w", a.tr.T("not_found", args[0]), database.ErrNotFound)
			}
			a.printf(cmd, "library.removed", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id|name|path> <name>",
		Short: "Rename a library",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.registry.Rename(args[0], args[1]); err != nil {
				return err
			}
			a.printf(cmd, "library.renamed", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(newLibraryClearCmd(a))

	return cmd
}

func newLibraryClearCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every archive record from the selected library",
		Long:  "Remove classifications, schemas, fonds, series, files, items and sequences. The Year schema and the folders on disk are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return errors.New(a.tr.T("library.clear_force"))
			}
			return a.withLibrary(cmd, func(_ context.Context, dbCtx *database.Context, lib *library.Library) error {
				if err := database.ClearDatabase(dbCtx); err != nil {
					return err
				}
				a.log.Warn("library cleared", "library", lib.Name, "path", lib.Path)
				a.printf(cmd, "library.cleared", lib.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm removing all records")
	return cmd
}
