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

func newSequenceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Inspect and draw from numbering sequences",
	}

	var digits int
	nextCmd := &cobra.Command{
		Use:   "next <prefix>",
		Short: "Take the next number of a sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				number, err := services.NewSequenceService(dbCtx, a.serviceOptions()...).NextNumber(ctx, args[0], digits)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), number)
				return err
			})
		},
	}
	nextCmd.Flags().IntVar(&digits, "digits", services.FondDigits, "Zero padding width")
	cmd.AddCommand(nextCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sequences and the value each returns next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				sequences, err := services.NewSequenceService(dbCtx, a.serviceOptions()...).List(ctx)
				if err != nil {
					return err
				}

				t := newTable(cmd, table.Row{
					a.tr.T("header.prefix"), a.tr.T("header.next"), a.tr.T("header.digits"), a.tr.T("header.created_at"),
				})
				for _, s := range sequences {
					t.AppendRow(table.Row{s.Prefix, s.NextValue, s.Digits, formatDate(s.CreatedAt)})
				}
				t.Render()
				return nil
			})
		},
	})

	return cmd
}
