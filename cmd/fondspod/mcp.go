package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/library"
	"github.com/fondspod/fondspod/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server over stdio for the selected library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withLibrary(cmd, func(ctx context.Context, dbCtx *database.Context, _ *library.Library) error {
				mcp.Version = version
				return mcp.NewServer(dbCtx, a.log, a.serviceOptions()...).Run(ctx)
			})
		},
	}

	return cmd
}
