package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/somatic/internal/adapters/mcp"
	"github.com/xvierd/somatic/internal/ports"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server runs a headless session and exposes the check-in, player and
afterglow events as tools over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(true)
		if err != nil {
			return err
		}
		defer sess.Close()

		ctx, stop := setupSignalHandler()
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var server ports.MCPHandler = mcp.NewServer(sess.ctrl, sess.loop, app.logger)

		// Without a loop no tool call can complete, so the server goes down
		// with it.
		loopErr := make(chan error, 1)
		go func() {
			loopErr <- sess.loop.Run(ctx)
			_ = server.Stop()
		}()

		app.logger.Info("starting MCP server", "transport", "stdio")
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		cancel()
		if err := <-loopErr; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
