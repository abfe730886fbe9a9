package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can browse
the services catalog.

Tools:     list_services, get_service, list_templates, my_services
Resources: medmart://templates, medmart://bookmarks, medmart://services/{id}

By default the server speaks JSON-RPC over stdio. Use --port to serve
HTTP instead, for example to inspect it with MCP Inspector.

Examples:
  # Stdio mode (default)
  medmart mcp serve

  # HTTP mode
  medmart mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "medmart": {
        "command": "/path/to/medmart",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Catalog:   catalogService,
		Auth:      authService,
		Bookmarks: bookmarkService,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
