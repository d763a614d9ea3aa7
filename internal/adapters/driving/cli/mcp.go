package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parasol/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can analyse the
corpus, build migration plans and read published service trees.

Tools:
  analyze_corpus   - sharing analysis and layer classification
  plan_migration   - phased migration plan report

Resources:
  parasol://services                    - published services
  parasol://services/{serviceId}/tree   - tree of one service

By default the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead.

Examples:
  # Stdio mode (default)
  parasol mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  parasol mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "parasol": {
        "command": "/path/to/parasol",
        "args": ["mcp", "serve", "--root", "/path/to/docs/parasol"]
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

	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	ports := &mcp.Ports{
		Corpus: s.Corpus,
		Tree:   s.Tree,
		Root:   s.Root(),
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
