package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cinepick/internal/adapters/driving/mcp"
)

var (
	mcpPort  int
	mcpTrace bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose recommendations to MCP clients",
	Long: `Serve the recommend tool and the settings and prompt resources over the
Model Context Protocol.

Without --port the server speaks JSON-RPC on stdin/stdout, which is what
desktop assistants expect when they launch cinepick themselves:

  {"mcpServers": {"cinepick": {"command": "cinepick", "args": ["mcp", "serve"]}}}

With --port the streamable HTTP transport is served on /mcp instead, for
MCP Inspector or remote clients.`,
	Example: `  cinepick mcp serve
  cinepick mcp serve --port 8081
  cinepick --verbose mcp serve --trace`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve over HTTP on this port instead of stdio")
	mcpServeCmd.Flags().BoolVar(&mcpTrace, "trace", false, "log JSON-RPC traffic (needs --verbose)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	var opts []mcp.Option
	if mcpTrace {
		opts = append(opts, mcp.WithTraffic())
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Recommendation: recommendationService,
		Settings:       settingsService,
		Prompts:        promptStore,
	}, opts...)
	if err != nil {
		return err
	}

	if mcpPort <= 0 {
		return server.Run(cmd.Context())
	}

	addr := fmt.Sprintf(":%d", mcpPort)
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s%s\n", addr, mcp.Endpoint)
	return server.RunHTTP(cmd.Context(), addr)
}
