package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/norma-labs/norma-cli/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the pipeline over the Model Context Protocol",
	Long: `Runs an MCP server so AI assistants can query the corpus.

The server offers the pipeline as an 'ask' tool, direct retrieval as
'search_corpus', and the knowledge scope and system status as
resources. Without --port it speaks JSON-RPC over stdio, which is how
Claude Desktop and similar clients launch it:

  {
    "mcpServers": {
      "norma": {
        "command": "/path/to/norma",
        "args": ["mcp"]
      }
    }
  }

With --port it serves streamable HTTP instead, useful for the MCP
Inspector or remote clients:

  norma mcp --port 8080`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVar(&mcpPort, "port", 0, "serve streamable HTTP on this port instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured. Run 'norma settings wizard' to set up an LLM provider")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Answer:    answerService,
		Retrieval: retrievalService,
		Scope:     scopeService,
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
