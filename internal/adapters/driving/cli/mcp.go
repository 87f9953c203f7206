package cli

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quill-editor/quill/internal/adapters/driving/mcp"
	"github.com/quill-editor/quill/internal/core/domain"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose posts to assistants over MCP",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can read,
draft and sync posts.

Without --port the server speaks JSON-RPC on stdin/stdout, which is
what desktop assistants launch. With --port it serves streamable HTTP,
bound to --host (loopback unless told otherwise).

Examples:
  quill mcp serve
  quill mcp serve --port 8080
  quill mcp serve --port 8080 --host 0.0.0.0

Assistant configuration:
  {
    "mcpServers": {
      "quill": {
        "command": "/path/to/quill",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("host", "127.0.0.1", "HTTP bind address")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: port %d out of range", domain.ErrInvalidInput, port)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Posts: postService,
		Sites: siteService,
		Sync:  syncService,
		Goals: goalService,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port == 0 {
		return server.Run(ctx)
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	cmd.Printf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(ctx, addr)
}
