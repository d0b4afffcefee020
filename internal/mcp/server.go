// ABOUTME: MCP server setup for the nutrition tracker.
// ABOUTME: Exposes tracker operations as tools and today's state as resources.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nutrition/internal/tracker"
)

// Server wraps the MCP server with tracker access.
type Server struct {
	mcpServer *mcp.Server
	tracker   *tracker.Tracker
}

// NewServer creates a new MCP server over tr.
func NewServer(tr *tracker.Tracker, version string) (*Server, error) {
	if version == "" {
		version = "dev"
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nutrition",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		tracker:   tr,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
