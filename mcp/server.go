package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "giftlist-preview"
	serverVersion = "1.0.0"
)

func newServer(svc Previewer) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)
	registerTools(s, svc)
	return s
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(svc Previewer) error {
	return server.ServeStdio(newServer(svc))
}
