package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/intent"
	"github.com/academydays/hubby/internal/render"
	"github.com/academydays/hubby/internal/source"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Loader acquires the knowledge base.
type Loader interface {
	Load(ctx context.Context) *source.Result
}

// Server wraps an MCP server that exposes the assistant as tools.
type Server struct {
	cfg      *config.Config
	loader   Loader
	matcher  *intent.Matcher
	renderer *render.Renderer
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server answering from loader.
func NewServer(cfg *config.Config, loader Loader) *Server {
	s := &Server{
		cfg:      cfg,
		loader:   loader,
		matcher:  intent.NewMatcher(cfg.Actions),
		renderer: render.New(cfg),
	}

	s.mcp = server.NewMCPServer(
		"hubby",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listDaysTool, s.handleListDays)
	s.mcp.AddTool(askHubbyTool, s.handleAskHubby)
	s.mcp.AddTool(showActionTool, s.handleShowAction)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
