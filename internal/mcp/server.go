// Package mcp exposes the coach's roster to Model Context Protocol clients.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("StudentUp", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("StudentUp coach server. Look up students, their body stats and training sessions (strength, swimming, boxing or other), follow strength progress, and log new sessions."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListStudents, Handler: h.listStudents},
		server.ServerTool{Tool: toolGetStudent, Handler: h.getStudent},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolLogSession, Handler: h.logSession},
		server.ServerTool{Tool: toolListCategories, Handler: h.listCategories},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRoster, Handler: h.rosterOverview},
		server.ServerResource{Resource: resCategories, Handler: h.categoryList},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRoster = mcp.NewResource(
	"studentup://roster",
	"Roster",
	mcp.WithResourceDescription("Every student with category, current stats, latest session date and progress status"),
	mcp.WithMIMEType("application/json"),
)

var resCategories = mcp.NewResource(
	"studentup://categories",
	"Categories",
	mcp.WithResourceDescription("Training categories and the exercise fields each one records"),
	mcp.WithMIMEType("application/json"),
)
