// Package mcp exposes the workout tracker to LLM assistants over the Model
// Context Protocol. The server is read-only: searching the catalog,
// resolving the schedule, and computing suggestions. Session logging stays
// with the CLI.
package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/progression"
	"github.com/claude/liftlog/internal/storage"
)

// New creates an MCP server with all tools and resources registered.
func New(engine *catalog.Engine, store *storage.Store, prog *progression.Engine, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracker. Search the exercise catalog, inspect training plans, resolve the workout due on a date, get next-weight suggestions, and list missed sessions. All data belongs to the single local user."),
	)

	h := &handlers{
		engine: engine,
		store:  store,
		prog:   prog,
		log:    log,
		now:    time.Now,
	}

	s.AddTools(
		server.ServerTool{Tool: toolSearchExercises, Handler: h.searchExercises},
		server.ServerTool{Tool: toolGetExercise, Handler: h.getExercise},
		server.ServerTool{Tool: toolListPlans, Handler: h.listPlans},
		server.ServerTool{Tool: toolNextWorkout, Handler: h.nextWorkout},
		server.ServerTool{Tool: toolSuggestWeights, Handler: h.suggestWeights},
		server.ServerTool{Tool: toolMissingSessions, Handler: h.missingSessions},
	)

	s.AddResources(
		server.ServerResource{Resource: resCurrentPlan, Handler: h.currentPlanResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers. now is
// replaceable in tests.
type handlers struct {
	engine *catalog.Engine
	store  *storage.Store
	prog   *progression.Engine
	log    *slog.Logger
	now    func() time.Time
}

// --- Resource definitions ---

var resCurrentPlan = mcp.NewResource(
	"liftlog://plan/current",
	"Current Plan",
	mcp.WithResourceDescription("The selected training plan with its weekly schedule and prescriptions, plus plan progress state"),
	mcp.WithMIMEType("application/json"),
)
