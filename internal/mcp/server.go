package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/store"
)

// KnownTypes lists all valid tool type prefixes.
var KnownTypes = []string{"food", "water", "profile", "metrics", "settings", "calendar"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"food_log": {
		def:     foodLogToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFoodLog },
	},
	"food_edit": {
		def:     foodEditToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFoodEdit },
	},
	"food_delete": {
		def:     foodDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFoodDelete },
	},
	"food_daily": {
		def:     foodDailyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFoodDaily },
	},
	"food_monthly": {
		def:     foodMonthlyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFoodMonthly },
	},
	"water_add": {
		def:     waterAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWaterAdd },
	},
	"water_delete": {
		def:     waterDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWaterDelete },
	},
	"water_reset": {
		def:     waterResetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWaterReset },
	},
	"water_progress": {
		def:     waterProgressToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWaterProgress },
	},
	"profile_get": {
		def:     profileGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProfileGet },
	},
	"profile_update": {
		def:     profileUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProfileUpdate },
	},
	"metrics_get": {
		def:     metricsGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMetricsGet },
	},
	"settings_get": {
		def:     settingsGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSettingsGet },
	},
	"settings_update": {
		def:     settingsUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSettingsUpdate },
	},
	"calendar_marks": {
		def:     calendarMarksToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCalendarMarks },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "food_log" → "food").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with CalorieSnap tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(st *store.Store, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"caloriesnap",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(st, cfg)

	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(st *store.Store, cfg *config.Config, version string) error {
	s := NewServer(st, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
