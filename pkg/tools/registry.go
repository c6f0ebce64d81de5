// Package tools provides the LocalHealth MCP tool implementations.
package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/NERVsystems/localhealth/pkg/consent"
	"github.com/NERVsystems/localhealth/pkg/gazetteer"
	"github.com/NERVsystems/localhealth/pkg/geolocate"
	"github.com/NERVsystems/localhealth/pkg/identity"
	"github.com/NERVsystems/localhealth/pkg/meals"
	"github.com/NERVsystems/localhealth/pkg/session"
	"github.com/NERVsystems/localhealth/pkg/stores"
)

// Deps are the services the tools operate on. Nil optional fields get
// offline defaults in NewRegistry.
type Deps struct {
	Gazetteer *gazetteer.Gazetteer
	Directory *stores.Directory
	Selector  *meals.Selector
	Sessions  *session.Manager

	Positions       geolocate.Provider
	Accounts        *identity.Service
	Consent         consent.Store
	SuggestionCount int
	Now             func() time.Time
}

// Registry holds all MCP tool registrations for the LocalHealth service.
type Registry struct {
	logger *slog.Logger
	deps   Deps
}

// NewRegistry creates a new MCP tool registry.
func NewRegistry(logger *slog.Logger, deps Deps) *Registry {
	if deps.Positions == nil {
		deps.Positions = geolocate.Unavailable{}
	}
	if deps.Accounts == nil {
		deps.Accounts = identity.NewService(nil, nil)
	}
	if deps.Consent == nil {
		deps.Consent = consent.NewMemoryStore()
	}
	if deps.SuggestionCount <= 0 {
		deps.SuggestionCount = meals.DefaultSuggestionCount
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Registry{
		logger: logger,
		deps:   deps,
	}
}

// ToolDefinition represents a LocalHealth MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// GetToolDefinitions returns all LocalHealth MCP tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	defs := []ToolDefinition{
		// Store locator
		{
			Name:        "find_location",
			Description: "Resolve a postcode, town or address to a known location",
			Tool:        r.FindLocationTool(),
			Handler:     r.HandleFindLocation,
		},
		{
			Name:        "locate_stores",
			Description: "Suggest the nearest stores for a postcode, town or address",
			Tool:        r.LocateStoresTool(),
			Handler:     r.HandleLocateStores,
		},
		{
			Name:        "locate_stores_by_position",
			Description: "Suggest the nearest stores for a device position",
			Tool:        r.LocateStoresByPositionTool(),
			Handler:     r.HandleLocateStoresByPosition,
		},
		{
			Name:        "locate_stores_auto",
			Description: "Suggest the nearest stores for the configured position",
			Tool:        r.LocateStoresAutoTool(),
			Handler:     r.HandleLocateStoresAuto,
		},
		{
			Name:        "select_store",
			Description: "Make a store the recommended one",
			Tool:        r.SelectStoreTool(),
			Handler:     r.HandleSelectStore,
		},
		{
			Name:        "select_chain",
			Description: "Choose the store chain used for meal shopping tips",
			Tool:        r.SelectChainTool(),
			Handler:     r.HandleSelectChain,
		},

		// Meal recommendations
		{
			Name:        "detect_season",
			Description: "Determine the season for a date",
			Tool:        r.DetectSeasonTool(),
			Handler:     r.HandleDetectSeason,
		},
		{
			Name:        "suggest_meals",
			Description: "Suggest seasonal meal-prep ideas for a goal and diet",
			Tool:        r.SuggestMealsTool(),
			Handler:     r.HandleSuggestMeals,
		},
		{
			Name:        "pick_meal",
			Description: "Pick one seasonal meal-prep idea for a goal and diet",
			Tool:        r.PickMealTool(),
			Handler:     r.HandlePickMeal,
		},

		// Accounts
		{
			Name:        "sign_in",
			Description: "Sign in with email and password",
			Tool:        r.SignInTool(),
			Handler:     r.HandleSignIn,
		},
		{
			Name:        "sign_up",
			Description: "Create an account with email and password",
			Tool:        r.SignUpTool(),
			Handler:     r.HandleSignUp,
		},
		{
			Name:        "sign_out",
			Description: "Sign the session out",
			Tool:        r.SignOutTool(),
			Handler:     r.HandleSignOut,
		},
		{
			Name:        "auth_status",
			Description: "Show the signed-in user of a session",
			Tool:        r.AuthStatusTool(),
			Handler:     r.HandleAuthStatus,
		},

		// Cookie consent
		{
			Name:        "set_cookie_consent",
			Description: "Store the cookie banner choice",
			Tool:        r.SetCookieConsentTool(),
			Handler:     r.HandleSetCookieConsent,
		},
		{
			Name:        "get_cookie_consent",
			Description: "Read the stored cookie banner choice",
			Tool:        r.GetCookieConsentTool(),
			Handler:     r.HandleGetCookieConsent,
		},
	}
	return defs
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}

func (r *Registry) session(req mcp.CallToolRequest) *session.Session {
	return r.deps.Sessions.Get(mcp.ParseString(req, "session", ""))
}

func withSession(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts, mcp.WithString("session",
		mcp.Description("Conversation session id; omit to use the default session"),
	))
}
