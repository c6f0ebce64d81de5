// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterPlanningPrompts registers the store locator and meal planning
// prompts with the MCP server.
func RegisterPlanningPrompts(s *server.MCPServer) {
	s.AddPrompt(mcp.NewPrompt("store_locator",
		mcp.WithPromptDescription("Instructions for finding nearby stores with the locator tools"),
	), StoreLocatorPromptHandler)

	s.AddPrompt(mcp.NewPrompt("meal_planning",
		mcp.WithPromptDescription("Instructions for suggesting seasonal meal-prep ideas"),
		mcp.WithArgument("goal",
			mcp.ArgumentDescription("Training goal the user mentioned, if any"),
		),
	), MealPlanningPromptHandler)
}

// StoreLocatorPromptHandler returns the prompt for the store locator tools.
func StoreLocatorPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `You have access to a store locator for the Zurich area.
When using these tools:

1. Pass postcodes, town names or street addresses to locate_stores, e.g. "8126", "Zumikon" or "Wiesenstrasse 12, 8126 Zumikon"
2. If the location is not recognized, the error lists the supported places; pick the closest one and retry
3. When the user shares a device position, use locate_stores_by_position; pass error_code instead when the device reported an error
4. Use the same session id for every call of one conversation so that the recommended store carries over to suggest_meals
5. Show the map URL from the result so the user can see the stores

Messages in the results are German and can be shown to the user as they are.`

	return mcp.NewGetPromptResult(
		"Store Locator Usage Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(systemPrompt),
			),
		},
	), nil
}

// MealPlanningPromptHandler returns the prompt for the meal tools.
func MealPlanningPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	goal := request.Params.Arguments["goal"]
	if goal == "" {
		goal = "balanced"
	}

	examplesPrompt := `EXAMPLES OF EFFECTIVE MEAL PLANNING:

User: "I want to build muscle, what should I cook this week?"
AI: *uses suggest_meals with goal "` + goal + `" and the diet the user follows*

User: "Only vegan please, and I shop at Migros"
AI: *uses select_chain with "migros", then suggest_meals with diet "vegan" and chain "migros"*

User: "Just give me one idea for dinner"
AI: *uses pick_meal with the same goal and diet*

NOTES:
1. The season follows today's date unless the user names a date or season
2. When no meal fits the diet, similar meals of the same goal are returned
3. Mention the eco score and the price per portion when they are present`

	return mcp.NewGetPromptResult(
		"Meal Planning Examples",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(examplesPrompt),
			),
		},
	), nil
}
