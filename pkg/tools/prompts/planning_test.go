package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	if len(res.Messages) != 1 {
		t.Fatalf("Messages = %d, want 1", len(res.Messages))
	}
	text, ok := res.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T", res.Messages[0].Content)
	}
	return text.Text
}

func TestStoreLocatorPrompt(t *testing.T) {
	res, err := StoreLocatorPromptHandler(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(promptText(t, res), "locate_stores_by_position") {
		t.Error("prompt should mention the position tool")
	}
}

func TestMealPlanningPromptGoal(t *testing.T) {
	var req mcp.GetPromptRequest
	req.Params.Arguments = map[string]string{"goal": "hypertrophy"}
	res, err := MealPlanningPromptHandler(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(promptText(t, res), `goal "hypertrophy"`) {
		t.Error("prompt should use the requested goal")
	}

	res, err = MealPlanningPromptHandler(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(promptText(t, res), `goal "balanced"`) {
		t.Error("prompt should default to balanced")
	}
}
