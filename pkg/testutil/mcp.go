package testutil

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolRequest builds a tool call with the given arguments.
func ToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// ToolText returns the concatenated text content of a tool result.
func ToolText(t testing.TB, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("tool returned a nil result")
	}
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// DecodeToolResult unmarshals the text of a successful tool result into v.
func DecodeToolResult(t testing.TB, result *mcp.CallToolResult, v any) {
	t.Helper()
	text := ToolText(t, result)
	if result.IsError {
		t.Fatalf("tool returned an error: %s", text)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("decode tool result %q: %v", text, err)
	}
}

// ToolError returns the message of an error result and fails the test if
// the result is not an error.
func ToolError(t testing.TB, result *mcp.CallToolResult) string {
	t.Helper()
	text := ToolText(t, result)
	if !result.IsError {
		t.Fatalf("expected an error result, got %s", text)
	}
	return text
}
