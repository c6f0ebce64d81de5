package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestNewTestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTestLogger(buf)
	logger.Debug("test message", "key", "value")
	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("logger output = %q", buf.String())
	}

	if NewTestLogger(nil) == nil {
		t.Error("NewTestLogger returned nil with nil writer")
	}
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger()
	logger.Info("test message", "key", "value")
	logger.Error("error message", "key", "value")
}

func TestToolHelpers(t *testing.T) {
	req := ToolRequest("find_location", map[string]any{"query": "8126"})
	if req.Params.Name != "find_location" || req.Params.Arguments["query"] != "8126" {
		t.Errorf("ToolRequest = %+v", req.Params)
	}

	var out struct {
		Label string `json:"label"`
	}
	DecodeToolResult(t, mcp.NewToolResultText(`{"label":"Zumikon (8126)"}`), &out)
	if out.Label != "Zumikon (8126)" {
		t.Errorf("Label = %q", out.Label)
	}

	if msg := ToolError(t, mcp.NewToolResultError("kaputt")); msg != "kaputt" {
		t.Errorf("ToolError = %q", msg)
	}
}
