package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ArgumentError is an invalid tool argument, with guidance on how to fix
// the call.
type ArgumentError struct {
	Argument string
	Value    string
	Message  string
	Guidance string
}

func (e *ArgumentError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("invalid %s %q: %s. %s", e.Argument, e.Value, e.Message, e.Guidance)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Argument, e.Value, e.Message)
}

// Common guidance messages
const (
	GuidanceDate        = "Use the format YYYY-MM-DD, e.g. 2024-05-01, or omit the date to use today."
	GuidanceCoordinates = "Latitude must be between -90 and 90 and longitude between -180 and 180."
	GuidanceStoreID     = "Use a store id returned by locate_stores."
	GuidanceCount       = "Use a positive number of suggestions."
)

// ErrorWithGuidance returns a formatted error response with user guidance.
func ErrorWithGuidance(err *ArgumentError) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s\n\nGuidance: %s", err.Message, err.Guidance)
	return mcp.NewToolResultError(errorText)
}

// choiceError reports a value that is not one of allowed.
func choiceError(argument, value string, allowed []string) *ArgumentError {
	return &ArgumentError{
		Argument: argument,
		Value:    value,
		Message:  fmt.Sprintf("unknown %s %q", argument, value),
		Guidance: fmt.Sprintf("Use one of: %s.", strings.Join(allowed, ", ")),
	}
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
