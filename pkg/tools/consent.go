package tools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/localhealth/pkg/consent"
)

// SetCookieConsentTool returns a tool definition for storing the cookie choice.
func (r *Registry) SetCookieConsentTool() mcp.Tool {
	return mcp.NewTool("set_cookie_consent",
		mcp.WithDescription("Store the cookie banner choice"),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Cookie choice"),
			mcp.Enum(consent.Accepted, consent.Declined),
		),
	)
}

// HandleSetCookieConsent stores the cookie choice.
func (r *Registry) HandleSetCookieConsent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "set_cookie_consent")

	value := mcp.ParseString(req, "value", "")
	pref, err := r.deps.Consent.Set(value)
	if errors.Is(err, consent.ErrInvalidValue) {
		return ErrorWithGuidance(choiceError("value", value, []string{consent.Accepted, consent.Declined})), nil
	}
	if err != nil {
		// The choice applies for this run even if it could not be saved.
		logger.Warn("could not save cookie preference", "error", err)
	}
	return jsonResponse(logger, ConsentOutput{Preference: &pref}), nil
}

// GetCookieConsentTool returns a tool definition for reading the cookie choice.
func (r *Registry) GetCookieConsentTool() mcp.Tool {
	return mcp.NewTool("get_cookie_consent",
		mcp.WithDescription("Read the stored cookie banner choice; banner_visible is true when none is stored"),
	)
}

// HandleGetCookieConsent reads the cookie choice.
func (r *Registry) HandleGetCookieConsent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "get_cookie_consent")

	pref, ok, err := r.deps.Consent.Get()
	if err != nil {
		logger.Warn("could not read cookie preference", "error", err)
	}
	if !ok {
		return jsonResponse(logger, ConsentOutput{BannerVisible: true}), nil
	}
	return jsonResponse(logger, ConsentOutput{Preference: &pref}), nil
}
