package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/NERVsystems/localhealth/pkg/consent"
	"github.com/NERVsystems/localhealth/pkg/testutil"
)

func TestCookieConsent(t *testing.T) {
	r := newTestRegistry(t, nil)
	ctx := context.Background()

	res, err := r.HandleGetCookieConsent(ctx, testutil.ToolRequest("get_cookie_consent", nil))
	if err != nil {
		t.Fatal(err)
	}
	var out ConsentOutput
	testutil.DecodeToolResult(t, res, &out)
	if !out.BannerVisible || out.Preference != nil {
		t.Errorf("initial state = %+v", out)
	}

	res, err = r.HandleSetCookieConsent(ctx, testutil.ToolRequest("set_cookie_consent", map[string]any{"value": "declined"}))
	if err != nil {
		t.Fatal(err)
	}
	out = ConsentOutput{}
	testutil.DecodeToolResult(t, res, &out)
	if out.BannerVisible || out.Preference == nil || out.Preference.Value != consent.Declined {
		t.Errorf("after set = %+v", out)
	}

	res, err = r.HandleGetCookieConsent(ctx, testutil.ToolRequest("get_cookie_consent", nil))
	if err != nil {
		t.Fatal(err)
	}
	out = ConsentOutput{}
	testutil.DecodeToolResult(t, res, &out)
	if out.BannerVisible || out.Preference.Value != consent.Declined {
		t.Errorf("stored state = %+v", out)
	}

	res, err = r.HandleSetCookieConsent(ctx, testutil.ToolRequest("set_cookie_consent", map[string]any{"value": "maybe"}))
	if err != nil {
		t.Fatal(err)
	}
	if msg := testutil.ToolError(t, res); !strings.Contains(msg, "accepted, declined") {
		t.Errorf("message = %q", msg)
	}
}
