package server

import (
	"context"
	"strings"
	"testing"

	"github.com/NERVsystems/localhealth/pkg/config"
	"github.com/NERVsystems/localhealth/pkg/geo"
	"github.com/NERVsystems/localhealth/pkg/testutil"
)

func TestNewServer(t *testing.T) {
	s, err := NewServer(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer s.Close()
	if s.srv == nil || s.Registry() == nil {
		t.Fatal("NewServer() returned an incomplete server")
	}
	if n := len(s.Registry().GetToolDefinitions()); n != 15 {
		t.Errorf("registered %d tools, want 15", n)
	}
}

func TestNewServerBadDataset(t *testing.T) {
	cfg := config.Default()
	cfg.MealDataset = 99
	if _, err := NewServer(context.Background(), cfg); err == nil {
		t.Fatal("expected an error for an unknown meal dataset")
	}
}

func TestNewServerWiring(t *testing.T) {
	cfg := config.Default()
	cfg.JWTSecret = "secret"
	cfg.Home = &geo.Coordinate{Latitude: 47.3310, Longitude: 8.6200}
	cfg.ConsentFile = t.TempDir() + "/prefs.json"

	s, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer s.Close()

	handlers := map[string]func(map[string]any) string{}
	for _, def := range s.Registry().GetToolDefinitions() {
		handler, name := def.Handler, def.Name
		handlers[name] = func(args map[string]any) string {
			res, err := handler(context.Background(), testutil.ToolRequest(name, args))
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			return testutil.ToolText(t, res)
		}
	}

	if out := handlers["locate_stores_auto"](nil); !strings.Contains(out, "spar-zumikon") {
		t.Errorf("locate_stores_auto should use the configured home: %s", out)
	}
	if out := handlers["sign_up"](map[string]any{"email": "a@b.ch", "password": "geheim1"}); !strings.Contains(out, "Registrierung erfolgreich") {
		t.Errorf("sign_up should be online: %s", out)
	}
	if out := handlers["set_cookie_consent"](map[string]any{"value": "accepted"}); !strings.Contains(out, "accepted") {
		t.Errorf("set_cookie_consent: %s", out)
	}
}
