package tools

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/NERVsystems/localhealth/pkg/consent"
	"github.com/NERVsystems/localhealth/pkg/gazetteer"
	"github.com/NERVsystems/localhealth/pkg/geo"
	"github.com/NERVsystems/localhealth/pkg/geolocate"
	"github.com/NERVsystems/localhealth/pkg/identity"
	"github.com/NERVsystems/localhealth/pkg/meals"
	"github.com/NERVsystems/localhealth/pkg/session"
	"github.com/NERVsystems/localhealth/pkg/stores"
	"github.com/NERVsystems/localhealth/pkg/testutil"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func newTestRegistry(t *testing.T, mutate func(*Deps)) *Registry {
	t.Helper()

	data, err := meals.LoadDataset(meals.LatestVersion)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	dir := stores.DefaultDirectory()
	sessions, err := session.NewManager(dir, stores.DefaultLimit, 16)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	backend, err := identity.NewLocal(identity.LocalConfig{Secret: []byte("test"), Cost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	deps := Deps{
		Gazetteer: gazetteer.Default(),
		Directory: dir,
		Selector:  meals.NewSelector(data, rand.NewPCG(1, 2)),
		Sessions:  sessions,
		Positions: geolocate.Fixed{Position: geo.Coordinate{Latitude: 47.3717, Longitude: 8.5420}},
		Accounts:  identity.NewService(backend, identity.NewMemoryRecords()),
		Consent:   consent.NewMemoryStore(),
		Now:       func() time.Time { return testNow },
	}
	if mutate != nil {
		mutate(&deps)
	}
	return NewRegistry(testutil.DiscardLogger(), deps)
}

func TestToolDefinitions(t *testing.T) {
	r := newTestRegistry(t, nil)
	defs := r.GetToolDefinitions()

	want := []string{
		"find_location", "locate_stores", "locate_stores_by_position", "locate_stores_auto",
		"select_store", "select_chain", "detect_season", "suggest_meals", "pick_meal",
		"sign_in", "sign_up", "sign_out", "auth_status",
		"set_cookie_consent", "get_cookie_consent",
	}
	if len(defs) != len(want) {
		t.Fatalf("got %d tools, want %d", len(defs), len(want))
	}
	for i, def := range defs {
		if def.Name != want[i] {
			t.Errorf("tool %d = %q, want %q", i, def.Name, want[i])
		}
		if def.Tool.Name != def.Name {
			t.Errorf("tool %q has definition name %q", def.Name, def.Tool.Name)
		}
		if def.Handler == nil {
			t.Errorf("tool %q has no handler", def.Name)
		}
	}
}

func TestNewRegistryDefaults(t *testing.T) {
	r := newTestRegistry(t, func(d *Deps) {
		d.Positions = nil
		d.Accounts = nil
		d.Consent = nil
		d.Now = nil
	})
	if _, ok := r.deps.Positions.(geolocate.Unavailable); !ok {
		t.Errorf("Positions = %T", r.deps.Positions)
	}
	if r.deps.Accounts.Online() {
		t.Error("default accounts should be offline")
	}
	if r.deps.SuggestionCount != meals.DefaultSuggestionCount {
		t.Errorf("SuggestionCount = %d", r.deps.SuggestionCount)
	}

	res, err := r.HandleLocateStoresAuto(context.Background(), testutil.ToolRequest("locate_stores_auto", nil))
	if err != nil {
		t.Fatal(err)
	}
	if msg := testutil.ToolError(t, res); msg != "Deine Position konnte nicht ermittelt werden. Bitte aktiviere GPS oder versuche es erneut." {
		t.Errorf("message = %q", msg)
	}
}
