package session

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/NERVsystems/localhealth/pkg/gazetteer"
	"github.com/NERVsystems/localhealth/pkg/geo"
	"github.com/NERVsystems/localhealth/pkg/geolocate"
	"github.com/NERVsystems/localhealth/pkg/stores"
)

func newTestSession() *Session {
	return New(stores.DefaultDirectory(), 0)
}

func TestLocateQuery(t *testing.T) {
	g := gazetteer.Default()

	t.Run("blank input", func(t *testing.T) {
		res := newTestSession().LocateQuery(g, "   ")
		if res.Status.Message != MsgEmptyQuery || res.Status.Variant != Error {
			t.Errorf("Status = %+v", res.Status)
		}
		if len(res.Suggestions) != 0 || res.Selected != nil {
			t.Errorf("blank input should not suggest stores: %+v", res)
		}
	})

	t.Run("unknown location", func(t *testing.T) {
		res := newTestSession().LocateQuery(g, "Atlantis")
		if !strings.HasPrefix(res.Status.Message, "Standort nicht erkannt. Unterstuetzte Orte: ") {
			t.Errorf("Message = %q", res.Status.Message)
		}
		if !strings.HasSuffix(res.Status.Message, ".") {
			t.Errorf("Message should end with a period: %q", res.Status.Message)
		}
	})

	t.Run("known postcode", func(t *testing.T) {
		s := newTestSession()
		res := s.LocateQuery(g, "8126")
		if len(res.Suggestions) != stores.DefaultLimit {
			t.Fatalf("Suggestions = %d, want %d", len(res.Suggestions), stores.DefaultLimit)
		}
		if res.Selected == nil || res.Selected.ID != "spar-zumikon" {
			t.Fatalf("Selected = %+v", res.Selected)
		}
		if want := "Empfehlung: Spar Express Zumikon (100 m entfernt)"; res.Status.Message != want {
			t.Errorf("Message = %q, want %q", res.Status.Message, want)
		}
		if res.Status.Variant != Success {
			t.Errorf("Variant = %q", res.Status.Variant)
		}
		if want := "Naechste Laeden ab Zumikon (8126)"; res.Heading != want {
			t.Errorf("Heading = %q, want %q", res.Heading, want)
		}
		if res.Map.Zoom != 12 || len(res.Map.Points) != 6 {
			t.Errorf("Map = %+v", res.Map)
		}
		last, ok := s.LastSuggested()
		if !ok || last.ID != "spar-zumikon" {
			t.Errorf("LastSuggested = %+v, %v", last, ok)
		}
	})
}

func TestLocatePosition(t *testing.T) {
	s := newTestSession()

	res := s.LocatePosition(geo.Coordinate{Latitude: math.NaN(), Longitude: 8.5})
	if res.Status.Message != MsgNoPosition {
		t.Errorf("Message = %q", res.Status.Message)
	}

	res = s.LocatePosition(geo.Coordinate{Latitude: 47.3717, Longitude: 8.5420})
	if res.Heading != "Naechste Laeden ab deinem Standort" {
		t.Errorf("Heading = %q", res.Heading)
	}
	if want := "Empfehlung: Spar City Bellevue Zuerich (418 m entfernt)"; res.Status.Message != want {
		t.Errorf("Message = %q, want %q", res.Status.Message, want)
	}
}

func TestLocateFailedClearsState(t *testing.T) {
	s := newTestSession()
	s.LocateQuery(gazetteer.Default(), "Zumikon")

	res := s.LocateFailed(geolocate.FromCode(geolocate.PermissionDenied))
	if res.Status.Message != "Bitte erlaube den Standortzugriff, um Laeden in deiner Naehe zu finden." {
		t.Errorf("Message = %q", res.Status.Message)
	}
	if _, ok := s.LastSuggested(); ok {
		t.Error("failed locate should clear the recommendation")
	}
	if len(s.Recent()) != 0 {
		t.Error("failed locate should clear recent suggestions")
	}
	if !strings.Contains(res.Map.URL, "47.33100%2C8.62000") {
		t.Errorf("map should fall back to the default origin: %q", res.Map.URL)
	}
}

func TestPresentSuggestionsEmptyDirectory(t *testing.T) {
	d, err := stores.NewDirectory(nil)
	if err != nil {
		t.Fatal(err)
	}
	s := New(d, 5)
	if got := s.PresentSuggestions(geo.Coordinate{Latitude: 47.33, Longitude: 8.62}, "x"); len(got) != 0 {
		t.Errorf("PresentSuggestions = %v", got)
	}
	res := s.LocateQuery(gazetteer.Default(), "8126")
	if res.Status.Message != MsgNoStore {
		t.Errorf("Message = %q", res.Status.Message)
	}
}

func TestSelectStore(t *testing.T) {
	s := newTestSession()
	s.LocateQuery(gazetteer.Default(), "8126")

	t.Run("from recent suggestions", func(t *testing.T) {
		res, err := s.SelectStore("coop-zumikon")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Selected.HasDistance() {
			t.Error("recent suggestion should keep its distance")
		}
		if !strings.HasPrefix(res.Status.Message, "Empfehlung: Coop Supermarkt Zumikon (") {
			t.Errorf("Message = %q", res.Status.Message)
		}
		if res.Heading != "Naechste Laeden ab Zumikon (8126)" {
			t.Errorf("Heading = %q", res.Heading)
		}
	})

	t.Run("from directory", func(t *testing.T) {
		res, err := s.SelectStore("migros-winterthur")
		if err != nil {
			t.Fatal(err)
		}
		if res.Selected.HasDistance() {
			t.Error("directory store should have no distance")
		}
		if res.Status.Message != "Empfehlung: Migros Winterthur Bahnhof" {
			t.Errorf("Message = %q", res.Status.Message)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := s.SelectStore("nope"); !errors.Is(err, ErrUnknownStore) {
			t.Errorf("err = %v, want ErrUnknownStore", err)
		}
	})
}

func TestChangeChain(t *testing.T) {
	s := newTestSession()
	s.LocateQuery(gazetteer.Default(), "8126")

	st := s.ChangeChain(stores.ChainSpar)
	if st.Message != "Empfehlung: Spar Express Zumikon (100 m entfernt)" {
		t.Errorf("same chain should keep the message, got %q", st.Message)
	}

	st = s.ChangeChain(stores.ChainCoop)
	if st.Message != MsgDefault || st.Variant != Info {
		t.Errorf("Status = %+v", st)
	}
	if _, ok := s.LastSuggested(); ok {
		t.Error("other chain should clear the recommendation")
	}

	if err := s.BeginLocate(); err != nil {
		t.Fatal(err)
	}
	st = s.ChangeChain(stores.ChainMigros)
	if st.Message != MsgSearching || st.Variant != Pending {
		t.Errorf("Status while locating = %+v", st)
	}
	s.EndLocate()
}

func TestBusyGuards(t *testing.T) {
	s := newTestSession()

	if err := s.BeginLocate(); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginLocate(); !errors.Is(err, ErrBusy) {
		t.Errorf("second BeginLocate = %v, want ErrBusy", err)
	}
	if err := s.BeginAuth(); err != nil {
		t.Errorf("auth guard is independent of locate: %v", err)
	}
	if err := s.BeginAuth(); !errors.Is(err, ErrBusy) {
		t.Errorf("second BeginAuth = %v, want ErrBusy", err)
	}
	s.EndLocate()
	s.EndAuth()
	if err := s.BeginLocate(); err != nil {
		t.Errorf("BeginLocate after EndLocate = %v", err)
	}
}

func TestToken(t *testing.T) {
	s := newTestSession()
	s.SetToken("abc")
	if s.Token() != "abc" {
		t.Errorf("Token = %q", s.Token())
	}
	s.SetToken("")
	if s.Token() != "" {
		t.Error("empty token should sign out")
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s := newTestSession()
	g := gazetteer.Default()
	queries := []string{"8126", "Zuerich", "Uster", "Winterthur"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.LocateQuery(g, queries[i%len(queries)])
			s.ChangeChain(stores.Chains[i%len(stores.Chains)])
		}(i)
	}
	wg.Wait()

	if got := len(s.Recent()); got != stores.DefaultLimit {
		t.Errorf("Recent = %d, want %d", got, stores.DefaultLimit)
	}
}

func TestManager(t *testing.T) {
	m, err := NewManager(stores.DefaultDirectory(), 5, 2)
	if err != nil {
		t.Fatal(err)
	}

	if m.Get("") != m.Get(DefaultID) {
		t.Error("empty id should map to the default session")
	}
	a := m.Get("a")
	if m.Get("a") != a {
		t.Error("Get should return the same session for an id")
	}

	m.Get("b")
	m.Get("c")
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	if m.Get("a") == a {
		t.Error("least recently used session should have been evicted")
	}

	m.Drop("a")
	if m.Len() != 1 {
		t.Errorf("Len after Drop = %d, want 1", m.Len())
	}
}
