package stores

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/NERVsystems/localhealth/pkg/geo"
)

func TestDefaultDirectory(t *testing.T) {
	d := DefaultDirectory()
	if d.Len() != 18 {
		t.Fatalf("Len() = %d, want 18", d.Len())
	}
	for _, s := range d.All() {
		if _, err := ParseChain(string(s.Chain)); err != nil {
			t.Errorf("store %s has unknown chain %q", s.ID, s.Chain)
		}
		if !s.Location.InRange() {
			t.Errorf("store %s has invalid location %v", s.ID, s.Location)
		}
	}
	if got := len(d.ByChain(ChainFarmersMarket)); got != 3 {
		t.Errorf("ByChain(farmers-market) = %d stores, want 3", got)
	}
}

func TestNewDirectoryRejectsDuplicates(t *testing.T) {
	_, err := NewDirectory([]Store{{ID: "a"}, {ID: "a"}})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	if _, err := NewDirectory([]Store{{Name: "no id"}}); err == nil {
		t.Fatal("expected missing id error")
	}
}

func TestNearest(t *testing.T) {
	d := DefaultDirectory()

	tests := []struct {
		name    string
		origin  geo.Coordinate
		limit   int
		wantIDs []string
	}{
		{
			name:    "Zumikon gazetteer point",
			origin:  geo.Coordinate{Latitude: 47.3310, Longitude: 8.6220},
			limit:   5,
			wantIDs: []string{"spar-zumikon", "market-zumikon", "coop-zumikon", "migros-zumikon", "denner-kuesnacht"},
		},
		{
			name:    "Zurich center",
			origin:  geo.Coordinate{Latitude: 47.3717, Longitude: 8.5420},
			limit:   5,
			wantIDs: []string{"spar-bellevue", "coop-bellevue", "aldi-selnau", "denner-europaallee", "migros-stadelhofen"},
		},
		{
			name:    "default limit",
			origin:  geo.Coordinate{Latitude: 47.3310, Longitude: 8.6200},
			limit:   0,
			wantIDs: []string{"market-zumikon", "coop-zumikon", "migros-zumikon", "spar-zumikon", "denner-kuesnacht"},
		},
		{
			name:    "single",
			origin:  geo.Coordinate{Latitude: 47.4988, Longitude: 8.7241},
			limit:   1,
			wantIDs: []string{"migros-winterthur"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Nearest(tt.origin, tt.limit)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Nearest returned %d stores, want %d", len(got), len(tt.wantIDs))
			}
			for i, r := range got {
				if r.ID != tt.wantIDs[i] {
					t.Errorf("rank %d = %s, want %s", i, r.ID, tt.wantIDs[i])
				}
				if i > 0 && got[i-1].DistanceKm > r.DistanceKm {
					t.Errorf("results not sorted at %d", i)
				}
				if r.DistanceText != geo.FormatDistance(r.DistanceKm) {
					t.Errorf("distance text %q does not match %f", r.DistanceText, r.DistanceKm)
				}
			}
		})
	}
}

func TestNearestInvalidOrigin(t *testing.T) {
	d := DefaultDirectory()
	for _, origin := range []geo.Coordinate{
		{Latitude: math.NaN(), Longitude: 8.6},
		{Latitude: 47.3, Longitude: math.Inf(1)},
	} {
		if got := d.Nearest(origin, 5); len(got) != 0 {
			t.Errorf("Nearest(%v) returned %d stores, want none", origin, len(got))
		}
		if _, ok := d.FindNearest(origin); ok {
			t.Errorf("FindNearest(%v) should report no store", origin)
		}
	}
}

func TestNearestSkipsUnresolvableStores(t *testing.T) {
	d, err := NewDirectory([]Store{
		{ID: "broken", Location: geo.Coordinate{Latitude: math.NaN(), Longitude: 0}},
		{ID: "ok", Location: geo.Coordinate{Latitude: 47.33, Longitude: 8.62}},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := d.Nearest(geo.Coordinate{Latitude: 47.33, Longitude: 8.62}, 5)
	if len(got) != 1 || got[0].ID != "ok" {
		t.Errorf("Nearest = %+v, want only ok", got)
	}
}

func TestNearestStableTies(t *testing.T) {
	same := geo.Coordinate{Latitude: 47.0, Longitude: 8.0}
	d, err := NewDirectory([]Store{
		{ID: "first", Location: same},
		{ID: "second", Location: same},
		{ID: "third", Location: same},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := d.Nearest(geo.Coordinate{Latitude: 47.1, Longitude: 8.0}, 3)
	for i, id := range []string{"first", "second", "third"} {
		if got[i].ID != id {
			t.Errorf("tie order %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestNearestEmptyDirectory(t *testing.T) {
	d, err := NewDirectory(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Nearest(geo.Coordinate{Latitude: 47, Longitude: 8}, 5); len(got) != 0 {
		t.Errorf("empty directory returned %d stores", len(got))
	}
}

func TestParseChain(t *testing.T) {
	if c, err := ParseChain(" Migros "); err != nil || c != ChainMigros {
		t.Errorf("ParseChain(Migros) = %q, %v", c, err)
	}
	if _, err := ParseChain("lidl"); !errors.Is(err, ErrUnknownChain) {
		t.Errorf("ParseChain(lidl) error = %v, want ErrUnknownChain", err)
	}
}

func TestRankedJSON(t *testing.T) {
	d := DefaultDirectory()
	s, _ := d.Lookup("coop-zumikon")

	data, err := json.Marshal(Unranked(s))
	if err != nil {
		t.Fatalf("Marshal(Unranked) error: %v", err)
	}
	if strings.Contains(string(data), "distance_km") {
		t.Errorf("unknown distance should be omitted: %s", data)
	}

	r, _ := d.FindNearest(geo.Coordinate{Latitude: 47.3310, Longitude: 8.6200})
	data, err = json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal(Ranked) error: %v", err)
	}
	if !strings.Contains(string(data), `"id":"market-zumikon"`) || !strings.Contains(string(data), `"distance_text":"100 m"`) {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestRankedUnmarshal(t *testing.T) {
	var back Ranked
	if err := json.Unmarshal([]byte(`{"id":"coop-zumikon","chain":"coop","name":"Coop","location":{"latitude":47.3319,"longitude":8.6199}}`), &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != "coop-zumikon" || back.HasDistance() {
		t.Errorf("missing distance should decode as unknown: %+v", back)
	}

	if err := json.Unmarshal([]byte(`{"id":"x","distance_km":0.4,"distance_text":"400 m"}`), &back); err != nil {
		t.Fatal(err)
	}
	if back.DistanceKm != 0.4 || back.DistanceText != "400 m" {
		t.Errorf("Ranked = %+v", back)
	}
}
