package stores

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/NERVsystems/localhealth/pkg/geo"
)

// DefaultLimit is the number of stores returned when no limit is given.
const DefaultLimit = 5

// Ranked is a store annotated with its distance from a query origin.
type Ranked struct {
	Store
	DistanceKm   float64
	DistanceText string
}

// MarshalJSON omits the distance when it is unknown; NaN is not valid JSON.
func (r Ranked) MarshalJSON() ([]byte, error) {
	type view struct {
		Store
		DistanceKm   *float64 `json:"distance_km,omitempty"`
		DistanceText string   `json:"distance_text,omitempty"`
	}
	v := view{Store: r.Store, DistanceText: r.DistanceText}
	if r.HasDistance() {
		km := r.DistanceKm
		v.DistanceKm = &km
	}
	return json.Marshal(v)
}

// UnmarshalJSON reads the form written by MarshalJSON; a missing distance
// becomes NaN.
func (r *Ranked) UnmarshalJSON(data []byte) error {
	var v struct {
		Store
		DistanceKm   *float64 `json:"distance_km"`
		DistanceText string   `json:"distance_text"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Store = v.Store
	r.DistanceText = v.DistanceText
	r.DistanceKm = math.NaN()
	if v.DistanceKm != nil {
		r.DistanceKm = *v.DistanceKm
	}
	return nil
}

// Unranked wraps a store without a known distance, e.g. when the user picks
// a store that was not part of the last suggestion list.
func Unranked(s Store) Ranked {
	return Ranked{Store: s, DistanceKm: math.NaN()}
}

// HasDistance reports whether the distance is known.
func (r Ranked) HasDistance() bool {
	return !math.IsNaN(r.DistanceKm) && !math.IsInf(r.DistanceKm, 0)
}

// Nearest ranks every store by distance from origin and returns the closest
// limit entries. Ties keep directory order. An invalid origin yields an
// empty result; stores whose distance cannot be computed are skipped.
func (d *Directory) Nearest(origin geo.Coordinate, limit int) []Ranked {
	if !origin.Valid() {
		return []Ranked{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates := make([]Ranked, 0, len(d.stores))
	for _, s := range d.stores {
		km := geo.DistanceKm(origin, s.Location)
		if math.IsInf(km, 0) || math.IsNaN(km) {
			continue
		}
		candidates = append(candidates, Ranked{
			Store:        s,
			DistanceKm:   km,
			DistanceText: geo.FormatDistance(km),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// FindNearest returns the single closest store.
func (d *Directory) FindNearest(origin geo.Coordinate) (Ranked, bool) {
	nearest := d.Nearest(origin, 1)
	if len(nearest) == 0 {
		return Ranked{}, false
	}
	return nearest[0], true
}
