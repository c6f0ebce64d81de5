// Package stores holds the retail store directory and ranks stores by
// distance from an origin.
package stores

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NERVsystems/localhealth/pkg/geo"
)

// Chain identifies a retail brand.
type Chain string

const (
	ChainCoop          Chain = "coop"
	ChainMigros        Chain = "migros"
	ChainAldi          Chain = "aldi"
	ChainSpar          Chain = "spar"
	ChainDenner        Chain = "denner"
	ChainFarmersMarket Chain = "farmers-market"
)

// Chains lists the supported chains in display order.
var Chains = []Chain{ChainCoop, ChainMigros, ChainAldi, ChainSpar, ChainDenner, ChainFarmersMarket}

// ErrUnknownChain is returned by ParseChain for unsupported values.
var ErrUnknownChain = errors.New("unknown store chain")

// ParseChain validates a chain identifier. Matching is case-insensitive.
func ParseChain(s string) (Chain, error) {
	c := Chain(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Chains {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChain, s)
}

// Store is a single retail location.
type Store struct {
	ID       string         `json:"id"`
	Chain    Chain          `json:"chain"`
	Name     string         `json:"name"`
	Location geo.Coordinate `json:"location"`
}

// Directory is an ordered, read-only list of stores.
type Directory struct {
	stores []Store
	byID   map[string]int
}

// NewDirectory builds a directory. Duplicate IDs are rejected.
func NewDirectory(stores []Store) (*Directory, error) {
	d := &Directory{
		stores: make([]Store, len(stores)),
		byID:   make(map[string]int, len(stores)),
	}
	for i, s := range stores {
		if s.ID == "" {
			return nil, fmt.Errorf("store %d has no id", i)
		}
		if _, dup := d.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate store id %q", s.ID)
		}
		d.stores[i] = s
		d.byID[s.ID] = i
	}
	return d, nil
}

// Len returns the number of stores.
func (d *Directory) Len() int { return len(d.stores) }

// All returns a copy of every store in table order.
func (d *Directory) All() []Store {
	out := make([]Store, len(d.stores))
	copy(out, d.stores)
	return out
}

// Lookup finds a store by id.
func (d *Directory) Lookup(id string) (Store, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Store{}, false
	}
	return d.stores[i], true
}

// ByChain returns the stores of one chain in table order.
func (d *Directory) ByChain(chain Chain) []Store {
	var out []Store
	for _, s := range d.stores {
		if s.Chain == chain {
			out = append(out, s)
		}
	}
	return out
}

var defaultStores = []Store{
	{ID: "coop-zumikon", Chain: ChainCoop, Name: "Coop Supermarkt Zumikon", Location: geo.Coordinate{Latitude: 47.3319, Longitude: 8.6199}},
	{ID: "coop-bellevue", Chain: ChainCoop, Name: "Coop City Bellevue Zuerich", Location: geo.Coordinate{Latitude: 47.3671, Longitude: 8.5451}},
	{ID: "coop-uster", Chain: ChainCoop, Name: "Coop Supermarkt Uster", Location: geo.Coordinate{Latitude: 47.3484, Longitude: 8.7207}},
	{ID: "migros-zumikon", Chain: ChainMigros, Name: "Migros Supermarkt Zumikon", Location: geo.Coordinate{Latitude: 47.3304, Longitude: 8.6184}},
	{ID: "migros-stadelhofen", Chain: ChainMigros, Name: "Migros Stadelhofen Zuerich", Location: geo.Coordinate{Latitude: 47.3668, Longitude: 8.5489}},
	{ID: "migros-meilen", Chain: ChainMigros, Name: "Migros Meilen", Location: geo.Coordinate{Latitude: 47.2705, Longitude: 8.6458}},
	{ID: "migros-winterthur", Chain: ChainMigros, Name: "Migros Winterthur Bahnhof", Location: geo.Coordinate{Latitude: 47.4996, Longitude: 8.7249}},
	{ID: "aldi-duebendorf", Chain: ChainAldi, Name: "Aldi Suisse Duebendorf", Location: geo.Coordinate{Latitude: 47.3982, Longitude: 8.6188}},
	{ID: "aldi-selnau", Chain: ChainAldi, Name: "Aldi Suisse Selnau Zuerich", Location: geo.Coordinate{Latitude: 47.3694, Longitude: 8.5341}},
	{ID: "aldi-uster", Chain: ChainAldi, Name: "Aldi Suisse Uster", Location: geo.Coordinate{Latitude: 47.3509, Longitude: 8.7188}},
	{ID: "spar-zumikon", Chain: ChainSpar, Name: "Spar Express Zumikon", Location: geo.Coordinate{Latitude: 47.3311, Longitude: 8.6221}},
	{ID: "spar-bellevue", Chain: ChainSpar, Name: "Spar City Bellevue Zuerich", Location: geo.Coordinate{Latitude: 47.3689, Longitude: 8.5457}},
	{ID: "denner-kuesnacht", Chain: ChainDenner, Name: "Denner Satellit Kuesnacht", Location: geo.Coordinate{Latitude: 47.3179, Longitude: 8.5851}},
	{ID: "denner-europaallee", Chain: ChainDenner, Name: "Denner Europaallee Zuerich", Location: geo.Coordinate{Latitude: 47.3760, Longitude: 8.5350}},
	{ID: "denner-winterthur", Chain: ChainDenner, Name: "Denner Winterthur Bahnhofplatz", Location: geo.Coordinate{Latitude: 47.4985, Longitude: 8.7265}},
	{ID: "market-zumikon", Chain: ChainFarmersMarket, Name: "Wochenmarkt Zumikon Dorfplatz", Location: geo.Coordinate{Latitude: 47.3310, Longitude: 8.6200}},
	{ID: "market-helvetiaplatz", Chain: ChainFarmersMarket, Name: "Wochenmarkt Helvetiaplatz Zuerich", Location: geo.Coordinate{Latitude: 47.3726, Longitude: 8.5253}},
	{ID: "market-uster", Chain: ChainFarmersMarket, Name: "Wochenmarkt Uster Stadthof", Location: geo.Coordinate{Latitude: 47.3478, Longitude: 8.7189}},
}

// DefaultDirectory returns the built-in Zurich-area store list.
func DefaultDirectory() *Directory {
	d, err := NewDirectory(defaultStores)
	if err != nil {
		panic(err) // static table
	}
	return d
}
