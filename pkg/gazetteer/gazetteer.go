// Package gazetteer recognizes free-text place input (postal codes, town
// names, a few street addresses) against a fixed table of known locations.
package gazetteer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NERVsystems/localhealth/pkg/geo"
)

// ErrUnknownLocation is returned when no entry matches the input.
var ErrUnknownLocation = errors.New("location not recognized")

// Entry is a known location. Input matches the entry when every token of
// at least one matcher is present in the input.
type Entry struct {
	Label    string         `json:"label"`
	Display  string         `json:"display"`
	Location geo.Coordinate `json:"location"`
	Matchers [][]string     `json:"-"`
}

// Matches reports whether tokens satisfy any of the entry's matchers.
func (e Entry) Matches(tokens map[string]struct{}) bool {
	for _, matcher := range e.Matchers {
		if len(matcher) == 0 {
			continue
		}
		all := true
		for _, tok := range matcher {
			if _, ok := tokens[tok]; !ok {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// UnknownLocationError carries the rejected query and the supported labels
// so the caller can tell the user what to type instead.
type UnknownLocationError struct {
	Query     string
	Supported []string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownLocation, e.Query)
}

func (e *UnknownLocationError) Unwrap() error { return ErrUnknownLocation }

// Gazetteer is an ordered, read-only table of entries. Table order is the
// tie-break: the first matching entry wins.
type Gazetteer struct {
	entries []Entry
}

// New builds a gazetteer from entries. Matcher tokens are normalized so
// tables can be written with natural spelling.
func New(entries []Entry) *Gazetteer {
	g := &Gazetteer{entries: make([]Entry, len(entries))}
	for i, e := range entries {
		matchers := make([][]string, 0, len(e.Matchers))
		for _, m := range e.Matchers {
			norm := make([]string, 0, len(m))
			for _, tok := range m {
				if n := Normalize(tok); n != "" {
					norm = append(norm, n)
				}
			}
			matchers = append(matchers, norm)
		}
		e.Matchers = matchers
		if e.Display == "" {
			e.Display = e.Label
		}
		g.entries[i] = e
	}
	return g
}

// Find returns the first entry matched by raw. Blank input never matches.
func (g *Gazetteer) Find(raw string) (Entry, bool) {
	tokens := Tokenize(raw)
	if len(tokens) == 0 {
		return Entry{}, false
	}

	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}

	for _, e := range g.entries {
		if e.Matches(set) {
			return e, true
		}
	}
	return Entry{}, false
}

// Lookup is Find with an error describing the supported locations.
func (g *Gazetteer) Lookup(raw string) (Entry, error) {
	if e, ok := g.Find(raw); ok {
		return e, nil
	}
	return Entry{}, &UnknownLocationError{Query: raw, Supported: g.Labels()}
}

// Entries returns a copy of the table.
func (g *Gazetteer) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out
}

// Labels lists entry labels in table order.
func (g *Gazetteer) Labels() []string {
	labels := make([]string, len(g.entries))
	for i, e := range g.entries {
		labels[i] = e.Label
	}
	return labels
}

// SupportedText joins all labels for display.
func (g *Gazetteer) SupportedText() string {
	return strings.Join(g.Labels(), ", ")
}
