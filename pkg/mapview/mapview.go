// Package mapview builds the embedded map URL showing the search origin
// and the suggested stores.
package mapview

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/NERVsystems/localhealth/pkg/geo"
	"github.com/NERVsystems/localhealth/pkg/stores"
)

const embedBaseURL = "https://www.google.com/maps"

// DefaultOrigin is shown when there is nothing else to display.
var DefaultOrigin = Point{
	Location: geo.Coordinate{Latitude: 47.3310, Longitude: 8.6200},
	Label:    "LocalHealth",
}

// Point is a labeled map marker.
type Point struct {
	Location geo.Coordinate `json:"location"`
	Label    string         `json:"label"`
}

// View is a rendered map: the embed URL plus the framing of its points.
type View struct {
	URL    string         `json:"url"`
	Zoom   int            `json:"zoom"`
	Center geo.Coordinate `json:"center"`
	Points []Point        `json:"points"`
}

// Build renders origin and the ranked stores. The store with activeID is
// prefixed with "TOP ". Invalid points are skipped; with no valid point the
// default origin is shown.
func Build(origin Point, ranked []stores.Ranked, activeID string) View {
	var points []Point
	if origin.Location.Valid() {
		label := origin.Label
		if label == "" {
			label = "Startpunkt"
		}
		points = append(points, Point{Location: origin.Location, Label: label})
	}
	for _, s := range ranked {
		if !s.Location.Valid() {
			continue
		}
		label := s.Name
		if activeID != "" && s.ID == activeID {
			label = "TOP " + label
		}
		points = append(points, Point{Location: s.Location, Label: label})
	}

	if len(points) == 0 {
		return View{
			URL:    fmt.Sprintf("%s?q=%s&z=12&output=embed", embedBaseURL, DefaultOrigin.Location),
			Zoom:   12,
			Center: DefaultOrigin.Location,
		}
	}

	zoom := 13
	if len(points) >= 4 {
		zoom = 12
	}

	bbox := geo.NewBoundingBox()
	queries := make([]string, 0, len(points))
	for _, p := range points {
		bbox.Extend(p.Location)
		queries = append(queries, "q="+escapeComponent(fmt.Sprintf("%s (%s)", p.Location, p.Label)))
	}

	return View{
		URL:    fmt.Sprintf("%s?%s&z=%d&output=embed", embedBaseURL, strings.Join(queries, "&"), zoom),
		Zoom:   zoom,
		Center: bbox.Center(),
		Points: points,
	}
}

// componentUnescape undoes the parts of QueryEscape that encodeURIComponent
// leaves alone, so labels encode the way a browser page encodes them.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func escapeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
