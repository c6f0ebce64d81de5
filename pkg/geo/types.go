// Package geo provides common geographic types and calculations.
// It centralizes coordinate handling and distance math so the store
// resolver, session and map view agree on units and edge cases.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Coordinate is a latitude/longitude pair in degrees.
//
// Example:
//
//	zumikon := geo.Coordinate{Latitude: 47.3310, Longitude: 8.6200}
//	km := geo.DistanceKm(zumikon, geo.Coordinate{Latitude: 47.3717, Longitude: 8.5420})
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both fields are finite numbers.
func (c Coordinate) Valid() bool {
	return isFinite(c.Latitude) && isFinite(c.Longitude)
}

// InRange reports whether the coordinate is valid and within ±90/±180.
func (c Coordinate) InRange() bool {
	return c.Valid() &&
		c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// String formats the coordinate with five decimals, the precision used in map queries.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Latitude, c.Longitude)
}

// ToRadians converts degrees to radians.
func ToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// DistanceKm calculates the great-circle distance between a and b in
// kilometers. It returns +Inf when either coordinate is not finite, so
// callers can treat a missing position as "unreachable" instead of failing.
func DistanceKm(a, b Coordinate) float64 {
	if !a.Valid() || !b.Valid() {
		return math.Inf(1)
	}

	dLat := ToRadians(b.Latitude - a.Latitude)
	dLon := ToRadians(b.Longitude - a.Longitude)
	lat1 := ToRadians(a.Latitude)
	lat2 := ToRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// FormatDistance renders a distance for display. Distances under one
// kilometer are shown in meters with a floor of 100 m; below 10 km one
// decimal is kept. Non-finite input yields an empty string.
func FormatDistance(km float64) string {
	if !isFinite(km) {
		return ""
	}
	if km < 1 {
		meters := math.Max(100, math.Round(km*1000))
		return fmt.Sprintf("%d m", int(meters))
	}
	if km < 10 {
		return fmt.Sprintf("%.1f km", km)
	}
	return fmt.Sprintf("%.0f km", km)
}

// BoundingBox represents a geographic bounding box with southwest and northeast corners
type BoundingBox struct {
	MinLat float64 // Southern edge (minimum latitude)
	MinLon float64 // Western edge (minimum longitude)
	MaxLat float64 // Northern edge (maximum latitude)
	MaxLon float64 // Eastern edge (maximum longitude)
}

// NewBoundingBox creates a new empty bounding box
func NewBoundingBox() *BoundingBox {
	return &BoundingBox{
		MinLat: 90.0, // Start with inverted min/max so any point extends correctly
		MinLon: 180.0,
		MaxLat: -90.0,
		MaxLon: -180.0,
	}
}

// Extend grows the box to include c. Invalid coordinates are ignored.
func (bb *BoundingBox) Extend(c Coordinate) {
	if !c.Valid() {
		return
	}
	bb.MinLat = math.Min(bb.MinLat, c.Latitude)
	bb.MaxLat = math.Max(bb.MaxLat, c.Latitude)
	bb.MinLon = math.Min(bb.MinLon, c.Longitude)
	bb.MaxLon = math.Max(bb.MaxLon, c.Longitude)
}

// Empty reports whether no point has been added yet.
func (bb *BoundingBox) Empty() bool {
	return bb.MinLat > bb.MaxLat || bb.MinLon > bb.MaxLon
}

// Center returns the midpoint of the box.
func (bb *BoundingBox) Center() Coordinate {
	return Coordinate{
		Latitude:  (bb.MinLat + bb.MaxLat) / 2,
		Longitude: (bb.MinLon + bb.MaxLon) / 2,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
