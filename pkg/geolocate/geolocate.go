// Package geolocate obtains the current device position for the store
// locator and maps positioning failures to user messages.
package geolocate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NERVsystems/localhealth/pkg/geo"
)

// Position error codes, as reported by browser geolocation.
const (
	PermissionDenied    = 1
	PositionUnavailable = 2
	Timeout             = 3
)

// Options control a position request.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxCacheAge  time.Duration
}

// DefaultOptions asks for a high accuracy fix within 10 seconds and accepts
// a fix up to five minutes old.
var DefaultOptions = Options{
	HighAccuracy: true,
	Timeout:      10 * time.Second,
	MaxCacheAge:  5 * time.Minute,
}

// Provider returns the current position.
type Provider interface {
	CurrentPosition(ctx context.Context, opts Options) (geo.Coordinate, error)
}

// PositionError is a failed position request.
type PositionError struct {
	Code int
	Err  error
}

func (e *PositionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation error %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("geolocation error %d", e.Code)
}

func (e *PositionError) Unwrap() error { return e.Err }

// ErrUnsupported means no position source exists at all.
var ErrUnsupported = errors.New("geolocation not supported")

const (
	msgDenied      = "Bitte erlaube den Standortzugriff, um Laeden in deiner Naehe zu finden."
	msgUnavailable = "Deine Position konnte nicht ermittelt werden. Bitte aktiviere GPS oder versuche es erneut."
	msgTimeout     = "Die Standortsuche hat zu lange gedauert. Versuche es bitte erneut."
	msgUnsupported = "Dein Browser unterstuetzt keine Standortermittlung."
	msgGeneric     = "Standort konnte aktuell nicht ermittelt werden."
)

// Message returns the user-facing text for a position failure.
func Message(err error) string {
	if errors.Is(err, ErrUnsupported) {
		return msgUnsupported
	}
	var perr *PositionError
	if errors.As(err, &perr) {
		switch perr.Code {
		case PermissionDenied:
			return msgDenied
		case PositionUnavailable:
			return msgUnavailable
		case Timeout:
			return msgTimeout
		}
	}
	return msgGeneric
}

// Fixed always reports the same position.
type Fixed struct {
	Position geo.Coordinate
}

// CurrentPosition implements Provider.
func (f Fixed) CurrentPosition(ctx context.Context, _ Options) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, &PositionError{Code: Timeout, Err: err}
	}
	if !f.Position.Valid() {
		return geo.Coordinate{}, &PositionError{Code: PositionUnavailable}
	}
	return f.Position, nil
}

// Unavailable is used when no position source is configured.
type Unavailable struct{}

// CurrentPosition implements Provider.
func (Unavailable) CurrentPosition(context.Context, Options) (geo.Coordinate, error) {
	return geo.Coordinate{}, &PositionError{Code: PositionUnavailable, Err: ErrNotConfigured}
}

// ErrNotConfigured is wrapped by Unavailable.
var ErrNotConfigured = errors.New("no position source configured")

// FromCode builds the error a client reported with a position code. Unknown
// codes yield an error that maps to the generic message.
func FromCode(code int) error {
	return &PositionError{Code: code}
}
