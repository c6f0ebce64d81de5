// Package session keeps the per-user state of the store locator: the last
// origin, the last suggestion list and the store currently recommended.
// State is overwritten by every new query; the last write wins.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/NERVsystems/localhealth/pkg/gazetteer"
	"github.com/NERVsystems/localhealth/pkg/geo"
	"github.com/NERVsystems/localhealth/pkg/geolocate"
	"github.com/NERVsystems/localhealth/pkg/mapview"
	"github.com/NERVsystems/localhealth/pkg/stores"
)

// ErrBusy is returned when a locate or auth request is already running for
// the session. Callers should ask the user to wait instead of queueing.
var ErrBusy = errors.New("request already in progress")

// ErrUnknownStore is returned by SelectStore for ids not in the directory.
var ErrUnknownStore = errors.New("unknown store")

// User-facing status messages.
const (
	MsgDefault        = "Optional: Erlaube den Standortzugriff oder gib PLZ/Adresse ein, damit wir den naechstgelegenen Laden vorschlagen und die Top 3-5 anzeigen koennen."
	MsgEmptyQuery     = "Bitte gib eine PLZ, einen Ort oder eine Adresse ein."
	MsgNoStore        = "Wir konnten keinen passenden Laden finden."
	MsgNoPosition     = "Die Position ist aktuell nicht verfuegbar."
	MsgSearching      = "Wir suchen nach Laeden in deiner Naehe ..."
	headingOwnPlace   = "Naechste Laeden in deiner Naehe"
	defaultPointLabel = "Startpunkt"
	labelOwnPosition  = "deinem Standort"
)

// Variant classifies a status message for display.
type Variant string

const (
	Info    Variant = "info"
	Pending Variant = "pending"
	Success Variant = "success"
	Error   Variant = "error"
)

// Status is the message shown next to the store locator.
type Status struct {
	Message string  `json:"message"`
	Variant Variant `json:"variant"`
}

// Result is the outcome of a locate or select action.
type Result struct {
	Status      Status          `json:"status"`
	Heading     string          `json:"heading,omitempty"`
	Origin      *mapview.Point  `json:"origin,omitempty"`
	Suggestions []stores.Ranked `json:"suggestions"`
	Selected    *stores.Ranked  `json:"selected,omitempty"`
	Map         mapview.View    `json:"map"`
}

// Session is safe for concurrent use.
type Session struct {
	directory *stores.Directory
	limit     int

	mu            sync.Mutex
	lastSuggested *stores.Ranked
	lastMessage   string
	lastOrigin    mapview.Point
	recent        []stores.Ranked
	locating      bool
	authPending   bool
	token         string
}

// New returns an empty session ranking stores from directory. limit is the
// number of suggestions per query.
func New(directory *stores.Directory, limit int) *Session {
	if limit <= 0 {
		limit = stores.DefaultLimit
	}
	return &Session{
		directory:  directory,
		limit:      limit,
		lastOrigin: mapview.DefaultOrigin,
	}
}

// LocateQuery resolves free-text input with g and suggests stores near it.
func (s *Session) LocateQuery(g *gazetteer.Gazetteer, raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return s.fail(MsgEmptyQuery)
	}
	entry, ok := g.Find(raw)
	if !ok {
		return s.fail(fmt.Sprintf("Standort nicht erkannt. Unterstuetzte Orte: %s.", g.SupportedText()))
	}
	return s.present(entry.Location, entry.Display, headingFor(entry.Display))
}

// LocatePosition suggests stores near a device position.
func (s *Session) LocatePosition(c geo.Coordinate) Result {
	if !c.Valid() {
		return s.fail(MsgNoPosition)
	}
	return s.present(c, labelOwnPosition, headingFor(labelOwnPosition))
}

// LocateFailed records a failed geolocation attempt.
func (s *Session) LocateFailed(err error) Result {
	return s.fail(geolocate.Message(err))
}

func (s *Session) present(origin geo.Coordinate, label, heading string) Result {
	nearest := s.PresentSuggestions(origin, label)
	if len(nearest) == 0 {
		return s.fail(MsgNoStore)
	}
	status := s.ApplySelection(nearest[0])
	return s.result(status, heading, nearest[0])
}

// PresentSuggestions ranks the stores nearest to origin and records them as
// the recent suggestions. An invalid origin or an empty directory clears the
// session and returns an empty list.
func (s *Session) PresentSuggestions(origin geo.Coordinate, label string) []stores.Ranked {
	nearest := s.directory.Nearest(origin, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(nearest) == 0 {
		s.clearLocked()
		return []stores.Ranked{}
	}
	if label == "" {
		label = defaultPointLabel
	}
	s.lastOrigin = mapview.Point{Location: origin, Label: label}
	s.recent = nearest
	return append([]stores.Ranked(nil), nearest...)
}

// ApplySelection records r as the recommended store and returns the status
// announcing it.
func (s *Session) ApplySelection(r stores.Ranked) Status {
	msg := "Empfehlung: " + r.Name
	if r.DistanceText != "" {
		msg += fmt.Sprintf(" (%s entfernt)", r.DistanceText)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSuggested = &r
	s.lastMessage = msg
	return Status{Message: msg, Variant: Success}
}

// SelectStoreByID resolves id against the recent suggestions first, keeping
// their distance, and falls back to the directory without a distance.
func (s *Session) SelectStoreByID(id string) (stores.Ranked, error) {
	s.mu.Lock()
	for _, r := range s.recent {
		if r.ID == id {
			s.mu.Unlock()
			return r, nil
		}
	}
	s.mu.Unlock()

	st, ok := s.directory.Lookup(id)
	if !ok {
		return stores.Ranked{}, fmt.Errorf("%w: %q", ErrUnknownStore, id)
	}
	return stores.Unranked(st), nil
}

// SelectStore makes the store with id the recommendation.
func (s *Session) SelectStore(id string) (Result, error) {
	selected, err := s.SelectStoreByID(id)
	if err != nil {
		return Result{}, err
	}
	status := s.ApplySelection(selected)
	return s.result(status, "", selected), nil
}

func (s *Session) result(status Status, heading string, selected stores.Ranked) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	origin := s.lastOrigin
	if heading == "" && len(s.recent) > 0 {
		heading = headingFor(origin.Label)
	}
	return Result{
		Status:      status,
		Heading:     heading,
		Origin:      &origin,
		Suggestions: append([]stores.Ranked{}, s.recent...),
		Selected:    &selected,
		Map:         mapview.Build(origin, s.recent, selected.ID),
	}
}

func headingFor(label string) string {
	if label == "" || label == defaultPointLabel {
		return headingOwnPlace
	}
	return "Naechste Laeden ab " + label
}

// ChangeChain reacts to the user picking a chain. The recommendation is
// kept only when it belongs to that chain.
func (s *Session) ChangeChain(chain stores.Chain) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastSuggested != nil && s.lastSuggested.Chain == chain {
		return Status{Message: s.lastMessage, Variant: Success}
	}
	s.lastSuggested = nil
	s.lastMessage = ""
	if s.locating {
		return Status{Message: MsgSearching, Variant: Pending}
	}
	return Status{Message: MsgDefault, Variant: Info}
}

// LastSuggested returns the currently recommended store.
func (s *Session) LastSuggested() (stores.Ranked, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSuggested == nil {
		return stores.Ranked{}, false
	}
	return *s.lastSuggested, true
}

// Recent returns the last suggestion list.
func (s *Session) Recent() []stores.Ranked {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stores.Ranked(nil), s.recent...)
}

// Clear drops the suggestion state and resets the map to the default origin.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.lastSuggested = nil
	s.lastMessage = ""
	s.recent = nil
	s.lastOrigin = mapview.DefaultOrigin
}

func (s *Session) fail(msg string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	return Result{
		Status:      Status{Message: msg, Variant: Error},
		Suggestions: []stores.Ranked{},
		Map:         mapview.Build(s.lastOrigin, nil, ""),
	}
}

// BeginLocate marks a geolocation request as running.
func (s *Session) BeginLocate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locating {
		return ErrBusy
	}
	s.locating = true
	return nil
}

// EndLocate clears the running geolocation request.
func (s *Session) EndLocate() {
	s.mu.Lock()
	s.locating = false
	s.mu.Unlock()
}

// BeginAuth marks a login, registration or logout as running.
func (s *Session) BeginAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authPending {
		return ErrBusy
	}
	s.authPending = true
	return nil
}

// EndAuth clears the running auth request.
func (s *Session) EndAuth() {
	s.mu.Lock()
	s.authPending = false
	s.mu.Unlock()
}

// Token returns the session token of the signed-in user, if any.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken stores the session token; an empty token signs the session out.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}
