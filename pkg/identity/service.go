package identity

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// User-facing texts of the account flows.
const (
	MsgMissingInput    = "Bitte E-Mail und Passwort eingeben."
	MsgLoginOffline    = "Login ist aktuell offline verfügbar."
	MsgRegisterOffline = "Registrierung ist aktuell offline verfügbar."
	MsgLoginPending    = "Login wird ausgeführt ..."
	MsgRegisterPending = "Account wird erstellt ..."
	MsgRegistered      = "Registrierung erfolgreich! Du kannst dich jetzt einloggen."
	MsgWelcome         = "Willkommen zurück"
	MsgLogoutFailed    = "Logout nicht möglich. Bitte versuche es erneut."
	MsgLoggedOut       = "Du bist jetzt abgemeldet."
	MsgNotSignedIn     = "Du bist nicht angemeldet."
)

// Result is the outcome of an account flow.
type Result struct {
	Message   string     `json:"message"`
	Failed    bool       `json:"failed"`
	User      *User      `json:"user,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func failed(msg string) Result { return Result{Message: msg, Failed: true} }

// TokenVerifier is implemented by backends that can check a session token.
type TokenVerifier interface {
	VerifyToken(token string) (User, error)
}

// Service runs the login, registration and logout flows. A nil backend
// means the account system is offline; a nil record store skips the
// registration record.
type Service struct {
	backend Backend
	records RecordStore
	now     func() time.Time
}

// NewService creates a service.
func NewService(backend Backend, records RecordStore) *Service {
	return &Service{backend: backend, records: records, now: time.Now}
}

// Online reports whether a backend is configured.
func (s *Service) Online() bool { return s.backend != nil }

// Login signs a user in.
func (s *Service) Login(ctx context.Context, email, password string) Result {
	if s.backend == nil {
		return failed(MsgLoginOffline)
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return failed(MsgMissingInput)
	}

	cred, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		slog.Debug("sign-in failed", "error", err)
		return failed(Message(err))
	}
	return credentialResult(MsgWelcome, cred)
}

// Register creates an account and appends a registration record. A failing
// record store is logged and does not fail the registration.
func (s *Service) Register(ctx context.Context, email, password string) Result {
	if s.backend == nil {
		return failed(MsgRegisterOffline)
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return failed(MsgMissingInput)
	}

	cred, err := s.backend.SignUp(ctx, email, password)
	if err != nil {
		slog.Debug("sign-up failed", "error", err)
		return failed(Message(err))
	}

	if s.records != nil {
		fields := map[string]any{
			"uid":       cred.User.UID,
			"email":     email,
			"createdAt": s.now().UTC(),
		}
		if _, err := s.records.AddRecord(ctx, RegistrationsCollection, fields); err != nil {
			slog.Warn("registration could not be stored", "uid", cred.User.UID, "error", err)
		}
	}

	u := cred.User
	return Result{Message: MsgRegistered, User: &u}
}

// Logout revokes token.
func (s *Service) Logout(ctx context.Context, token string) Result {
	if s.backend == nil {
		return failed(MsgLoginOffline)
	}
	if token == "" {
		return failed(MsgNotSignedIn)
	}
	if err := s.backend.SignOut(ctx, token); err != nil {
		slog.Debug("sign-out failed", "error", err)
		return failed(MsgLogoutFailed)
	}
	return Result{Message: MsgLoggedOut}
}

// Status reports the user token belongs to.
func (s *Service) Status(token string) Result {
	if token == "" {
		return Result{Message: MsgNotSignedIn}
	}
	v, ok := s.backend.(TokenVerifier)
	if !ok {
		return failed(MsgLoginOffline)
	}
	u, err := v.VerifyToken(token)
	if err != nil {
		return failed(Message(err))
	}
	return Result{Message: MsgWelcome, User: &u}
}

func credentialResult(msg string, cred Credential) Result {
	u := cred.User
	exp := cred.ExpiresAt
	return Result{Message: msg, User: &u, Token: cred.Token, ExpiresAt: &exp}
}
