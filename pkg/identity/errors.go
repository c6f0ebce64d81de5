package identity

import (
	"errors"
	"fmt"
)

// Error codes reported by a Backend.
const (
	CodeEmailInUse      = "auth/email-already-in-use"
	CodeInvalidEmail    = "auth/invalid-email"
	CodeWeakPassword    = "auth/weak-password"
	CodeUserNotFound    = "auth/user-not-found"
	CodeWrongPassword   = "auth/wrong-password"
	CodeTooManyRequests = "auth/too-many-requests"
	CodeInvalidToken    = "auth/invalid-token"
)

// Error is a backend failure carrying a stable code.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code string) *Error { return &Error{Code: code} }

const msgUnknown = "Unbekannter Fehler. Bitte versuche es erneut."

var messages = map[string]string{
	CodeEmailInUse:      "Diese E-Mail wird bereits verwendet.",
	CodeInvalidEmail:    "Bitte gib eine gültige E-Mail-Adresse ein.",
	CodeWeakPassword:    "Bitte wähle ein stärkeres Passwort (mind. 6 Zeichen).",
	CodeUserNotFound:    "E-Mail oder Passwort ist nicht korrekt.",
	CodeWrongPassword:   "E-Mail oder Passwort ist nicht korrekt.",
	CodeTooManyRequests: "Zu viele Versuche. Bitte warte einen Moment und versuche es erneut.",
	CodeInvalidToken:    "Deine Sitzung ist abgelaufen. Bitte melde dich erneut an.",
}

// Message returns the user-facing text for err. Errors without a known code
// fall back to their own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ierr *Error
	if errors.As(err, &ierr) {
		if msg, ok := messages[ierr.Code]; ok {
			return msg
		}
	}
	if text := err.Error(); text != "" {
		return text
	}
	return msgUnknown
}
