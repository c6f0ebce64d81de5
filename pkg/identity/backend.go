// Package identity signs users in and out and stores registration records.
// Backends report failures as *Error values with stable codes; Message turns
// them into user-facing text.
package identity

import (
	"context"
	"time"
)

// User is a signed-in account.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Credential is returned by a successful sign-in or sign-up.
type Credential struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Backend is an authentication provider.
type Backend interface {
	SignIn(ctx context.Context, email, password string) (Credential, error)
	SignUp(ctx context.Context, email, password string) (Credential, error)
	SignOut(ctx context.Context, token string) error
	// OnAuthStateChange calls fn with the user after every sign-in and with
	// nil after every sign-out until the returned function is called.
	OnAuthStateChange(fn func(*User)) (unsubscribe func())
}

// RecordStore appends documents to named collections.
type RecordStore interface {
	AddRecord(ctx context.Context, collection string, fields map[string]any) (string, error)
}
