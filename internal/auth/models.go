// Package auth provides the sign-up capability boundary for the buyer flow.
package auth

import (
	"context"
	"time"
)

// Credentials is the buyer sign-up form payload. Both fields are required.
type Credentials struct {
	Username string
	Phone    string
}

// Session is the result of a successful sign-up. Token is a signed JWT whose
// key lives only in process memory, so sessions never survive a restart.
type Session struct {
	Username  string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Error is a sign-up failure with a user-displayable message.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "auth: " + e.Message
}

// Provider performs sign-up. The stub implementation mirrors the original
// product behavior (no backend call); a real backend provider can be swapped
// in without touching the coordinator.
type Provider interface {
	SignUp(ctx context.Context, creds Credentials) (*Session, error)
}
