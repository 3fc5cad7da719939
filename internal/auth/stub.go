package auth

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// StubProvider accepts any sign-up with both fields present and issues a
// session token without any backend call. This reproduces the shipped
// product's sign-up form, which never talks to a server; it exists behind
// the Provider interface so a real implementation can replace it later.
type StubProvider struct {
	jwt    *JWTService
	logger zerolog.Logger
}

// NewStubProvider creates the stub sign-up provider.
func NewStubProvider(jwt *JWTService, logger zerolog.Logger) *StubProvider {
	return &StubProvider{jwt: jwt, logger: logger}
}

// SignUp validates the required fields and mints a session.
func (p *StubProvider) SignUp(_ context.Context, creds Credentials) (*Session, error) {
	username := strings.TrimSpace(creds.Username)
	phone := strings.TrimSpace(creds.Phone)

	if username == "" {
		return nil, &Error{Message: "username is required"}
	}
	if phone == "" {
		return nil, &Error{Message: "phone number is required"}
	}

	token, expiresAt, err := p.jwt.GenerateSessionToken(username)
	if err != nil {
		return nil, &Error{Message: "could not create a session, try again"}
	}

	p.logger.Info().Str("username", username).Msg("buyer signed up")

	return &Session{
		Username:  username,
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}
