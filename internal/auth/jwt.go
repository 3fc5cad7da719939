package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenExpiry is how long a session token stays valid. Sessions are
// process-lifetime anyway; the expiry just bounds a very long-lived process.
const SessionTokenExpiry = 12 * time.Hour

// Predefined token errors.
var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token has expired")
)

// SessionClaims are the claims carried by session tokens.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Username is the display name chosen at sign-up.
	Username string `json:"username"`
}

// JWTService signs and validates session tokens with HS256.
type JWTService struct {
	signingKey []byte
	issuer     string
}

// JWTConfig holds configuration for the JWT service.
type JWTConfig struct {
	// SigningKey signs tokens. When empty, a random key is generated, which
	// makes every token die with the process.
	SigningKey string

	// Issuer is the issuer claim (default "gasfinder").
	Issuer string
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg JWTConfig) *JWTService {
	key := []byte(cfg.SigningKey)
	if len(key) == 0 {
		key = randomKey()
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "gasfinder"
	}

	return &JWTService{
		signingKey: key,
		issuer:     issuer,
	}
}

// GenerateSessionToken creates a signed token for the given username.
func (s *JWTService) GenerateSessionToken(username string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(SessionTokenExpiry)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateSessionToken validates a token and returns its claims.
func (s *JWTService) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func randomKey() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is unusable anyway.
		panic(fmt.Sprintf("auth: generating signing key: %v", err))
	}
	key := make([]byte, base64.RawStdEncoding.EncodedLen(len(buf)))
	base64.RawStdEncoding.Encode(key, buf)
	return key
}
