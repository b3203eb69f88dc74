package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const defaultSecret = "folio-space-secret-change-me"

// ErrInvalidToken is returned for malformed, tampered or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload.
type Claims struct {
	AdminID string `json:"uid"`
	jwtlib.RegisteredClaims
}

// Manager signs and verifies admin tokens with a single HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a Manager. An empty secret falls back to a built-in default.
func NewManager(secret string, ttl time.Duration) *Manager {
	if secret == "" {
		secret = defaultSecret
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// UsesDefaultSecret reports whether no secret was configured.
func (m *Manager) UsesDefaultSecret() bool { return string(m.secret) == defaultSecret }

// Sign creates a signed JWT for the given admin ID.
func (m *Manager) Sign(adminID string) (string, error) {
	now := m.now()
	claims := Claims{
		AdminID: adminID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates signature and expiry and returns the claims.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwtlib.WithTimeFunc(m.now), jwtlib.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AdminID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
