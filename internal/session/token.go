package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DefaultTokenTTL is the lifetime of an issued bearer token.
const DefaultTokenTTL = 24 * time.Hour

// Issuer is the `iss` claim of issued tokens.
const Issuer = "wegavilla"

// An Identity is the authenticated principal extracted from a verified token.
type Identity struct {
	Email string
	Roles []string
}

// HasRole returns true if the identity carries the given role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Claims is the payload of an issued token.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// A TokenManager issues and verifies self-contained bearer tokens.
// Tokens stay valid until their expiry: there is no server-side revocation.
type TokenManager struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenManager returns a TokenManager signing with the given key.
// A non-positive ttl falls back to the default.
func NewTokenManager(signingKey []byte, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		signingKey: signingKey,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Issue mints a signed token asserting the given subject and roles.
func (m *TokenManager) Issue(subject string, roles []string) (string, error) {
	t := m.now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(t),
			ExpiresAt: jwt.NewNumericDate(t.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	return token, errors.Wrap(err, "could not sign token")
}

// Verify checks the token signature and registered claims and returns the
// asserted identity. Any failure means the bearer is unauthenticated, it is
// up to the caller to decide whether that is acceptable.
func (m *TokenManager) Verify(raw string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.signingKey, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	if err != nil {
		return Identity{}, errors.Wrap(err, "could not verify token")
	}

	return Identity{Email: claims.Subject, Roles: claims.Roles}, nil
}
