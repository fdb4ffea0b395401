package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Artotz/lead-middleware-sub001/internal/config"
)

// ErrUnauthenticated is returned when no actor identity can be resolved
// from the request. Callers must refuse to proceed: no anonymous events,
// no anonymous metrics.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the snapshot of the acting user resolved from the session.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Resolver extracts the authenticated actor from an inbound request.
type Resolver interface {
	Resolve(r *http.Request) (*Identity, error)
}

// sessionClaims mirrors the token the identity provider puts in the
// session cookie. The subject carries the user id.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// SessionResolver resolves identity from the signed session cookie issued
// by the external identity provider. It never infers identity from
// client-supplied body fields.
type SessionResolver struct {
	secret     []byte
	cookieName string
}

// NewSessionResolver creates a resolver for the configured session-cookie contract.
func NewSessionResolver(cfg *config.Auth) *SessionResolver {
	return &SessionResolver{
		secret:     []byte(cfg.SessionSecret),
		cookieName: cfg.SessionCookie,
	}
}

// Resolve returns the authenticated actor or ErrUnauthenticated. The
// underlying parse failure is attached for logging but the sentinel is
// what callers should branch on.
func (sr *SessionResolver) Resolve(r *http.Request) (*Identity, error) {
	cookie, err := r.Cookie(sr.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("%w: missing session cookie", ErrUnauthenticated)
	}

	claims := &sessionClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		return sr.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return nil, fmt.Errorf("%w: session token has no subject", ErrUnauthenticated)
	}

	return &Identity{
		ID:    userID,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
