package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Credentials supplies the per-request auth material.
type Credentials interface {
	// Token returns the bearer token to send on every request.
	Token(ctx context.Context) (*oauth2.Token, error)

	// CSRFToken returns the fallback CSRF token for mutating requests,
	// used when the server has not set a csrftoken cookie.
	CSRFToken(ctx context.Context) (string, error)
}

// TokenCredentials serves a bearer token from an oauth2.TokenSource and a
// fixed CSRF fallback.
type TokenCredentials struct {
	source oauth2.TokenSource
	csrf   string
}

// NewTokenCredentials wraps src in a reusing source so the token is only
// re-read once it expires.
func NewTokenCredentials(src oauth2.TokenSource, csrf string) *TokenCredentials {
	return &TokenCredentials{source: oauth2.ReuseTokenSource(nil, src), csrf: csrf}
}

// StaticCredentials returns credentials for a fixed access token.
func StaticCredentials(accessToken, csrf string) *TokenCredentials {
	return NewTokenCredentials(&jwtSource{read: func() (string, error) { return accessToken, nil }}, csrf)
}

// FileCredentials returns credentials that read the access token from
// path whenever the cached one has expired.
func FileCredentials(path, csrf string) *TokenCredentials {
	return NewTokenCredentials(&jwtSource{read: func() (string, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read token file: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}}, csrf)
}

func (c *TokenCredentials) Token(ctx context.Context) (*oauth2.Token, error) {
	return c.source.Token()
}

func (c *TokenCredentials) CSRFToken(ctx context.Context) (string, error) {
	return c.csrf, nil
}

// jwtSource turns a raw access token into an oauth2.Token, taking the
// expiry from the JWT exp claim when the token is a JWT. Opaque tokens
// never expire locally.
type jwtSource struct {
	read func() (string, error)
	now  func() time.Time
}

func (s *jwtSource) Token() (*oauth2.Token, error) {
	raw, err := s.read()
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, errors.New("no access token configured")
	}

	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}

	exp, err := tokenExpiry(raw)
	if err != nil || exp.IsZero() {
		return tok, nil
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	if !now().Before(exp) {
		return nil, fmt.Errorf("%w at %s", ErrCredentialsExpired, exp.Format(time.RFC3339))
	}
	tok.Expiry = exp
	return tok, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// server remains the authority on validity.
func tokenExpiry(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, err
	}
	return exp.Time, nil
}

// TokenSubject returns the sub or username claim of a JWT access token,
// or "" for opaque tokens.
func TokenSubject(raw string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}
	if u, ok := claims["username"].(string); ok && u != "" {
		return u
	}
	sub, _ := claims.GetSubject()
	return sub
}
