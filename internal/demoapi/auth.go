package demoapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the access token claims the demo server issues.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type userKey struct{}

// IssueToken signs an HS256 access token for username valid for ttl.
func (s *Server) IssueToken(username string, ttl time.Duration) (string, error) {
	if _, ok := s.userByName(username); !ok {
		return "", fmt.Errorf("unknown user %q", username)
	}
	now := s.now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    "classquiz-demo",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *Server) parseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, err
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// requireBearer rejects requests without a valid access token and stores
// the caller's username in the request context.
func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		claims, err := s.parseToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil || claims == nil {
			writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
			return
		}
		if _, ok := s.userByName(claims.Username); !ok {
			writeDetail(w, http.StatusUnauthorized, "User not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, claims.Username)))
	})
}

// csrf issues a csrftoken cookie on safe requests and requires a matching
// X-CSRFToken header on unsafe ones.
func (s *Server) csrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(csrfCookie)
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if err != nil || cookie.Value == "" {
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookie,
					Value:    strings.ReplaceAll(uuid.NewString(), "-", ""),
					Path:     "/",
					SameSite: http.SameSiteLaxMode,
				})
			}
		default:
			header := r.Header.Get(csrfHeader)
			if err != nil || header == "" || header != cookie.Value {
				writeDetail(w, http.StatusForbidden, "CSRF Failed: CSRF token missing or incorrect.")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) string {
	u, _ := r.Context().Value(userKey{}).(string)
	return u
}
