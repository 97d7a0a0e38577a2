package api

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestStaticCredentialsJWTExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signToken(t, jwt.MapClaims{"username": "alice", "exp": exp.Unix()})

	tok, err := StaticCredentials(raw, "").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, raw, tok.AccessToken)
	assert.True(t, tok.Expiry.Equal(exp), "expiry = %v, want %v", tok.Expiry, exp)
	assert.Equal(t, "alice", TokenSubject(raw))
}

func TestStaticCredentialsExpiredToken(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"sub": "bob", "exp": time.Now().Add(-time.Minute).Unix()})

	_, err := StaticCredentials(raw, "").Token(context.Background())
	assert.True(t, errors.Is(err, ErrCredentialsExpired), "err = %v", err)
}

func TestStaticCredentialsOpaqueToken(t *testing.T) {
	tok, err := StaticCredentials("opaque", "csrf").Token(context.Background())
	require.NoError(t, err)
	assert.True(t, tok.Expiry.IsZero())
	assert.Equal(t, "", TokenSubject("opaque"))

	csrf, err := StaticCredentials("opaque", "csrf").CSRFToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "csrf", csrf)
}

func TestStaticCredentialsEmptyToken(t *testing.T) {
	_, err := StaticCredentials("", "").Token(context.Background())
	assert.Error(t, err)
}

func TestFileCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  file-token\n"), 0o600))

	tok, err := FileCredentials(path, "").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file-token", tok.AccessToken)

	_, err = FileCredentials(filepath.Join(t.TempDir(), "missing"), "").Token(context.Background())
	assert.Error(t, err)
}
