package helpers

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseSessionToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("super-secret", 24*time.Hour)
	m.Now = func() time.Time { return issued }

	tok, exp, err := m.GenerateSessionToken("u-1", "alice", "a@x.com", "MIT")
	require.NoError(t, err)
	assert.Equal(t, issued.Add(24*time.Hour), exp)

	claims, err := m.ParseSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID())
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "MIT", claims.College)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestSessionTokenPayloadHasNoPassword(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("k", time.Hour)
	tok, _, err := m.GenerateSessionToken("u-1", "alice", "a@x.com", "")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(string(payload)), "password")
}

func TestParseSessionTokenExpired(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("k", 24*time.Hour)
	m.Now = func() time.Time { return issued }
	tok, _, err := m.GenerateSessionToken("u-1", "alice", "a@x.com", "")
	require.NoError(t, err)

	m.Now = func() time.Time { return issued.Add(24*time.Hour + time.Second) }
	_, err = m.ParseSessionToken(tok)
	assert.Error(t, err)
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewJWTManager("right", time.Hour).GenerateSessionToken("u-1", "a", "a@x.com", "")
	require.NoError(t, err)

	_, err = NewJWTManager("wrong", time.Hour).ParseSessionToken(tok)
	assert.Error(t, err)
}

func TestParseSessionTokenMalformed(t *testing.T) {
	t.Parallel()

	_, err := NewJWTManager("k", time.Hour).ParseSessionToken("not.a.jwt")
	assert.Error(t, err)
}
