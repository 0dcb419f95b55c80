package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 5*time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(42, "alice")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	m := NewManager("secret", 5*time.Minute, time.Hour)

	refresh, err := m.GenerateRefreshToken(1, "alice")
	require.NoError(t, err)
	access, err := m.GenerateAccessToken(1, "alice")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)

	claims, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
}

func TestExpiredToken(t *testing.T) {
	m := NewManager("secret", 5*time.Minute, time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken(1, "alice")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(4 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	assert.NoError(t, err)

	m.now = func() time.Time { return issued.Add(6 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestWrongSecret(t *testing.T) {
	token, err := NewManager("one", time.Minute, time.Hour).GenerateAccessToken(1, "alice")
	require.NoError(t, err)

	_, err = NewManager("two", time.Minute, time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	_, err = NewManager("one", time.Minute, time.Hour).ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
