package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitkeeper/fitkeeper/config"
)

func init() {
	config.SetForTest(config.AppConfig{JWTSecret: "test-secret", JWTExpireHr: 1})
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "kakao", "kakao-42", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "kakao", claims.Provider)
	assert.Equal(t, "kakao-42", claims.ProviderID)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(1, "google", "g-1", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("definitely.not.ajwt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}
