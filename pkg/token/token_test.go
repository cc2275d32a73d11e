package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MysticTarot/config"
)

func setupTokenConfig(t *testing.T) {
	t.Helper()
	config.Cfg.JWTSecret = "test-secret-for-unit-tests"
	config.Cfg.JWTExpireMinutes = 15
	config.Cfg.JWTRefreshDays = 7
	require.NoError(t, Init())
}

func TestGenerateAndRefreshRoundTrip(t *testing.T) {
	setupTokenConfig(t)

	access, refresh, expiresIn, err := GenerateTokenPair("profile-abc")
	require.NoError(t, err)

	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)
	assert.Greater(t, expiresIn, 0)
	assert.LessOrEqual(t, expiresIn, 15*60)

	profileID, err := ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "profile-abc", profileID)
}

func TestValidateRefreshTokenRejectsAccessToken(t *testing.T) {
	setupTokenConfig(t)

	access, _, _, err := GenerateTokenPair("profile-abc")
	require.NoError(t, err)

	// access token 没有 refresh 类型标记
	_, err = ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateRefreshTokenRejectsGarbage(t *testing.T) {
	setupTokenConfig(t)

	_, err := ValidateRefreshToken("not-a-jwt")
	assert.Error(t, err)
}
