package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cmms-backend/pkg/errors"
)

func TestJWTService_Roundtrip(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)

	access, refresh, err := svc.GenerateTokens("user-1", "Игорь", "Technician")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", accessClaims.UserID)
	assert.Equal(t, "Игорь", accessClaims.UserName)
	assert.Equal(t, "Technician", accessClaims.UserRole)
	assert.False(t, accessClaims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Minute, time.Hour)
	verifier := NewJWTService("secret-b", time.Minute, time.Hour)

	access, _, err := issuer.GenerateTokens("user-1", "Игорь", "Technician")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, time.Hour)

	access, _, err := svc.GenerateTokens("user-1", "Игорь", "Technician")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err)
}

func TestJWTService_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)

	_, err := svc.ValidateToken("definitely.not.a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
