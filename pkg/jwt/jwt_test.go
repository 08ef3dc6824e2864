package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	token, err := service.GenerateToken("judge-1", "Alice", RoleJudge, 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "judge-1", claims.Subject)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, string(RoleJudge), claims.Role)
}

func TestValidateToken_Expired(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	token, err := service.GenerateToken("judge-1", "Alice", RoleJudge, -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	validator := NewService("secret-b", time.Hour)

	token, err := issuer.GenerateToken("judge-1", "Alice", RoleJudge, time.Hour)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateToken_Garbage(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	_, err := service.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateToken_AdminRole(t *testing.T) {
	service := NewService("test-secret", time.Hour)

	token, err := service.GenerateToken("admin-1", "Root", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, string(RoleAdmin), claims.Role)
}
