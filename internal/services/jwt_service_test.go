package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luy-todo/backend/internal/services"
)

func TestNewJWTService_RequiresSecret(t *testing.T) {
	svc, err := services.NewJWTService("")
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, services.ErrJWTSecretNotSet)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := services.NewJWTService("test-secret")
	require.NoError(t, err)

	token, err := svc.GenerateToken("todoctl", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "todoctl", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestJWTService_RejectsInvalidTokens(t *testing.T) {
	svc, err := services.NewJWTService("test-secret")
	require.NoError(t, err)
	other, err := services.NewJWTService("other-secret")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("invalid.jwt.token")
		assert.Error(t, err)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		token, err := other.GenerateToken("todoctl", time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.GenerateToken("todoctl", -time.Minute)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}
