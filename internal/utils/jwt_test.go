package utils

import (
	"testing"
	"time"

	"campdir/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := models.User{
		Base:  models.Base{ID: "u1"},
		Email: "mary@example.com",
		Role:  models.UserRolePublisher,
	}

	token, err := GenerateJWT(user, time.Hour, "configured-secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "configured-secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "mary@example.com", claims.Email)
	assert.Equal(t, "publisher", claims.Role)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	user := models.User{Base: models.Base{ID: "u1"}, Role: models.UserRoleUser}

	token, err := GenerateJWT(user, time.Hour, "configured-secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "some-other-secret")
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	user := models.User{Base: models.Base{ID: "u1"}, Role: models.UserRoleUser}

	token, err := GenerateJWT(user, -time.Minute, "configured-secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "configured-secret")
	assert.Error(t, err)
}
