package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecom_back_end/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  models.RoleUser,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	user := testUser()

	token, err := GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.True(t, claims.IsLogin)
	assert.False(t, claims.TokenRenewed)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	user := testUser()

	token, err := GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestAccessAndRefreshKeysAreNotInterchangeable(t *testing.T) {
	user := testUser()

	accessToken, err := GenerateAccessToken(user)
	require.NoError(t, err)

	// un access token ne passe pas la vérification refresh (clés distinctes)
	_, err = ParseRefreshToken(accessToken)
	assert.Error(t, err)
}

func TestExpiredAccessTokenReportsErrTokenExpired(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXP", "-1m")

	token, err := GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = ParseAccessToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseAccessToken("pas-un-jwt")
	assert.Error(t, err)
}
