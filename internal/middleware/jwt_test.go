package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecom_back_end/internal/auth"
	"ecom_back_end/internal/models"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Authenticate(), func(c *gin.Context) {
		claims, _ := auth.FromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"userId":  claims.UserID,
			"renewed": claims.TokenRenewed,
		})
	})
	return r
}

func perform(r *gin.Engine, accessToken, refreshToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if refreshToken != "" {
		req.Header.Set("refreshToken", refreshToken)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testUser() models.User {
	return models.User{ID: primitive.NewObjectID(), Email: "bob@example.com"}
}

func TestAuthenticateMissingHeader(t *testing.T) {
	w := perform(testRouter(), "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Auth token is required")
}

func TestAuthenticateValidAccessToken(t *testing.T) {
	user := testUser()
	token, err := auth.GenerateAccessToken(user)
	require.NoError(t, err)

	w := perform(testRouter(), token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.Hex())
	assert.Contains(t, w.Body.String(), `"renewed":false`)
}

func TestAuthenticateGarbageAccessToken(t *testing.T) {
	w := perform(testRouter(), "nimporte-quoi", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token not valid. Login again!")
}

func TestAuthenticateExpiredAccessWithoutRefresh(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXP", "-1m")
	user := testUser()
	token, err := auth.GenerateAccessToken(user)
	require.NoError(t, err)

	w := perform(testRouter(), token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token not found")
}

func TestAuthenticateExpiredAccessWithValidRefresh(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXP", "-1m")
	user := testUser()
	accessToken, err := auth.GenerateAccessToken(user)
	require.NoError(t, err)
	refreshToken, err := auth.GenerateRefreshToken(user)
	require.NoError(t, err)

	// le refresh token prouve la session, le flag renewed est posé
	w := perform(testRouter(), accessToken, refreshToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.Hex())
	assert.Contains(t, w.Body.String(), `"renewed":true`)
}

func TestAuthenticateExpiredAccessWithInvalidRefresh(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXP", "-1m")
	user := testUser()
	accessToken, err := auth.GenerateAccessToken(user)
	require.NoError(t, err)

	w := perform(testRouter(), accessToken, "refresh-bidon")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expiry. Login again!")
}

func TestBearerTokenPrefixHandling(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("abc"))
	assert.Equal(t, "Basic abc", bearerToken("Basic abc"))
}
