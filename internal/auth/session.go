package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/config"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
)

// La session remplace le flag isLogin stocké sur le document utilisateur de
// l'app d'origine : une clé Redis par utilisateur, valeur = refresh token
// émis, TTL alignée sur celle du refresh token. Session active ⇔ clé présente.

const contextKey = "auth_claims"

func sessionKey(userID string) string {
	return "session:" + userID
}

func StartSession(ctx context.Context, userID, refreshToken string) error {
	return database.Redis.Set(ctx, sessionKey(userID), refreshToken, config.RefreshTokenTTL()).Err()
}

func EndSession(ctx context.Context, userID string) error {
	return database.Redis.Del(ctx, sessionKey(userID)).Err()
}

func SessionActive(ctx context.Context, userID string) bool {
	n, err := database.Redis.Exists(ctx, sessionKey(userID)).Result()
	return err == nil && n > 0
}

// SetContext / FromContext : les claims circulent comme une valeur typée dans
// le contexte gin, jamais mutée après le middleware.
func SetContext(c *gin.Context, claims *Claims) {
	c.Set(contextKey, claims)
}

func FromContext(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// RequireSession factorise le bloc répété en tête de chaque handler
// authentifié : charge l'utilisateur, vérifie que la session est active, et
// émet un access token neuf si le middleware a signalé l'expiration.
// En cas d'échec la réponse JSON est déjà écrite et ok vaut false.
func RequireSession(c *gin.Context) (user *models.User, newAccessToken string, ok bool) {
	claims, found := FromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Auth token is required"})
		return nil, "", false
	}

	ctx := c.Request.Context()

	user, err := cache.GetUserFromCache(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return nil, "", false
	}

	if !SessionActive(ctx, claims.UserID) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. You have to login first."})
		return nil, "", false
	}

	if claims.TokenRenewed {
		token, err := GenerateAccessToken(*user)
		if err == nil {
			newAccessToken = token
		}
	}

	return user, newAccessToken, true
}

// RequireRole vérifie le rôle après RequireSession. La liste blanche typique
// est {admin, manager} pour la gestion catalogue/commandes.
func RequireRole(c *gin.Context, user *models.User, roles ...string) bool {
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized request"})
	return false
}
