package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ecom_back_end/internal/auth"
)

// Authenticate vérifie l'access token ; s'il est expiré, le refresh token
// (header refreshToken) sert de preuve de session et le flag TokenRenewed est
// posé pour que le handler renvoie un access token neuf dans le corps JSON.
//
// États couverts : access valide → passe ; access expiré + refresh valide →
// passe avec renouvellement ; refresh absent/invalide → 401, fin de session.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Auth token is required"})
			c.Abort()
			return
		}

		claims, err := auth.ParseAccessToken(bearerToken(authHeader))
		if err == nil {
			auth.SetContext(c, claims)
			c.Next()
			return
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token not valid. Login again!"})
			c.Abort()
			return
		}

		// Access token expiré → le refresh token doit prouver la session
		refreshHeader := c.GetHeader("refreshToken")
		if refreshHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token not found"})
			c.Abort()
			return
		}

		refreshClaims, err := auth.ParseRefreshToken(bearerToken(refreshHeader))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token expiry. Login again!"})
			c.Abort()
			return
		}

		refreshClaims.TokenRenewed = true
		auth.SetContext(c, refreshClaims)
		c.Next()
	}
}

// bearerToken tolère le préfixe "Bearer " comme l'app d'origine.
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return header
}
