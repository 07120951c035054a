package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ecom_back_end/internal/config"
	"ecom_back_end/internal/models"
)

// Claims : identité portée par les deux tokens. TokenRenewed est posé par le
// middleware quand l'access token a expiré mais que le refresh token a validé
// la session — le handler doit alors renvoyer un access token neuf dans la
// réponse JSON.
type Claims struct {
	UserID       string
	Email        string
	IsLogin      bool
	TokenRenewed bool
}

var ErrTokenExpired = jwt.ErrTokenExpired

// GenerateAccessToken émet le token court (TTL JWT_ACCESS_EXP).
func GenerateAccessToken(user models.User) (string, error) {
	return signToken(user, config.AccessTokenKey(), config.AccessTokenTTL())
}

// GenerateRefreshToken émet le token long (TTL JWT_REFRESH_EXP), seul capable
// de re-créditer un access token sans re-saisie du mot de passe.
func GenerateRefreshToken(user models.User) (string, error) {
	return signToken(user, config.RefreshTokenKey(), config.RefreshTokenTTL())
}

func signToken(user models.User, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
		"isLogin": true,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
		"iss":     config.TokenIssuer(),
		"aud":     config.TokenAudience(),
		"jti":     uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

func ParseAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, config.AccessTokenKey())
}

func ParseRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, config.RefreshTokenKey())
}

func parseToken(tokenString string, key []byte) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("méthode de signature inattendue")
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("claims invalides")
	}

	userID, _ := mapClaims["user_id"].(string)
	if userID == "" {
		return nil, errors.New("user_id manquant dans les claims")
	}
	email, _ := mapClaims["email"].(string)
	isLogin, _ := mapClaims["isLogin"].(bool)

	return &Claims{UserID: userID, Email: email, IsLogin: isLogin}, nil
}
