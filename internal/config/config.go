package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// AccessTokenKey / RefreshTokenKey : clés HS256 distinctes pour les deux tokens
func AccessTokenKey() []byte {
	return []byte(getenv("JWT_ACCESS_KEY", "access_secret"))
}

func RefreshTokenKey() []byte {
	return []byte(getenv("JWT_REFRESH_KEY", "refresh_secret"))
}

// AccessTokenTTL : courte par design — les access tokens restent valables
// jusqu'à expiration naturelle même après logout (pas de blacklist serveur).
func AccessTokenTTL() time.Duration {
	return durationEnv("JWT_ACCESS_EXP", 15*time.Minute)
}

func RefreshTokenTTL() time.Duration {
	return durationEnv("JWT_REFRESH_EXP", 168*time.Hour)
}

func TokenIssuer() string {
	return getenv("JWT_ISSUER", "ecom_back_end")
}

func TokenAudience() string {
	return getenv("JWT_AUDIENCE", "ecom_clients")
}

// Politique de stock côté panier :
//   - "checkout" : le stock ne bouge qu'au placement de la commande
//   - "reserve"  : add/update décrémentent, remove restaure
//
// Les deux comportements existent dans l'historique de l'app d'origine ;
// on n'en applique jamais les deux à la fois.
const (
	StockPolicyCheckout = "checkout"
	StockPolicyReserve  = "reserve"
)

func CartStockPolicy() string {
	if os.Getenv("CART_STOCK_POLICY") == StockPolicyReserve {
		return StockPolicyReserve
	}
	return StockPolicyCheckout
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut utilisée", key, v)
		return fallback
	}
	return d
}
