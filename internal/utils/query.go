package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt lit un entier de pagination dans la query string. Valeur absente,
// négative ou limit=0 → fallback.
func QueryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return fallback
	}
	if key == "limit" && v == 0 {
		return fallback
	}
	return v
}
