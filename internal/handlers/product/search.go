package product

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ecom_back_end/internal/services"
)

//
// 🟢 GET /api/products/search?q= — recherche plein texte via Elasticsearch
//
func SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"q is required"}})
		return
	}

	results, err := services.SearchProducts(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Search is unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results, "count": len(results)})
}
