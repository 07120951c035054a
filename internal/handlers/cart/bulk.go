package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ecom_back_end/internal/auth"
	"ecom_back_end/internal/config"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
)

type BulkItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type BulkReject struct {
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
}

// PartitionBulkItems sépare une demande d'import en lignes applicables et
// lignes rejetées. Un produit absent de la map est inconnu ; en cas de
// doublon sur un même produit, la dernière quantité gagne.
func PartitionBulkItems(items []BulkItem, products map[string]models.Product) ([]BulkItem, []BulkReject) {
	var rejected []BulkReject
	order := make([]string, 0, len(items))
	quantities := make(map[string]int, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			rejected = append(rejected, BulkReject{ProductID: item.ProductID, Reason: "invalid-quantity"})
			continue
		}
		product, ok := products[item.ProductID]
		if !ok {
			rejected = append(rejected, BulkReject{ProductID: item.ProductID, Reason: "not-found"})
			continue
		}
		if product.TotalStock < item.Quantity {
			rejected = append(rejected, BulkReject{ProductID: item.ProductID, Reason: "out-of-stock"})
			continue
		}
		if _, seen := quantities[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] = item.Quantity
	}

	valid := make([]BulkItem, 0, len(order))
	for _, id := range order {
		valid = append(valid, BulkItem{ProductID: id, Quantity: quantities[id]})
	}
	return valid, rejected
}

//
// 🟢 POST /api/cart/bulkAdd — import de panier (ex: panier invité au login)
//
// Les lignes invalides sont écartées avec leur raison ; la requête n'échoue
// globalement que si AUCUNE ligne n'est applicable.
//
func BulkAdd(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	var input struct {
		Items []BulkItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"items is required"}})
		return
	}

	ctx := c.Request.Context()

	products := make(map[string]models.Product, len(input.Items))
	for _, item := range input.Items {
		if _, loaded := products[item.ProductID]; loaded {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			continue // restera "not-found" au partitionnement
		}
		var p models.Product
		err = database.Products().FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while importing cart"})
			return
		}
		products[item.ProductID] = p
	}

	valid, rejected := PartitionBulkItems(input.Items, products)
	if len(valid) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No valid items to add", "rejected": rejected})
		return
	}

	cart, err := findOrCreateCart(ctx, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while importing cart"})
		return
	}

	reserve := config.CartStockPolicy() == config.StockPolicyReserve
	for _, item := range valid {
		oid, _ := primitive.ObjectIDFromHex(item.ProductID)

		previousQty := 0
		found := false
		for i := range cart.Items {
			if cart.Items[i].Product == oid {
				previousQty = cart.Items[i].Quantity
				cart.Items[i].Quantity = item.Quantity
				found = true
				break
			}
		}
		if !found {
			cart.Items = append(cart.Items, models.CartItem{Product: oid, Quantity: item.Quantity})
		}

		if reserve {
			if err := adjustStock(ctx, oid, previousQty-item.Quantity); err != nil {
				rejected = append(rejected, BulkReject{ProductID: item.ProductID, Reason: "out-of-stock"})
				if found {
					// retour à la quantité précédente, la réservation a échoué
					for i := range cart.Items {
						if cart.Items[i].Product == oid {
							cart.Items[i].Quantity = previousQty
						}
					}
				} else {
					cart.Items = cart.Items[:len(cart.Items)-1]
				}
			}
		}
	}

	if err := recomputeAndSave(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while importing cart"})
		return
	}
	publishCartUpdate(ctx, user.ID.Hex())

	payload := gin.H{"success": true, "message": "Cart imported successfully", "cart": cart, "rejected": rejected}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}
