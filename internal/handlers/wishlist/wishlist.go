package wishlist

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ecom_back_end/internal/auth"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
)

//
// 🔒 POST /api/wishList/addToWishlist/:productId
//
// La liste est créée au premier ajout ; un produit déjà présent n'est pas
// dupliqué (l'appel reste un succès).
//
func AddToWishlist(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	productOID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"Invalid product id"}})
		return
	}

	ctx := c.Request.Context()

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productOID}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	var list models.Wishlist
	err = database.Wishlists().FindOne(ctx, bson.M{"user": user.ID}).Decode(&list)
	if err == mongo.ErrNoDocuments {
		now := time.Now()
		list = models.Wishlist{
			ID:        primitive.NewObjectID(),
			User:      user.ID,
			Products:  []primitive.ObjectID{productOID},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := database.Wishlists().InsertOne(ctx, list); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while adding product to wishlist"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while adding product to wishlist"})
		return
	} else {
		// $addToSet garantit l'absence de doublon côté base
		_, err := database.Wishlists().UpdateOne(ctx,
			bson.M{"_id": list.ID},
			bson.M{
				"$addToSet": bson.M{"products": productOID},
				"$set":      bson.M{"updatedAt": time.Now()},
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while adding product to wishlist"})
			return
		}
	}

	payload := gin.H{"success": true, "message": "Product added to wishlist successfully"}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🔒 GET /api/wishList/getWishlist — liste avec produits peuplés
//
func GetWishlist(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var list models.Wishlist
	err := database.Wishlists().FindOne(ctx, bson.M{"user": user.ID}).Decode(&list)
	if err == mongo.ErrNoDocuments {
		payload := gin.H{"success": true, "wishList": gin.H{"products": []models.Product{}}}
		if newToken != "" {
			payload["accessToken"] = newToken
		}
		c.JSON(http.StatusOK, payload)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching wishlist"})
		return
	}

	// peuplement manuel : les produits supprimés du catalogue sont ignorés
	products := make([]models.Product, 0, len(list.Products))
	if len(list.Products) > 0 {
		cursor, err := database.Products().Find(ctx, bson.M{"_id": bson.M{"$in": list.Products}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching wishlist"})
			return
		}
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching wishlist"})
			return
		}
	}

	payload := gin.H{"success": true, "wishList": gin.H{
		"id":       list.ID.Hex(),
		"products": products,
	}}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// ❌ DELETE /api/wishList/removeWishlist/:productId
//
func RemoveFromWishlist(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	productOID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"Invalid product id"}})
		return
	}

	ctx := c.Request.Context()
	result, err := database.Wishlists().UpdateOne(ctx,
		bson.M{"user": user.ID},
		bson.M{
			"$pull": bson.M{"products": productOID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while removing product from wishlist"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Wishlist not found"})
		return
	}

	payload := gin.H{"success": true, "message": "Product removed from wishlist successfully"}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}
