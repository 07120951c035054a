package cart

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ecom_back_end/internal/auth"
	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/config"
	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
	"ecom_back_end/internal/pricing"
)

//
// 🔒 GET /api/cart/getCart
//
func GetCart(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var cart models.Cart
	err := database.Carts().FindOne(ctx, bson.M{"user": user.ID}).Decode(&cart)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart not found"})
		return
	}

	products, err := loadCartProducts(ctx, cart.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching cart details"})
		return
	}

	payload := gin.H{"success": true, "cart": cart, "products": productList(cart.Items, products)}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🟢 POST /api/cart/addCartProduct
//
// Une ligne existante voit sa quantité REMPLACÉE (pas additionnée) —
// comportement de la dernière révision de l'app d'origine.
//
func AddToCart(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"quantity must be greater than 0"}})
		return
	}

	productOID, err := primitive.ObjectIDFromHex(input.ProductID)
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
	if product.TotalStock < input.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Not enough stock available"})
		return
	}

	cart, err := findOrCreateCart(ctx, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while creating cart"})
		return
	}

	previousQty := 0
	found := false
	for i := range cart.Items {
		if cart.Items[i].Product == productOID {
			previousQty = cart.Items[i].Quantity
			cart.Items[i].Quantity = input.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{Product: productOID, Quantity: input.Quantity})
	}

	if config.CartStockPolicy() == config.StockPolicyReserve {
		// En mode réservation, le delta net est décrémenté du stock
		if err := adjustStock(ctx, productOID, previousQty-input.Quantity); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Not enough stock available"})
			return
		}
	}

	if err := recomputeAndSave(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while creating cart"})
		return
	}
	publishCartUpdate(ctx, user.ID.Hex())

	payload := gin.H{"success": true, "message": "Product added to cart successfully", "cart": cart}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🟢 POST /api/cart/updateCartProduct — delta add/remove sur une ligne
//
func UpdateCartQuantity(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Type      string `json:"type"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}
	if input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Quantity must be at least 1"})
		return
	}
	if input.Type != "add" && input.Type != "remove" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation error", "errors": []string{"type must be add or remove"}})
		return
	}

	productOID, err := primitive.ObjectIDFromHex(input.ProductID)
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

	var cart models.Cart
	if err := database.Carts().FindOne(ctx, bson.M{"user": user.ID}).Decode(&cart); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart not found"})
		return
	}

	itemIndex := -1
	for i := range cart.Items {
		if cart.Items[i].Product == productOID {
			itemIndex = i
			break
		}
	}
	if itemIndex == -1 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found in cart"})
		return
	}

	message := ""
	switch input.Type {
	case "add":
		if product.TotalStock < input.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Not enough stock available"})
			return
		}
		cart.Items[itemIndex].Quantity += input.Quantity
		if config.CartStockPolicy() == config.StockPolicyReserve {
			if err := adjustStock(ctx, productOID, -input.Quantity); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Not enough stock available"})
				return
			}
		}
		message = "Product quantity increased successfully"

	case "remove":
		previousQty := cart.Items[itemIndex].Quantity
		newQty := previousQty - input.Quantity
		restored := input.Quantity
		if newQty <= 0 {
			// la ligne disparaît quand la quantité retombe à zéro
			cart.Items = append(cart.Items[:itemIndex], cart.Items[itemIndex+1:]...)
			restored = previousQty
			message = "Product remove from cart successfully"
		} else {
			cart.Items[itemIndex].Quantity = newQty
			message = "Product quantity decreased successfully"
		}
		if config.CartStockPolicy() == config.StockPolicyReserve {
			if err := adjustStock(ctx, productOID, restored); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while updating cart"})
				return
			}
		}
	}

	if err := recomputeAndSave(ctx, &cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while updating cart"})
		return
	}
	publishCartUpdate(ctx, user.ID.Hex())

	payload := gin.H{"success": true, "message": message, "cart": cart}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// ❌ DELETE /api/cart/removeCartProduct/:productId
//
func RemoveFromCart(c *gin.Context) {
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

	var cart models.Cart
	if err := database.Carts().FindOne(ctx, bson.M{"user": user.ID}).Decode(&cart); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart not found"})
		return
	}

	itemIndex := -1
	for i := range cart.Items {
		if cart.Items[i].Product == productOID {
			itemIndex = i
			break
		}
	}
	if itemIndex == -1 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found in cart"})
		return
	}

	removedQty := cart.Items[itemIndex].Quantity
	cart.Items = append(cart.Items[:itemIndex], cart.Items[itemIndex+1:]...)

	if config.CartStockPolicy() == config.StockPolicyReserve {
		if err := adjustStock(ctx, productOID, removedQty); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error removing product from cart"})
			return
		}
	}

	if err := recomputeAndSave(ctx, &cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error removing product from cart"})
		return
	}
	publishCartUpdate(ctx, user.ID.Hex())

	payload := gin.H{"success": true, "message": "Product removed from cart successfully", "cart": cart}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

//
// 🧹 DELETE /api/cart/clear — utilisé après un checkout réussi
//
func ClearCart(c *gin.Context) {
	user, newToken, ok := auth.RequireSession(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var cart models.Cart
	if err := database.Carts().FindOne(ctx, bson.M{"user": user.ID}).Decode(&cart); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart not found"})
		return
	}

	if config.CartStockPolicy() == config.StockPolicyReserve {
		// les réservations détenues par le panier sont rendues au stock
		for _, item := range cart.Items {
			if err := adjustStock(ctx, item.Product, item.Quantity); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while clearing cart"})
				return
			}
		}
	}

	cart.Items = []models.CartItem{}
	cart.TotalItems = 0
	cart.TotalAmount = 0
	cart.UpdatedAt = time.Now()

	_, err := database.Carts().UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{
		"items":       cart.Items,
		"totalItems":  0,
		"totalAmount": 0,
		"updatedAt":   cart.UpdatedAt,
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error while clearing cart"})
		return
	}
	database.Redis.Publish(ctx, "cart:"+user.ID.Hex(), "cleared")

	payload := gin.H{"success": true, "message": "Cart cleared successfully", "cart": cart}
	if newToken != "" {
		payload["accessToken"] = newToken
	}
	c.JSON(http.StatusOK, payload)
}

// ---------------------------------------------------------------------------

func findOrCreateCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := database.Carts().FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	cart = models.Cart{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := database.Carts().InsertOne(ctx, cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// loadCartProducts charge le document produit courant de chaque ligne.
func loadCartProducts(ctx context.Context, items []models.CartItem) (map[string]models.Product, error) {
	products := make(map[string]models.Product, len(items))
	for _, item := range items {
		var p models.Product
		err := database.Products().FindOne(ctx, bson.M{"_id": item.Product}).Decode(&p)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return nil, err
		}
		products[item.Product.Hex()] = p
	}
	return products, nil
}

func productList(items []models.CartItem, products map[string]models.Product) []models.Product {
	list := make([]models.Product, 0, len(items))
	for _, item := range items {
		if p, ok := products[item.Product.Hex()]; ok {
			list = append(list, p)
		}
	}
	return list
}

// recomputeAndSave recalcule intégralement les totaux dérivés (jamais de
// patch incrémental) puis persiste le panier.
func recomputeAndSave(ctx context.Context, cart *models.Cart) error {
	products, err := loadCartProducts(ctx, cart.Items)
	if err != nil {
		return err
	}

	cart.TotalItems, cart.TotalAmount = pricing.CartTotals(cart.Items, products)
	cart.UpdatedAt = time.Now()

	_, err = database.Carts().UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{
		"items":       cart.Items,
		"totalItems":  cart.TotalItems,
		"totalAmount": cart.TotalAmount,
		"updatedAt":   cart.UpdatedAt,
	}})
	return err
}

// adjustStock applique un $inc conditionnel : une décrémentation n'est
// acceptée que si le stock couvre le delta (plancher à zéro garanti côté
// base, pas côté lecture).
func adjustStock(ctx context.Context, productID primitive.ObjectID, delta int) error {
	if delta == 0 {
		return nil
	}

	filter := bson.M{"_id": productID}
	if delta < 0 {
		filter["totalStock"] = bson.M{"$gte": -delta}
	}

	result, err := database.Products().UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"totalStock": delta}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("stock insuffisant pour %s", productID.Hex())
	}
	cache.InvalidateProductCache(ctx, productID.Hex())
	return nil
}

func publishCartUpdate(ctx context.Context, userID string) {
	database.Redis.Publish(ctx, "cart:"+userID, "updated")
}
