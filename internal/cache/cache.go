package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecom_back_end/internal/database"
	"ecom_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis, sinon MongoDB.
func GetUserFromCache(ctx context.Context, userID string) (*models.User, error) {
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de MongoDB
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	if jsonData, err := json.Marshal(user); err == nil {
		database.Redis.Set(ctx, key, jsonData, UserCacheTTL)
	}

	return &user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(ctx context.Context, userID string) {
	database.Redis.Del(ctx, "user:"+userID)
}

// GetProductFromCache récupère un produit depuis Redis, sinon MongoDB.
func GetProductFromCache(ctx context.Context, productID string) (*models.Product, error) {
	key := "product:" + productID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var product models.Product
		if json.Unmarshal([]byte(data), &product) == nil {
			return &product, nil
		}
	}

	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": oid}).Decode(&product); err != nil {
		return nil, err
	}

	if jsonData, err := json.Marshal(product); err == nil {
		database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)
	}

	return &product, nil
}

// InvalidateProductCache invalide le cache d'un produit.
// À appeler après toute mutation de stock ou de prix.
func InvalidateProductCache(ctx context.Context, productID string) {
	database.Redis.Del(ctx, "product:"+productID)
}
