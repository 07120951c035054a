package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts de commande (ensemble fermé)
const (
	OrderProcessed = "PROCESSED"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
)

// ProductDetail : snapshot dénormalisé du produit au moment de l'achat.
// Ce n'est pas une référence vivante — le prix affiché ici ne bouge plus.
type ProductDetail struct {
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	ImageURL  string  `bson:"imageUrl" json:"imageUrl"`
	ProductID string  `bson:"productId" json:"productId"`
	Currency  string  `bson:"currency" json:"currency"`
}

type UserDetail struct {
	UserName  string `bson:"userName" json:"userName"`
	UserEmail string `bson:"userEmail" json:"userEmail"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductDetail ProductDetail      `bson:"productDetail" json:"productDetail"`
	UserDetails   UserDetail         `bson:"userDetails" json:"userDetails"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	TrackingID    string             `bson:"trackingId" json:"trackingId"`
	OrderStatus   string             `bson:"orderStatus" json:"orderStatus"`
	OrderPlaceOn  time.Time          `bson:"orderPlaceOn" json:"orderPlaceOn"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidOrderStatus(s string) bool {
	return s == OrderProcessed || s == OrderShipped || s == OrderDelivered
}
