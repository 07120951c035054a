package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart : un panier par utilisateur. totalItems / totalAmount sont des champs
// dérivés, recalculés intégralement à chaque mutation — jamais patchés.
type Cart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Items       []CartItem         `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	TotalItems  int                `bson:"totalItems" json:"totalItems"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
