package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	SalePrice   float64            `bson:"salePrice" json:"salePrice"`
	Currency    string             `bson:"currency" json:"currency"`
	TotalStock  int                `bson:"totalStock" json:"totalStock"`
	Category    []string           `bson:"category" json:"category"`
	Image       string             `bson:"image" json:"image"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
