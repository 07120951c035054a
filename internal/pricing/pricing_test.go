package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecom_back_end/internal/models"
)

func TestConversionRate(t *testing.T) {
	tests := []struct {
		currency string
		want     float64
	}{
		{"INR", 0.011},
		{"USD", 1.0},
		{"EUR", 1.19},
		{"GBP", 1.29},
		{"RUB", 0.011},
		{"JPY", 1.0}, // code inconnu → facteur 1.0, pas d'erreur
		{"", 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConversionRate(tt.currency), tt.currency)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 42.5, Normalize(42.5, "USD"))
	assert.Equal(t, 11.0, Normalize(1000, "INR"))
	assert.Equal(t, 11.9, Normalize(10, "EUR"))
	// inconnu == USD
	assert.Equal(t, Normalize(33.33, "USD"), Normalize(33.33, "XYZ"))
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
	assert.Equal(t, 2.35, Round2(2.346))
	assert.Equal(t, 2.34, Round2(2.344))
}

func TestUnitPriceCanGoNegative(t *testing.T) {
	p := models.Product{Price: 10, SalePrice: 15}
	assert.Equal(t, -5.0, UnitPrice(p))
}

func TestLineTotalINRExample(t *testing.T) {
	// Produit à 1000 INR, remise 0, quantité 3 → round2(1000*0.011)*3 = 33
	p := models.Product{Price: 1000, SalePrice: 0, Currency: "INR"}
	assert.Equal(t, 33.0, LineTotal(p, 3))
}

func TestOrderTotalDiscountOncePerOrder(t *testing.T) {
	// 100 USD, remise 20, qty 2 → 100*2 - 20 = 180
	p := models.Product{Price: 100, SalePrice: 20, Currency: "USD"}
	assert.Equal(t, 180.0, OrderTotal(p, 2))
}

func TestCartTotalsFullRecompute(t *testing.T) {
	idA := primitive.NewObjectID()
	idB := primitive.NewObjectID()
	products := map[string]models.Product{
		idA.Hex(): {ID: idA, Price: 100, SalePrice: 20, Currency: "USD"},
		idB.Hex(): {ID: idB, Price: 1000, SalePrice: 0, Currency: "INR"},
	}
	items := []models.CartItem{
		{Product: idA, Quantity: 2},
		{Product: idB, Quantity: 3},
	}

	totalItems, totalAmount := CartTotals(items, products)
	assert.Equal(t, 5, totalItems)
	assert.Equal(t, 80.0*2+11.0*3, totalAmount)

	// invariant : totalAmount == somme des round2(normalize(prix-remise))*qty
	var want float64
	for _, it := range items {
		want += LineTotal(products[it.Product.Hex()], it.Quantity)
	}
	assert.Equal(t, want, totalAmount)
}

func TestCartTotalsSkipsMissingProducts(t *testing.T) {
	id := primitive.NewObjectID()
	items := []models.CartItem{{Product: id, Quantity: 4}}

	totalItems, totalAmount := CartTotals(items, map[string]models.Product{})
	assert.Equal(t, 4, totalItems)
	assert.Equal(t, 0.0, totalAmount)
}
