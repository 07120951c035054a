package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecom_back_end/internal/models"
)

func catalog() map[string]models.Product {
	return map[string]models.Product{
		"p1": {Title: "Clavier", TotalStock: 10},
		"p2": {Title: "Souris", TotalStock: 2},
		"p3": {Title: "Écran", TotalStock: 0},
	}
}

func TestPartitionBulkItemsSeparatesValidAndRejected(t *testing.T) {
	items := []BulkItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 5},  // stock insuffisant
		{ProductID: "p3", Quantity: 1},  // stock à zéro
		{ProductID: "px", Quantity: 1},  // inconnu
		{ProductID: "p1", Quantity: -2}, // quantité invalide
	}

	valid, rejected := PartitionBulkItems(items, catalog())

	assert.Equal(t, []BulkItem{{ProductID: "p1", Quantity: 3}}, valid)
	assert.Len(t, rejected, 4)
	assert.Equal(t, BulkReject{ProductID: "p2", Reason: "out-of-stock"}, rejected[0])
	assert.Equal(t, BulkReject{ProductID: "p3", Reason: "out-of-stock"}, rejected[1])
	assert.Equal(t, BulkReject{ProductID: "px", Reason: "not-found"}, rejected[2])
	assert.Equal(t, BulkReject{ProductID: "p1", Reason: "invalid-quantity"}, rejected[3])
}

func TestPartitionBulkItemsLastWriteWins(t *testing.T) {
	items := []BulkItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 7},
	}

	valid, rejected := PartitionBulkItems(items, catalog())

	assert.Empty(t, rejected)
	// l'ordre de première apparition est conservé, la quantité finale gagne
	assert.Equal(t, []BulkItem{
		{ProductID: "p1", Quantity: 7},
		{ProductID: "p2", Quantity: 1},
	}, valid)
}

func TestPartitionBulkItemsAllInvalid(t *testing.T) {
	items := []BulkItem{
		{ProductID: "px", Quantity: 1},
		{ProductID: "p3", Quantity: 4},
	}

	valid, rejected := PartitionBulkItems(items, catalog())

	assert.Empty(t, valid)
	assert.Len(t, rejected, 2)
}
