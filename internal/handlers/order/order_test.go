package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ecom_back_end/internal/models"
)

func TestNewTrackingIDIsValid(t *testing.T) {
	for i := 0; i < 20; i++ {
		id := NewTrackingID()
		assert.True(t, ValidTrackingID(id), id)
	}
}

func TestValidTrackingIDRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"ORD-",
		"ORD-123",
		"9f8c1c64-1b2d-4f6a-9e2b-0a1b2c3d4e5f",               // préfixe manquant
		"TRK-9f8c1c64-1b2d-4f6a-9e2b-0a1b2c3d4e5f",           // mauvais préfixe
		"ORD-9f8c1c64-1b2d-1f6a-9e2b-0a1b2c3d4e5f",           // pas un v4
		"ORD-9f8c1c64-1b2d-4f6a-9e2b-0a1b2c3d4e5f-extra",     // segment en trop
		"ORD-9f8c1c641b2d-4f6a-9e2b-0a1b2c3d4e5f",            // groupes mal découpés
		"ORD-9f8c1c64-1b2d-4f6-9e2b-0a1b2c3d4e5f",            // groupe trop court
	}
	for _, id := range cases {
		assert.False(t, ValidTrackingID(id), id)
	}
}

func TestValidTrackingIDAcceptsWellFormed(t *testing.T) {
	assert.True(t, ValidTrackingID("ORD-9f8c1c64-1b2d-4f6a-9e2b-0a1b2c3d4e5f"))
}

func sampleOrders() []models.Order {
	placed := func(y int, m time.Month) time.Time {
		return time.Date(y, m, 15, 10, 0, 0, 0, time.UTC)
	}
	return []models.Order{
		{
			ProductDetail: models.ProductDetail{Name: "Clavier", Price: 50, Currency: "USD"},
			Quantity:      2, TotalPrice: 90, OrderStatus: models.OrderProcessed,
			OrderPlaceOn: placed(2026, time.January),
		},
		{
			ProductDetail: models.ProductDetail{Name: "Clavier", Price: 50, Currency: "USD"},
			Quantity:      1, TotalPrice: 40, OrderStatus: models.OrderShipped,
			OrderPlaceOn: placed(2026, time.January),
		},
		{
			ProductDetail: models.ProductDetail{Name: "Souris", Price: 2000, Currency: "INR"},
			Quantity:      3, TotalPrice: 5800, OrderStatus: models.OrderDelivered,
			OrderPlaceOn: placed(2026, time.March),
		},
		{
			ProductDetail: models.ProductDetail{Name: "Écran", Price: 100, Currency: "EUR"},
			Quantity:      1, TotalPrice: 100, OrderStatus: models.OrderProcessed,
			OrderPlaceOn: placed(2025, time.December),
		},
	}
}

func TestTotalSalesNormalizesPerOrder(t *testing.T) {
	// 90 + 40 (USD) + 5800*0.011=63.8 (INR) + 100*1.19=119 (EUR) = 312.80
	assert.Equal(t, 312.80, TotalSales(sampleOrders()))
}

func TestStatusCountsCoversAllStatuses(t *testing.T) {
	counts := StatusCounts(sampleOrders())
	assert.Equal(t, 2, counts[models.OrderProcessed])
	assert.Equal(t, 1, counts[models.OrderShipped])
	assert.Equal(t, 1, counts[models.OrderDelivered])
}

func TestSaleRecordsAggregatesByProductName(t *testing.T) {
	records := SaleRecords(sampleOrders())
	assert.Len(t, records, 3)

	byName := map[string]SaleRecord{}
	for _, r := range records {
		byName[r.Name] = r
	}
	assert.Equal(t, 3, byName["Clavier"].Quantity)
	assert.Equal(t, 130.0, byName["Clavier"].TotalPrice)
	assert.Equal(t, 3, byName["Souris"].Quantity)
	assert.Equal(t, 63.8, byName["Souris"].TotalPrice)
}

func TestMostAndLeastBought(t *testing.T) {
	records := SaleRecords(sampleOrders())

	most := MostBought(records, 2)
	assert.Len(t, most, 2)
	assert.Equal(t, 3, most[0].Quantity)

	least := LeastBought(records, 2)
	assert.Equal(t, "Écran", least[0].Name)
}

func TestMostExpensiveUsesNormalizedPrice(t *testing.T) {
	records := SaleRecords(sampleOrders())

	// EUR 100 → 119 dépasse USD 50 et INR 2000 → 22
	most := MostExpensive(records, 1)
	assert.Equal(t, "Écran", most[0].Name)

	least := LeastExpensive(records, 1)
	assert.Equal(t, "Souris", least[0].Name)
}

func TestPast30DaysOrdersCutoff(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{TrackingID: "recent", OrderPlaceOn: now.AddDate(0, 0, -1)},
		{TrackingID: "edge", OrderPlaceOn: now.AddDate(0, 0, -29)},
		{TrackingID: "boundary", OrderPlaceOn: now.AddDate(0, 0, -30)}, // pile sur la borne : exclu
		{TrackingID: "old", OrderPlaceOn: now.AddDate(0, 0, -31)},
	}

	recent := Past30DaysOrders(orders, now)
	assert.Len(t, recent, 2)
	assert.Equal(t, "recent", recent[0].TrackingID)
	assert.Equal(t, "edge", recent[1].TrackingID)
}

func TestPast30DaysOrdersEmpty(t *testing.T) {
	assert.Empty(t, Past30DaysOrders(nil, time.Now()))
}

func TestMonthlyGraphAlwaysTwelveMonths(t *testing.T) {
	graph := MonthlyGraph(sampleOrders(), 2026)
	assert.Len(t, graph, 12)
	assert.Equal(t, "Jan", graph[0].Month)
	assert.Equal(t, 130.0, graph[0].TotalSales)
	assert.Equal(t, 2, graph[0].Count)
	assert.Equal(t, 63.8, graph[2].TotalSales)
	// la commande de décembre 2025 ne compte pas
	assert.Equal(t, 0.0, graph[11].TotalSales)
	assert.Equal(t, 0, graph[11].Count)
}
