package order

import (
	"sort"
	"time"

	"ecom_back_end/internal/models"
	"ecom_back_end/internal/pricing"
)

// SaleRecord agrège les ventes d'un produit (clé : nom du produit).
type SaleRecord struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	URL        string  `json:"url"`
	Currency   string  `json:"currency"`
	TotalPrice float64 `json:"totalPrice"`
}

type MonthSales struct {
	Month      string  `json:"month"`
	TotalSales float64 `json:"totalSales"`
	Count      int     `json:"count"`
}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// TotalSales normalise chaque commande vers le dollar puis arrondit la somme.
func TotalSales(orders []models.Order) float64 {
	total := 0.0
	for _, o := range orders {
		total += pricing.Normalize(o.TotalPrice, o.ProductDetail.Currency)
	}
	return pricing.Round2(total)
}

func StatusCounts(orders []models.Order) map[string]int {
	counts := map[string]int{
		models.OrderProcessed: 0,
		models.OrderShipped:   0,
		models.OrderDelivered: 0,
	}
	for _, o := range orders {
		counts[o.OrderStatus]++
	}
	return counts
}

// SaleRecords cumule quantités et chiffre d'affaires par nom de produit.
func SaleRecords(orders []models.Order) []SaleRecord {
	byName := make(map[string]*SaleRecord)
	order := []string{}
	for _, o := range orders {
		name := o.ProductDetail.Name
		rec, ok := byName[name]
		if !ok {
			rec = &SaleRecord{
				Name:     name,
				Price:    o.ProductDetail.Price,
				URL:      o.ProductDetail.ImageURL,
				Currency: o.ProductDetail.Currency,
			}
			byName[name] = rec
			order = append(order, name)
		}
		rec.Quantity += o.Quantity
		rec.TotalPrice += pricing.Normalize(o.TotalPrice, o.ProductDetail.Currency)
	}

	records := make([]SaleRecord, 0, len(order))
	for _, name := range order {
		rec := *byName[name]
		rec.TotalPrice = pricing.Round2(rec.TotalPrice)
		records = append(records, rec)
	}
	return records
}

// MostBought / LeastBought : top n par quantité vendue.
func MostBought(records []SaleRecord, n int) []SaleRecord {
	sorted := sortedCopy(records, func(a, b SaleRecord) bool { return a.Quantity > b.Quantity })
	return firstN(sorted, n)
}

func LeastBought(records []SaleRecord, n int) []SaleRecord {
	sorted := sortedCopy(records, func(a, b SaleRecord) bool { return a.Quantity < b.Quantity })
	return firstN(sorted, n)
}

// MostExpensive / LeastExpensive : top n par prix catalogue normalisé.
func MostExpensive(records []SaleRecord, n int) []SaleRecord {
	sorted := sortedCopy(records, func(a, b SaleRecord) bool {
		return pricing.Normalize(a.Price, a.Currency) > pricing.Normalize(b.Price, b.Currency)
	})
	return firstN(sorted, n)
}

func LeastExpensive(records []SaleRecord, n int) []SaleRecord {
	sorted := sortedCopy(records, func(a, b SaleRecord) bool {
		return pricing.Normalize(a.Price, a.Currency) < pricing.Normalize(b.Price, b.Currency)
	})
	return firstN(sorted, n)
}

// Past30DaysOrders filtre les commandes placées dans les 30 derniers jours
// (borne incluse côté récent, exclue côté ancien).
func Past30DaysOrders(orders []models.Order, now time.Time) []models.Order {
	cutoff := now.AddDate(0, 0, -30)
	recent := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.OrderPlaceOn.After(cutoff) {
			recent = append(recent, o)
		}
	}
	return recent
}

// MonthlyGraph ventile les commandes d'une année sur les douze mois, toujours
// renvoyés dans l'ordre (mois sans vente inclus, à zéro).
func MonthlyGraph(orders []models.Order, year int) []MonthSales {
	graph := make([]MonthSales, 12)
	for i, name := range monthNames {
		graph[i].Month = name
	}

	for _, o := range orders {
		if o.OrderPlaceOn.Year() != year {
			continue
		}
		m := int(o.OrderPlaceOn.Month()) - 1
		graph[m].TotalSales += pricing.Normalize(o.TotalPrice, o.ProductDetail.Currency)
		graph[m].Count++
	}

	for i := range graph {
		graph[i].TotalSales = pricing.Round2(graph[i].TotalSales)
	}
	return graph
}

func sortedCopy(records []SaleRecord, less func(a, b SaleRecord) bool) []SaleRecord {
	out := make([]SaleRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func firstN(records []SaleRecord, n int) []SaleRecord {
	if len(records) < n {
		n = len(records)
	}
	return records[:n]
}
