package pricing

import (
	"math"

	"ecom_back_end/internal/models"
)

// Table de conversion statique vers le dollar (monnaie de référence).
// Un code inconnu passe silencieusement avec un facteur 1.0 — comportement
// hérité de l'app d'origine, conservé tel quel.
var conversionRates = map[string]float64{
	"INR": 0.011,
	"USD": 1.0,
	"EUR": 1.19,
	"GBP": 1.29,
	"RUB": 0.011,
}

func ConversionRate(currency string) float64 {
	if rate, ok := conversionRates[currency]; ok {
		return rate
	}
	return 1.0
}

// Round2 arrondit à 2 décimales, demi vers l'extérieur (math.Round).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Normalize convertit un montant vers le dollar puis arrondit au point de
// conversion — pas à l'agrégation finale.
func Normalize(amount float64, currency string) float64 {
	return Round2(amount * ConversionRate(currency))
}

// UnitPrice : prix catalogue moins la remise. Pas de plancher à zéro : un
// produit mal configuré peut produire un prix négatif, comme dans l'origine.
func UnitPrice(p models.Product) float64 {
	return p.Price - p.SalePrice
}

func LineTotal(p models.Product, quantity int) float64 {
	return Normalize(UnitPrice(p), p.Currency) * float64(quantity)
}

// OrderTotal : la remise s'applique une seule fois par commande, pas par
// unité — réplique exacte du calcul d'origine.
func OrderTotal(p models.Product, quantity int) float64 {
	return p.Price*float64(quantity) - p.SalePrice
}

// CartTotals recalcule intégralement les deux champs dérivés du panier à
// partir des lignes courantes et des documents produits courants. Les lignes
// dont le produit a disparu ne comptent pas.
func CartTotals(items []models.CartItem, products map[string]models.Product) (totalItems int, totalAmount float64) {
	for _, item := range items {
		totalItems += item.Quantity
		if p, ok := products[item.Product.Hex()]; ok {
			totalAmount += LineTotal(p, item.Quantity)
		}
	}
	return totalItems, totalAmount
}
