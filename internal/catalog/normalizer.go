package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/VivanRajath/Neusearch/internal/models"
)

// ParsePrice extracts a decimal amount from free-form price text. Currency
// symbols and other noise are stripped; anything unparseable is 0.
func ParsePrice(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	price, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return price
}

// sellable reports whether a product has at least one image and a valid
// positive price. These records rank first in display order.
func sellable(p models.Product) bool {
	return len(p.Images) > 0 && ParsePrice(p.Price) > 0
}

// Normalize returns a copy of products in display order: sellable records
// strictly before the rest, relative input order preserved within each rank.
// The input is never mutated and re-applying Normalize is a no-op.
func Normalize(products []models.Product) []models.Product {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sellable(sorted[i]) && !sellable(sorted[j])
	})

	return sorted
}
