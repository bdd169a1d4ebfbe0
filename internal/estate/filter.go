// internal/estate/filter.go
package estate

import (
	"sort"
	"strings"
)

// FilterAndSort keeps transactions whose district, neighborhood, or
// building name contains term (case-sensitive), sorted by date descending.
// The sort is stable: equal dates keep their original relative order. An
// empty term yields an empty result, never the unfiltered set.
func FilterAndSort(transactions []Transaction, term string) []Transaction {
	if strings.TrimSpace(term) == "" {
		return []Transaction{}
	}

	filtered := []Transaction{}
	for _, tx := range transactions {
		if strings.Contains(tx.District, term) ||
			strings.Contains(tx.Neighborhood, term) ||
			strings.Contains(tx.BuildingName, term) {
			filtered = append(filtered, tx)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date > filtered[j].Date
	})

	return filtered
}
