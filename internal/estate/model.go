// internal/estate/model.go
package estate

// Transaction is the canonical real-estate transaction record. Immutable
// once constructed by the normalizer.
type Transaction struct {
	Price        int     `json:"price"` // 10,000-KRW units, as delivered upstream
	Area         float64 `json:"area"`  // m²
	Floor        int     `json:"floor"`
	Date         string  `json:"date"` // YYYYMMDD, sortable lexicographically
	Address      string  `json:"address"`
	BuildingName string  `json:"buildingName"`
	BuildYear    int     `json:"buildYear,omitempty"`
	DealType     string  `json:"dealType,omitempty"`
	Dong         string  `json:"dong,omitempty"`

	// Retained for filtering; not part of the response shape.
	District     string `json:"-"`
	Neighborhood string `json:"-"`
}

// Agent is a licensed broker office record.
type Agent struct {
	OfficeName     string  `json:"officeName"`
	Address        string  `json:"address"`
	Tel            string  `json:"tel"`
	Representative string  `json:"representative"`
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`
}

// SearchResult is the per-request aggregate returned by the search service.
type SearchResult struct {
	Transactions []Transaction `json:"transactions"`
	NearbyAgents []Agent       `json:"nearbyAgents,omitempty"`
}

// RawRow is one undecoded upstream row. Values are whatever the upstream
// JSON carried (strings, numbers, null).
type RawRow map[string]interface{}
