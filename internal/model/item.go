package model

// Item is one inventory entry belonging to exactly one collection.
//
// Profit is derived: (price - cost) * quantity, recomputed on every write
// and never taken verbatim from external input. CreatedAt is an opaque
// calendar date string (YYYY-MM-DD when written by the system).
type Item struct {
	ID           int64   `json:"id"`
	CollectionID int64   `json:"collection_id"`
	Name         string  `json:"name"`
	Condition    string  `json:"condition"`
	Cost         float64 `json:"cost"`
	Price        float64 `json:"price"`
	Profit       float64 `json:"profit"`
	Source       string  `json:"source"`
	Status       Status  `json:"status"`
	Quantity     int     `json:"quantity"`
	ImageURL     string  `json:"image_url,omitempty"`
	ImageMime    string  `json:"image_mime,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// ComputeProfit recalculates the derived profit field from cost, price
// and quantity.
func (i *Item) ComputeProfit() {
	i.Profit = (i.Price - i.Cost) * float64(i.Quantity)
}
