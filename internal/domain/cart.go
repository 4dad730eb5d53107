package domain

// CartLine is one entry of an actor's cart list. The list holds at most one
// line per product id; Quantity is always a positive integer.
type CartLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

// FavoriteItem is one entry of an actor's favorites list, at most one per
// product id. Status is derived from Stock at write time, never an
// independent source of truth.
type FavoriteItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Stock    int     `json:"stock"`
	Category string  `json:"category,omitempty"`
	Type     string  `json:"type,omitempty"`
	Status   string  `json:"status"`
}

// Favorite status labels.
const (
	StatusInStock    = "In Stock"
	StatusOutOfStock = "Out of Stock"
)

// FavoriteStatus maps a stock level to its display status.
func FavoriteStatus(stock int) string {
	if stock > 0 {
		return StatusInStock
	}
	return StatusOutOfStock
}
