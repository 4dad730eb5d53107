package domain

import "time"

// Product is the catalog entity. Storefront reads it; only admins write it.
// Rating and Reviews are denormalized aggregates recomputed whenever a
// review of the product is created, edited or deleted.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images"`
	MainImage   string    `json:"mainImage"`
	Rating      float64   `json:"rating"`
	Reviews     int       `json:"reviews"`
	Material    string    `json:"material,omitempty"`
	Color       string    `json:"color,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}
