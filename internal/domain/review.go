package domain

import "time"

// Review belongs to a product. Editing or deleting one triggers a
// recomputation of the parent product's rating/reviews aggregates.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Rating    float64   `json:"rating"`
	Text      string    `json:"text"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}
