package domain

import "time"

// Order status values. Any status may transition to any other; the status
// field is the only part of an order an admin mutates after creation.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known status values.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is a point-in-time snapshot of a cart line, enriched with the
// product attributes the order history needs.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
	Material string  `json:"material,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// AppliedPromo records the promo snapshot attached to an order.
type AppliedPromo struct {
	ID              string  `json:"id"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discountPercent"`
}

// Pricing holds the computed money amounts of an order. Values keep full
// precision; rounding happens at display time only.
type Pricing struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shippingFee"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// Order is created once at checkout. Items and Pricing are immutable after
// creation.
type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	UserEmail       string        `json:"userEmail"`
	UserName        string        `json:"userName"`
	Items           []OrderItem   `json:"items"`
	DeliveryAddress Address       `json:"deliveryAddress"`
	AppliedPromo    *AppliedPromo `json:"appliedPromo,omitempty"`
	Pricing         Pricing       `json:"pricing"`
	PaymentMethod   string        `json:"paymentMethod"`
	OrderNotes      string        `json:"orderNotes,omitempty"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}
