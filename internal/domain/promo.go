package domain

import "time"

// PromoCode is a discount code. Code is stored upper-cased so matching at
// apply time is case-insensitive.
type PromoCode struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent float64    `json:"discountPercent"`
	Description     string     `json:"description"`
	MinOrderAmount  float64    `json:"minOrderAmount"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	IsActive        bool       `json:"isActive"`
	UsageLimit      *int       `json:"usageLimit,omitempty"`
	UsageCount      int        `json:"usageCount"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Expired reports whether the code has an expiry in the past relative to now.
func (p PromoCode) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// UsageExhausted reports whether the usage limit, if any, has been reached.
func (p PromoCode) UsageExhausted() bool {
	return p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit
}
