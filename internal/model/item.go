package model

import "time"

// Item represents a single catalog entry listed by a charity.
type Item struct {
	ID          int64     `json:"id"`
	CharityID   int64     `json:"charity_id"`
	ItemCode    string    `json:"item_code"`
	PricePence  int64     `json:"price_pence"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item statuses.
const (
	ItemStatusActive  = "active"
	ItemStatusSold    = "sold"
	ItemStatusRemoved = "removed"
)

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	return s == ItemStatusActive || s == ItemStatusSold || s == ItemStatusRemoved
}

// Listing is an item joined with a read-only snapshot of its owning
// charity's display fields, as shown on the browse page.
type Listing struct {
	Item
	CharityName     string `json:"charity_name"`
	CharityPostcode string `json:"charity_postcode"`
	CharityAddress  string `json:"charity_address,omitempty"`
	ImageCount      int    `json:"image_count"`
}

// ListingFilter restricts the public catalog query. Zero values mean
// no restriction.
type ListingFilter struct {
	// PostcodePrefix matches the owning charity's postcode,
	// case-insensitively, from the start.
	PostcodePrefix string
	// MaxPricePence caps the item price. 0 disables the cap.
	MaxPricePence int64
}
