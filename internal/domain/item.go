package domain

import "strings"

type Item struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Available   bool   `json:"available" db:"available"`
	OwnerID     int64  `json:"owner_id" db:"owner_id"`
	RequestID   *int64 `json:"request_id,omitempty" db:"request_id"`
}

// ItemPatch carries the owner-editable fields of an item.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

// Apply copies the set fields of p onto the item. Blank strings are ignored
// and OwnerID is never touched.
func (p ItemPatch) Apply(item *Item) {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		item.Name = *p.Name
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) != "" {
		item.Description = *p.Description
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
}

// ItemDetails is an item together with its comments and, for the owner only,
// the neighbouring bookings around the current moment.
type ItemDetails struct {
	Item
	Comments    []Comment `json:"comments"`
	LastBooking *Booking  `json:"last_booking,omitempty"`
	NextBooking *Booking  `json:"next_booking,omitempty"`
}
