package model

import "time"

// Feature is a reusable amenity tag attached to listings through the
// listing_features join table.
type Feature struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
