package model

import "time"

// Property types accepted for a listing. Unknown values are rejected at the
// handler boundary; the database enforces the same set.
const (
	PropertyApartment  = "APARTMENT"
	PropertyHouse      = "HOUSE"
	PropertyCondo      = "CONDO"
	PropertyTownhouse  = "TOWNHOUSE"
	PropertyLand       = "LAND"
	PropertyCommercial = "COMMERCIAL"
	PropertyOther      = "OTHER"
)

// ValidPropertyType reports whether t is one of the accepted property types.
func ValidPropertyType(t string) bool {
	switch t {
	case PropertyApartment, PropertyHouse, PropertyCondo, PropertyTownhouse,
		PropertyLand, PropertyCommercial, PropertyOther:
		return true
	}
	return false
}

// ListingImage is one element of a listing's ordered image list. Images are
// embedded in the listing row as JSON; they have no lifecycle of their own.
type ListingImage struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Listing mirrors the `listings` table. Images are stored in a jsonb column;
// Features come from the listing_features join table and are loaded
// alongside the row.
type Listing struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	PropertyType string         `json:"propertyType"`
	Price        float64        `json:"price"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	State        *string        `json:"state,omitempty"`
	ZipCode      *string        `json:"zipCode,omitempty"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    float64        `json:"bathrooms"`
	SquareFeet   int            `json:"squareFeet"`
	YearBuilt    *int           `json:"yearBuilt,omitempty"`
	Images       []ListingImage `json:"images"`
	Features     []Feature      `json:"features"`
	HasGarage    bool           `json:"hasGarage"`
	HasParking   bool           `json:"hasParking"`
	HasAC        bool           `json:"hasAC"`
	HasPool      bool           `json:"hasPool"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
