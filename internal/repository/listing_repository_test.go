package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listora/realty-api/internal/model"
)

func TestApplyPatchLeavesUnsetFieldsAlone(t *testing.T) {
	state := "CA"
	l := model.Listing{
		Title:        "Original",
		Description:  "desc",
		PropertyType: model.PropertyHouse,
		Price:        500000,
		City:         "Fresno",
		State:        &state,
		Bedrooms:     4,
		Bathrooms:    2.5,
		SquareFeet:   2200,
		HasPool:      true,
		IsActive:     true,
	}

	applyPatch(&l, ListingPatch{Title: ptr("Renamed"), Price: ptr(475000.0)})

	assert.Equal(t, "Renamed", l.Title)
	assert.Equal(t, 475000.0, l.Price)
	// Everything else stays as it was.
	assert.Equal(t, "desc", l.Description)
	assert.Equal(t, model.PropertyHouse, l.PropertyType)
	assert.Equal(t, "Fresno", l.City)
	assert.Equal(t, &state, l.State)
	assert.Equal(t, 4, l.Bedrooms)
	assert.True(t, l.HasPool)
	assert.True(t, l.IsActive)
}

func TestApplyPatchCanClearAndSetBooleans(t *testing.T) {
	l := model.Listing{HasGarage: true, IsActive: true}

	applyPatch(&l, ListingPatch{HasGarage: ptr(false), HasAC: ptr(true), IsActive: ptr(false)})

	assert.False(t, l.HasGarage)
	assert.True(t, l.HasAC)
	assert.False(t, l.IsActive)
}

func TestApplyPatchReplacesImages(t *testing.T) {
	l := model.Listing{Images: []model.ListingImage{{URL: "/a.jpg", Name: "a.jpg"}}}

	next := []model.ListingImage{{URL: "/b.jpg", Name: "b.jpg"}, {URL: "/c.jpg", Name: "c.jpg"}}
	applyPatch(&l, ListingPatch{Images: &next})
	assert.Len(t, l.Images, 2)

	// A nil Images pointer leaves the list untouched.
	applyPatch(&l, ListingPatch{Title: ptr("x")})
	assert.Len(t, l.Images, 2)
}

func TestImagesOrEmpty(t *testing.T) {
	assert.Equal(t, []model.ListingImage{}, imagesOrEmpty(nil))
	imgs := []model.ListingImage{{URL: "/a.jpg"}}
	assert.Equal(t, imgs, imagesOrEmpty(imgs))
}

func TestValidPropertyType(t *testing.T) {
	for _, ok := range []string{
		model.PropertyApartment, model.PropertyHouse, model.PropertyCondo,
		model.PropertyTownhouse, model.PropertyLand, model.PropertyCommercial,
		model.PropertyOther,
	} {
		assert.True(t, model.ValidPropertyType(ok), ok)
	}
	assert.False(t, model.ValidPropertyType("CASTLE"))
	assert.False(t, model.ValidPropertyType("apartment"), "types are upper-case on the wire")
	assert.False(t, model.ValidPropertyType(""))
}
