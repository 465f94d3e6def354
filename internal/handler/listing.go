package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/listora/realty-api/internal/model"
	"github.com/listora/realty-api/internal/queue"
	"github.com/listora/realty-api/internal/repository"
	"github.com/listora/realty-api/pkg/log"
)

// EventPublisher pushes listing change events to the message broker.
// Publishing is best-effort: handlers log failures and move on.
type EventPublisher interface {
	PublishListingChanged(ctx context.Context, ev queue.ListingChangedEvent) error
}

// ListingHandler implements the admin listing CRUD plus the filtered
// search endpoint.
type ListingHandler struct {
	Listings ListingStore
	Events   EventPublisher
	Log      log.Logger
}

func NewListingHandler(listings ListingStore, events EventPublisher, logger log.Logger) *ListingHandler {
	return &ListingHandler{Listings: listings, Events: events, Log: logger}
}

// ----- DTOs -----

type createListingReq struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	PropertyType string               `json:"propertyType"`
	Price        float64              `json:"price"`
	Address      string               `json:"address"`
	City         string               `json:"city"`
	State        *string              `json:"state"`
	ZipCode      *string              `json:"zipCode"`
	Bedrooms     int                  `json:"bedrooms"`
	Bathrooms    float64              `json:"bathrooms"`
	SquareFeet   int                  `json:"squareFeet"`
	YearBuilt    *int                 `json:"yearBuilt"`
	FeatureIDs   []int64              `json:"featureIds"`
	Images       []model.ListingImage `json:"images"`
	ImageURLs    []string             `json:"imageUrls"` // legacy alias for images
	HasGarage    bool                 `json:"hasGarage"`
	HasParking   bool                 `json:"hasParking"`
	HasAC        bool                 `json:"hasAC"`
	HasPool      bool                 `json:"hasPool"`
	IsActive     *bool                `json:"isActive"`
}

type updateListingReq struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	PropertyType *string               `json:"propertyType"`
	Price        *float64              `json:"price"`
	Address      *string               `json:"address"`
	City         *string               `json:"city"`
	State        *string               `json:"state"`
	ZipCode      *string               `json:"zipCode"`
	Bedrooms     *int                  `json:"bedrooms"`
	Bathrooms    *float64              `json:"bathrooms"`
	SquareFeet   *int                  `json:"squareFeet"`
	YearBuilt    *int                  `json:"yearBuilt"`
	FeatureIDs   []int64               `json:"featureIds"`
	Images       *[]model.ListingImage `json:"images"`
	HasGarage    *bool                 `json:"hasGarage"`
	HasParking   *bool                 `json:"hasParking"`
	HasAC        *bool                 `json:"hasAC"`
	HasPool      *bool                 `json:"hasPool"`
	IsActive     *bool                 `json:"isActive"`
}

// Create handles POST /api/listings.
func (h *ListingHandler) Create(c echo.Context) error {
	var req createListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.PropertyType == "" {
		req.PropertyType = model.PropertyApartment
	}
	if !model.ValidPropertyType(req.PropertyType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid propertyType"})
	}

	images := req.Images
	if len(images) == 0 && len(req.ImageURLs) > 0 {
		for _, u := range req.ImageURLs {
			images = append(images, model.ListingImage{URL: u, Name: imageName(u)})
		}
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	l := model.Listing{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Price:        req.Price,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		YearBuilt:    req.YearBuilt,
		Images:       images,
		HasGarage:    req.HasGarage,
		HasParking:   req.HasParking,
		HasAC:        req.HasAC,
		HasPool:      req.HasPool,
		IsActive:     isActive,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	created, err := h.Listings.Create(ctx, l, req.FeatureIDs)
	if err != nil {
		if strings.Contains(err.Error(), "23503") { // foreign_key_violation
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown feature id"})
		}
		h.Log.Error().Err(err).Msg("create listing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create listing failed"})
	}
	h.publish(c, queue.ListingCreated, created.ID, created.Title)
	return c.JSON(http.StatusCreated, created)
}

// Search handles GET /api/listings with the full filter/sort surface.
func (h *ListingHandler) Search(c echo.Context) error {
	q := repository.SearchQuery{
		Search:        strings.TrimSpace(c.QueryParam("search")),
		FeatureIDs:    parseIDList(c.QueryParam("featureIds")),
		PropertyTypes: parseCSV(c.QueryParam("propertyType")),
		MinPrice:      parseFloat(c.QueryParam("minPrice")),
		MaxPrice:      parseFloat(c.QueryParam("maxPrice")),
		Bedrooms:      parseInt(c.QueryParam("bedrooms")),
		MinBathrooms:  parseFloat(c.QueryParam("minBathrooms")),
		MinArea:       parseInt(c.QueryParam("minArea")),
		MaxArea:       parseInt(c.QueryParam("maxArea")),
		HasGarage:     parseBool(c.QueryParam("hasGarage")),
		HasParking:    parseBool(c.QueryParam("hasParking")),
		HasAC:         parseBool(c.QueryParam("hasAC")),
		HasPool:       parseBool(c.QueryParam("hasPool")),
		SortBy:        c.QueryParam("sortBy"),
	}
	if q.Search == "" {
		q.Search = strings.TrimSpace(c.QueryParam("query")) // alias
	}
	if n := parseInt(c.QueryParam("limit")); n != nil && *n > 0 {
		q.Limit = *n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Listings.Search(ctx, q)
	if err != nil {
		h.Log.Error().Err(err).Msg("listing search failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Update handles PATCH /api/listings/:id.
func (h *ListingHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PropertyType != nil && !model.ValidPropertyType(*req.PropertyType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid propertyType"})
	}

	patch := repository.ListingPatch{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Price:        req.Price,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		YearBuilt:    req.YearBuilt,
		Images:       req.Images,
		HasGarage:    req.HasGarage,
		HasParking:   req.HasParking,
		HasAC:        req.HasAC,
		HasPool:      req.HasPool,
		IsActive:     req.IsActive,
		FeatureIDs:   req.FeatureIDs,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	updated, err := h.Listings.Update(ctx, id, patch)
	if err != nil {
		switch {
		case err == repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		case strings.Contains(err.Error(), "23503"):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown feature id"})
		default:
			h.Log.Error().Err(err).Int64("id", id).Msg("update listing failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	h.publish(c, queue.ListingUpdated, updated.ID, updated.Title)
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/listings/:id.
func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Listings.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		h.Log.Error().Err(err).Int64("id", id).Msg("delete listing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.publish(c, queue.ListingDeleted, id, "")
	return c.NoContent(http.StatusNoContent)
}

// DeleteAll handles DELETE /api/listings/all.
func (h *ListingHandler) DeleteAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Listings.DeleteAll(ctx); err != nil {
		h.Log.Error().Err(err).Msg("delete all listings failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.publish(c, queue.ListingsPurged, 0, "")
	return c.JSON(http.StatusOK, echo.Map{"message": "all listings deleted"})
}

func (h *ListingHandler) publish(c echo.Context, action string, id int64, title string) {
	if h.Events == nil {
		return
	}
	ev := queue.ListingChangedEvent{Action: action, ListingID: id, Title: title}
	if err := h.Events.PublishListingChanged(c.Request().Context(), ev); err != nil {
		h.Log.Warn().Err(err).Str("action", action).Msg("event publish failed")
	}
}

// ----- query param helpers -----

func parseCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIDList(s string) []int64 {
	out := []int64{}
	for _, p := range parseCSV(s) {
		if n, err := strconv.ParseInt(p, 10, 64); err == nil {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseBool(s string) bool {
	return s == "true" || s == "1"
}

func imageName(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 && i+1 < len(url) {
		return url[i+1:]
	}
	return url
}
