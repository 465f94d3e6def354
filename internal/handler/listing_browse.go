package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/listora/realty-api/internal/repository"
	"github.com/listora/realty-api/pkg/log"
)

// BrowseHandler exposes the unauthenticated listing endpoints consumed by
// the public site: featured listings and listing detail.
type BrowseHandler struct {
	Listings ListingStore
	Log      log.Logger
}

func NewBrowseHandler(listings ListingStore, logger log.Logger) *BrowseHandler {
	return &BrowseHandler{Listings: listings, Log: logger}
}

// Featured handles GET /api/listings/featured: the newest active listings
// with at least one feature, at most eight.
func (h *BrowseHandler) Featured(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Listings.FindFeatured(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("featured query failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/listings/:id.
func (h *BrowseHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		h.Log.Error().Err(err).Int64("id", id).Msg("get listing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, l)
}
