package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/listora/realty-api/internal/repository"
	"github.com/listora/realty-api/pkg/log"
)

// FeatureHandler implements feature CRUD. Reads are public so the catalog
// site can render amenity chips; mutations sit behind the admin guard.
type FeatureHandler struct {
	Features FeatureStore
	Log      log.Logger
}

func NewFeatureHandler(features FeatureStore, logger log.Logger) *FeatureHandler {
	return &FeatureHandler{Features: features, Log: logger}
}

type featureReq struct {
	Name *string `json:"name"`
	Icon *string `json:"icon"`
}

// Create handles POST /api/features.
func (h *FeatureHandler) Create(c echo.Context) error {
	var req featureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	name := strings.TrimSpace(*req.Name)

	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Features.Create(ctx, name, req.Icon)
	if err != nil {
		if err == repository.ErrDuplicateName {
			return c.JSON(http.StatusConflict, echo.Map{"error": "feature name already exists"})
		}
		h.Log.Error().Err(err).Msg("create feature failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create feature failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

// List handles GET /api/features.
func (h *FeatureHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Features.List(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("list features failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/features/:id.
func (h *FeatureHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Features.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "feature not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// Update handles PUT /api/features/:id.
func (h *FeatureHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req featureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		req.Name = &trimmed
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Features.Update(ctx, id, req.Name, req.Icon)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "feature not found"})
		case repository.ErrDuplicateName:
			return c.JSON(http.StatusConflict, echo.Map{"error": "feature name already exists"})
		default:
			h.Log.Error().Err(err).Int64("id", id).Msg("update feature failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, f)
}

// Delete handles DELETE /api/features/:id.
func (h *FeatureHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Features.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "feature not found"})
		}
		h.Log.Error().Err(err).Int64("id", id).Msg("delete feature failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
