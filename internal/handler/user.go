package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/listora/realty-api/internal/model"
	"github.com/listora/realty-api/pkg/log"
)

// UserHandler exposes the admin user management endpoints.
type UserHandler struct {
	Users UserStore
	Log   log.Logger
}

func NewUserHandler(users UserStore, logger log.Logger) *UserHandler {
	return &UserHandler{Users: users, Log: logger}
}

// List handles GET /api/users: all users newest-first, credentials stripped.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("list users failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return c.JSON(http.StatusOK, out)
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateRole handles PUT /api/users/:id/role.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleUser {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin or user"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.UpdateRole(ctx, id, req.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		h.Log.Error().Err(err).Int64("id", id).Msg("update role failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, u.Public())
}
