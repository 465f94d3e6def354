package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/singleflight"

	"github.com/listora/realty-api/internal/config"
	"github.com/listora/realty-api/internal/middleware"
	"github.com/listora/realty-api/internal/model"
	"github.com/listora/realty-api/internal/repository"
	"github.com/listora/realty-api/internal/utils"
	"github.com/listora/realty-api/pkg/log"
)

// AuthHandler bundles dependencies for auth endpoints. The singleflight
// group collapses concurrent refresh calls that carry the same token, so a
// burst of parallel requests validates the token and mints the access
// token exactly once.
type AuthHandler struct {
	Cfg     config.Config
	Users   UserStore
	Tokens  TokenStore
	Log     log.Logger
	refresh singleflight.Group
}

func NewAuthHandler(cfg config.Config, users UserStore, tokens TokenStore, logger log.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens, Log: logger}
}

// ----- DTOs -----

type registerReq struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type registeredResp struct {
	ID     int64   `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
	Role   string  `json:"role"`
}
type loginUserPart struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
type loginResp struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int           `json:"expires_in"`
	User         loginUserPart `json:"user"`
}
type refreshResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Register creates a user with the default role and returns the public
// profile. No tokens are issued; the client logs in separately.
func (h *AuthHandler) Register(c echo.Context) error {
	return h.register(c, model.RoleUser)
}

// CreateAdmin is Register with the role forced to admin. The route carries
// the admin guard; by the time this runs the caller is a verified admin.
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	return h.register(c, model.RoleAdmin)
}

func (h *AuthHandler) register(c echo.Context, role string) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Password, req.Name, req.Avatar, role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		h.Log.Error().Err(err).Str("email", req.Email).Msg("create user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, registeredResp{
		ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Avatar, Role: u.Role,
	})
}

// Login verifies credentials and returns a fresh access/refresh pair.
// Unknown email and wrong password produce the same 401 body so the
// endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		h.Log.Error().Err(err).Msg("login query failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	// Replace revokes every prior session atomically with the insert, so a
	// lost race between two logins still leaves exactly one active token.
	if err := h.Tokens.Replace(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		h.Log.Error().Err(err).Int64("user_id", u.ID).Msg("save refresh failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw, // raw value goes back to the client once
		ExpiresIn:    h.Cfg.AccessTTLMin * 60,
		User:         loginUserPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
	})
}

// RefreshToken validates a refresh token and mints a new access token. The
// refresh token is NOT rotated; it stays valid until its own expiry or the
// next login. Concurrent calls carrying the same token share one execution
// through the singleflight group.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	v, err, _ := h.refresh.Do(hash, func() (any, error) {
		// The shared execution must not die with whichever request happens
		// to lead it, so the timeout runs on a context detached from the
		// request's cancellation.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 5*time.Second)
		defer cancel()

		userID, err := h.Tokens.Validate(ctx, hash)
		if err != nil {
			return nil, errUnauthorized
		}
		u, err := h.Users.GetByID(ctx, userID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, errUnauthorized
			}
			return nil, err
		}
		access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u, h.Cfg.AccessTTLMin)
		if err != nil {
			return nil, err
		}
		return access, nil
	})
	if err != nil {
		if err == errUnauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		h.Log.Error().Err(err).Msg("refresh failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	access := v.(utils.AccessToken)
	return c.JSON(http.StatusOK, refreshResp{
		AccessToken: access.Token,
		ExpiresIn:   h.Cfg.AccessTTLMin * 60,
	})
}

// Logout revokes the caller's refresh tokens and returns 204. With no body
// every active session of the user is revoked; when the body names a
// specific refresh_token only that session ends. Revocation is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req refreshReq
	_ = c.Bind(&req) // absent or malformed body simply means "all sessions"

	ctx, cancel := reqCtx(c)
	defer cancel()

	if t := strings.TrimSpace(req.RefreshToken); t != "" {
		if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(t)); err != nil {
			h.Log.Error().Err(err).Msg("logout failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		h.Log.Error().Err(err).Int64("user_id", uid).Msg("logout failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the identity claims of the current access token.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get(middleware.CtxUserID),
		"email":   c.Get(middleware.CtxEmail),
		"role":    c.Get(middleware.CtxRole),
	})
}

// reqCtx bounds database work for one request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
