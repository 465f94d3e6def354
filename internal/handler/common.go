package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/listora/realty-api/internal/middleware"
)

// errUnauthorized marks auth failures inside shared execution paths so the
// outer handler can map them to 401 without string matching.
var errUnauthorized = errors.New("unauthorized")

// getUserID extracts the authenticated user id stored by the JWT middleware.
func getUserID(c echo.Context) (int64, error) {
	v := c.Get(middleware.CtxUserID)
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the numeric :id route parameter.
func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
