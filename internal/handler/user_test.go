package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listora/realty-api/internal/model"
	"github.com/listora/realty-api/pkg/log"
)

func TestUserListStripsCredentials(t *testing.T) {
	store := newFakeUserStore()
	_, err := store.Create(context.Background(), "a@example.com", "pw123456", "A", nil, model.RoleUser, 4)
	require.NoError(t, err)
	h := NewUserHandler(store, log.New("test"))

	rec := call(t, http.MethodGet, "/api/users", "", h.List, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "a@example.com", items[0]["email"])
	assert.NotContains(t, items[0], "password")
	assert.NotContains(t, items[0], "password_hash")
	assert.NotContains(t, items[0], "passwordHash")
}

func TestUserUpdateRole(t *testing.T) {
	store := newFakeUserStore()
	u, err := store.Create(context.Background(), "b@example.com", "pw123456", "B", nil, model.RoleUser, 4)
	require.NoError(t, err)
	h := NewUserHandler(store, log.New("test"))

	rec := call(t, http.MethodPut, "/api/users/1/role", `{"role":"admin"}`, h.UpdateRole, withID("1"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, model.RoleAdmin, body["role"])

	got, err := store.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)

	rec = call(t, http.MethodPut, "/api/users/1/role", `{"role":"superuser"}`, h.UpdateRole, withID("1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, http.MethodPut, "/api/users/99/role", `{"role":"admin"}`, h.UpdateRole, withID("99"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
