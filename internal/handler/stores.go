// Package handler implements the HTTP layer of the API. Handlers depend on
// narrow store interfaces rather than concrete repositories so unit tests
// can substitute in-memory fakes.
package handler

import (
	"context"
	"time"

	"github.com/listora/realty-api/internal/model"
	"github.com/listora/realty-api/internal/repository"
)

// UserStore is the slice of UserRepo the handlers need.
type UserStore interface {
	Create(ctx context.Context, email, password, name string, avatar *string, role string, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, id int64, role string) (model.User, error)
}

// TokenStore persists refresh token state.
type TokenStore interface {
	Replace(ctx context.Context, userID int64, tokenHash string, exp time.Time) error
	Validate(ctx context.Context, tokenHash string) (int64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

// ListingStore covers listing CRUD and search.
type ListingStore interface {
	Create(ctx context.Context, l model.Listing, featureIDs []int64) (model.Listing, error)
	GetByID(ctx context.Context, id int64) (model.Listing, error)
	Update(ctx context.Context, id int64, p repository.ListingPatch) (model.Listing, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, q repository.SearchQuery) ([]model.Listing, error)
	FindFeatured(ctx context.Context) ([]model.Listing, error)
}

// FeatureStore covers feature CRUD.
type FeatureStore interface {
	Create(ctx context.Context, name string, icon *string) (model.Feature, error)
	List(ctx context.Context) ([]model.Feature, error)
	GetByID(ctx context.Context, id int64) (model.Feature, error)
	Update(ctx context.Context, id int64, name *string, icon *string) (model.Feature, error)
	Delete(ctx context.Context, id int64) error
}
