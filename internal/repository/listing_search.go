package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/listora/realty-api/internal/model"
)

// SearchQuery defines the optional filter and sort criteria for listing
// searches. Nil pointers mean "no constraint"; the boolean amenity filters
// only ever narrow the result when true (a false value imposes nothing).
type SearchQuery struct {
	Search        string   // substring match on title, address or description
	FeatureIDs    []int64  // at least one feature in this set
	PropertyTypes []string // property_type IN (...)
	MinPrice      *float64
	MaxPrice      *float64
	Bedrooms      *int // bedrooms >= value
	MinBathrooms  *float64
	MinArea       *int
	MaxArea       *int
	HasGarage     bool
	HasParking    bool
	HasAC         bool
	HasPool       bool
	SortBy        string // newest (default), price_asc, price_desc
	Limit         int    // 0 means no cap
}

// Defaults applied when the corresponding criteria are unset.
const (
	defaultMinBathrooms = 1.0
	defaultMinArea      = 0
	defaultMaxArea      = 10000
	featuredLimit       = 8
)

// buildSearchQuery turns a SearchQuery into SQL and positional args. All
// filters compose with AND. Extracted as a pure function so the clause
// composition is testable without a database.
func buildSearchQuery(q SearchQuery) (string, []any) {
	where := []string{}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		p := arg("%" + strings.ToLower(s) + "%")
		where = append(where,
			"(LOWER(l.title) LIKE "+p+" OR LOWER(l.address) LIKE "+p+" OR LOWER(l.description) LIKE "+p+")")
	}
	if len(q.FeatureIDs) > 0 {
		where = append(where,
			"EXISTS (SELECT 1 FROM listing_features lf WHERE lf.listing_id = l.id AND lf.feature_id = ANY("+arg(q.FeatureIDs)+"))")
	}
	if len(q.PropertyTypes) > 0 {
		where = append(where, "l.property_type = ANY("+arg(q.PropertyTypes)+")")
	}
	if q.MinPrice != nil {
		where = append(where, "l.price >= "+arg(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		where = append(where, "l.price <= "+arg(*q.MaxPrice))
	}
	if q.Bedrooms != nil {
		where = append(where, "l.bedrooms >= "+arg(*q.Bedrooms))
	}

	minBath := defaultMinBathrooms
	if q.MinBathrooms != nil {
		minBath = *q.MinBathrooms
	}
	where = append(where, "l.bathrooms >= "+arg(minBath))

	minArea, maxArea := defaultMinArea, defaultMaxArea
	if q.MinArea != nil {
		minArea = *q.MinArea
	}
	if q.MaxArea != nil {
		maxArea = *q.MaxArea
	}
	where = append(where, "l.square_feet >= "+arg(minArea))
	where = append(where, "l.square_feet <= "+arg(maxArea))

	if q.HasGarage {
		where = append(where, "l.has_garage = TRUE")
	}
	if q.HasParking {
		where = append(where, "l.has_parking = TRUE")
	}
	if q.HasAC {
		where = append(where, "l.has_ac = TRUE")
	}
	if q.HasPool {
		where = append(where, "l.has_pool = TRUE")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var order string
	switch q.SortBy {
	case "price_asc":
		order = "l.price ASC"
	case "price_desc":
		order = "l.price DESC"
	default: // "newest"
		order = "l.created_at DESC"
	}

	sqlText := `SELECT ` + searchColumns + `
		FROM listings l
		WHERE ` + cond + `
		ORDER BY ` + order
	if q.Limit > 0 {
		sqlText += " LIMIT " + arg(q.Limit)
	}
	return sqlText, args
}

const searchColumns = `l.id, l.title, l.description, l.property_type, l.price, l.address, l.city,
	l.state, l.zip_code, l.bedrooms, l.bathrooms, l.square_feet, l.year_built, l.images,
	l.has_garage, l.has_parking, l.has_ac, l.has_pool, l.is_active, l.created_at, l.updated_at`

// Search executes a filtered, sorted listing query and attaches features.
func (r *ListingRepo) Search(ctx context.Context, q SearchQuery) ([]model.Listing, error) {
	sqlText, args := buildSearchQuery(q)
	rows, err := r.DB.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*model.Listing, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.loadFeatures(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

// buildFeaturedQuery returns the SQL selecting the newest active listings
// that carry at least one feature, capped at featuredLimit.
func buildFeaturedQuery() (string, []any) {
	sqlText := `SELECT ` + searchColumns + `
		 FROM listings l
		 WHERE l.is_active = TRUE
		   AND EXISTS (SELECT 1 FROM listing_features lf WHERE lf.listing_id = l.id)
		 ORDER BY l.created_at DESC
		 LIMIT $1`
	return sqlText, []any{featuredLimit}
}

// FindFeatured returns the newest active listings that carry at least one
// feature, capped at eight.
func (r *ListingRepo) FindFeatured(ctx context.Context) ([]model.Listing, error) {
	sqlText, args := buildFeaturedQuery()
	rows, err := r.DB.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*model.Listing, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.loadFeatures(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}
