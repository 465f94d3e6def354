package repository

import (
	"context"
	"database/sql"

	"github.com/listora/realty-api/internal/model"
)

const joinedFeatureColumns = `lf.listing_id, f.id, f.name, f.icon, f.created_at, f.updated_at`

// loadFeatures attaches the feature sets of all given listings in a single
// query, grouped in memory by listing id.
func (r *ListingRepo) loadFeatures(ctx context.Context, listings []*model.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(listings))
	byID := make(map[int64]*model.Listing, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
		byID[l.ID] = l
		l.Features = []model.Feature{}
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+joinedFeatureColumns+`
		 FROM listing_features lf
		 JOIN features f ON f.id = lf.feature_id
		 WHERE lf.listing_id = ANY($1)
		 ORDER BY f.name`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		listingID, f, err := scanJoinedFeature(rows)
		if err != nil {
			return err
		}
		if l, ok := byID[listingID]; ok {
			l.Features = append(l.Features, f)
		}
	}
	return rows.Err()
}

// attachFeaturesTx loads a single listing's features inside a transaction,
// used right after inserts/updates so the response reflects the join rows
// written in the same transaction.
func (r *ListingRepo) attachFeaturesTx(ctx context.Context, tx *sql.Tx, l *model.Listing) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+joinedFeatureColumns+`
		 FROM listing_features lf
		 JOIN features f ON f.id = lf.feature_id
		 WHERE lf.listing_id = $1
		 ORDER BY f.name`, l.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	l.Features = []model.Feature{}
	for rows.Next() {
		_, f, err := scanJoinedFeature(rows)
		if err != nil {
			return err
		}
		l.Features = append(l.Features, f)
	}
	return rows.Err()
}

// JoinCount returns the number of listing_features rows referencing the
// listing. Used by tests and consistency checks after deletes.
func (r *ListingRepo) JoinCount(ctx context.Context, listingID int64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM listing_features WHERE listing_id = $1", listingID).Scan(&n)
	return n, err
}

func scanJoinedFeature(rows *sql.Rows) (int64, model.Feature, error) {
	var (
		listingID int64
		f         model.Feature
		icon      sql.NullString
	)
	if err := rows.Scan(&listingID, &f.ID, &f.Name, &icon, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return 0, model.Feature{}, err
	}
	if icon.Valid {
		i := icon.String
		f.Icon = &i
	}
	return listingID, f, nil
}
