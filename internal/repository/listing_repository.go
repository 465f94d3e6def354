package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/listora/realty-api/internal/model"
)

// ListingRepo persists rows of the `listings` table together with their
// embedded image list (jsonb) and feature associations (listing_features).
type ListingRepo struct{ DB *sql.DB }

func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{DB: db} }

const listingColumns = `id, title, description, property_type, price, address, city, state,
	zip_code, bedrooms, bathrooms, square_feet, year_built, images,
	has_garage, has_parking, has_ac, has_pool, is_active, created_at, updated_at`

// ListingPatch carries the updatable fields of a listing. Nil pointers mean
// "leave unchanged". FeatureIDs follows the replace-when-non-empty rule:
// nil or empty leaves the current feature set intact, a non-empty slice
// replaces it entirely.
type ListingPatch struct {
	Title        *string
	Description  *string
	PropertyType *string
	Price        *float64
	Address      *string
	City         *string
	State        *string
	ZipCode      *string
	Bedrooms     *int
	Bathrooms    *float64
	SquareFeet   *int
	YearBuilt    *int
	Images       *[]model.ListingImage
	HasGarage    *bool
	HasParking   *bool
	HasAC        *bool
	HasPool      *bool
	IsActive     *bool
	FeatureIDs   []int64
}

// Create inserts a listing and, when featureIDs is non-empty, its join rows
// in one transaction. The stored row is returned with features attached.
func (r *ListingRepo) Create(ctx context.Context, l model.Listing, featureIDs []int64) (_ model.Listing, err error) {
	images, err := json.Marshal(imagesOrEmpty(l.Images))
	if err != nil {
		return model.Listing{}, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Listing{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	row := tx.QueryRowContext(ctx,
		`INSERT INTO listings (title, description, property_type, price, address, city, state,
			zip_code, bedrooms, bathrooms, square_feet, year_built, images,
			has_garage, has_parking, has_ac, has_pool, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		 RETURNING `+listingColumns,
		l.Title, l.Description, l.PropertyType, l.Price, l.Address, l.City, l.State,
		l.ZipCode, l.Bedrooms, l.Bathrooms, l.SquareFeet, l.YearBuilt, images,
		l.HasGarage, l.HasParking, l.HasAC, l.HasPool, l.IsActive)
	created, err := scanListing(row)
	if err != nil {
		return model.Listing{}, err
	}

	if len(featureIDs) > 0 {
		if err = insertListingFeatures(ctx, tx, created.ID, featureIDs); err != nil {
			return model.Listing{}, err
		}
	}
	if err = r.attachFeaturesTx(ctx, tx, &created); err != nil {
		return model.Listing{}, err
	}
	return created, nil
}

// GetByID fetches a listing with its features. ErrNotFound when missing.
func (r *ListingRepo) GetByID(ctx context.Context, id int64) (model.Listing, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE id = $1", id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return model.Listing{}, ErrNotFound
	}
	if err != nil {
		return model.Listing{}, err
	}
	if err := r.loadFeatures(ctx, []*model.Listing{&l}); err != nil {
		return model.Listing{}, err
	}
	return l, nil
}

// Update loads the listing, applies the patch field by field and persists
// the result. When the patch carries a non-empty FeatureIDs slice the join
// rows are replaced before the column update; an empty slice leaves the
// existing feature set untouched. Runs in one transaction.
func (r *ListingRepo) Update(ctx context.Context, id int64, p ListingPatch) (_ model.Listing, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Listing{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	row := tx.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE id = $1 FOR UPDATE", id)
	l, err := scanListing(row)
	if err != nil {
		if err == sql.ErrNoRows {
			err = ErrNotFound
		}
		return model.Listing{}, err
	}

	// Feature replacement happens before the column update so the patch
	// cannot clobber the relation by accident.
	if len(p.FeatureIDs) > 0 {
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM listing_features WHERE listing_id = $1", id); err != nil {
			return model.Listing{}, err
		}
		if err = insertListingFeatures(ctx, tx, id, p.FeatureIDs); err != nil {
			return model.Listing{}, err
		}
	}

	applyPatch(&l, p)
	images, err := json.Marshal(imagesOrEmpty(l.Images))
	if err != nil {
		return model.Listing{}, err
	}

	row = tx.QueryRowContext(ctx,
		`UPDATE listings SET title=$1, description=$2, property_type=$3, price=$4, address=$5,
			city=$6, state=$7, zip_code=$8, bedrooms=$9, bathrooms=$10, square_feet=$11,
			year_built=$12, images=$13, has_garage=$14, has_parking=$15, has_ac=$16,
			has_pool=$17, is_active=$18, updated_at=now()
		 WHERE id = $19
		 RETURNING `+listingColumns,
		l.Title, l.Description, l.PropertyType, l.Price, l.Address,
		l.City, l.State, l.ZipCode, l.Bedrooms, l.Bathrooms, l.SquareFeet,
		l.YearBuilt, images, l.HasGarage, l.HasParking, l.HasAC,
		l.HasPool, l.IsActive, id)
	updated, err := scanListing(row)
	if err != nil {
		return model.Listing{}, err
	}
	if err = r.attachFeaturesTx(ctx, tx, &updated); err != nil {
		return model.Listing{}, err
	}
	return updated, nil
}

// Delete removes a listing inside a transaction: join rows are cleared
// explicitly first, then the listing row itself. The explicit two-step
// ordering keeps the join table consistent even if the cascade is absent.
func (r *ListingRepo) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists int64
	if err = tx.QueryRowContext(ctx,
		"SELECT id FROM listings WHERE id = $1", id).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			err = ErrNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM listing_features WHERE listing_id = $1", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", id)
	return err
}

// DeleteAll wipes every listing and join row as raw statements in one
// transaction. Features themselves are left alone.
func (r *ListingRepo) DeleteAll(ctx context.Context) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM listing_features"); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM listings")
	return err
}

// applyPatch maps the present patch fields onto the listing value. Relation
// fields are intentionally not part of this mapping.
func applyPatch(l *model.Listing, p ListingPatch) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.PropertyType != nil {
		l.PropertyType = *p.PropertyType
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.State != nil {
		l.State = p.State
	}
	if p.ZipCode != nil {
		l.ZipCode = p.ZipCode
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.SquareFeet != nil {
		l.SquareFeet = *p.SquareFeet
	}
	if p.YearBuilt != nil {
		l.YearBuilt = p.YearBuilt
	}
	if p.Images != nil {
		l.Images = *p.Images
	}
	if p.HasGarage != nil {
		l.HasGarage = *p.HasGarage
	}
	if p.HasParking != nil {
		l.HasParking = *p.HasParking
	}
	if p.HasAC != nil {
		l.HasAC = *p.HasAC
	}
	if p.HasPool != nil {
		l.HasPool = *p.HasPool
	}
	if p.IsActive != nil {
		l.IsActive = *p.IsActive
	}
}

func imagesOrEmpty(imgs []model.ListingImage) []model.ListingImage {
	if imgs == nil {
		return []model.ListingImage{}
	}
	return imgs
}

func insertListingFeatures(ctx context.Context, tx *sql.Tx, listingID int64, featureIDs []int64) error {
	for _, fid := range featureIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO listing_features (listing_id, feature_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			listingID, fid); err != nil {
			return err
		}
	}
	return nil
}

func scanListing(row rowScanner) (model.Listing, error) {
	var (
		l         model.Listing
		state     sql.NullString
		zipCode   sql.NullString
		yearBuilt sql.NullInt64
		images    []byte
	)
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.PropertyType, &l.Price,
		&l.Address, &l.City, &state, &zipCode, &l.Bedrooms, &l.Bathrooms,
		&l.SquareFeet, &yearBuilt, &images, &l.HasGarage, &l.HasParking,
		&l.HasAC, &l.HasPool, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return model.Listing{}, err
	}
	if state.Valid {
		s := state.String
		l.State = &s
	}
	if zipCode.Valid {
		z := zipCode.String
		l.ZipCode = &z
	}
	if yearBuilt.Valid {
		y := int(yearBuilt.Int64)
		l.YearBuilt = &y
	}
	l.Images = []model.ListingImage{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &l.Images); err != nil {
			return model.Listing{}, err
		}
	}
	l.Features = []model.Feature{}
	return l, nil
}
