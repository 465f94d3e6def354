package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/listora/realty-api/internal/model"
)

// FeatureRepo persists rows of the `features` table.
type FeatureRepo struct{ DB *sql.DB }

func NewFeatureRepo(db *sql.DB) *FeatureRepo { return &FeatureRepo{DB: db} }

const featureColumns = "id, name, icon, created_at, updated_at"

// Create inserts a feature and returns the stored row.
func (r *FeatureRepo) Create(ctx context.Context, name string, icon *string) (model.Feature, error) {
	row := r.DB.QueryRowContext(ctx,
		"INSERT INTO features (name, icon) VALUES ($1, $2) RETURNING "+featureColumns,
		name, icon)
	f, err := scanFeature(row)
	if err != nil {
		if strings.Contains(err.Error(), "23505") {
			return model.Feature{}, ErrDuplicateName
		}
		return model.Feature{}, err
	}
	return f, nil
}

// List returns all features ordered by name.
func (r *FeatureRepo) List(ctx context.Context) ([]model.Feature, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+featureColumns+" FROM features ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Feature{}
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByID fetches one feature. ErrNotFound when missing.
func (r *FeatureRepo) GetByID(ctx context.Context, id int64) (model.Feature, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+featureColumns+" FROM features WHERE id = $1", id)
	f, err := scanFeature(row)
	if err == sql.ErrNoRows {
		return model.Feature{}, ErrNotFound
	}
	return f, err
}

// GetByIDs resolves a set of feature ids. Missing ids are silently dropped;
// callers that care can compare lengths.
func (r *FeatureRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Feature, error) {
	if len(ids) == 0 {
		return []model.Feature{}, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+featureColumns+" FROM features WHERE id = ANY($1) ORDER BY id", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Feature{}
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Update applies non-nil fields to a feature and returns the updated row.
func (r *FeatureRepo) Update(ctx context.Context, id int64, name *string, icon *string) (model.Feature, error) {
	f, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Feature{}, err
	}
	if name != nil {
		f.Name = *name
	}
	if icon != nil {
		f.Icon = icon
	}
	row := r.DB.QueryRowContext(ctx,
		`UPDATE features SET name = $1, icon = $2, updated_at = now() WHERE id = $3
		 RETURNING `+featureColumns,
		f.Name, f.Icon, id)
	updated, err := scanFeature(row)
	if err != nil {
		if strings.Contains(err.Error(), "23505") {
			return model.Feature{}, ErrDuplicateName
		}
		return model.Feature{}, err
	}
	return updated, nil
}

// Delete removes a feature. ErrNotFound when no rows were affected. Join
// rows referencing the feature are cleaned up by the foreign key cascade.
func (r *FeatureRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM features WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFeature(row rowScanner) (model.Feature, error) {
	var f model.Feature
	var icon sql.NullString
	err := row.Scan(&f.ID, &f.Name, &icon, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return model.Feature{}, err
	}
	if icon.Valid {
		i := icon.String
		f.Icon = &i
	}
	return f, nil
}
