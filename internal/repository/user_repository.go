package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/listora/realty-api/internal/model"
	"github.com/listora/realty-api/internal/utils"
)

// UserRepo persists rows of the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, email, password_hash, role, name, avatar, created_at, updated_at"

// Create hashes the password and inserts a user, returning the stored row.
// The email is normalized to lower case before insertion.
func (r *UserRepo) Create(ctx context.Context, email, password, name string, avatar *string, role string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, role, name, avatar)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		email, hash, role, name, avatar)
	u, err := scanUser(row)
	if err != nil {
		if strings.Contains(err.Error(), "23505") { // unique_violation
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateRole sets a user's role and returns the updated row. sql.ErrNoRows
// is returned when the user does not exist.
func (r *UserRepo) UpdateRole(ctx context.Context, id int64, role string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2
		 RETURNING `+userColumns,
		role, id)
	return scanUser(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var avatar sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name, &avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if avatar.Valid {
		a := avatar.String
		u.Avatar = &a
	}
	return u, nil
}
