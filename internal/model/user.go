package model

import "time"

// Roles assignable to a user. New registrations always start as RoleUser;
// RoleAdmin is granted either by the seeder or by an existing admin.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an application user record as stored in the `users`
// table. The password hash never leaves the repository layer; handlers
// expose PublicUser instead.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address, stored lower-cased.
//	PasswordHash – bcrypt hashed password.
//	Role         – "admin" or "user".
//	Name         – display name.
//	Avatar       – optional avatar URL.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           int64     // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	Name         string    // users.name
	Avatar       *string   // users.avatar (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PublicUser is the sanitized projection of a User returned by the API.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips credentials from a User.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
