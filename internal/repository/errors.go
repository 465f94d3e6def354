// Package repository implements the data access layer on top of
// database/sql. Sentinel errors defined here let handlers translate
// failure scenarios into HTTP status codes without inspecting SQL state.
package repository

import "errors"

// ErrEmailExists is returned when a user registration collides with an
// existing email. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a listing, feature or user lookup matches
// no rows. Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is returned when a feature insert or rename collides
// with an existing name. Handlers translate this into HTTP 409.
var ErrDuplicateName = errors.New("name already exists")
