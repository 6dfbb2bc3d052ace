package users

import (
	"context"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
)

// Repository is the storage port for registered accounts. Implementations
// exist for flat files (the canonical demo backend), an in-memory map, and
// PostgreSQL; all of them enforce email uniqueness on Create.
type Repository interface {
	// Create stores a new account. Returns ErrAlreadyExists when the email
	// is already registered.
	Create(ctx context.Context, user *models.User) error

	// FindByEmail returns the account with the given email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Authenticate returns the account matching email and password exactly
	// (no hashing), or ErrNotFound.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// UpdateField sets one profile field of the account matching email and
	// password. Only the fields listed in EditableFields are accepted;
	// password is not editable through this path. Returns ErrInvalidField
	// for other names and ErrNotFound when no account matches.
	UpdateField(ctx context.Context, email, password, field, value string) error

	// Delete removes the account matching email and password, or returns
	// ErrNotFound.
	Delete(ctx context.Context, email, password string) error
}

// Column names of the user table, in storage order.
const (
	FieldName         = "name"
	FieldSurname      = "surname"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFiscalCode   = "fiscal_code"
	FieldIDCardNumber = "id_card_number"
)

// EditableFields is the closed set of profile fields UpdateField accepts.
var EditableFields = map[string]struct{}{
	FieldName:         {},
	FieldSurname:      {},
	FieldEmail:        {},
	FieldFiscalCode:   {},
	FieldIDCardNumber: {},
}
