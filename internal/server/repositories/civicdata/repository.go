package civicdata

import (
	"context"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
)

// Repository is the storage port for civic records, at most one per email.
type Repository interface {
	// Find returns the record for email, or ErrNotFound. A missing backing
	// table counts as no record.
	Find(ctx context.Context, email string) (*models.CivicRecord, error)

	// InsertRecord stores a new record, rejecting a duplicate email with
	// ErrAlreadyExists.
	InsertRecord(ctx context.Context, rec *models.CivicRecord) error

	// InsertField sets a single field, creating the record when absent.
	// Returns ErrAlreadyExists when the field already holds a non-empty
	// value for that email.
	InsertField(ctx context.Context, email, field, value string) error

	// UpsertRecord overwrites the whole record, inserting it when absent.
	UpsertRecord(ctx context.Context, rec *models.CivicRecord) error

	// ModifyField sets a single field regardless of its current value.
	// Returns ErrNotFound when no record exists for email.
	ModifyField(ctx context.Context, email, field, value string) error

	// ClearField empties a field that currently holds a non-empty value.
	// Returns ErrNotFound when the record is absent or the field is
	// already empty.
	ClearField(ctx context.Context, email, field string) error
}

// Column names of the civic table, in storage order.
const (
	FieldEmail            = "email"
	FieldSubscriptionCode = "subscription_code"
	FieldPODCode          = "pod_code"
	FieldDriverLicense    = "driver_license"
)

// EditableFields is the closed set of field names accepted by the per-field
// operations; the email key is not editable.
var EditableFields = map[string]struct{}{
	FieldSubscriptionCode: {},
	FieldPODCode:          {},
	FieldDriverLicense:    {},
}
