// Package civicdata provides repositories for civic-record persistence over
// the flat-file table engine, an in-memory map, and PostgreSQL.
package civicdata

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/tabular"
)

// TableFile is the name of the backing file inside the data directory.
// Layout: comma-separated rows, first row is the header
// email,subscription_code,pod_code,driver_license.
const TableFile = "data.txt"

var schema = tabular.Schema{
	Columns: []string{FieldEmail, FieldSubscriptionCode, FieldPODCode, FieldDriverLicense},
	Key:     FieldEmail,
	Header:  true,
}

// FlatFileRepository implements Repository over a data.txt table.
type FlatFileRepository struct {
	table *tabular.Table
}

// NewFlatFileRepository builds a repository over dir/data.txt.
func NewFlatFileRepository(dir string) (*FlatFileRepository, error) {
	table, err := tabular.New(filepath.Join(dir, TableFile), schema)
	if err != nil {
		return nil, fmt.Errorf("civic table: %w", err)
	}
	return &FlatFileRepository{table: table}, nil
}

func (r *FlatFileRepository) Find(ctx context.Context, email string) (*models.CivicRecord, error) {
	row, err := r.table.Find(ctx, email)
	if err != nil {
		return nil, err
	}
	return rowToRecord(row), nil
}

func (r *FlatFileRepository) InsertRecord(ctx context.Context, rec *models.CivicRecord) error {
	email := strings.TrimSpace(rec.Email)
	_, err := r.table.Find(ctx, email)
	if err == nil {
		return fmt.Errorf("%w: email %q", common.ErrAlreadyExists, email)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return r.table.Append(ctx, recordToRow(rec))
}

func (r *FlatFileRepository) InsertField(ctx context.Context, email, field, value string) error {
	if _, ok := EditableFields[field]; !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}

	row, err := r.table.Find(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		// First field insert for this email creates the row.
		rec := &models.CivicRecord{Email: email}
		setField(rec, field, value)
		return r.table.Append(ctx, recordToRow(rec))
	}
	if err != nil {
		return err
	}

	idx, err := schema.ColumnIndex(field)
	if err != nil {
		return err
	}
	if row[idx] != "" {
		return fmt.Errorf("%w: field %q", common.ErrAlreadyExists, field)
	}
	return r.table.UpdateField(ctx, email, field, value)
}

func (r *FlatFileRepository) UpsertRecord(ctx context.Context, rec *models.CivicRecord) error {
	return r.table.UpsertRow(ctx, recordToRow(rec))
}

func (r *FlatFileRepository) ModifyField(ctx context.Context, email, field, value string) error {
	if _, ok := EditableFields[field]; !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}
	return r.table.UpdateField(ctx, email, field, value)
}

func (r *FlatFileRepository) ClearField(ctx context.Context, email, field string) error {
	if _, ok := EditableFields[field]; !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}
	return r.table.ClearField(ctx, email, field)
}

func recordToRow(rec *models.CivicRecord) []string {
	return []string{rec.Email, rec.SubscriptionCode, rec.PODCode, rec.DriverLicense}
}

func rowToRecord(row []string) *models.CivicRecord {
	return &models.CivicRecord{
		Email:            row[0],
		SubscriptionCode: row[1],
		PODCode:          row[2],
		DriverLicense:    row[3],
	}
}

func setField(rec *models.CivicRecord, field, value string) {
	switch field {
	case FieldSubscriptionCode:
		rec.SubscriptionCode = value
	case FieldPODCode:
		rec.PODCode = value
	case FieldDriverLicense:
		rec.DriverLicense = value
	}
}
