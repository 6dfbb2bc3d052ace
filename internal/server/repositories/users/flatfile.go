// Package users provides repositories for account persistence over the
// flat-file table engine, an in-memory map, and PostgreSQL.
package users

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
// Layout: comma-separated rows, no header, 6 fields per row in the order
// name,surname,email,password,fiscal_code,id_card_number.
const TableFile = "users.txt"

var schema = tabular.Schema{
	Columns: []string{FieldName, FieldSurname, FieldEmail, FieldPassword, FieldFiscalCode, FieldIDCardNumber},
	Key:     FieldEmail,
}

// FlatFileRepository implements Repository over a users.txt table.
type FlatFileRepository struct {
	table *tabular.Table
}

// NewFlatFileRepository builds a repository over dir/users.txt.
func NewFlatFileRepository(dir string) (*FlatFileRepository, error) {
	table, err := tabular.New(filepath.Join(dir, TableFile), schema)
	if err != nil {
		return nil, fmt.Errorf("users table: %w", err)
	}
	return &FlatFileRepository{table: table}, nil
}

func (r *FlatFileRepository) Create(ctx context.Context, user *models.User) error {
	email := strings.TrimSpace(user.Email)
	_, err := r.table.Find(ctx, email)
	if err == nil {
		return fmt.Errorf("%w: email %q", common.ErrAlreadyExists, email)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return r.table.Append(ctx, userToRow(user))
}

func (r *FlatFileRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := r.table.Find(ctx, email)
	if err != nil {
		return nil, err
	}
	return rowToUser(row), nil
}

func (r *FlatFileRepository) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	row, err := r.table.FindBy(ctx, email, FieldPassword, password)
	if err != nil {
		return nil, err
	}
	return rowToUser(row), nil
}

func (r *FlatFileRepository) UpdateField(ctx context.Context, email, password, field, value string) error {
	if _, ok := EditableFields[field]; !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}
	return r.table.UpdateFieldBy(ctx, email, FieldPassword, password, field, value)
}

func (r *FlatFileRepository) Delete(ctx context.Context, email, password string) error {
	return r.table.DeleteRowBy(ctx, email, FieldPassword, password)
}

func userToRow(u *models.User) []string {
	return []string{u.Name, u.Surname, u.Email, u.Password, u.FiscalCode, u.IDCardNumber}
}

func rowToUser(row []string) *models.User {
	return &models.User{
		Name:         row[0],
		Surname:      row[1],
		Email:        row[2],
		Password:     row[3],
		FiscalCode:   row[4],
		IDCardNumber: row[5],
	}
}
