package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/dbx"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or
// *sql.Tx). Semantics match the flat-file backend: plaintext credential
// comparison, trim-on-write, email uniqueness via the primary key.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, surname, email, password, fiscal_code, id_card_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
	`
	u := trimUser(user)
	res, err := r.db.ExecContext(ctx, query,
		u.Name, u.Surname, u.Email, u.Password, u.FiscalCode, u.IDCardNumber)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: email %q", common.ErrAlreadyExists, u.Email)
	}
	return nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT name, surname, email, password, fiscal_code, id_card_number
		FROM users WHERE email = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	query := `
		SELECT name, surname, email, password, fiscal_code, id_card_number
		FROM users WHERE email = $1 AND password = $2
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email, password))
}

// userColumns maps editable field names onto column identifiers. The closed
// map doubles as the guard against interpolating caller input into SQL.
var userColumns = map[string]string{
	FieldName:         "name",
	FieldSurname:      "surname",
	FieldEmail:        "email",
	FieldFiscalCode:   "fiscal_code",
	FieldIDCardNumber: "id_card_number",
}

func (r *PostgresRepository) UpdateField(ctx context.Context, email, password, field, value string) error {
	column, ok := userColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}

	query := fmt.Sprintf(`UPDATE users SET %s = $1 WHERE email = $2 AND password = $3`, column)
	res, err := r.db.ExecContext(ctx, query, strings.TrimSpace(value), email, password)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, email, password string) error {
	query := `DELETE FROM users WHERE email = $1 AND password = $2`
	res, err := r.db.ExecContext(ctx, query, email, password)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.Name, &u.Surname, &u.Email, &u.Password, &u.FiscalCode, &u.IDCardNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}
