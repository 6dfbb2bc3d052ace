package civicdata

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
// *sql.Tx). The conditional writes lean on ON CONFLICT plus rows-affected
// checks so each operation stays a single statement.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// civicColumns maps editable field names onto column identifiers, guarding
// the identifiers interpolated into queries.
var civicColumns = map[string]string{
	FieldSubscriptionCode: "subscription_code",
	FieldPODCode:          "pod_code",
	FieldDriverLicense:    "driver_license",
}

func (r *PostgresRepository) Find(ctx context.Context, email string) (*models.CivicRecord, error) {
	query := `
		SELECT email, subscription_code, pod_code, driver_license
		FROM civic_data WHERE email = $1
	`
	rec := &models.CivicRecord{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&rec.Email, &rec.SubscriptionCode, &rec.PODCode, &rec.DriverLicense)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) InsertRecord(ctx context.Context, rec *models.CivicRecord) error {
	query := `
		INSERT INTO civic_data (email, subscription_code, pod_code, driver_license)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
	`
	t := trimRecord(rec)
	res, err := r.db.ExecContext(ctx, query, t.Email, t.SubscriptionCode, t.PODCode, t.DriverLicense)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: email %q", common.ErrAlreadyExists, t.Email)
	}
	return nil
}

// InsertField upserts in one statement: a fresh email inserts a new row, an
// existing row is only updated when the target column is still empty. Zero
// rows affected therefore means the field already held a value.
func (r *PostgresRepository) InsertField(ctx context.Context, email, field, value string) error {
	column, ok := civicColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}

	query := fmt.Sprintf(`
		INSERT INTO civic_data (email, %[1]s) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET %[1]s = EXCLUDED.%[1]s
		WHERE civic_data.%[1]s = ''
	`, column)
	res, err := r.db.ExecContext(ctx, query, email, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: field %q", common.ErrAlreadyExists, field)
	}
	return nil
}

func (r *PostgresRepository) UpsertRecord(ctx context.Context, rec *models.CivicRecord) error {
	query := `
		INSERT INTO civic_data (email, subscription_code, pod_code, driver_license)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			subscription_code = EXCLUDED.subscription_code,
			pod_code = EXCLUDED.pod_code,
			driver_license = EXCLUDED.driver_license
	`
	t := trimRecord(rec)
	if _, err := r.db.ExecContext(ctx, query, t.Email, t.SubscriptionCode, t.PODCode, t.DriverLicense); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ModifyField(ctx context.Context, email, field, value string) error {
	column, ok := civicColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}

	query := fmt.Sprintf(`UPDATE civic_data SET %s = $1 WHERE email = $2`, column)
	res, err := r.db.ExecContext(ctx, query, strings.TrimSpace(value), email)
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

func (r *PostgresRepository) ClearField(ctx context.Context, email, field string) error {
	column, ok := civicColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}

	query := fmt.Sprintf(`UPDATE civic_data SET %[1]s = '' WHERE email = $1 AND %[1]s <> ''`, column)
	res, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: field %q absent or already empty", common.ErrNotFound, field)
	}
	return nil
}
