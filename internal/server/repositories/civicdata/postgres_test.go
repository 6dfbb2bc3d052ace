package civicdata

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestPostgresFind_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"email", "subscription_code", "pod_code", "driver_license"}).
		AddRow("a@x.com", "SUB1", "POD1", "DL1")
	mock.ExpectQuery(`SELECT email, subscription_code, pod_code, driver_license\s+FROM civic_data WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(rows)

	rec, err := repo.Find(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.PODCode != "POD1" {
		t.Fatalf("want POD1, got %q", rec.PODCode)
	}
}

func TestPostgresFind_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT email, subscription_code, pod_code, driver_license`).
		WithArgs("a@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "a@x.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPostgresInsertRecord_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO civic_data .* ON CONFLICT \(email\) DO NOTHING`).
		WithArgs("a@x.com", "SUB1", "POD1", "DL1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.InsertRecord(context.Background(), adaRecord())
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestPostgresInsertField_CreatesOrFillsEmpty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO civic_data \(email, pod_code\) VALUES \(\$1, \$2\)\s+ON CONFLICT \(email\) DO UPDATE SET pod_code = EXCLUDED.pod_code\s+WHERE civic_data.pod_code = ''`).
		WithArgs("a@x.com", "POD123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.InsertField(context.Background(), "a@x.com", FieldPODCode, " POD123 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresInsertField_NonEmptyRowsAffected0(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO civic_data \(email, pod_code\)`).
		WithArgs("a@x.com", "POD456").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.InsertField(context.Background(), "a@x.com", FieldPODCode, "POD456")
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestPostgresInsertField_InvalidFieldNoSQL(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	err := repo.InsertField(context.Background(), "a@x.com", "email", "b@x.com")
	if !errors.Is(err, common.ErrInvalidField) {
		t.Fatalf("want ErrInvalidField, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no SQL expected: %v", err)
	}
}

func TestPostgresModifyField_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE civic_data SET subscription_code = \$1 WHERE email = \$2`).
		WithArgs("SUB2", "missing@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ModifyField(context.Background(), "missing@x.com", FieldSubscriptionCode, "SUB2")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPostgresClearField_EmptyOrAbsent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE civic_data SET driver_license = '' WHERE email = \$1 AND driver_license <> ''`).
		WithArgs("a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ClearField(context.Background(), "a@x.com", FieldDriverLicense)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPostgresUpsertRecord(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO civic_data .* ON CONFLICT \(email\) DO UPDATE SET`).
		WithArgs("a@x.com", "SUB1", "POD1", "DL1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertRecord(context.Background(), adaRecord()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresFind_DBErrorWrapped(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT email`).WithArgs("a@x.com").WillReturnError(boom)

	_, err := repo.Find(context.Background(), "a@x.com")
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped db error, got %v", err)
	}
}
