package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/civicdata"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/users"
)

func newCivicService(t *testing.T) (*CivicService, *UserService) {
	t.Helper()
	userRepo := users.NewMemoryRepository()
	us := NewUserService(userRepo)
	return NewCivicService(userRepo, civicdata.NewMemoryRepository()), us
}

func TestFetch_RequiresCredentials(t *testing.T) {
	cs, us := newCivicService(t)
	ctx := context.Background()
	registered(t, us)

	if err := cs.InsertField(ctx, "a@x.com", civicdata.FieldPODCode, "POD123"); err != nil {
		t.Fatalf("InsertField error: %v", err)
	}

	_, err := cs.Fetch(ctx, "a@x.com", "wrong")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}

	rec, err := cs.Fetch(ctx, "a@x.com", "p1")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if rec.PODCode != "POD123" {
		t.Fatalf("want POD123, got %q", rec.PODCode)
	}
}

func TestFetch_NoRecord(t *testing.T) {
	cs, us := newCivicService(t)
	registered(t, us)

	_, err := cs.Fetch(context.Background(), "a@x.com", "p1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestInsertFieldLifecycle(t *testing.T) {
	cs, _ := newCivicService(t)
	ctx := context.Background()

	if err := cs.InsertField(ctx, "a@x.com", civicdata.FieldPODCode, "POD123"); err != nil {
		t.Fatalf("InsertField error: %v", err)
	}
	err := cs.InsertField(ctx, "a@x.com", civicdata.FieldPODCode, "POD456")
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
	if err := cs.ClearField(ctx, "a@x.com", civicdata.FieldPODCode); err != nil {
		t.Fatalf("ClearField error: %v", err)
	}
	if err := cs.InsertField(ctx, "a@x.com", civicdata.FieldPODCode, "POD456"); err != nil {
		t.Fatalf("InsertField after clear error: %v", err)
	}
}

func TestModifyField_AbsentRecord(t *testing.T) {
	cs, _ := newCivicService(t)

	err := cs.ModifyField(context.Background(), "ghost@x.com", civicdata.FieldPODCode, "POD1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestInsertRecord_Duplicate(t *testing.T) {
	cs, _ := newCivicService(t)
	ctx := context.Background()
	rec := &models.CivicRecord{Email: "a@x.com", PODCode: "POD1"}

	if err := cs.InsertRecord(ctx, rec); err != nil {
		t.Fatalf("InsertRecord error: %v", err)
	}
	if err := cs.InsertRecord(ctx, rec); !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestUpsertThenFetch(t *testing.T) {
	cs, us := newCivicService(t)
	ctx := context.Background()
	registered(t, us)

	rec := &models.CivicRecord{Email: "a@x.com", SubscriptionCode: "SUB1", DriverLicense: "DL1"}
	if err := cs.UpsertRecord(ctx, rec); err != nil {
		t.Fatalf("UpsertRecord error: %v", err)
	}

	got, err := cs.Fetch(ctx, "a@x.com", "p1")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got.SubscriptionCode != "SUB1" || got.DriverLicense != "DL1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestCivic_InvalidField(t *testing.T) {
	cs, _ := newCivicService(t)
	ctx := context.Background()

	if err := cs.InsertField(ctx, "a@x.com", "email", "b@x.com"); !errors.Is(err, common.ErrInvalidField) {
		t.Fatalf("want ErrInvalidField, got %v", err)
	}
	if err := cs.ModifyField(ctx, "a@x.com", "nope", "v"); !errors.Is(err, common.ErrInvalidField) {
		t.Fatalf("want ErrInvalidField, got %v", err)
	}
	if err := cs.ClearField(ctx, "a@x.com", "nope"); !errors.Is(err, common.ErrInvalidField) {
		t.Fatalf("want ErrInvalidField, got %v", err)
	}
}
