package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/civicdata"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/users"
)

// CivicService manages per-citizen civic records. Reading a record requires
// the account credentials; the write operations are keyed by email alone.
type CivicService struct {
	users users.Repository
	civic civicdata.Repository
}

func NewCivicService(userRepo users.Repository, civicRepo civicdata.Repository) *CivicService {
	return &CivicService{users: userRepo, civic: civicRepo}
}

// Fetch verifies the account credentials, then returns the civic record for
// that email. A credential mismatch yields ErrInvalidCredentials; a missing
// record yields ErrNotFound.
func (s *CivicService) Fetch(ctx context.Context, email, password string) (*models.CivicRecord, error) {
	if _, err := s.users.Authenticate(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error verifying credentials: %w", err)
	}

	rec, err := s.civic.Find(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading civic record: %w", err)
	}
	return rec, nil
}

// InsertRecord stores a full record, rejecting a duplicate email with
// ErrAlreadyExists.
func (s *CivicService) InsertRecord(ctx context.Context, rec *models.CivicRecord) error {
	if err := s.civic.InsertRecord(ctx, rec); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("error inserting civic record: %w", err)
	}
	return nil
}

// InsertField sets a single empty field, creating the record when absent.
func (s *CivicService) InsertField(ctx context.Context, email, field, value string) error {
	if err := s.civic.InsertField(ctx, email, field, value); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) || errors.Is(err, common.ErrInvalidField) {
			return err
		}
		return fmt.Errorf("error inserting civic field: %w", err)
	}
	return nil
}

// UpsertRecord overwrites the whole record, inserting it when absent.
func (s *CivicService) UpsertRecord(ctx context.Context, rec *models.CivicRecord) error {
	if err := s.civic.UpsertRecord(ctx, rec); err != nil {
		return fmt.Errorf("error upserting civic record: %w", err)
	}
	return nil
}

// ModifyField sets a single field on an existing record.
func (s *CivicService) ModifyField(ctx context.Context, email, field, value string) error {
	if err := s.civic.ModifyField(ctx, email, field, value); err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrInvalidField) {
			return err
		}
		return fmt.Errorf("error modifying civic field: %w", err)
	}
	return nil
}

// ClearField empties a non-empty field on an existing record.
func (s *CivicService) ClearField(ctx context.Context, email, field string) error {
	if err := s.civic.ClearField(ctx, email, field); err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrInvalidField) {
			return err
		}
		return fmt.Errorf("error clearing civic field: %w", err)
	}
	return nil
}
