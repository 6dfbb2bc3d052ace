package civicdata

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
)

// MemoryRepository keeps civic records in a map keyed by email, mirroring
// the flat-file semantics.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]models.CivicRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]models.CivicRecord)}
}

func (r *MemoryRepository) Find(_ context.Context, email string) (*models.CivicRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rec, ok := r.records[email]; ok {
		return &rec, nil
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) InsertRecord(_ context.Context, rec *models.CivicRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trimmed := trimRecord(rec)
	if _, ok := r.records[trimmed.Email]; ok {
		return fmt.Errorf("%w: email %q", common.ErrAlreadyExists, trimmed.Email)
	}
	r.records[trimmed.Email] = trimmed
	return nil
}

func (r *MemoryRepository) InsertField(_ context.Context, email, field, value string) error {
	if _, ok := EditableFields[field]; !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[email]
	if !ok {
		rec = models.CivicRecord{Email: email}
	} else if fieldValue(&rec, field) != "" {
		return fmt.Errorf("%w: field %q", common.ErrAlreadyExists, field)
	}
	setField(&rec, field, strings.TrimSpace(value))
	r.records[email] = rec
	return nil
}

func (r *MemoryRepository) UpsertRecord(_ context.Context, rec *models.CivicRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trimmed := trimRecord(rec)
	r.records[trimmed.Email] = trimmed
	return nil
}

func (r *MemoryRepository) ModifyField(_ context.Context, email, field, value string) error {
	if _, ok := EditableFields[field]; !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[email]
	if !ok {
		return common.ErrNotFound
	}
	setField(&rec, field, strings.TrimSpace(value))
	r.records[email] = rec
	return nil
}

func (r *MemoryRepository) ClearField(_ context.Context, email, field string) error {
	if _, ok := EditableFields[field]; !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[email]
	if !ok {
		return common.ErrNotFound
	}
	if fieldValue(&rec, field) == "" {
		return fmt.Errorf("%w: field %q already empty", common.ErrNotFound, field)
	}
	setField(&rec, field, "")
	r.records[email] = rec
	return nil
}

func fieldValue(rec *models.CivicRecord, field string) string {
	switch field {
	case FieldSubscriptionCode:
		return rec.SubscriptionCode
	case FieldPODCode:
		return rec.PODCode
	case FieldDriverLicense:
		return rec.DriverLicense
	}
	return ""
}

func trimRecord(rec *models.CivicRecord) models.CivicRecord {
	return models.CivicRecord{
		Email:            strings.TrimSpace(rec.Email),
		SubscriptionCode: strings.TrimSpace(rec.SubscriptionCode),
		PODCode:          strings.TrimSpace(rec.PODCode),
		DriverLicense:    strings.TrimSpace(rec.DriverLicense),
	}
}
