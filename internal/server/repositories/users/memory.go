package users

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/common"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/models"
)

// MemoryRepository keeps accounts in a map keyed by email. It mirrors the
// flat-file semantics (trim-on-write included) and backs tests and the
// "memory" storage backend.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := trimUser(user)
	if _, ok := r.users[u.Email]; ok {
		return fmt.Errorf("%w: email %q", common.ErrAlreadyExists, u.Email)
	}
	r.users[u.Email] = u
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.users[email]; ok {
		return &u, nil
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.users[email]; ok && u.Password == password {
		return &u, nil
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) UpdateField(_ context.Context, email, password, field, value string) error {
	if _, ok := EditableFields[field]; !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, field)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok || u.Password != password {
		return common.ErrNotFound
	}

	value = strings.TrimSpace(value)
	switch field {
	case FieldName:
		u.Name = value
	case FieldSurname:
		u.Surname = value
	case FieldEmail:
		delete(r.users, u.Email)
		u.Email = value
	case FieldFiscalCode:
		u.FiscalCode = value
	case FieldIDCardNumber:
		u.IDCardNumber = value
	}
	r.users[u.Email] = u
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, email, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok || u.Password != password {
		return common.ErrNotFound
	}
	delete(r.users, email)
	return nil
}

func trimUser(u *models.User) models.User {
	return models.User{
		Name:         strings.TrimSpace(u.Name),
		Surname:      strings.TrimSpace(u.Surname),
		Email:        strings.TrimSpace(u.Email),
		Password:     strings.TrimSpace(u.Password),
		FiscalCode:   strings.TrimSpace(u.FiscalCode),
		IDCardNumber: strings.TrimSpace(u.IDCardNumber),
	}
}
