package repomanager

import (
	"context"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/civicdata"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/users"
)

// MemoryRepositoryManager vends in-memory repositories, used by tests and
// throwaway runs.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	civic *civicdata.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		civic: civicdata.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Civic() civicdata.Repository {
	return m.civic
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
