package repomanager

import (
	"context"
	"fmt"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/filex"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/civicdata"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/users"
)

// FlatFileRepositoryManager vends repositories backed by users.txt and
// data.txt inside a single data directory.
type FlatFileRepositoryManager struct {
	users *users.FlatFileRepository
	civic *civicdata.FlatFileRepository
}

func NewFlatFileRepositoryManager(dataDir string) (*FlatFileRepositoryManager, error) {
	if err := filex.EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	u, err := users.NewFlatFileRepository(dataDir)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}
	c, err := civicdata.NewFlatFileRepository(dataDir)
	if err != nil {
		return nil, fmt.Errorf("civic repo creation error: %w", err)
	}
	return &FlatFileRepositoryManager{users: u, civic: c}, nil
}

func (m *FlatFileRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *FlatFileRepositoryManager) Civic() civicdata.Repository {
	return m.civic
}

// RunMigrations is a no-op: the tables materialize on first write.
func (m *FlatFileRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *FlatFileRepositoryManager) Close() error {
	return nil
}
