// Package repomanager selects and wires a storage backend, vending the user
// and civic-record repositories plus the migration hook for PostgreSQL.
package repomanager

import (
	"context"
	"fmt"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/civicdata"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/users"
)

// Supported backend names, as they appear in configuration.
const (
	BackendFlatFile = "flatfile"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type RepositoryManager interface {
	Users() users.Repository
	Civic() civicdata.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}

// New builds the manager named by backend. dataDir is used by the flat-file
// backend, dsn by PostgreSQL.
func New(backend, dataDir, dsn string) (RepositoryManager, error) {
	switch backend {
	case BackendFlatFile:
		return NewFlatFileRepositoryManager(dataDir)
	case BackendMemory:
		return NewMemoryRepositoryManager(), nil
	case BackendPostgres:
		return NewPostgresRepositoryManager(dsn)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
