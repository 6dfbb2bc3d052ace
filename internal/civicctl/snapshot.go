package civicctl

import (
	"context"
	"fmt"
)

// Backup uploads a snapshot of the data directory and prints its prefix.
func (a *App) Backup(ctx context.Context) error {
	prefix, err := a.backup.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	fmt.Fprintf(a.out, "Snapshot uploaded: %s\n", prefix)
	return nil
}

// Restore downloads the snapshot stored under prefix into the data directory.
func (a *App) Restore(ctx context.Context, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("restore requires a snapshot prefix")
	}
	if err := a.backup.Restore(ctx, prefix); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	fmt.Fprintf(a.out, "Snapshot restored: %s\n", prefix)
	return nil
}
