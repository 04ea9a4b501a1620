// Package store is the host persistence collaborator: the monitor hands it
// a fresh snapshot after every mutation and restores from it at mount.
package store

import (
	"context"

	"github.com/calderost/bridgewatch/internal/model"
)

// Store defines the snapshot persistence interface.
type Store interface {
	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snap *model.Snapshot) error

	// Load returns the persisted snapshot, or nil when none exists.
	Load(ctx context.Context) (*model.Snapshot, error)

	Close() error
}
