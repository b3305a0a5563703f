package closes

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists close snapshots. Save always inserts; nothing is ever updated.
// An empty kind matches every snapshot.
type Repository interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	GetLatest(ctx context.Context, kind Kind) (*Snapshot, error)
	List(ctx context.Context, kind Kind, limit, offset int) ([]*Snapshot, error)
	Count(ctx context.Context, kind Kind) (int64, error)
}

// ErrSnapshotNotFound indicates a missing snapshot by id, or no snapshot at all of a kind
type ErrSnapshotNotFound struct {
	ID   uuid.UUID
	Kind Kind
}

func (e ErrSnapshotNotFound) Error() string {
	if e.ID != uuid.Nil {
		return "close snapshot not found: " + e.ID.String()
	}
	if e.Kind != "" {
		return "no close snapshot of kind " + string(e.Kind)
	}
	return "no close snapshot found"
}

func (e ErrSnapshotNotFound) Is(target error) bool {
	_, ok := target.(ErrSnapshotNotFound)
	return ok
}
