package lookup

import (
	"context"
	"fmt"
)

// Repository reads configuration lookups. Rows are seeded elsewhere and never written here.
type Repository interface {
	TransactionTypeIDByName(ctx context.Context, name string) (int64, error)
	SourceEntityIDByName(ctx context.Context, name string) (int64, error)
	ListSourceEntities(ctx context.Context) ([]SourceEntity, error)
}

// ErrNotFound indicates that no configuration row carries the given name
type ErrNotFound struct {
	Kind Kind
	Name string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Name)
}

// Is matches any ErrNotFound regardless of kind and name
func (e ErrNotFound) Is(target error) bool {
	_, ok := target.(ErrNotFound)
	return ok
}
