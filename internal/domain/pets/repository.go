package pets

import (
	"context"
	"errors"
)

// Sentinels returned by every storage adapter. Anything else coming out of an
// adapter is an engine fault the service wraps as PersistenceFailed.
var (
	ErrNotFound  = errors.New("pet not found")
	ErrDuplicate = errors.New("pet already exists")
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error
}
