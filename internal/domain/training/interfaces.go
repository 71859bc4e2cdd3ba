package training

import (
	"context"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
)

// Repository provides access to the trainings collection.
type Repository interface {
	List(ctx context.Context) ([]Session, error)
	Save(ctx context.Context, id string, payload backend.Payload) (*Session, error)
	Delete(ctx context.Context, id string) error
}
