package project

import (
	"context"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
)

// Repository provides access to the projects collection.
type Repository interface {
	List(ctx context.Context) ([]Project, error)
	Save(ctx context.Context, id string, payload backend.Payload) (*Project, error)
	Delete(ctx context.Context, id string) error
}
