package admin

import (
	"context"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
)

// TrainingService defines training session operations needed by the admin.
type TrainingService interface {
	List(ctx context.Context, query string) ([]training.Session, error)
	Get(ctx context.Context, id string) (*training.Session, error)
	Save(ctx context.Context, id string, payload backend.Payload) (*training.Session, error)
	Delete(ctx context.Context, id string) error
}

// ProjectService defines project operations needed by the admin.
type ProjectService interface {
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Save(ctx context.Context, id string, payload backend.Payload) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ TrainingService = (*training.Service)(nil)
	_ ProjectService  = (*project.Service)(nil)
)
