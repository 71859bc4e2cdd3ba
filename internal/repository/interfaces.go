package repository

import (
	"context"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
)

// TrainingRepository manages training session storage on the backend.
type TrainingRepository interface {
	List(ctx context.Context) ([]training.Session, error)
	Save(ctx context.Context, id string, payload backend.Payload) (*training.Session, error)
	Delete(ctx context.Context, id string) error
}

// ProjectRepository manages project storage on the backend.
type ProjectRepository interface {
	List(ctx context.Context) ([]project.Project, error)
	Save(ctx context.Context, id string, payload backend.Payload) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ TrainingRepository = (*backend.Collection[training.Session])(nil)
	_ ProjectRepository  = (*backend.Collection[project.Project])(nil)
)

// Collection names on the backend.
const (
	TrainingsCollection = "trainings"
	ProjectsCollection  = "projects"
)

// NewTrainingRepository binds the trainings collection.
func NewTrainingRepository(client *backend.Client) *backend.Collection[training.Session] {
	return backend.NewCollection[training.Session](client, TrainingsCollection, backend.Labels{
		One:  "session",
		Many: "training sessions",
	})
}

// NewProjectRepository binds the projects collection.
func NewProjectRepository(client *backend.Client) *backend.Collection[project.Project] {
	return backend.NewCollection[project.Project](client, ProjectsCollection, backend.Labels{
		One:  "project",
		Many: "projects",
	})
}
