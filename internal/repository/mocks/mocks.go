package mocks

import (
	"context"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/stretchr/testify/mock"
)

// TrainingRepository is a mock for repository.TrainingRepository.
type TrainingRepository struct {
	mock.Mock
}

func (m *TrainingRepository) List(ctx context.Context) ([]training.Session, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]training.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrainingRepository) Save(ctx context.Context, id string, payload backend.Payload) (*training.Session, error) {
	args := m.Called(ctx, id, payload)
	if sess, ok := args.Get(0).(*training.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrainingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Save(ctx context.Context, id string, payload backend.Payload) (*project.Project, error) {
	args := m.Called(ctx, id, payload)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
