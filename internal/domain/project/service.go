package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// ListOptions filters a project listing.
type ListOptions struct {
	Query    string
	Category Category
}

// List returns projects matching opts. Query matches title or category.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(string(p.Category)), query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Get fetches a project by ID. The backend has no single-record endpoint, so
// the collection is listed and searched.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	for _, p := range projects {
		if p.ID == id {
			found := p.Clone()
			return &found, nil
		}
	}
	return nil, ErrProjectNotFound
}

// Save creates (empty id) or replaces a project from a submission payload.
func (s *Service) Save(ctx context.Context, id string, payload backend.Payload) (*Project, error) {
	proj, err := s.repo.Save(ctx, id, payload)
	if err != nil {
		return nil, fmt.Errorf("saving project: %w", err)
	}
	s.logger.Info("project saved", "id", id, "created", id == "")
	return proj, nil
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "id", id)
	return nil
}
