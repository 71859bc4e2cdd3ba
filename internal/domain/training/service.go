package training

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
)

// Service handles training session operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new training session service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// List returns sessions whose title or description contains query
// (case-insensitive). An empty query returns everything.
func (s *Service) List(ctx context.Context, query string) ([]Session, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing training sessions: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return sessions, nil
	}
	out := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		if strings.Contains(strings.ToLower(sess.Title), query) ||
			strings.Contains(strings.ToLower(sess.Description), query) {
			out = append(out, sess)
		}
	}
	return out, nil
}

// Get fetches a session by ID from the collection listing.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing training sessions: %w", err)
	}
	for _, sess := range sessions {
		if sess.ID == id {
			found := sess.Clone()
			return &found, nil
		}
	}
	return nil, ErrSessionNotFound
}

// Save creates (empty id) or replaces a session from a submission payload.
func (s *Service) Save(ctx context.Context, id string, payload backend.Payload) (*Session, error) {
	sess, err := s.repo.Save(ctx, id, payload)
	if err != nil {
		return nil, fmt.Errorf("saving training session: %w", err)
	}
	s.logger.Info("training session saved", "id", id, "created", id == "", "images", payload.FileCount("images"))
	return sess, nil
}

// Delete removes a session.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting training session: %w", err)
	}
	s.logger.Info("training session deleted", "id", id)
	return nil
}
