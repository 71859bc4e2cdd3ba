package media

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Locators issues and revokes ephemeral preview locators for staged files.
type Locators interface {
	Create(f File) (string, error)
	Release(url string)
}

// Policy decides how a new selection combines with already staged files.
type Policy int

const (
	// AppendPolicy adds new files after the staged ones.
	AppendPolicy Policy = iota
	// ReplacePolicy swaps the whole staged set for the new selection.
	ReplacePolicy
	// SinglePolicy keeps at most one staged file.
	SinglePolicy
)

func (p Policy) String() string {
	switch p {
	case AppendPolicy:
		return "append"
	case ReplacePolicy:
		return "replace"
	case SinglePolicy:
		return "single"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Preview is one entry of the preview list.
type Preview struct {
	URL       string `json:"url"`
	Persisted bool   `json:"persisted"`
}

// Store holds the files staged on one form together with their preview
// locators. files[i] is always previewed by locators[i].
type Store struct {
	mu        sync.Mutex
	policy    Policy
	provider  Locators
	persisted []string
	files     []File
	locators  []string
	closed    bool
	logger    *slog.Logger
}

// NewStore creates a store showing persisted as the stored media.
func NewStore(policy Policy, persisted []string, provider Locators, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		policy:    policy,
		provider:  provider,
		persisted: slices.Clone(persisted),
		logger:    logger,
	}
}

// Add stages files according to the store policy. When a locator cannot be
// created the staged set is left as it was.
func (s *Store) Add(files ...File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if len(files) == 0 {
		return nil
	}
	if s.policy == SinglePolicy {
		files = files[:1]
	}

	created := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.provider.Create(f)
		if err != nil {
			for _, u := range created {
				s.provider.Release(u)
			}
			return fmt.Errorf("creating preview for %s: %w", f.Name, err)
		}
		created = append(created, url)
	}

	if s.policy != AppendPolicy {
		s.releaseAll()
	}
	s.files = append(s.files, files...)
	s.locators = append(s.locators, created...)

	s.logger.Debug("media staged", "policy", s.policy.String(), "added", len(files), "staged", len(s.files))
	return nil
}

// Previews returns the preview list: stored media first, then staged files.
// Under the replace and single policies stored media is hidden while anything
// is staged, since the submission would replace it.
func (s *Store) Previews() []Preview {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Preview, 0, len(s.persisted)+len(s.locators))
	if s.showPersisted() {
		for _, url := range s.persisted {
			out = append(out, Preview{URL: url, Persisted: true})
		}
	}
	for _, url := range s.locators {
		out = append(out, Preview{URL: url})
	}
	return out
}

// Remove unstages the file behind preview index and releases its locator.
func (s *Store) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	offset := 0
	if s.showPersisted() {
		offset = len(s.persisted)
	}
	if index < 0 || index >= offset+len(s.locators) {
		return ErrIndexOutOfRange
	}
	if index < offset {
		return ErrPersistedPreview
	}

	i := index - offset
	s.provider.Release(s.locators[i])
	s.files = slices.Delete(s.files, i, i+1)
	s.locators = slices.Delete(s.locators, i, i+1)
	return nil
}

// Reset drops every staged file, restoring the preview list to the stored
// media. Calling it again is a no-op.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseAll()
}

// Teardown releases every held locator and closes the store. Later calls are
// no-ops.
func (s *Store) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.releaseAll()
	s.closed = true
}

// Closed reports whether Teardown has run.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Staged returns a copy of the staged files in preview order.
func (s *Store) Staged() []File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.files)
}

// StagedCount returns the number of staged files.
func (s *Store) StagedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Persisted returns the stored media URLs.
func (s *Store) Persisted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.persisted)
}

func (s *Store) showPersisted() bool {
	return s.policy == AppendPolicy || len(s.locators) == 0
}

func (s *Store) releaseAll() {
	for _, url := range s.locators {
		s.provider.Release(url)
	}
	s.files = nil
	s.locators = nil
}
