package preview

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hiyaw/hiyaw-admin/internal/media"
)

// ErrTooManyPreviews is returned when the live locator budget is exhausted.
var ErrTooManyPreviews = errors.New("too many live previews")

// DefaultMaxLive bounds the number of unreleased locators.
const DefaultMaxLive = 256

type blob struct {
	name        string
	contentType string
	data        []byte
	createdAt   time.Time
}

// Stats reports locator bookkeeping.
type Stats struct {
	Created  int `json:"created"`
	Released int `json:"released"`
	Live     int `json:"live"`
}

// Registry keeps staged file bytes in memory and hands out URLs that serve
// them until released. It implements media.Locators.
type Registry struct {
	mu       sync.RWMutex
	baseURL  string
	maxLive  int
	blobs    map[string]blob
	created  int
	released int
	logger   *slog.Logger
}

var _ media.Locators = (*Registry)(nil)

// NewRegistry creates a registry whose URLs start with publicURL.
func NewRegistry(publicURL string, maxLive int, logger *slog.Logger) *Registry {
	if maxLive <= 0 {
		maxLive = DefaultMaxLive
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		baseURL: strings.TrimRight(publicURL, "/"),
		maxLive: maxLive,
		blobs:   make(map[string]blob),
		logger:  logger,
	}
}

// Create stores f and returns its preview URL.
func (r *Registry) Create(f media.File) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.blobs) >= r.maxLive {
		return "", fmt.Errorf("%w: limit %d", ErrTooManyPreviews, r.maxLive)
	}

	id := uuid.NewString()
	r.blobs[id] = blob{
		name:        f.Name,
		contentType: f.ContentType,
		data:        f.Data,
		createdAt:   time.Now(),
	}
	r.created++
	return r.baseURL + "/previews/" + id, nil
}

// Release frees the blob behind url. Unknown or already released URLs are
// ignored.
func (r *Registry) Release(url string) {
	id := r.idFromURL(url)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blobs[id]; !ok {
		r.logger.Debug("release of unknown preview ignored", "url", url)
		return
	}
	delete(r.blobs, id)
	r.released++
}

// Stats returns current counters.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{Created: r.created, Released: r.released, Live: len(r.blobs)}
}

func (r *Registry) lookup(id string) (blob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blobs[id]
	return b, ok
}

func (r *Registry) idFromURL(url string) string {
	prefix := r.baseURL + "/previews/"
	if strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix)
	}
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		return url[i+1:]
	}
	return url
}
