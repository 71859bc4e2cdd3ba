package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Level is the severity of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a single non-blocking user notification.
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier receives user-facing notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// DefaultCapacity is used when NewFeed gets a non-positive capacity.
const DefaultCapacity = 32

// Feed is a bounded notice buffer. Push never blocks; when full the oldest
// notice is dropped.
type Feed struct {
	mu       sync.Mutex
	notices  []Notice
	capacity int
	dropped  int
	logger   *slog.Logger
}

var _ Notifier = (*Feed)(nil)

// NewFeed creates a feed holding up to capacity notices.
func NewFeed(capacity int, logger *slog.Logger) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Feed{capacity: capacity, logger: logger}
}

// Push records a notice with the current time.
func (f *Feed) Push(level Level, msg string) {
	n := Notice{Level: level, Message: msg, Time: time.Now()}

	f.mu.Lock()
	if len(f.notices) == f.capacity {
		f.notices = f.notices[1:]
		f.dropped++
	}
	f.notices = append(f.notices, n)
	f.mu.Unlock()

	if level == LevelError {
		f.logger.Warn("notice", "level", level, "message", msg)
		return
	}
	f.logger.Info("notice", "level", level, "message", msg)
}

// Success pushes a success notice.
func (f *Feed) Success(msg string) { f.Push(LevelSuccess, msg) }

// Error pushes a failure notice.
func (f *Feed) Error(msg string) { f.Push(LevelError, msg) }

// Info pushes an informational notice.
func (f *Feed) Info(msg string) { f.Push(LevelInfo, msg) }

// Drain returns all pending notices, oldest first, and empties the feed.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.notices
	if out == nil {
		out = []Notice{}
	}
	f.notices = nil
	return out
}

// Peek returns the pending notices without removing them.
func (f *Feed) Peek() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notice{}, f.notices...)
}

// Dropped reports how many notices were discarded because the feed was full.
func (f *Feed) Dropped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}
