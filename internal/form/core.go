package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/media"
	"github.com/hiyaw/hiyaw-admin/internal/validation"
)

// core is the record-independent part of a form. All fields are guarded by mu.
type core[R any] struct {
	mu        sync.Mutex
	mode      Mode[R]
	state     State
	errs      map[string]string
	store     *media.Store
	closed    bool
	deps      Deps
	saver     Saver[R]
	messages  Messages
	identify  func(R) string
	onSuccess func(*R)
}

// State returns the current submission state.
func (c *core[R]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Errors returns the field errors of the last validation.
func (c *core[R]) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.errs)
}

// Mode returns the form mode.
func (c *core[R]) Mode() Mode[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Previews returns the media preview list.
func (c *core[R]) Previews() []media.Preview {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Previews()
}

// StagedCount returns the number of staged files.
func (c *core[R]) StagedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.StagedCount()
}

// AddFiles stages newly selected files.
func (c *core[R]) AddFiles(files ...media.File) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mutable(); err != nil {
		return err
	}
	return c.store.Add(files...)
}

// RemovePreview unstages the file behind preview index.
func (c *core[R]) RemovePreview(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mutable(); err != nil {
		return err
	}
	return c.store.Remove(index)
}

// ClearNew drops every staged file.
func (c *core[R]) ClearNew() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mutable(); err != nil {
		return err
	}
	c.store.Reset()
	return nil
}

// Close releases every preview locator. Later calls are no-ops.
func (c *core[R]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.store.Teardown()
	c.closed = true
}

// Closed reports whether Close has run.
func (c *core[R]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *core[R]) mutable() error {
	if c.closed {
		return ErrClosed
	}
	if c.state != StateIdle {
		return ErrSubmitInFlight
	}
	return nil
}

func (c *core[R]) transition(to State) error {
	if err := ValidateTransition(c.state, to); err != nil {
		return fmt.Errorf("%w: %s -> %s", err, c.state, to)
	}
	c.state = to
	return nil
}

// submit runs one submission. prepare validates and builds the payload and
// reset clears the form after success; both run with mu held.
func (c *core[R]) submit(ctx context.Context, prepare func(editing bool) (backend.Payload, error), reset func(editing bool)) (*R, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if err := c.transition(StateValidating); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	existing, editing := c.mode.Existing()
	payload, err := prepare(editing)
	if err != nil {
		c.errs = fieldErrors(err)
		_ = c.transition(StateIdle)
		c.mu.Unlock()
		return nil, err
	}
	c.errs = nil
	if err := c.transition(StateSubmitting); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	id := ""
	if editing {
		id = c.identify(existing)
	}
	c.mu.Unlock()

	if c.deps.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.deps.Timeout)
		defer cancel()
	}
	rec, saveErr := c.saver.Save(ctx, id, payload)

	c.mu.Lock()
	_ = c.transition(StateIdle)
	if saveErr != nil {
		c.mu.Unlock()
		c.deps.Logger.Warn("submission failed", "form", c.messages.Kind, "id", id, "error", saveErr)
		c.deps.Notifier.Error(backend.Message(saveErr, c.messages.failure(editing)))
		return nil, fmt.Errorf("submitting %s: %w", c.messages.Kind, saveErr)
	}
	reset(editing)
	c.mu.Unlock()

	c.deps.Logger.Info("submission succeeded", "form", c.messages.Kind, "id", id, "created", !editing)
	c.deps.Notifier.Success(c.messages.success(editing))
	if c.onSuccess != nil {
		c.onSuccess(rec)
	}
	return rec, nil
}

func fieldErrors(err error) map[string]string {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return maps.Clone(verr.Errors)
	}
	return nil
}
