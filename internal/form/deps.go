package form

import (
	"context"
	"log/slog"
	"time"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/media"
	"github.com/hiyaw/hiyaw-admin/internal/notify"
	"github.com/hiyaw/hiyaw-admin/internal/preview"
	"github.com/hiyaw/hiyaw-admin/internal/validation"
)

// Saver persists a submission. An empty id creates a record.
type Saver[R any] interface {
	Save(ctx context.Context, id string, payload backend.Payload) (*R, error)
}

// Deps are the collaborators shared by every form.
type Deps struct {
	Validator *validation.Validator
	Locators  media.Locators
	Notifier  notify.Notifier
	// Timeout bounds a single submission. Zero means no limit.
	Timeout time.Duration
	Logger  *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Locators == nil {
		d.Locators = preview.NewRegistry("", 0, d.Logger)
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewFeed(0, d.Logger)
	}
	return d
}

// Messages are the notices a form reports after a submission.
type Messages struct {
	Kind         string
	Created      string
	Updated      string
	CreateFailed string
	UpdateFailed string
}

func (m Messages) success(editing bool) string {
	if editing {
		return m.Updated
	}
	return m.Created
}

func (m Messages) failure(editing bool) string {
	if editing {
		return m.UpdateFailed
	}
	return m.CreateFailed
}
