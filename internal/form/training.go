package form

import (
	"context"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/hiyaw/hiyaw-admin/internal/media"
	"github.com/hiyaw/hiyaw-admin/internal/validation"
)

// TrainingMessages are the notices of the training session form.
var TrainingMessages = Messages{
	Kind:         "training session",
	Created:      "Training session posted successfully!",
	Updated:      "Training session updated successfully!",
	CreateFailed: "Failed to post training session.",
	UpdateFailed: "Failed to update training session.",
}

// TrainingFields are the editable text fields of a training session.
type TrainingFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoogleLink  string `json:"google_link"`
}

// TrainingPatch updates the non-nil fields.
type TrainingPatch struct {
	Title       *string
	Description *string
	GoogleLink  *string
}

// TrainingForm edits or creates one training session.
type TrainingForm struct {
	core[training.Session]
	fields TrainingFields
}

// NewTrainingForm builds a form for mode. In create mode new images are
// appended to the selection; in edit mode a new selection replaces it.
func NewTrainingForm(mode Mode[training.Session], saver Saver[training.Session], deps Deps, onSuccess func(*training.Session)) *TrainingForm {
	f := &TrainingForm{}
	f.deps = deps.withDefaults()
	f.saver = saver
	f.messages = TrainingMessages
	f.identify = func(s training.Session) string { return s.ID }
	f.onSuccess = onSuccess
	f.hydrate(mode)
	return f
}

// hydrate must run with mu held or before the form is shared.
func (f *TrainingForm) hydrate(mode Mode[training.Session]) {
	policy := media.AppendPolicy
	var persisted []string
	fields := TrainingFields{}

	if rec, ok := mode.Existing(); ok {
		rec = rec.Clone()
		mode = Editing(rec)
		policy = media.ReplacePolicy
		persisted = rec.ImageURLs()
		fields = TrainingFields{
			Title:       rec.Title,
			Description: rec.Description,
			GoogleLink:  rec.GoogleLink,
		}
	}

	f.mode = mode
	f.fields = fields
	f.errs = nil
	f.state = StateIdle
	f.store = media.NewStore(policy, persisted, f.deps.Locators, f.deps.Logger)
}

// Reinitialize switches the form to another record, releasing every locator
// held for the previous one.
func (f *TrainingForm) Reinitialize(mode Mode[training.Session]) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutable(); err != nil {
		return err
	}
	f.store.Teardown()
	f.hydrate(mode)
	return nil
}

// Fields returns the current field values.
func (f *TrainingForm) Fields() TrainingFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// SetFields applies patch to the field values.
func (f *TrainingForm) SetFields(patch TrainingPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutable(); err != nil {
		return err
	}
	if patch.Title != nil {
		f.fields.Title = *patch.Title
	}
	if patch.Description != nil {
		f.fields.Description = *patch.Description
	}
	if patch.GoogleLink != nil {
		f.fields.GoogleLink = *patch.GoogleLink
	}
	return nil
}

// Submit validates and sends the form. Images are sent only when new files
// are staged; otherwise the stored images stay as they are.
func (f *TrainingForm) Submit(ctx context.Context) (*training.Session, error) {
	return f.submit(ctx, f.prepare, f.reset)
}

func (f *TrainingForm) prepare(editing bool) (backend.Payload, error) {
	staged := f.store.Staged()

	images := make([]validation.ImageFile, 0, len(staged))
	for _, file := range staged {
		images = append(images, validation.ImageFile{
			Name:        file.Name,
			Size:        file.Size,
			ContentType: file.ContentType,
		})
	}
	input := validation.TrainingInput{
		Title:       f.fields.Title,
		Description: f.fields.Description,
		GoogleLink:  f.fields.GoogleLink,
		Images:      images,
		Creating:    !editing,
	}
	if err := f.deps.Validator.ValidateTraining(input); err != nil {
		return backend.Payload{}, err
	}

	var payload backend.Payload
	payload.AddField("title", f.fields.Title)
	payload.AddField("description", f.fields.Description)
	payload.AddField("google_link", f.fields.GoogleLink)
	for _, file := range staged {
		payload.AddFile("images", file.Name, file.ContentType, file.Data)
	}
	return payload, nil
}

func (f *TrainingForm) reset(editing bool) {
	f.store.Reset()
	if !editing {
		f.fields = TrainingFields{}
	}
}
