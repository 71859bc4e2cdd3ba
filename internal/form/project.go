package form

import (
	"context"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/media"
	"github.com/hiyaw/hiyaw-admin/internal/validation"
)

// ProjectMessages are the notices of the project form.
var ProjectMessages = Messages{
	Kind:         "project",
	Created:      "Project created successfully!",
	Updated:      "Project updated successfully!",
	CreateFailed: "Failed to create project.",
	UpdateFailed: "Failed to update project.",
}

// ProjectFields are the editable fields of a project.
type ProjectFields struct {
	Title       string           `json:"title"`
	Category    project.Category `json:"category"`
	Description string           `json:"description"`
}

// ProjectPatch updates the non-nil fields.
type ProjectPatch struct {
	Title       *string
	Category    *project.Category
	Description *string
}

func defaultProjectFields() ProjectFields {
	return ProjectFields{Category: project.DefaultCategory}
}

// ProjectForm edits or creates one project. At most one video is staged.
type ProjectForm struct {
	core[project.Project]
	fields ProjectFields
}

// NewProjectForm builds a form for mode.
func NewProjectForm(mode Mode[project.Project], saver Saver[project.Project], deps Deps, onSuccess func(*project.Project)) *ProjectForm {
	f := &ProjectForm{}
	f.deps = deps.withDefaults()
	f.saver = saver
	f.messages = ProjectMessages
	f.identify = func(p project.Project) string { return p.ID }
	f.onSuccess = onSuccess
	f.hydrate(mode)
	return f
}

func (f *ProjectForm) hydrate(mode Mode[project.Project]) {
	var persisted []string
	fields := defaultProjectFields()

	if rec, ok := mode.Existing(); ok {
		rec = rec.Clone()
		mode = Editing(rec)
		persisted = rec.VideoURLs()
		fields = ProjectFields{
			Title:       rec.Title,
			Category:    rec.Category,
			Description: rec.Description,
		}
	}

	f.mode = mode
	f.fields = fields
	f.errs = nil
	f.state = StateIdle
	f.store = media.NewStore(media.SinglePolicy, persisted, f.deps.Locators, f.deps.Logger)
}

// Reinitialize switches the form to another record, releasing every locator
// held for the previous one.
func (f *ProjectForm) Reinitialize(mode Mode[project.Project]) error {
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
func (f *ProjectForm) Fields() ProjectFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// SetFields applies patch to the field values.
func (f *ProjectForm) SetFields(patch ProjectPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutable(); err != nil {
		return err
	}
	if patch.Title != nil {
		f.fields.Title = *patch.Title
	}
	if patch.Category != nil {
		f.fields.Category = *patch.Category
	}
	if patch.Description != nil {
		f.fields.Description = *patch.Description
	}
	return nil
}

// Submit validates and sends the form. videoFile is sent only when a new
// video is staged.
func (f *ProjectForm) Submit(ctx context.Context) (*project.Project, error) {
	return f.submit(ctx, f.prepare, f.reset)
}

func (f *ProjectForm) prepare(_ bool) (backend.Payload, error) {
	staged := f.store.Staged()

	input := validation.ProjectInput{
		Title:       f.fields.Title,
		Category:    string(f.fields.Category),
		Description: f.fields.Description,
	}
	if len(staged) > 0 {
		input.VideoFile = &validation.VideoFile{
			Name:        staged[0].Name,
			Size:        staged[0].Size,
			ContentType: staged[0].ContentType,
		}
	}
	if err := f.deps.Validator.ValidateProject(input); err != nil {
		return backend.Payload{}, err
	}

	var payload backend.Payload
	payload.AddField("title", f.fields.Title)
	payload.AddField("category", string(f.fields.Category))
	payload.AddField("description", f.fields.Description)
	if len(staged) > 0 {
		payload.AddFile("videoFile", staged[0].Name, staged[0].ContentType, staged[0].Data)
	}
	return payload, nil
}

func (f *ProjectForm) reset(editing bool) {
	f.store.Reset()
	if !editing {
		f.fields = defaultProjectFields()
	}
}
