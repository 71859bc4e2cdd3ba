package admin

import (
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/hiyaw/hiyaw-admin/internal/form"
	"github.com/hiyaw/hiyaw-admin/internal/media"
	"github.com/hiyaw/hiyaw-admin/internal/notify"
)

// Kind names the record type a form edits.
type Kind string

const (
	KindTraining Kind = "training"
	KindProject  Kind = "project"
)

// FormMode is the wire name of a form mode.
type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeEdit   FormMode = "edit"
)

// FormView is a snapshot of an open form.
type FormView struct {
	ID          string            `json:"form_id"`
	Kind        Kind              `json:"kind"`
	Mode        FormMode          `json:"mode"`
	RecordID    string            `json:"record_id,omitempty"`
	State       form.State        `json:"state"`
	Fields      any               `json:"fields"`
	Errors      map[string]string `json:"errors,omitempty"`
	Previews    []media.Preview   `json:"previews"`
	StagedCount int               `json:"staged_count"`
	Notices     []notify.Notice   `json:"notices,omitempty"`
}

// FileSource describes one file to stage: a local path or base64 content.
type FileSource struct {
	Path          string `json:"path,omitempty"`
	Name          string `json:"name,omitempty"`
	ContentType   string `json:"content_type,omitempty"`
	ContentBase64 string `json:"content_base64,omitempty"`
}

// Outcome is the result class of a submission.
type Outcome string

const (
	OutcomeSaved   Outcome = "saved"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

// SubmitResult reports a submission. Form is nil when the form was closed
// after a successful edit.
type SubmitResult struct {
	Outcome   Outcome            `json:"outcome"`
	Form      *FormView          `json:"form,omitempty"`
	Closed    bool               `json:"closed"`
	Training  *training.Session  `json:"training,omitempty"`
	Project   *project.Project   `json:"project,omitempty"`
	Trainings []training.Session `json:"trainings,omitempty"`
	Projects  []project.Project  `json:"projects,omitempty"`
	Notices   []notify.Notice    `json:"notices,omitempty"`
}

// DeleteResult reports a delete and carries the refetched collection.
type DeleteResult struct {
	Deleted   bool               `json:"deleted"`
	Trainings []training.Session `json:"trainings,omitempty"`
	Projects  []project.Project  `json:"projects,omitempty"`
	Notices   []notify.Notice    `json:"notices"`
}
