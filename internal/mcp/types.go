package mcp

import (
	"github.com/hiyaw/hiyaw-admin/internal/admin"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
)

type ListTrainingsParams struct {
	Query string `json:"query,omitempty" jsonschema:"case-insensitive filter on title or description"`
}

type ListTrainingsResult struct {
	Trainings []training.Session `json:"trainings"`
}

type ListProjectsParams struct {
	Query    string `json:"query,omitempty" jsonschema:"case-insensitive filter on title or category"`
	Category string `json:"category,omitempty" jsonschema:"only return projects in this category"`
}

type ListProjectsResult struct {
	Projects []project.Project `json:"projects"`
}

type OpenFormParams struct {
	ID     string `json:"id,omitempty" jsonschema:"record to edit; omit to open an empty create form"`
	FormID string `json:"form_id,omitempty" jsonschema:"open form to switch to the record instead of opening a new one"`
}

type FormParams struct {
	FormID string `json:"form_id" jsonschema:"form handle returned by open_training_form or open_project_form"`
}

type SetTrainingFieldsParams struct {
	FormID      string  `json:"form_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	GoogleLink  *string `json:"google_link,omitempty" jsonschema:"absolute URL of the Google document"`
}

type SetProjectFieldsParams struct {
	FormID      string  `json:"form_id"`
	Title       *string `json:"title,omitempty"`
	Category    *string `json:"category,omitempty" jsonschema:"one of the project categories"`
	Description *string `json:"description,omitempty"`
}

type StageFilesParams struct {
	FormID string             `json:"form_id"`
	Files  []admin.FileSource `json:"files" jsonschema:"files to stage, each with base64 content plus a name or a path inside the server media root"`
}

type RemovePreviewParams struct {
	FormID string `json:"form_id"`
	Index  int    `json:"index" jsonschema:"zero-based index into the form previews"`
}

type CloseFormResult struct {
	FormID string `json:"form_id"`
	Closed bool   `json:"closed"`
}

type DeleteParams struct {
	ID      string `json:"id,omitempty"`
	Confirm bool   `json:"confirm,omitempty" jsonschema:"must be true; deletion cannot be undone"`
}
