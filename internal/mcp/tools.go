package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hiyaw/hiyaw-admin/internal/admin"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/hiyaw/hiyaw-admin/internal/form"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type tools struct {
	admin  AdminService
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, t *tools) {
	// Lists
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_trainings",
		Description: "List training sessions, optionally filtered by a search query",
	}, t.listTrainings)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List animation projects, optionally filtered by query or category",
	}, t.listProjects)

	// Forms
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_training_form",
		Description: "Open a training session form. Pass id to edit an existing session, omit it to create one. Pass form_id to switch an open form instead",
	}, t.openTrainingForm)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_project_form",
		Description: "Open a project form. Pass id to edit an existing project, omit it to create one. Pass form_id to switch an open form instead",
	}, t.openProjectForm)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_training_fields",
		Description: "Update title, description or google_link on a training form. Omitted fields are left unchanged",
	}, t.setTrainingFields)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_project_fields",
		Description: "Update title, category or description on a project form. Omitted fields are left unchanged",
	}, t.setProjectFields)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stage_files",
		Description: "Stage images (training form) or a video (project form) for upload on the next submit",
	}, t.stageFiles)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "remove_preview",
		Description: "Unstage the file shown at a preview index. Stored media cannot be removed",
	}, t.removePreview)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_new_media",
		Description: "Unstage every newly added file and restore the stored media previews",
	}, t.clearNew)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "describe_form",
		Description: "Show the fields, errors, previews and pending notices of a form",
	}, t.describeForm)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_form",
		Description: "Validate and send a form. Edit forms close after a successful save; create forms reset",
	}, t.submitForm)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_form",
		Description: "Discard a form and release its staged files",
	}, t.closeForm)

	// Deletes
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_training",
		Description: "Delete a training session. Requires confirm=true after asking the user",
	}, t.deleteTraining)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project. Requires confirm=true after asking the user",
	}, t.deleteProject)
}

func (t *tools) listTrainings(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListTrainingsParams) (*sdkmcp.CallToolResult, ListTrainingsResult, error) {
	sessions, err := t.admin.ListTrainings(ctx, in.Query)
	if err != nil {
		return nil, ListTrainingsResult{}, t.fail(ctx, "list_trainings", err)
	}
	if sessions == nil {
		sessions = []training.Session{}
	}
	return nil, ListTrainingsResult{Trainings: sessions}, nil
}

func (t *tools) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	category := project.Category(in.Category)
	if category != "" && !category.Valid() {
		return nil, ListProjectsResult{}, invalidCategory(in.Category)
	}
	projects, err := t.admin.ListProjects(ctx, project.ListOptions{Query: in.Query, Category: category})
	if err != nil {
		return nil, ListProjectsResult{}, t.fail(ctx, "list_projects", err)
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return nil, ListProjectsResult{Projects: projects}, nil
}

func (t *tools) openTrainingForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in OpenFormParams) (*sdkmcp.CallToolResult, *admin.FormView, error) {
	var view *admin.FormView
	var err error
	if in.FormID != "" {
		view, err = t.admin.SwitchTrainingForm(ctx, in.FormID, in.ID)
	} else {
		view, err = t.admin.OpenTrainingForm(ctx, in.ID)
	}
	if err != nil {
		return nil, nil, t.fail(ctx, "open_training_form", err)
	}
	return nil, view, nil
}

func (t *tools) openProjectForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in OpenFormParams) (*sdkmcp.CallToolResult, *admin.FormView, error) {
	var view *admin.FormView
	var err error
	if in.FormID != "" {
		view, err = t.admin.SwitchProjectForm(ctx, in.FormID, in.ID)
	} else {
		view, err = t.admin.OpenProjectForm(ctx, in.ID)
	}
	if err != nil {
		return nil, nil, t.fail(ctx, "open_project_form", err)
	}
	return nil, view, nil
}

func (t *tools) setTrainingFields(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetTrainingFieldsParams) (*sdkmcp.CallToolResult, *admin.FormView, error) {
	view, err := t.admin.SetTrainingFields(in.FormID, form.TrainingPatch{
		Title:       in.Title,
		Description: in.Description,
		GoogleLink:  in.GoogleLink,
	})
	if err != nil {
		return nil, nil, t.fail(ctx, "set_training_fields", err)
	}
	return nil, view, nil
}

func (t *tools) setProjectFields(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetProjectFieldsParams) (*sdkmcp.CallToolResult, *admin.FormView, error) {
	patch := form.ProjectPatch{Title: in.Title, Description: in.Description}
	if in.Category != nil {
		// Unknown categories are accepted here and reported by validation on submit.
		category := project.Category(*in.Category)
		patch.Category = &category
	}
	view, err := t.admin.SetProjectFields(in.FormID, patch)
	if err != nil {
		return nil, nil, t.fail(ctx, "set_project_fields", err)
	}
	return nil, view, nil
}

func (t *tools) stageFiles(ctx context.Context, _ *sdkmcp.CallToolRequest, in StageFilesParams) (*sdkmcp.CallToolResult, *admin.FormView, error) {
	view, err := t.admin.StageFiles(in.FormID, in.Files)
	if err != nil {
		return nil, nil, t.fail(ctx, "stage_files", err)
	}
	return nil, view, nil
}

func (t *tools) removePreview(ctx context.Context, _ *sdkmcp.CallToolRequest, in RemovePreviewParams) (*sdkmcp.CallToolResult, *admin.FormView, error) {
	view, err := t.admin.RemovePreview(in.FormID, in.Index)
	if err != nil {
		return nil, nil, t.fail(ctx, "remove_preview", err)
	}
	return nil, view, nil
}

func (t *tools) clearNew(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, *admin.FormView, error) {
	view, err := t.admin.ClearNew(in.FormID)
	if err != nil {
		return nil, nil, t.fail(ctx, "clear_new_media", err)
	}
	return nil, view, nil
}

func (t *tools) describeForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, *admin.FormView, error) {
	view, err := t.admin.DescribeForm(in.FormID)
	if err != nil {
		return nil, nil, t.fail(ctx, "describe_form", err)
	}
	return nil, view, nil
}

func (t *tools) submitForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, *admin.SubmitResult, error) {
	res, err := t.admin.SubmitForm(ctx, in.FormID)
	if err != nil {
		return nil, nil, t.fail(ctx, "submit_form", err)
	}
	t.logger.Info("form submitted", "form_id", in.FormID, "outcome", res.Outcome, "session_id", getSessionID(ctx))
	return nil, res, nil
}

func (t *tools) closeForm(ctx context.Context, _ *sdkmcp.CallToolRequest, in FormParams) (*sdkmcp.CallToolResult, CloseFormResult, error) {
	if err := t.admin.CloseForm(in.FormID); err != nil {
		return nil, CloseFormResult{}, t.fail(ctx, "close_form", err)
	}
	return nil, CloseFormResult{FormID: in.FormID, Closed: true}, nil
}

func (t *tools) deleteTraining(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteParams) (*sdkmcp.CallToolResult, *admin.DeleteResult, error) {
	res, err := t.admin.DeleteTraining(ctx, in.ID, in.Confirm)
	if err != nil {
		return nil, nil, t.fail(ctx, "delete_training", err)
	}
	return nil, res, nil
}

func (t *tools) deleteProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteParams) (*sdkmcp.CallToolResult, *admin.DeleteResult, error) {
	res, err := t.admin.DeleteProject(ctx, in.ID, in.Confirm)
	if err != nil {
		return nil, nil, t.fail(ctx, "delete_project", err)
	}
	return nil, res, nil
}

// fail maps err for the client and logs it. Notices raised by the failed
// call travel with the error.
func (t *tools) fail(ctx context.Context, tool string, err error) error {
	apiErr := MapError(err)
	if notices := admin.Notices(err); len(notices) > 0 {
		apiErr.Notices = notices
	}
	t.logger.Warn("tool failed", "tool", tool, "code", apiErr.Code, "session_id", getSessionID(ctx), "error", err)
	return apiErr
}

func invalidCategory(category string) *APIError {
	return &APIError{
		Code:         "INVALID_CATEGORY",
		Message:      fmt.Sprintf("unknown category %q", category),
		Details:      project.Categories,
		RecoveryHint: "Use one of the listed categories",
	}
}
