package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hiyaw/hiyaw-admin/internal/admin"
	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/hiyaw/hiyaw-admin/internal/form"
	"github.com/hiyaw/hiyaw-admin/internal/media"
	"github.com/hiyaw/hiyaw-admin/internal/preview"
	"github.com/hiyaw/hiyaw-admin/internal/repository/mocks"
	"github.com/hiyaw/hiyaw-admin/internal/validation"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type testEnv struct {
	session   *sdkmcp.ClientSession
	trainings *mocks.TrainingRepository
	projects  *mocks.ProjectRepository
	registry  *preview.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	trainings := &mocks.TrainingRepository{}
	projects := &mocks.ProjectRepository{}
	registry := preview.NewRegistry("http://localhost:8080", 0, nil)
	svc := admin.NewService(admin.Config{
		Trainings: training.NewService(trainings, nil),
		Projects:  project.NewService(projects, nil),
		Locators:  registry,
	})
	t.Cleanup(svc.Close)

	server := NewServer(Config{Admin: svc})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return &testEnv{session: session, trainings: trainings, projects: projects, registry: registry}
}

func (e *testEnv) call(t *testing.T, name string, args any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := e.session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func decodeResult[T any](t *testing.T, res *sdkmcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	return out
}

func decodeError(t *testing.T, res *sdkmcp.CallToolResult) APIError {
	t.Helper()
	require.True(t, res.IsError, resultText(t, res))
	var out APIError
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	return out
}

func TestServer_ListsToolsAndDocs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tools, err := env.session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"list_trainings", "list_projects",
		"open_training_form", "open_project_form",
		"set_training_fields", "set_project_fields",
		"stage_files", "remove_preview", "clear_new_media",
		"describe_form", "submit_form", "close_form",
		"delete_training", "delete_project",
	}, names)

	resources, err := env.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, len(docResources))

	doc, err := env.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "hiyaw://docs/validation"})
	require.NoError(t, err)
	require.Contains(t, doc.Contents[0].Text, "short-film")
}

func TestServer_ListTrainings(t *testing.T) {
	env := newTestEnv(t)
	env.trainings.On("List", mock.Anything).Return([]training.Session{
		{ID: "s1", Title: "Storyboarding", Description: "Panels and pacing"},
		{ID: "s2", Title: "Lighting", Description: "Three point setups"},
	}, nil)

	out := decodeResult[ListTrainingsResult](t, env.call(t, "list_trainings", map[string]any{"query": "story"}))
	require.Len(t, out.Trainings, 1)
	require.Equal(t, "s1", out.Trainings[0].ID)
}

func TestServer_ListFailureCarriesNotice(t *testing.T) {
	env := newTestEnv(t)
	env.projects.On("List", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	apiErr := decodeError(t, env.call(t, "list_projects", map[string]any{}))
	require.Equal(t, "INTERNAL", apiErr.Code)
	require.Len(t, apiErr.Notices, 1)
	require.Equal(t, "Failed to fetch projects", apiErr.Notices[0].Message)
}

func TestServer_ListProjectsRejectsUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	apiErr := decodeError(t, env.call(t, "list_projects", map[string]any{"category": "comedy"}))
	require.Equal(t, "INVALID_CATEGORY", apiErr.Code)
	env.projects.AssertNotCalled(t, "List", mock.Anything)
}

func TestServer_TrainingFormFlow(t *testing.T) {
	env := newTestEnv(t)
	created := &training.Session{ID: "s9", Title: "Intro"}
	env.trainings.On("Save", mock.Anything, "", mock.MatchedBy(func(p backend.Payload) bool {
		link, _ := p.Value("google_link")
		return link == "https://docs.google.com/x" && p.FileCount("images") == 1
	})).Return(created, nil).Once()
	env.trainings.On("List", mock.Anything).Return([]training.Session{*created}, nil).Once()

	view := decodeResult[admin.FormView](t, env.call(t, "open_training_form", map[string]any{}))
	require.Equal(t, admin.ModeCreate, view.Mode)

	invalid := decodeResult[admin.SubmitResult](t, env.call(t, "submit_form", map[string]any{"form_id": view.ID}))
	require.Equal(t, admin.OutcomeInvalid, invalid.Outcome)
	require.Equal(t, "At least one image is required.", invalid.Form.Errors["images"])

	decodeResult[admin.FormView](t, env.call(t, "set_training_fields", map[string]any{
		"form_id":     view.ID,
		"title":       "Intro",
		"description": "Basics of storyboarding",
		"google_link": "https://docs.google.com/x",
	}))
	staged := decodeResult[admin.FormView](t, env.call(t, "stage_files", map[string]any{
		"form_id": view.ID,
		"files": []map[string]any{{
			"name":           "still.png",
			"content_base64": base64.StdEncoding.EncodeToString(pngBytes),
		}},
	}))
	require.Equal(t, 1, staged.StagedCount)
	require.True(t, strings.HasPrefix(staged.Previews[0].URL, "http://localhost:8080/previews/"))

	saved := decodeResult[admin.SubmitResult](t, env.call(t, "submit_form", map[string]any{"form_id": view.ID}))
	require.Equal(t, admin.OutcomeSaved, saved.Outcome)
	require.False(t, saved.Closed)
	require.Equal(t, "s9", saved.Training.ID)
	require.Len(t, saved.Trainings, 1)
	require.Equal(t, "Training session posted successfully!", saved.Notices[0].Message)
	require.Zero(t, saved.Form.StagedCount)
	require.Zero(t, env.registry.Stats().Live)

	closed := decodeResult[CloseFormResult](t, env.call(t, "close_form", map[string]any{"form_id": view.ID}))
	require.True(t, closed.Closed)

	apiErr := decodeError(t, env.call(t, "describe_form", map[string]any{"form_id": view.ID}))
	require.Equal(t, "FORM_NOT_FOUND", apiErr.Code)
	env.trainings.AssertExpectations(t)
}

func TestServer_ProjectEditFailureKeepsForm(t *testing.T) {
	env := newTestEnv(t)
	existing := project.Project{ID: "p1", Title: "Old", Category: project.CategoryShowcase}
	env.projects.On("List", mock.Anything).Return([]project.Project{existing}, nil).Once()
	env.projects.On("Save", mock.Anything, "p1", mock.Anything).
		Return(nil, &backend.APIError{StatusCode: 400, Message: "Title already exists"}).Once()

	view := decodeResult[admin.FormView](t, env.call(t, "open_project_form", map[string]any{"id": "p1"}))
	require.Equal(t, admin.ModeEdit, view.Mode)
	require.Equal(t, "p1", view.RecordID)

	decodeResult[admin.FormView](t, env.call(t, "set_project_fields", map[string]any{
		"form_id":  view.ID,
		"title":    "River Song",
		"category": "tutorial",
	}))

	res := decodeResult[admin.SubmitResult](t, env.call(t, "submit_form", map[string]any{"form_id": view.ID}))
	require.Equal(t, admin.OutcomeFailed, res.Outcome)
	require.Equal(t, "Title already exists", res.Notices[0].Message)
	require.NotNil(t, res.Form)

	fields, ok := res.Form.Fields.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "River Song", fields["title"])
	require.Equal(t, "tutorial", fields["category"])
}

func TestServer_RemovePersistedPreview(t *testing.T) {
	env := newTestEnv(t)
	env.projects.On("List", mock.Anything).Return([]project.Project{
		{ID: "p1", Title: "Clip", Category: project.CategoryShortFilm, Video: &project.Video{URL: "https://cdn/v.mp4"}},
	}, nil)

	view := decodeResult[admin.FormView](t, env.call(t, "open_project_form", map[string]any{"id": "p1"}))
	apiErr := decodeError(t, env.call(t, "remove_preview", map[string]any{"form_id": view.ID, "index": 0}))
	require.Equal(t, "PERSISTED_PREVIEW", apiErr.Code)

	apiErr = decodeError(t, env.call(t, "remove_preview", map[string]any{"form_id": view.ID, "index": 3}))
	require.Equal(t, "INDEX_OUT_OF_RANGE", apiErr.Code)
}

func TestServer_DeleteNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)

	apiErr := decodeError(t, env.call(t, "delete_training", map[string]any{}))
	require.Equal(t, "MISSING_ID", apiErr.Code)
	require.Equal(t, "Invalid session ID for deletion.", apiErr.Notices[0].Message)

	apiErr = decodeError(t, env.call(t, "delete_project", map[string]any{"id": "p1"}))
	require.Equal(t, "CONFIRMATION_REQUIRED", apiErr.Code)
	env.projects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	env.projects.On("Delete", mock.Anything, "p1").Return(nil).Once()
	env.projects.On("List", mock.Anything).Return([]project.Project{}, nil).Once()

	res := decodeResult[admin.DeleteResult](t, env.call(t, "delete_project", map[string]any{"id": "p1", "confirm": true}))
	require.True(t, res.Deleted)
	require.Equal(t, "Project deleted successfully!", res.Notices[0].Message)
	env.projects.AssertExpectations(t)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))

	verr := &validation.ValidationError{Errors: map[string]string{"title": "Title must be at least 3 characters."}}
	mapped := MapError(fmt.Errorf("wrapped: %w", verr))
	require.Equal(t, "VALIDATION_FAILED", mapped.Code)
	require.Equal(t, verr.Errors, mapped.Details)

	mapped = MapError(fmt.Errorf("saving: %w", &backend.APIError{StatusCode: 409, Message: "Title already exists"}))
	require.Equal(t, "BACKEND_ERROR", mapped.Code)
	require.Equal(t, "Title already exists", mapped.Message)

	cases := map[error]string{
		admin.ErrFormNotFound:         "FORM_NOT_FOUND",
		admin.ErrWrongFormKind:        "WRONG_FORM_KIND",
		admin.ErrRecordNotFound:       "RECORD_NOT_FOUND",
		admin.ErrConfirmationRequired: "CONFIRMATION_REQUIRED",
		admin.ErrMissingID:            "MISSING_ID",
		admin.ErrNoFiles:              "INVALID_FILES",
		form.ErrSubmitInFlight:        "SUBMIT_IN_FLIGHT",
		form.ErrClosed:                "FORM_CLOSED",
		media.ErrClosed:               "FORM_CLOSED",
		preview.ErrTooManyPreviews:    "TOO_MANY_PREVIEWS",
		errors.New("boom"):            "INTERNAL",
	}
	for err, code := range cases {
		require.Equal(t, code, MapError(fmt.Errorf("op: %w", err)).Code, err.Error())
	}
}

func TestFormatPayloadRedactsContent(t *testing.T) {
	out := formatPayload(map[string]any{"files": []map[string]string{{"name": "a.png", "content_base64": strings.Repeat("A", 5000)}}})
	require.Contains(t, out, `"content_base64":"<redacted>"`)
	require.Less(t, len(out), maxLoggedPayload+64)
}

func TestServer_OpenFormSwitchesExistingForm(t *testing.T) {
	env := newTestEnv(t)
	env.trainings.On("List", mock.Anything).Return([]training.Session{
		{ID: "s1", Title: "Storyboarding", Description: "Panels and pacing", GoogleLink: "https://docs.google.com/a"},
		{ID: "s2", Title: "Lighting", Description: "Three point setups", GoogleLink: "https://docs.google.com/b"},
	}, nil)

	view := decodeResult[admin.FormView](t, env.call(t, "open_training_form", map[string]any{"id": "s1"}))
	switched := decodeResult[admin.FormView](t, env.call(t, "open_training_form", map[string]any{"form_id": view.ID, "id": "s2"}))
	require.Equal(t, view.ID, switched.ID)
	require.Equal(t, "s2", switched.RecordID)
	require.Equal(t, "Lighting", switched.Fields.(map[string]any)["title"])

	apiErr := decodeError(t, env.call(t, "open_project_form", map[string]any{"form_id": view.ID}))
	require.Equal(t, "WRONG_FORM_KIND", apiErr.Code)
}

func TestServer_StageFilesRefusesPaths(t *testing.T) {
	env := newTestEnv(t)
	view := decodeResult[admin.FormView](t, env.call(t, "open_training_form", map[string]any{}))

	apiErr := decodeError(t, env.call(t, "stage_files", map[string]any{
		"form_id": view.ID,
		"files":   []map[string]any{{"path": "/etc/passwd"}},
	}))
	require.Equal(t, "INVALID_FILES", apiErr.Code)
	require.Zero(t, env.registry.Stats().Created)
}
