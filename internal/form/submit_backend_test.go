package form_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/hiyaw/hiyaw-admin/internal/form"
	"github.com/hiyaw/hiyaw-admin/internal/notify"
	"github.com/hiyaw/hiyaw-admin/internal/repository"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	fields map[string][]string
	files  map[string]int
}

func newBackend(t *testing.T, status int, body string, got *captured) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		got.method = r.Method
		got.path = r.URL.Path
		got.fields = r.MultipartForm.Value
		got.files = map[string]int{}
		for name, headers := range r.MultipartForm.File {
			got.files[name] = len(headers)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	return client
}

func TestTrainingForm_CreateEndToEnd(t *testing.T) {
	var got captured
	client := newBackend(t, http.StatusCreated, `{"data":{"_id":"s9","title":"Intro"}}`, &got)
	svc := training.NewService(repository.NewTrainingRepository(client), nil)

	h := newHarness()
	var saved *training.Session
	f := form.NewTrainingForm(form.New[training.Session](), svc, h.deps, func(s *training.Session) { saved = s })

	require.NoError(t, f.SetFields(form.TrainingPatch{
		Title:       strPtr("Intro"),
		Description: strPtr("Basics of storyboarding"),
		GoogleLink:  strPtr("https://docs.google.com/x"),
	}))
	require.NoError(t, f.AddFiles(pngFile("a.png")))

	rec, err := f.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, got.method)
	require.Equal(t, "/trainings", got.path)
	require.Equal(t, []string{"Intro"}, got.fields["title"])
	require.Equal(t, []string{"Basics of storyboarding"}, got.fields["description"])
	require.Equal(t, []string{"https://docs.google.com/x"}, got.fields["google_link"])
	require.Equal(t, 1, got.files["images"])

	require.Equal(t, "s9", rec.ID)
	require.Same(t, rec, saved)
	require.Equal(t, form.TrainingFields{}, f.Fields())
	require.Zero(t, f.StagedCount())
	require.Empty(t, f.Previews())
	require.Zero(t, h.registry.Stats().Live)

	notices := h.feed.Drain()
	require.Len(t, notices, 1)
	require.Equal(t, notify.Notice{Level: notify.LevelSuccess, Message: "Training session posted successfully!", Time: notices[0].Time}, notices[0])
}

func TestProjectForm_EditWithoutVideoEndToEnd(t *testing.T) {
	var got captured
	client := newBackend(t, http.StatusOK, `{"_id":"p1","title":"New","category":"tutorial"}`, &got)
	svc := project.NewService(repository.NewProjectRepository(client), nil)

	h := newHarness()
	called := 0
	rec := project.Project{ID: "p1", Title: "Old", Category: project.CategoryShowcase, Video: &project.Video{URL: "https://cdn/v.mp4"}}
	f := form.NewProjectForm(form.Editing(rec), svc, h.deps, func(*project.Project) { called++ })

	tutorial := project.CategoryTutorial
	require.NoError(t, f.SetFields(form.ProjectPatch{Title: strPtr("New"), Category: &tutorial}))

	_, err := f.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, http.MethodPut, got.method)
	require.Equal(t, "/projects/p1", got.path)
	require.Equal(t, []string{"New"}, got.fields["title"])
	require.Equal(t, []string{"tutorial"}, got.fields["category"])
	require.NotContains(t, got.files, "videoFile")

	require.Equal(t, 1, called)
	require.Zero(t, f.StagedCount())
	require.Equal(t, "New", f.Fields().Title)
	require.Equal(t, project.CategoryTutorial, f.Fields().Category)
	require.Equal(t, "Project updated successfully!", h.feed.Drain()[0].Message)
}

func TestTrainingForm_FailedCreateEndToEnd(t *testing.T) {
	var got captured
	client := newBackend(t, http.StatusBadRequest, `{"message":"Title already exists"}`, &got)
	svc := training.NewService(repository.NewTrainingRepository(client), nil)

	h := newHarness()
	called := false
	f := form.NewTrainingForm(form.New[training.Session](), svc, h.deps, func(*training.Session) { called = true })

	fields := form.TrainingFields{Title: "Intro", Description: "Basics of storyboarding", GoogleLink: "https://docs.google.com/x"}
	require.NoError(t, f.SetFields(form.TrainingPatch{
		Title:       &fields.Title,
		Description: &fields.Description,
		GoogleLink:  &fields.GoogleLink,
	}))
	require.NoError(t, f.AddFiles(pngFile("a.png")))

	_, err := f.Submit(context.Background())
	require.Error(t, err)

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	require.False(t, called)
	require.Equal(t, fields, f.Fields())
	require.Equal(t, 1, f.StagedCount())
	require.Equal(t, form.StateIdle, f.State())

	notices := h.feed.Drain()
	require.Len(t, notices, 1)
	require.Equal(t, notify.LevelError, notices[0].Level)
	require.Equal(t, "Title already exists", notices[0].Message)

	f.Close()
	require.Zero(t, h.registry.Stats().Live)
}
