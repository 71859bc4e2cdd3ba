package testserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
)

// Request is one call recorded by the fake backend.
type Request struct {
	Method string
	Path   string
	Fields map[string][]string
	// Files maps a multipart field to its file names.
	Files map[string][]string
}

// Backend is an in-memory stand-in for the content REST API. Titles are
// unique per collection, as on the real service.
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	nextID    int
	trainings []training.Session
	projects  []project.Project
	requests  []Request
	failNext  *failure
}

type failure struct {
	status  int
	message string
}

// NewBackend starts the fake backend and stops it with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Get("/trainings", b.listTrainings)
	r.Post("/trainings", b.saveTraining)
	r.Put("/trainings/{id}", b.saveTraining)
	r.Delete("/trainings/{id}", b.deleteTraining)
	r.Get("/projects", b.listProjects)
	r.Post("/projects", b.saveProject)
	r.Put("/projects/{id}", b.saveProject)
	r.Delete("/projects/{id}", b.deleteProject)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the API base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// SeedTraining stores a session and returns it with its assigned ID.
func (b *Backend) SeedTraining(s training.Session) training.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.ID = b.newID("s")
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	b.trainings = append(b.trainings, s)
	return s
}

// SeedProject stores a project and returns it with its assigned ID.
func (b *Backend) SeedProject(p project.Project) project.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = b.newID("p")
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	b.projects = append(b.projects, p)
	return p
}

// FailNext makes the next write request fail with status and message.
func (b *Backend) FailNext(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = &failure{status: status, message: message}
}

// Requests returns every recorded request.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

// LastWrite returns the most recent non-GET request.
func (b *Backend) LastWrite() (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if b.requests[i].Method != http.MethodGet {
			return b.requests[i], true
		}
	}
	return Request{}, false
}

// Trainings returns the stored sessions.
func (b *Backend) Trainings() []training.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.trainings)
}

// Projects returns the stored projects.
func (b *Backend) Projects() []project.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.projects)
}

func (b *Backend) newID(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s%d", prefix, b.nextID)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{Method: r.Method, Path: r.URL.Path}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(64 << 20); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed upload"})
				return
			}
			req.Fields = r.MultipartForm.Value
			req.Files = make(map[string][]string)
			for field, headers := range r.MultipartForm.File {
				for _, h := range headers {
					req.Files[field] = append(req.Files[field], h.Filename)
				}
			}
		}

		b.mu.Lock()
		b.requests = append(b.requests, req)
		fail := b.failNext
		if r.Method != http.MethodGet {
			b.failNext = nil
		}
		b.mu.Unlock()

		if fail != nil && r.Method != http.MethodGet {
			writeJSON(w, fail.status, map[string]string{"message": fail.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) listTrainings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": b.Trainings()})
}

func (b *Backend) listProjects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": b.Projects()})
}

func (b *Backend) saveTraining(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	title := r.FormValue("title")

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := slices.IndexFunc(b.trainings, func(s training.Session) bool { return s.ID == id })
	if id != "" && idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Training session not found"})
		return
	}
	if slices.ContainsFunc(b.trainings, func(s training.Session) bool { return s.Title == title && s.ID != id }) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title already exists"})
		return
	}

	var sess training.Session
	if idx >= 0 {
		sess = b.trainings[idx]
	} else {
		sess = training.Session{ID: b.newID("s"), CreatedAt: time.Now().UTC()}
	}
	sess.Title = title
	sess.Description = r.FormValue("description")
	sess.GoogleLink = r.FormValue("google_link")
	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File["images"]; len(headers) > 0 {
			sess.Images = sess.Images[:0:0]
			for i, h := range headers {
				storageID := fmt.Sprintf("hiyaw/trainings/%s-%d", sess.ID, i)
				sess.Images = append(sess.Images, training.Image{URL: "https://cdn.test/" + storageID + "/" + h.Filename, StorageID: storageID})
			}
		}
	}
	sess.UpdatedAt = time.Now().UTC()

	status := http.StatusOK
	if idx >= 0 {
		b.trainings[idx] = sess
	} else {
		b.trainings = append(b.trainings, sess)
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"data": sess})
}

func (b *Backend) saveProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	title := r.FormValue("title")

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := slices.IndexFunc(b.projects, func(p project.Project) bool { return p.ID == id })
	if id != "" && idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
		return
	}
	if slices.ContainsFunc(b.projects, func(p project.Project) bool { return p.Title == title && p.ID != id }) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title already exists"})
		return
	}

	var proj project.Project
	if idx >= 0 {
		proj = b.projects[idx]
	} else {
		proj = project.Project{ID: b.newID("p"), CreatedAt: time.Now().UTC()}
	}
	proj.Title = title
	proj.Category = project.Category(r.FormValue("category"))
	proj.Description = r.FormValue("description")
	if r.MultipartForm != nil {
		if headers := r.MultipartForm.File["videoFile"]; len(headers) > 0 {
			storageID := "hiyaw/projects/" + proj.ID
			proj.Video = &project.Video{URL: "https://cdn.test/" + storageID + "/" + headers[0].Filename, StorageID: storageID}
		}
	}
	proj.UpdatedAt = time.Now().UTC()

	status := http.StatusOK
	if idx >= 0 {
		b.projects[idx] = proj
	} else {
		b.projects = append(b.projects, proj)
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"data": proj})
}

func (b *Backend) deleteTraining(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.trainings)
	b.trainings = slices.DeleteFunc(b.trainings, func(s training.Session) bool { return s.ID == id })
	if len(b.trainings) == n {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Training session not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (b *Backend) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.projects)
	b.projects = slices.DeleteFunc(b.projects, func(p project.Project) bool { return p.ID == id })
	if len(b.projects) == n {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
