package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/hiyaw/hiyaw-admin/internal/form"
	"github.com/hiyaw/hiyaw-admin/internal/media"
	"github.com/hiyaw/hiyaw-admin/internal/notify"
	"github.com/hiyaw/hiyaw-admin/internal/validation"
)

const (
	fetchTrainingsFailed = "Failed to fetch training sessions"
	fetchProjectsFailed  = "Failed to fetch projects"
)

// Config wires the admin service.
type Config struct {
	Trainings TrainingService
	Projects  ProjectService
	Validator *validation.Validator
	Locators  media.Locators
	// Timeout bounds a single form submission. Zero means no limit.
	Timeout time.Duration
	// MediaRoot confines file sources given as paths. Empty refuses them.
	MediaRoot string
	// FeedCapacity bounds each notice feed.
	FeedCapacity int
	Logger       *slog.Logger
}

// controller is the part of a form that does not depend on the record type.
type controller interface {
	State() form.State
	Errors() map[string]string
	Previews() []media.Preview
	StagedCount() int
	AddFiles(files ...media.File) error
	RemovePreview(index int) error
	ClearNew() error
	Close()
}

type entry struct {
	id       string
	kind     Kind
	ctl      controller
	training *form.TrainingForm
	project  *form.ProjectForm
	feed     *notify.Feed
}

// Service keeps the open forms and plays the list-view role for both
// collections.
type Service struct {
	mu        sync.Mutex
	forms     map[string]*entry
	trainings TrainingService
	projects  ProjectService
	validator *validation.Validator
	locators  media.Locators
	timeout   time.Duration
	mediaRoot string
	capacity  int
	logger    *slog.Logger
}

// NewService creates a new admin service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	validator := cfg.Validator
	if validator == nil {
		validator = validation.New()
	}
	return &Service{
		forms:     make(map[string]*entry),
		trainings: cfg.Trainings,
		projects:  cfg.Projects,
		validator: validator,
		locators:  cfg.Locators,
		timeout:   cfg.Timeout,
		mediaRoot: cfg.MediaRoot,
		capacity:  cfg.FeedCapacity,
		logger:    logger,
	}
}

// ListTrainings fetches the training sessions matching query. A failure
// carries its notice; see Notices.
func (s *Service) ListTrainings(ctx context.Context, query string) ([]training.Session, error) {
	sessions, err := s.trainings.List(ctx, query)
	if err != nil {
		return nil, s.withNotice(err, backend.Message(err, fetchTrainingsFailed))
	}
	return sessions, nil
}

// ListProjects fetches the projects matching opts. A failure carries its
// notice; see Notices.
func (s *Service) ListProjects(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	projects, err := s.projects.List(ctx, opts)
	if err != nil {
		return nil, s.withNotice(err, backend.Message(err, fetchProjectsFailed))
	}
	return projects, nil
}

// OpenTrainingForm opens a training form. An empty id opens create mode;
// otherwise the session is loaded and edited.
func (s *Service) OpenTrainingForm(ctx context.Context, id string) (*FormView, error) {
	mode, err := s.trainingMode(ctx, id)
	if err != nil {
		return nil, err
	}

	e := s.newEntry(KindTraining)
	e.training = form.NewTrainingForm(mode, s.trainings, s.formDeps(e.feed), func(sess *training.Session) {
		s.logger.Debug("training form saved", "form_id", e.id, "id", recordID(sess))
	})
	e.ctl = e.training
	s.register(e)
	return s.view(e, false), nil
}

// OpenProjectForm opens a project form. An empty id opens create mode;
// otherwise the project is loaded and edited.
func (s *Service) OpenProjectForm(ctx context.Context, id string) (*FormView, error) {
	mode, err := s.projectMode(ctx, id)
	if err != nil {
		return nil, err
	}

	e := s.newEntry(KindProject)
	e.project = form.NewProjectForm(mode, s.projects, s.formDeps(e.feed), func(p *project.Project) {
		s.logger.Debug("project form saved", "form_id", e.id, "id", projectID(p))
	})
	e.ctl = e.project
	s.register(e)
	return s.view(e, false), nil
}

// SwitchTrainingForm points an open training form at another session, or
// at a blank create form when id is empty. Staged files of the previous
// record are released.
func (s *Service) SwitchTrainingForm(ctx context.Context, formID, id string) (*FormView, error) {
	e, err := s.lookup(formID, KindTraining)
	if err != nil {
		return nil, err
	}
	mode, err := s.trainingMode(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.training.Reinitialize(mode); err != nil {
		return nil, err
	}
	s.logger.Debug("form switched", "form_id", formID, "kind", e.kind, "id", id)
	return s.view(e, false), nil
}

// SwitchProjectForm points an open project form at another project, or at
// a blank create form when id is empty.
func (s *Service) SwitchProjectForm(ctx context.Context, formID, id string) (*FormView, error) {
	e, err := s.lookup(formID, KindProject)
	if err != nil {
		return nil, err
	}
	mode, err := s.projectMode(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.project.Reinitialize(mode); err != nil {
		return nil, err
	}
	s.logger.Debug("form switched", "form_id", formID, "kind", e.kind, "id", id)
	return s.view(e, false), nil
}

func (s *Service) trainingMode(ctx context.Context, id string) (form.Mode[training.Session], error) {
	if strings.TrimSpace(id) == "" {
		return form.New[training.Session](), nil
	}
	sess, err := s.trainings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, training.ErrSessionNotFound) {
			return form.Mode[training.Session]{}, fmt.Errorf("%w: training session %s", ErrRecordNotFound, id)
		}
		return form.Mode[training.Session]{}, s.withNotice(fmt.Errorf("loading training session: %w", err), backend.Message(err, fetchTrainingsFailed))
	}
	return form.Editing(*sess), nil
}

func (s *Service) projectMode(ctx context.Context, id string) (form.Mode[project.Project], error) {
	if strings.TrimSpace(id) == "" {
		return form.New[project.Project](), nil
	}
	proj, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return form.Mode[project.Project]{}, fmt.Errorf("%w: project %s", ErrRecordNotFound, id)
		}
		return form.Mode[project.Project]{}, s.withNotice(fmt.Errorf("loading project: %w", err), backend.Message(err, fetchProjectsFailed))
	}
	return form.Editing(*proj), nil
}

// SetTrainingFields updates the text fields of a training form.
func (s *Service) SetTrainingFields(formID string, patch form.TrainingPatch) (*FormView, error) {
	e, err := s.lookup(formID, KindTraining)
	if err != nil {
		return nil, err
	}
	if err := e.training.SetFields(patch); err != nil {
		return nil, err
	}
	return s.view(e, false), nil
}

// SetProjectFields updates the text fields of a project form.
func (s *Service) SetProjectFields(formID string, patch form.ProjectPatch) (*FormView, error) {
	e, err := s.lookup(formID, KindProject)
	if err != nil {
		return nil, err
	}
	if err := e.project.SetFields(patch); err != nil {
		return nil, err
	}
	return s.view(e, false), nil
}

// StageFiles loads sources and stages them on the form.
func (s *Service) StageFiles(formID string, sources []FileSource) (*FormView, error) {
	if len(sources) == 0 {
		return nil, ErrNoFiles
	}
	e, err := s.lookup(formID, "")
	if err != nil {
		return nil, err
	}

	files := make([]media.File, 0, len(sources))
	for i, src := range sources {
		f, err := s.loadFile(src)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", i, err)
		}
		files = append(files, f)
	}
	if err := e.ctl.AddFiles(files...); err != nil {
		return nil, err
	}
	s.logger.Debug("files staged", "form_id", formID, "count", len(files))
	return s.view(e, false), nil
}

// RemovePreview unstages the file behind preview index.
func (s *Service) RemovePreview(formID string, index int) (*FormView, error) {
	e, err := s.lookup(formID, "")
	if err != nil {
		return nil, err
	}
	if err := e.ctl.RemovePreview(index); err != nil {
		return nil, err
	}
	return s.view(e, false), nil
}

// ClearNew drops every staged file of the form.
func (s *Service) ClearNew(formID string) (*FormView, error) {
	e, err := s.lookup(formID, "")
	if err != nil {
		return nil, err
	}
	if err := e.ctl.ClearNew(); err != nil {
		return nil, err
	}
	return s.view(e, false), nil
}

// DescribeForm returns the form snapshot and drains its notices.
func (s *Service) DescribeForm(formID string) (*FormView, error) {
	e, err := s.lookup(formID, "")
	if err != nil {
		return nil, err
	}
	return s.view(e, true), nil
}

// SubmitForm validates and sends the form. Validation and backend failures
// are reported in the result; the error is reserved for forms that cannot
// be submitted at all.
func (s *Service) SubmitForm(ctx context.Context, formID string) (*SubmitResult, error) {
	e, err := s.lookup(formID, "")
	if err != nil {
		return nil, err
	}

	res := &SubmitResult{}
	var editing bool
	switch e.kind {
	case KindTraining:
		editing = e.training.Mode().IsEditing()
		res.Training, err = e.training.Submit(ctx)
	case KindProject:
		editing = e.project.Mode().IsEditing()
		res.Project, err = e.project.Submit(ctx)
	}

	var verr *validation.ValidationError
	switch {
	case err == nil:
		res.Outcome = OutcomeSaved
	case errors.As(err, &verr):
		res.Outcome = OutcomeInvalid
	case errors.Is(err, form.ErrSubmitInFlight), errors.Is(err, form.ErrClosed):
		return nil, err
	default:
		res.Outcome = OutcomeFailed
	}

	if res.Outcome == OutcomeSaved {
		s.refetch(ctx, e, res)
		if editing {
			s.remove(e.id)
			e.ctl.Close()
			res.Closed = true
		}
	}

	res.Notices = e.feed.Drain()
	if !res.Closed {
		res.Form = s.view(e, false)
	}
	return res, nil
}

// CloseForm tears the form down and forgets it.
func (s *Service) CloseForm(formID string) error {
	e, err := s.lookup(formID, "")
	if err != nil {
		return err
	}
	s.remove(formID)
	e.ctl.Close()
	s.logger.Debug("form closed", "form_id", formID, "kind", e.kind)
	return nil
}

// DeleteTraining deletes a session after confirmation and returns the
// refetched collection.
func (s *Service) DeleteTraining(ctx context.Context, id string, confirm bool) (*DeleteResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, s.withNotice(ErrMissingID, "Invalid session ID for deletion.")
	}
	if !confirm {
		return nil, ErrConfirmationRequired
	}
	if err := s.trainings.Delete(ctx, id); err != nil {
		return nil, s.withNotice(err, backend.Message(err, "Failed to delete session"))
	}

	feed := notify.NewFeed(s.capacity, s.logger)
	feed.Success("Training session deleted successfully!")
	res := &DeleteResult{Deleted: true}
	if sessions, err := s.trainings.List(ctx, ""); err != nil {
		feed.Error(backend.Message(err, fetchTrainingsFailed))
	} else {
		res.Trainings = sessions
	}
	res.Notices = feed.Drain()
	return res, nil
}

// DeleteProject deletes a project after confirmation and returns the
// refetched collection.
func (s *Service) DeleteProject(ctx context.Context, id string, confirm bool) (*DeleteResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, s.withNotice(ErrMissingID, "Invalid project ID for deletion.")
	}
	if !confirm {
		return nil, ErrConfirmationRequired
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return nil, s.withNotice(err, backend.Message(err, "Failed to delete project"))
	}

	feed := notify.NewFeed(s.capacity, s.logger)
	feed.Success("Project deleted successfully!")
	res := &DeleteResult{Deleted: true}
	if projects, err := s.projects.List(ctx, project.ListOptions{}); err != nil {
		feed.Error(backend.Message(err, fetchProjectsFailed))
	} else {
		res.Projects = projects
	}
	res.Notices = feed.Drain()
	return res, nil
}

// OpenForms returns the number of open forms.
func (s *Service) OpenForms() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

// Close tears down every open form.
func (s *Service) Close() {
	s.mu.Lock()
	forms := s.forms
	s.forms = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range forms {
		e.ctl.Close()
	}
	if len(forms) > 0 {
		s.logger.Info("closed open forms", "count", len(forms))
	}
}

func (s *Service) newEntry(kind Kind) *entry {
	return &entry{
		id:   uuid.NewString(),
		kind: kind,
		feed: notify.NewFeed(s.capacity, s.logger),
	}
}

func (s *Service) formDeps(feed *notify.Feed) form.Deps {
	return form.Deps{
		Validator: s.validator,
		Locators:  s.locators,
		Notifier:  feed,
		Timeout:   s.timeout,
		Logger:    s.logger,
	}
}

func (s *Service) register(e *entry) {
	s.mu.Lock()
	s.forms[e.id] = e
	s.mu.Unlock()
	s.logger.Debug("form opened", "form_id", e.id, "kind", e.kind)
}

func (s *Service) remove(formID string) {
	s.mu.Lock()
	delete(s.forms, formID)
	s.mu.Unlock()
}

func (s *Service) lookup(formID string, kind Kind) (*entry, error) {
	s.mu.Lock()
	e, ok := s.forms[formID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, formID)
	}
	if kind != "" && e.kind != kind {
		return nil, fmt.Errorf("%w: form %s edits a %s", ErrWrongFormKind, formID, e.kind)
	}
	return e, nil
}

// refetch reloads the form's collection after a save. A failed refetch only
// raises a notice on the form.
func (s *Service) refetch(ctx context.Context, e *entry, res *SubmitResult) {
	switch e.kind {
	case KindTraining:
		sessions, err := s.trainings.List(ctx, "")
		if err != nil {
			e.feed.Error(backend.Message(err, fetchTrainingsFailed))
			return
		}
		res.Trainings = sessions
	case KindProject:
		projects, err := s.projects.List(ctx, project.ListOptions{})
		if err != nil {
			e.feed.Error(backend.Message(err, fetchProjectsFailed))
			return
		}
		res.Projects = projects
	}
}

func (s *Service) view(e *entry, drain bool) *FormView {
	v := &FormView{
		ID:          e.id,
		Kind:        e.kind,
		Mode:        ModeCreate,
		State:       e.ctl.State(),
		Errors:      e.ctl.Errors(),
		Previews:    e.ctl.Previews(),
		StagedCount: e.ctl.StagedCount(),
	}
	switch e.kind {
	case KindTraining:
		v.Fields = e.training.Fields()
		if rec, ok := e.training.Mode().Existing(); ok {
			v.Mode = ModeEdit
			v.RecordID = rec.ID
		}
	case KindProject:
		v.Fields = e.project.Fields()
		if rec, ok := e.project.Mode().Existing(); ok {
			v.Mode = ModeEdit
			v.RecordID = rec.ID
		}
	}
	if drain {
		v.Notices = e.feed.Drain()
	}
	return v
}

func (s *Service) loadFile(src FileSource) (media.File, error) {
	switch {
	case src.Path != "":
		f, err := media.ReadFileIn(s.mediaRoot, src.Path)
		if err != nil {
			if errors.Is(err, media.ErrNoMediaRoot) || errors.Is(err, media.ErrOutsideRoot) {
				return media.File{}, fmt.Errorf("%w: %w", ErrInvalidFileSource, err)
			}
			return media.File{}, err
		}
		if src.Name != "" {
			f.Name = src.Name
		}
		return f, nil
	case src.ContentBase64 != "":
		if src.Name == "" {
			return media.File{}, fmt.Errorf("%w: name is required with content", ErrInvalidFileSource)
		}
		return media.DecodeFile(src.Name, src.ContentType, src.ContentBase64)
	default:
		return media.File{}, ErrInvalidFileSource
	}
}

// withNotice logs msg as a failure notice and attaches it to err, so the
// caller that made the request is the one that sees it.
func (s *Service) withNotice(err error, msg string) error {
	feed := notify.NewFeed(s.capacity, s.logger)
	feed.Error(msg)
	return &NoticeError{Err: err, Notices: feed.Drain()}
}

func recordID(sess *training.Session) string {
	if sess == nil {
		return ""
	}
	return sess.ID
}

func projectID(p *project.Project) string {
	if p == nil {
		return ""
	}
	return p.ID
}
