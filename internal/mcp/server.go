package mcp

import (
	"context"
	"log/slog"

	"github.com/hiyaw/hiyaw-admin/internal/admin"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/hiyaw/hiyaw-admin/internal/form"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AdminService defines the admin operations exposed as tools.
type AdminService interface {
	ListTrainings(ctx context.Context, query string) ([]training.Session, error)
	ListProjects(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
	OpenTrainingForm(ctx context.Context, id string) (*admin.FormView, error)
	OpenProjectForm(ctx context.Context, id string) (*admin.FormView, error)
	SwitchTrainingForm(ctx context.Context, formID, id string) (*admin.FormView, error)
	SwitchProjectForm(ctx context.Context, formID, id string) (*admin.FormView, error)
	SetTrainingFields(formID string, patch form.TrainingPatch) (*admin.FormView, error)
	SetProjectFields(formID string, patch form.ProjectPatch) (*admin.FormView, error)
	StageFiles(formID string, sources []admin.FileSource) (*admin.FormView, error)
	RemovePreview(formID string, index int) (*admin.FormView, error)
	ClearNew(formID string) (*admin.FormView, error)
	DescribeForm(formID string) (*admin.FormView, error)
	SubmitForm(ctx context.Context, formID string) (*admin.SubmitResult, error)
	CloseForm(formID string) error
	DeleteTraining(ctx context.Context, id string, confirm bool) (*admin.DeleteResult, error)
	DeleteProject(ctx context.Context, id string, confirm bool) (*admin.DeleteResult, error)
}

var _ AdminService = (*admin.Service)(nil)

// Config contains server configuration.
type Config struct {
	Admin   AdminService
	Version string
	Logger  *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "hiyaw-admin",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{admin: cfg.Admin, logger: cfg.Logger})

	return server
}
