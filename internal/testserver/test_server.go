package testserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hiyaw/hiyaw-admin/internal/admin"
	"github.com/hiyaw/hiyaw-admin/internal/backend"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
	"github.com/hiyaw/hiyaw-admin/internal/domain/training"
	"github.com/hiyaw/hiyaw-admin/internal/mcp"
	"github.com/hiyaw/hiyaw-admin/internal/preview"
	"github.com/hiyaw/hiyaw-admin/internal/repository"
	"github.com/hiyaw/hiyaw-admin/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// TestServer runs the whole admin stack over HTTP against a fake backend.
type TestServer struct {
	Server   *httptest.Server
	Backend  *Backend
	Admin    *admin.Service
	Registry *preview.Registry
}

// New starts the admin server and its fake backend.
func New(t *testing.T) *TestServer {
	t.Helper()

	fake := NewBackend(t)
	client, err := backend.New(backend.Config{BaseURL: fake.URL(), Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)

	ts := &TestServer{Backend: fake}

	// The preview base URL is only known once the server is listening.
	var handler http.Handler
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))

	ts.Registry = preview.NewRegistry(ts.Server.URL, 0, nil)
	ts.Admin = admin.NewService(admin.Config{
		Trainings: training.NewService(repository.NewTrainingRepository(client), nil),
		Projects:  project.NewService(repository.NewProjectRepository(client), nil),
		Locators:  ts.Registry,
		Timeout:   5 * time.Second,
	})

	mcpServer := mcp.NewServer(mcp.Config{Admin: ts.Admin, Version: "test"})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{JSONResponse: true},
	)
	handler = transport.NewServer(transport.Config{
		MCP:      mcpHandler,
		Previews: ts.Registry.Routes(nil),
	})

	t.Cleanup(func() {
		ts.Server.Close()
		ts.Admin.Close()
	})
	return ts
}

// MCPEndpoint returns the streamable MCP URL.
func (ts *TestServer) MCPEndpoint() string {
	return ts.Server.URL + "/mcp"
}
