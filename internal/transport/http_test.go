package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hiyaw/hiyaw-admin/internal/media"
	"github.com/hiyaw/hiyaw-admin/internal/preview"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_MCPGetsSessionID(t *testing.T) {
	var gotSession string
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession, _ = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})
	server := httptest.NewServer(NewServer(Config{MCP: mcpHandler}))
	t.Cleanup(server.Close)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", nil)
	require.NoError(t, err)
	req.Header.Set("Mcp-Session-Id", "sess1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, "sess1", gotSession)
}

func TestHTTPServer_Previews(t *testing.T) {
	registry := preview.NewRegistry("", 0, nil)
	server := httptest.NewServer(NewServer(Config{Previews: registry.Routes(nil)}))
	t.Cleanup(server.Close)

	url, err := registry.Create(media.File{Name: "a.txt", ContentType: "text/plain", Size: 2, Data: []byte("hi")})
	require.NoError(t, err)

	resp, err := http.Get(server.URL + url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "hi", string(body))

	registry.Release(url)
	resp, err = http.Get(server.URL + url)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPServer_Health(t *testing.T) {
	server := httptest.NewServer(NewServer(Config{}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
