package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HIYAW_CONFIG_PATH", "HIYAW_BACKEND_URL", "NEXT_PUBLIC_API_BASE_URL", "HIYAW_BACKEND_TIMEOUT",
		"HIYAW_SERVER_HOST", "HIYAW_SERVER_PORT", "HIYAW_TRANSPORT", "HIYAW_PREVIEW_URL",
		"HIYAW_CORS_ORIGINS", "HIYAW_MEDIA_ROOT", "HIYAW_LOG_LEVEL", "HIYAW_LOG_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	require.Equal(t, TransportHTTP, cfg.Transport.Mode)
	require.Equal(t, "http://localhost:8080", cfg.Preview.PublicURL)
	require.Equal(t, "info", cfg.Log.Level)
	require.Empty(t, cfg.Media.Root)

	require.ErrorContains(t, cfg.Validate(), "backend url is required")
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "https://legacy.example.com/api")
	t.Setenv("HIYAW_BACKEND_URL", "https://api.example.com/api")
	t.Setenv("HIYAW_BACKEND_TIMEOUT", "5s")
	t.Setenv("HIYAW_SERVER_PORT", "9090")
	t.Setenv("HIYAW_TRANSPORT", "STDIO")
	t.Setenv("HIYAW_CORS_ORIGINS", "https://admin.example.com, http://localhost:3000,")
	t.Setenv("HIYAW_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/api", cfg.Backend.URL)
	require.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, TransportStdio, cfg.Transport.Mode)
	require.Equal(t, []string{"https://admin.example.com", "http://localhost:3000"}, cfg.Preview.AllowedOrigins)
	require.Equal(t, "http://localhost:9090", cfg.Preview.PublicURL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, ".", cfg.Media.Root)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MediaRoot(t *testing.T) {
	clearEnv(t)
	t.Setenv("HIYAW_BACKEND_URL", "https://api.example.com")
	root := t.TempDir()
	t.Setenv("HIYAW_MEDIA_ROOT", root)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, root, cfg.Media.Root)
	require.NoError(t, cfg.Validate())

	cfg.Media.Root = filepath.Join(root, "missing")
	require.ErrorContains(t, cfg.Validate(), "media root")
}

func TestLoad_DashboardVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "https://legacy.example.com/api")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://legacy.example.com/api", cfg.Backend.URL)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  url: https://api.example.com
  timeout: 10s
transport:
  mode: http
preview:
  public_url: https://admin.example.com
  max_live: 64
`), 0o644))
	t.Setenv("HIYAW_CONFIG_PATH", path)
	t.Setenv("HIYAW_SERVER_PORT", "7000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.Backend.URL)
	require.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	require.Equal(t, "https://admin.example.com", cfg.Preview.PublicURL)
	require.Equal(t, 64, cfg.Preview.MaxLive)
	require.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("HIYAW_SERVER_PORT", "eighty")
	_, err := Load()
	require.ErrorContains(t, err, "HIYAW_SERVER_PORT")

	clearEnv(t)
	t.Setenv("HIYAW_BACKEND_TIMEOUT", "soon")
	_, err = Load()
	require.ErrorContains(t, err, "HIYAW_BACKEND_TIMEOUT")

	clearEnv(t)
	t.Setenv("HIYAW_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	require.ErrorContains(t, err, "read config file")
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Server:    ServerConfig{Port: 8080},
		Backend:   BackendConfig{URL: "/api"},
		Transport: TransportConfig{Mode: "grpc"},
	}
	err := cfg.Validate()
	require.ErrorContains(t, err, "must be absolute")
	require.ErrorContains(t, err, "unknown transport mode")

	cfg.Backend.URL = "http://localhost:5000/api"
	cfg.Transport.Mode = TransportStdio
	cfg.Server.Port = 0
	require.NoError(t, cfg.Validate())
}
