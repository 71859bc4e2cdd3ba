package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Transport TransportConfig `yaml:"transport"`
	Preview   PreviewConfig   `yaml:"preview"`
	Media     MediaConfig     `yaml:"media"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type PreviewConfig struct {
	// PublicURL prefixes preview locators. Empty means derived from the server address.
	PublicURL      string   `yaml:"public_url"`
	MaxLive        int      `yaml:"max_live"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MediaConfig struct {
	// Root is the only directory stage_files may read paths from. Empty
	// disables path sources, except in stdio mode where it defaults to the
	// working directory.
	Root string `yaml:"root"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Backend: BackendConfig{
			Timeout: 30 * time.Second,
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("HIYAW_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Media.Root == "" && cfg.Transport.Mode == TransportStdio {
		cfg.Media.Root = "."
	}
	if cfg.Preview.PublicURL == "" {
		cfg.Preview.PublicURL = fmt.Sprintf("http://%s:%d", publicHost(cfg.Server.Host), cfg.Server.Port)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	// The dashboard's variable is honored so an existing .env keeps working.
	if u := os.Getenv("NEXT_PUBLIC_API_BASE_URL"); u != "" {
		cfg.Backend.URL = u
	}
	if u := os.Getenv("HIYAW_BACKEND_URL"); u != "" {
		cfg.Backend.URL = u
	}
	if s := os.Getenv("HIYAW_BACKEND_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid HIYAW_BACKEND_TIMEOUT: %w", err)
		}
		cfg.Backend.Timeout = d
	}
	if host := os.Getenv("HIYAW_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("HIYAW_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid HIYAW_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("HIYAW_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if u := os.Getenv("HIYAW_PREVIEW_URL"); u != "" {
		cfg.Preview.PublicURL = u
	}
	if origins := os.Getenv("HIYAW_CORS_ORIGINS"); origins != "" {
		cfg.Preview.AllowedOrigins = splitList(origins)
	}
	if root := os.Getenv("HIYAW_MEDIA_ROOT"); root != "" {
		cfg.Media.Root = root
	}
	if level := os.Getenv("HIYAW_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("HIYAW_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	return nil
}

// Validate reports configuration the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Backend.URL == "" {
		errs = append(errs, errors.New("backend url is required (HIYAW_BACKEND_URL)"))
	} else if u, err := url.Parse(c.Backend.URL); err != nil || !u.IsAbs() || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend url %q must be absolute", c.Backend.URL))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, errors.New("backend timeout must not be negative"))
	}
	switch c.Transport.Mode {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("unknown transport mode %q", c.Transport.Mode))
	}
	if c.Transport.Mode == TransportHTTP && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if c.Media.Root != "" {
		if info, err := os.Stat(c.Media.Root); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("media root %q must be an existing directory", c.Media.Root))
		}
	}
	return errors.Join(errs...)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func publicHost(host string) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		return "localhost"
	}
	return host
}
