// Package config resolves the CLI configuration from defaults, YAML files and
// the environment. Flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIURL is the development server address.
	DefaultAPIURL = "http://localhost:3000"

	// FileName is the user config file inside <UserConfigDir>/jot.
	FileName = "config.yaml"

	// LocalFileName marks a project-local override, looked up from the working
	// directory upwards.
	LocalFileName = ".jot.yaml"
)

// Environment variables.
const (
	EnvAPIURL       = "JOT_API_URL"
	EnvLegacyAPIURL = "API_URL"
	EnvStore        = "JOT_STORE"
	EnvStoreDir     = "JOT_STORE_DIR"
	EnvTimeout      = "JOT_TIMEOUT"
	EnvVerify       = "JOT_VERIFY"
	EnvLogLevel     = "JOT_LOG_LEVEL"
	EnvPassword     = "JOT_PASSWORD"
)

var backends = []string{"file", "sqlite", "memory"}

// Config is the resolved configuration.
type Config struct {
	APIURL       string        `yaml:"api_url"`
	Store        Store         `yaml:"store"`
	Timeout      time.Duration `yaml:"timeout"`
	VerifyOnLoad bool          `yaml:"verify_on_load"`
	LogLevel     string        `yaml:"log_level"`
}

// Store selects the credential backend.
type Store struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		Store:    Store{Backend: "file"},
		LogLevel: "info",
	}
}

// DefaultPath returns <UserConfigDir>/jot/config.yaml.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(base, "jot", FileName), nil
}

// Load reads a YAML file over cfg. Fields absent from the file keep their
// current value.
func Load(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve builds the configuration from defaults, the config file, the
// nearest project-local file and the environment, in that order.
//
// An explicit path must exist. The default user file and the local file are
// optional.
func Resolve(path, workDir string) (Config, error) {
	cfg := Default()

	required := path != ""
	if !required {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		loaded, err := Load(path, cfg)
		switch {
		case err == nil:
			cfg = loaded
		case !required && errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, err
		}
	}

	if workDir != "" {
		if local, err := FindLocal(workDir); err == nil {
			if cfg, err = Load(local, cfg); err != nil {
				return cfg, err
			}
		}
	}

	return ApplyEnv(cfg), nil
}

// ApplyEnv overlays the environment. JOT_API_URL wins over API_URL.
func ApplyEnv(cfg Config) Config {
	cfg.APIURL = EnvString(EnvAPIURL, EnvString(EnvLegacyAPIURL, cfg.APIURL))
	cfg.Store.Backend = EnvString(EnvStore, cfg.Store.Backend)
	cfg.Store.Dir = EnvString(EnvStoreDir, cfg.Store.Dir)
	cfg.Timeout = EnvDuration(EnvTimeout, cfg.Timeout)
	cfg.VerifyOnLoad = EnvBool(EnvVerify, cfg.VerifyOnLoad)
	cfg.LogLevel = EnvString(EnvLogLevel, cfg.LogLevel)
	return cfg
}

// FindLocal looks upwards from startDir for a project-local config file and
// returns its absolute path.
func FindLocal(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, LocalFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found", LocalFileName)
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.APIURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api url %q must be an absolute http(s) url", c.APIURL)
	}

	if !slices.Contains(backends, c.Store.Backend) {
		return fmt.Errorf("unknown store backend %q (want one of %s)", c.Store.Backend, strings.Join(backends, ", "))
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name onto slog.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}
