// Package config resolves where lifelog keeps its data: the local store
// path and backend, the optional remote mirror, and the display timezone.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/keyring"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/remote"
	"github.com/julianstephens/lifelog/internal/storage"
	"github.com/julianstephens/lifelog/internal/storage/jsonfile"
	"github.com/julianstephens/lifelog/internal/storage/postgres"
	"github.com/julianstephens/lifelog/internal/storage/redis"
	"github.com/julianstephens/lifelog/internal/storage/sqlite"
	"github.com/julianstephens/lifelog/internal/utils"
)

// LocalBackend selects the KV implementation behind the local store.
type LocalBackend string

const (
	BackendSQLite LocalBackend = "sqlite"
	BackendJSON   LocalBackend = "json"
)

// RemoteKind identifies the mirror backend a connection string points at.
type RemoteKind string

const (
	RemoteNone     RemoteKind = ""
	RemotePostgres RemoteKind = "postgres"
	RemoteRedis    RemoteKind = "redis"
)

// Source records where the remote connection string came from.
type Source string

const (
	SourceNone    Source = ""
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

var ErrUnknownRemote = errors.New("unrecognized remote connection string: expected postgres://, postgresql://, a host= DSN, redis:// or rediss://")

// Options are the raw values from flags and the environment.
type Options struct {
	ConfigPath string
	Remote     string
	Timezone   string
	Debug      bool
	// NoKeyring skips the OS keyring lookup.
	NoKeyring bool
}

// Config is the resolved configuration.
type Config struct {
	Path         string
	Backend      LocalBackend
	Remote       string
	RemoteKind   RemoteKind
	RemoteSource Source
	Timezone     string
	Location     *time.Location
	Debug        bool
}

// Dir is the directory holding the local store, logs and backups.
func (c *Config) Dir() string {
	return filepath.Dir(c.Path)
}

// HasRemote reports whether a mirror is configured.
func (c *Config) HasRemote() bool {
	return c.RemoteKind != RemoteNone
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// LoadEnv loads .env files from the working directory and the config
// directory. Variables already set in the environment are never overridden,
// and the working directory file takes precedence.
func LoadEnv(configPath string) []string {
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}

	candidates := []string{".env"}
	if expanded, err := ExpandPath(configPath); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(expanded), ".env"))
	}

	var loaded []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		loaded = append(loaded, path)
	}
	return loaded
}

// ClassifyRemote reports which mirror backend connStr addresses.
func ClassifyRemote(connStr string) (RemoteKind, error) {
	switch {
	case strings.TrimSpace(connStr) == "":
		return RemoteNone, nil
	case redis.IsURL(connStr):
		return RemoteRedis, nil
	case postgres.IsConnString(connStr):
		return RemotePostgres, nil
	default:
		return RemoteNone, ErrUnknownRemote
	}
}

// ValidateRemote rejects malformed connection strings and, unless
// allowPassword is set, ones carrying a password.
func ValidateRemote(connStr string, allowPassword bool) (RemoteKind, error) {
	kind, err := ClassifyRemote(connStr)
	if err != nil || kind == RemoteNone {
		return kind, err
	}

	switch kind {
	case RemotePostgres:
		if _, err := postgres.ValidateConnString(connStr); err != nil {
			if !(allowPassword && errors.Is(err, postgres.ErrEmbeddedCredentials)) {
				return kind, err
			}
		}
	case RemoteRedis:
		if err := redis.ValidateURL(connStr); err != nil {
			if !(allowPassword && errors.Is(err, redis.ErrEmbeddedCredentials)) {
				return kind, err
			}
		}
	}
	return kind, nil
}

// Resolve turns raw options into a Config. The remote connection string is
// taken from the flag, then LIFELOG_REMOTE, then the OS keyring. Only the
// keyring may hold a connection string with a password.
func Resolve(opts Options) (*Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = constants.DefaultConfigPath
	}
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	loc, err := utils.LoadLocation(opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", opts.Timezone, err)
	}
	tz := opts.Timezone
	if tz == "" {
		tz = "Local"
	}

	cfg := &Config{
		Path:     path,
		Backend:  BackendSQLite,
		Timezone: tz,
		Location: loc,
		Debug:    opts.Debug,
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		cfg.Backend = BackendJSON
	}

	connStr, source := lookupRemote(opts)
	if source == SourceNone {
		return cfg, nil
	}

	kind, err := ValidateRemote(connStr, source == SourceKeyring)
	if err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) || errors.Is(err, redis.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("remote connection string from %s contains a password; store it with 'lifelog remote set' instead: %w", source, err)
		}
		return nil, fmt.Errorf("remote connection string from %s: %w", source, err)
	}

	cfg.Remote = connStr
	cfg.RemoteKind = kind
	cfg.RemoteSource = source
	return cfg, nil
}

func lookupRemote(opts Options) (string, Source) {
	if s := strings.TrimSpace(opts.Remote); s != "" {
		return s, SourceFlag
	}
	if s := strings.TrimSpace(os.Getenv(constants.EnvRemote)); s != "" {
		return s, SourceEnv
	}
	if opts.NoKeyring {
		return "", SourceNone
	}
	s, err := keyring.GetRemote()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		return "", SourceNone
	}
	return strings.TrimSpace(s), SourceKeyring
}

// OpenLocal returns the configured local KV. It is not initialized.
func (c *Config) OpenLocal() storage.KV {
	if c.Backend == BackendJSON {
		return jsonfile.NewStore(c.Path)
	}
	return sqlite.NewStore(c.Path)
}

// mirrorConnector is a mirror that needs an explicit connect step.
type mirrorConnector interface {
	remote.Mirror
	Connect(ctx context.Context) error
}

// newMirror is swapped in tests.
var newMirror = func(kind RemoteKind, connStr string) (mirrorConnector, error) {
	switch kind {
	case RemotePostgres:
		return postgres.New(connStr), nil
	case RemoteRedis:
		return redis.New(connStr), nil
	default:
		return nil, ErrUnknownRemote
	}
}

// OpenMirror connects the configured mirror. It returns (nil, nil) when no
// mirror is configured.
func (c *Config) OpenMirror(ctx context.Context) (remote.Mirror, error) {
	if !c.HasRemote() {
		return nil, nil
	}
	m, err := newMirror(c.RemoteKind, c.Remote)
	if err != nil {
		return nil, err
	}
	if err := m.Connect(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("failed to connect to %s mirror: %w", c.RemoteKind, err)
	}
	return m, nil
}

// OpenSession connects the mirror and wraps it in a session. A mirror that
// cannot be reached is logged and the session runs local-only.
func (c *Config) OpenSession(ctx context.Context) *remote.Session {
	m, err := c.OpenMirror(ctx)
	if err != nil {
		logger.Warn("Remote mirror unavailable, continuing with local data only", "kind", c.RemoteKind, "error", err)
		return remote.NewSession(nil)
	}
	return remote.NewSession(m)
}
