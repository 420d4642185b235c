package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gitscope/internal/errors"
)

// RepoSource records how a repository entered the config.
type RepoSource string

const (
	// RepoSourceUser means the user registered the repo explicitly.
	RepoSourceUser RepoSource = "user"
	// RepoSourceDiscovered means the repo was registered as a side
	// effect of viewing a path that was not yet known.
	RepoSourceDiscovered RepoSource = "discovered"
)

// Repo is a registered repository. Ignored repos stay in the config so
// they are not re-discovered, but are excluded from listings.
type Repo struct {
	Path    string     `json:"path"`
	Source  RepoSource `json:"source"`
	Ignored bool       `json:"ignored,omitempty"`
}

// Config holds the application configuration
type Config struct {
	Repos      []Repo      `json:"repos"`
	Workspaces []Workspace `json:"workspaces,omitempty"`

	ActiveWorkspaceID string `json:"active_workspace_id,omitempty"`

	// OpenRepoOfActiveFile makes `view` with no argument fall back to
	// the repository containing the active file (GITSCOPE_ACTIVE_FILE).
	OpenRepoOfActiveFile bool `json:"open_repo_of_active_file,omitempty"`
	// NotificationsEnabled sends a desktop notification when bulk
	// review operations complete.
	NotificationsEnabled bool `json:"notifications_enabled,omitempty"`

	mu       sync.RWMutex
	filePath string
}

// Dir returns the path to the gitscope config directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gitscope"), nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default location, or creates a new
// one if it doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		Repos:    []Repo{},
		filePath: path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized ensures all slices are initialized (not nil) after
// unmarshaling. Only safe during single-threaded initialization.
func (c *Config) ensureInitialized() {
	if c.Repos == nil {
		c.Repos = []Repo{}
	}
	if c.Workspaces == nil {
		c.Workspaces = []Workspace{}
	}
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seenRepos := make(map[string]bool)
	for _, repo := range c.Repos {
		if repo.Path == "" {
			return fmt.Errorf("empty repo path found")
		}
		if seenRepos[repo.Path] {
			return fmt.Errorf("duplicate repo: %s", repo.Path)
		}
		seenRepos[repo.Path] = true
	}

	seenIDs := make(map[string]bool)
	for _, ws := range c.Workspaces {
		if ws.ID == "" {
			return fmt.Errorf("workspace with empty ID found")
		}
		if seenIDs[ws.ID] {
			return fmt.Errorf("duplicate workspace ID: %s", ws.ID)
		}
		seenIDs[ws.ID] = true
	}

	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// AddRepo registers a repository path if it isn't already present.
// Re-adding an ignored repo un-ignores it. Returns false if the repo
// was already registered and visible.
func (c *Config) AddRepo(path string, source RepoSource) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, r := range c.Repos {
		if r.Path == path {
			if r.Ignored {
				c.Repos[i].Ignored = false
				c.Repos[i].Source = source
				return true
			}
			return false
		}
	}

	c.Repos = append(c.Repos, Repo{Path: path, Source: source})
	return true
}

// IgnoreRepo marks a repository as ignored. Returns false if the repo
// is not registered.
func (c *Config) IgnoreRepo(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, r := range c.Repos {
		if r.Path == path {
			c.Repos[i].Ignored = true
			return true
		}
	}
	return false
}

// KnownRepos returns the non-ignored repositories.
func (c *Config) KnownRepos() []Repo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var repos []Repo
	for _, r := range c.Repos {
		if !r.Ignored {
			repos = append(repos, r)
		}
	}
	return repos
}

// HasRepo reports whether path is registered and not ignored.
func (c *Config) HasRepo(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.Repos {
		if r.Path == path && !r.Ignored {
			return true
		}
	}
	return false
}

// GetOpenRepoOfActiveFile returns whether `view` falls back to the
// repository containing the active file.
func (c *Config) GetOpenRepoOfActiveFile() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.OpenRepoOfActiveFile
}

// SetOpenRepoOfActiveFile sets the active-file fallback flag.
func (c *Config) SetOpenRepoOfActiveFile(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.OpenRepoOfActiveFile = enabled
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}
