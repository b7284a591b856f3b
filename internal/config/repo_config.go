package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
)

const (
	repoConfigName = ".reconcile_config"
	userConfigPath = "reconcile/config.json"
)

// AuthorConfig is the commit identity used when git config has none
type AuthorConfig struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// RepoConfig represents a reconcile configuration file. The same shape is
// used for the per-repository file and the per-user file.
type RepoConfig struct {
	Author           *AuthorConfig `json:"author,omitempty"`
	StatusRenames    *bool         `json:"status.renames,omitempty"`
	ConflictStyle    *string       `json:"merge.conflictStyle,omitempty"`
	BatchConcurrency *int          `json:"batch.concurrency,omitempty"`
	PullRemote       *string       `json:"pull.remote,omitempty"`
}

// RepoConfigPath returns the path of the repository configuration file
func RepoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", repoConfigName)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	return readConfigFile(RepoConfigPath(repoRoot))
}

// SaveRepoConfig writes the repository configuration
func SaveRepoConfig(repoRoot string, cfg *RepoConfig) error {
	return writeConfigFile(RepoConfigPath(repoRoot), cfg)
}

// GetUserConfig reads the user configuration from the XDG config directories
func GetUserConfig() (*RepoConfig, error) {
	path, err := xdg.SearchConfigFile(userConfigPath)
	if err != nil {
		// No user config anywhere on the search path
		return &RepoConfig{}, nil
	}
	return readConfigFile(path)
}

// SaveUserConfig writes the user configuration under $XDG_CONFIG_HOME
func SaveUserConfig(cfg *RepoConfig) error {
	path, err := xdg.ConfigFile(userConfigPath)
	if err != nil {
		return fmt.Errorf("failed to resolve user config path: %w", err)
	}
	return writeConfigFile(path, cfg)
}

func readConfigFile(path string) (*RepoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RepoConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg RepoConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func writeConfigFile(path string, cfg *RepoConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Keys lists the settable configuration keys
func Keys() []string {
	keys := []string{"author.name", "author.email", "status.renames", "merge.conflictStyle", "batch.concurrency", "pull.remote"}
	sort.Strings(keys)
	return keys
}

// Set assigns a value by key
func (c *RepoConfig) Set(key, value string) error {
	switch key {
	case "author.name":
		if c.Author == nil {
			c.Author = &AuthorConfig{}
		}
		c.Author.Name = value
	case "author.email":
		if c.Author == nil {
			c.Author = &AuthorConfig{}
		}
		c.Author.Email = value
	case "status.renames":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("status.renames must be true or false: %w", err)
		}
		c.StatusRenames = &b
	case "merge.conflictStyle":
		style := strings.ToLower(value)
		if style != "merge" && style != "diff3" {
			return fmt.Errorf("merge.conflictStyle must be merge or diff3, got %q", value)
		}
		c.ConflictStyle = &style
	case "batch.concurrency":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("batch.concurrency must be a non-negative integer, got %q", value)
		}
		c.BatchConcurrency = &n
	case "pull.remote":
		c.PullRemote = &value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Get returns the value for key and whether it is set
func (c *RepoConfig) Get(key string) (string, bool) {
	switch key {
	case "author.name":
		if c.Author != nil && c.Author.Name != "" {
			return c.Author.Name, true
		}
	case "author.email":
		if c.Author != nil && c.Author.Email != "" {
			return c.Author.Email, true
		}
	case "status.renames":
		if c.StatusRenames != nil {
			return strconv.FormatBool(*c.StatusRenames), true
		}
	case "merge.conflictStyle":
		if c.ConflictStyle != nil {
			return *c.ConflictStyle, true
		}
	case "batch.concurrency":
		if c.BatchConcurrency != nil {
			return strconv.Itoa(*c.BatchConcurrency), true
		}
	case "pull.remote":
		if c.PullRemote != nil {
			return *c.PullRemote, true
		}
	}
	return "", false
}
