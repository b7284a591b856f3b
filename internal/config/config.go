package config

// Config is the effective configuration after layering the repository file
// over the user file over defaults
type Config struct {
	AuthorName       string
	AuthorEmail      string
	DetectRenames    bool
	ConflictStyle    string
	BatchConcurrency int
	PullRemote       string
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{DetectRenames: true}
}

// Load resolves the configuration for a repository. An empty repoRoot
// skips the repository layer.
func Load(repoRoot string) (*Config, error) {
	user, err := GetUserConfig()
	if err != nil {
		return nil, err
	}
	layers := []*RepoConfig{user}
	if repoRoot != "" {
		repo, err := GetRepoConfig(repoRoot)
		if err != nil {
			return nil, err
		}
		layers = append(layers, repo)
	}

	cfg := Defaults()
	for _, layer := range layers {
		cfg.apply(layer)
	}
	return cfg, nil
}

func (c *Config) apply(layer *RepoConfig) {
	if layer.Author != nil {
		if layer.Author.Name != "" {
			c.AuthorName = layer.Author.Name
		}
		if layer.Author.Email != "" {
			c.AuthorEmail = layer.Author.Email
		}
	}
	if layer.StatusRenames != nil {
		c.DetectRenames = *layer.StatusRenames
	}
	if layer.ConflictStyle != nil {
		c.ConflictStyle = *layer.ConflictStyle
	}
	if layer.BatchConcurrency != nil {
		c.BatchConcurrency = *layer.BatchConcurrency
	}
	if layer.PullRemote != nil {
		c.PullRemote = *layer.PullRemote
	}
}
