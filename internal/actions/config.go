package actions

import (
	"slices"

	"reconcile.dev/reconcile/internal/config"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/tui"
)

// ConfigOptions selects which configuration file a config command touches
type ConfigOptions struct {
	// RepoRoot is the repository whose .git/.reconcile_config is used
	RepoRoot string
	// Global targets the user configuration instead
	Global bool
}

func loadConfigFile(opts ConfigOptions) (*config.RepoConfig, error) {
	if opts.Global {
		return config.GetUserConfig()
	}
	return config.GetRepoConfig(opts.RepoRoot)
}

// ConfigSetAction sets key to value in the selected configuration file
func ConfigSetAction(splog *tui.Splog, opts ConfigOptions, key, value string) error {
	cfg, err := loadConfigFile(opts)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return errors.NewInvalidInputError("%s", err.Error())
	}
	if opts.Global {
		err = config.SaveUserConfig(cfg)
	} else {
		err = config.SaveRepoConfig(opts.RepoRoot, cfg)
	}
	if err != nil {
		return errors.NewIOError("write config", key, err)
	}
	splog.Success("Set %s = %s", key, value)
	return nil
}

// ConfigGetAction prints the value of key from the selected configuration file
func ConfigGetAction(splog *tui.Splog, opts ConfigOptions, key string) error {
	cfg, err := loadConfigFile(opts)
	if err != nil {
		return err
	}
	if !slices.Contains(config.Keys(), key) {
		return errors.NewInvalidInputError("unknown config key %q", key)
	}
	value, ok := cfg.Get(key)
	if !ok {
		return errors.NewNotFoundError("config key", key)
	}
	splog.Page(value + "\n")
	return nil
}
