// Package config loads the dotstrap configuration: embedded defaults,
// the checkout's dotstrap.toml, and DOTSTRAP_ environment variables, in
// that order of precedence.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dotstrap/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// ConfigFileName is the name of the per-checkout configuration file.
const ConfigFileName = "dotstrap.toml"

// Package kinds for manifest entries.
const (
	KindFormula = "formula"
	KindCask    = "cask"
)

// Link deployment strategies.
const (
	StrategySymlink = "symlink"
	StrategyStow    = "stow"
)

// Config is the fully merged dotstrap configuration.
type Config struct {
	Checkout CheckoutConfig `koanf:"checkout" toml:"checkout"`
	Packages []Package      `koanf:"package" toml:"package,omitempty"`
	Zsh      ZshConfig      `koanf:"zsh" toml:"zsh"`
	Link     LinkConfig     `koanf:"link" toml:"link"`
	Theme    ThemeConfig    `koanf:"theme" toml:"theme"`
}

// CheckoutConfig describes the canonical dotfiles checkout.
type CheckoutConfig struct {
	Repo string `koanf:"repo" toml:"repo"`
	Path string `koanf:"path" toml:"path"`
}

// Package is one manifest entry: a named formula or cask plus a
// human-readable note that ends up as a trailing comment in the
// generated Brewfile.
type Package struct {
	Name string `koanf:"name" toml:"name"`
	Kind string `koanf:"kind" toml:"kind"`
	Note string `koanf:"note" toml:"note,omitempty"`
}

// ZshConfig declares the shell framework plugins. The list here is the
// single source of truth consumed by both the installer and the zshrc
// renderer; when empty, the installer falls back to scraping the managed
// zshrc for a plugins=(...) declaration.
type ZshConfig struct {
	Plugins []string `koanf:"plugins" toml:"plugins,omitempty"`
}

// LinkConfig selects and parameterizes the link deployment strategy.
type LinkConfig struct {
	Strategy string      `koanf:"strategy" toml:"strategy"`
	Entries  []LinkEntry `koanf:"entry" toml:"entry,omitempty"`
	Stow     StowConfig  `koanf:"stow" toml:"stow"`
}

// LinkEntry is one managed link: a source path relative to the checkout
// and a destination path in the home directory.
type LinkEntry struct {
	Source string `koanf:"source" toml:"source"`
	Target string `koanf:"target" toml:"target"`
}

// StowConfig parameterizes the delegated overlay strategy.
type StowConfig struct {
	Packages  []string `koanf:"packages" toml:"packages,omitempty"`
	Conflicts []string `koanf:"conflicts" toml:"conflicts,omitempty"`
}

// ThemeConfig describes the external theme repository and the two assets
// copied out of it.
type ThemeConfig struct {
	Repo          string `koanf:"repo" toml:"repo"`
	PromptAsset   string `koanf:"prompt_asset" toml:"prompt_asset"`
	TerminalAsset string `koanf:"terminal_asset" toml:"terminal_asset"`
	PromptDir     string `koanf:"prompt_dir" toml:"prompt_dir,omitempty"`
	TerminalDir   string `koanf:"terminal_dir" toml:"terminal_dir,omitempty"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// Load builds the merged configuration. explicitPath, when non-empty,
// names the config file to use; otherwise ./dotstrap.toml is tried, then
// the canonical checkout's dotstrap.toml.
func Load(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 2. Config file
	path := resolveConfigPath(explicitPath, k.String("checkout.path"))
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
	}

	// 3. Environment overrides: DOTSTRAP_CHECKOUT__PATH -> checkout.path
	if err := k.Load(env.Provider("DOTSTRAP_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DOTSTRAP_")), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants that later stages rely on.
func (c *Config) Validate() error {
	for _, p := range c.Packages {
		if p.Name == "" {
			return errors.New(errors.ErrInvalidInput, "manifest entry without a name")
		}
		if p.Kind != KindFormula && p.Kind != KindCask {
			return errors.Newf(errors.ErrInvalidInput,
				"manifest entry %q has unknown kind %q (want %q or %q)",
				p.Name, p.Kind, KindFormula, KindCask)
		}
	}

	switch c.Link.Strategy {
	case StrategySymlink, StrategyStow:
	default:
		return errors.Newf(errors.ErrInvalidInput,
			"unknown link strategy %q (want %q or %q)",
			c.Link.Strategy, StrategySymlink, StrategyStow)
	}

	for _, e := range c.Link.Entries {
		if e.Source == "" || e.Target == "" {
			return errors.New(errors.ErrInvalidInput, "link entry needs both source and target")
		}
	}
	return nil
}

func resolveConfigPath(explicit, checkoutPath string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	candidate := filepath.Join(expandHome(checkoutPath), ConfigFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
