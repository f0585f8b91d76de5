// Package zsh installs the oh-my-zsh framework and the declared plugins.
//
// The plugin list in dotstrap.toml is the single source of truth. For
// checkouts that have not declared one yet, the installer falls back to
// scraping the managed zshrc for its plugins=(...) array.
package zsh

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/execx"
	"github.com/arthur-debert/dotstrap/pkg/gitx"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// installerURL is oh-my-zsh's official install script.
const installerURL = "https://raw.githubusercontent.com/ohmyzsh/ohmyzsh/master/tools/install.sh"

// pluginRegistry maps plugin names to their source repositories. Names
// not listed here and not shipped as built-ins are silently ignored,
// which keeps the list forward-compatible with future built-ins.
var pluginRegistry = map[string]string{
	"zsh-autosuggestions":          "https://github.com/zsh-users/zsh-autosuggestions.git",
	"zsh-syntax-highlighting":      "https://github.com/zsh-users/zsh-syntax-highlighting.git",
	"zsh-completions":              "https://github.com/zsh-users/zsh-completions.git",
	"zsh-history-substring-search": "https://github.com/zsh-users/zsh-history-substring-search.git",
}

// PluginAction says what the installer will do for one plugin.
type PluginAction string

const (
	// ActionBuiltin means the framework already ships the plugin.
	ActionBuiltin PluginAction = "builtin"
	// ActionInstalled means the custom-extension directory exists.
	ActionInstalled PluginAction = "installed"
	// ActionClone means the plugin will be cloned from its repository.
	ActionClone PluginAction = "clone"
	// ActionUnknown means the name has no known source and is skipped.
	ActionUnknown PluginAction = "unknown"
)

// PluginPlan is the resolved action for one declared plugin.
type PluginPlan struct {
	Name   string
	URL    string
	Dest   string
	Action PluginAction
}

// Run executes the shell framework stage.
func Run(ctx context.Context, rc *bootstrap.RunContext) error {
	logger := logging.GetLogger("zsh")

	if err := EnsureFramework(ctx, rc.Runner, rc.Paths.ZshHome(), rc.DryRun); err != nil {
		return err
	}

	names := rc.Config.Zsh.Plugins
	if len(names) == 0 {
		names = scrapeFromManagedZshrc(rc)
		if len(names) > 0 {
			logger.Info().Strs("plugins", names).Msg("Plugin list scraped from managed zshrc")
		}
	}

	plans := PlanPlugins(names, rc.Paths.BuiltinPluginsDir(), rc.Paths.CustomPluginsDir(), pluginRegistry)
	for _, plan := range plans {
		switch plan.Action {
		case ActionBuiltin:
			logger.Debug().Str("plugin", plan.Name).Msg("Plugin satisfied by framework built-in")
		case ActionInstalled:
			logger.Debug().Str("plugin", plan.Name).Msg("Plugin already installed")
		case ActionUnknown:
			logger.Debug().Str("plugin", plan.Name).Msg("No known source for plugin, skipping")
		case ActionClone:
			if rc.DryRun {
				logger.Info().Str("plugin", plan.Name).Str("url", plan.URL).Msg("Dry run: would clone plugin")
				continue
			}
			if err := gitx.Clone(ctx, plan.URL, plan.Dest); err != nil {
				return errors.Wrapf(err, errors.ErrPluginClone, "failed to install plugin %s", plan.Name)
			}
			logger.Info().Str("plugin", plan.Name).Msg("Plugin installed")
		}
	}
	return nil
}

// EnsureFramework installs oh-my-zsh via its official unattended
// installer when the framework home is absent.
func EnsureFramework(ctx context.Context, runner execx.Runner, zshHome string, dryRun bool) error {
	logger := logging.GetLogger("zsh")

	if _, err := os.Stat(zshHome); err == nil {
		logger.Debug().Str("dir", zshHome).Msg("Framework already installed")
		return nil
	}

	if dryRun {
		logger.Info().Str("dir", zshHome).Msg("Dry run: would install oh-my-zsh")
		return nil
	}

	logger.Info().Str("dir", zshHome).Msg("Installing oh-my-zsh")
	installRunner := runner.WithEnv("RUNZSH=no", "KEEP_ZSHRC=yes")
	if err := execx.RunRemoteScript(ctx, installRunner, "/bin/sh", installerURL, "--unattended"); err != nil {
		return errors.Wrap(err, errors.ErrFrameworkInstall, "oh-my-zsh installer failed")
	}
	return nil
}

// PlanPlugins resolves each declared plugin name against the built-in
// directory, the custom-extension directory, and the source registry.
func PlanPlugins(names []string, builtinDir, customDir string, registry map[string]string) []PluginPlan {
	plans := make([]PluginPlan, 0, len(names))
	for _, name := range names {
		plan := PluginPlan{Name: name}

		switch {
		case dirExists(filepath.Join(builtinDir, name)):
			plan.Action = ActionBuiltin
		case dirExists(filepath.Join(customDir, name)):
			plan.Action = ActionInstalled
		default:
			if url, ok := registry[name]; ok {
				plan.Action = ActionClone
				plan.URL = url
				plan.Dest = filepath.Join(customDir, name)
			} else {
				plan.Action = ActionUnknown
			}
		}
		plans = append(plans, plan)
	}
	return plans
}

// scrapeFromManagedZshrc locates the managed zshrc in the checkout and
// scrapes its plugin array. Under the symlink strategy that is the link
// entry targeting ~/.zshrc; under the stow strategy the package trees
// mirror the home layout, so each package root is probed for a .zshrc.
func scrapeFromManagedZshrc(rc *bootstrap.RunContext) []string {
	var candidates []string
	for _, entry := range rc.Config.Link.Entries {
		if filepath.Base(rc.Paths.Expand(entry.Target)) == ".zshrc" {
			candidates = append(candidates, filepath.Join(rc.Paths.CheckoutRoot(), entry.Source))
		}
	}
	for _, pkg := range rc.Config.Link.Stow.Packages {
		candidates = append(candidates, filepath.Join(rc.Paths.CheckoutRoot(), pkg, ".zshrc"))
	}

	for _, path := range candidates {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		defer f.Close()
		return ScrapePlugins(f)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
