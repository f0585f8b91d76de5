// Package brew ensures Homebrew is present and applies the declarative
// package manifest in one batch.
package brew

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/config"
	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/execx"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// shellenvMarker guards the idempotent profile append: the activation
// line is only written when this substring is absent.
const shellenvMarker = "# dotstrap: homebrew shellenv"

// installScriptURL is Homebrew's official install procedure.
const installScriptURL = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"

// brewLocations are the fixed paths probed for the brew binary: Apple
// silicon first, then Intel. Overridable in tests.
var brewLocations = []string{
	"/opt/homebrew/bin/brew",
	"/usr/local/bin/brew",
}

// Run executes the package installer stage.
func Run(ctx context.Context, rc *bootstrap.RunContext) error {
	logger := logging.GetLogger("brew")

	brewPath, found := Detect()
	if !found {
		if rc.DryRun {
			logger.Info().Msg("Dry run: would install Homebrew and apply manifest")
			rc.Prompter.Say("%s", RenderBrewfile(rc.Config.Packages))
			return nil
		}
		if err := Install(ctx, rc.Runner); err != nil {
			return err
		}
		brewPath, found = Detect()
		if !found {
			return errors.New(errors.ErrBrewInstall, "brew binary not found after install")
		}
	}

	if rc.DryRun {
		logger.Info().Int("packages", len(rc.Config.Packages)).Msg("Dry run: would activate shellenv, update index, apply manifest")
		rc.Prompter.Say("%s", RenderBrewfile(rc.Config.Packages))
		return nil
	}

	added, err := EnsureShellenvLine(rc.Paths.ZProfile(), brewPath)
	if err != nil {
		return err
	}
	if added {
		logger.Info().Str("profile", rc.Paths.ZProfile()).Msg("Added shellenv activation line")
	}

	// A freshly installed brew is not on this process's PATH yet, so the
	// activation is repeated for the running process unconditionally.
	if err := Activate(ctx, rc.Runner, brewPath); err != nil {
		return err
	}

	if err := rc.Runner.Run(ctx, brewPath, "update"); err != nil {
		return errors.Wrap(err, errors.ErrBrewApply, "brew update failed")
	}

	return Apply(ctx, rc.Runner, brewPath, RenderBrewfile(rc.Config.Packages))
}

// Detect probes the fixed install locations for the brew binary.
func Detect() (string, bool) {
	return detectIn(brewLocations)
}

func detectIn(locations []string) (string, bool) {
	for _, loc := range locations {
		if info, err := os.Stat(loc); err == nil && !info.IsDir() {
			return loc, true
		}
	}
	return "", false
}

// Install runs Homebrew's official remote install procedure. The script
// is fetched to a file and executed from there; it is interactive-capable
// and writes its own progress to the terminal.
func Install(ctx context.Context, runner execx.Runner) error {
	logger := logging.GetLogger("brew")
	logger.Info().Msg("Homebrew not found, running official installer")

	if err := execx.RunRemoteScript(ctx, runner, "/bin/bash", installScriptURL); err != nil {
		return errors.Wrap(err, errors.ErrBrewInstall, "Homebrew install script failed")
	}
	return nil
}

// EnsureShellenvLine appends the brew activation line to the given
// profile unless the marker is already present. Returns whether a line
// was added.
func EnsureShellenvLine(profilePath, brewPath string) (bool, error) {
	existing, err := os.ReadFile(profilePath)
	if err == nil && strings.Contains(string(existing), shellenvMarker) {
		return false, nil
	}

	f, err := os.OpenFile(profilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrProfileEdit, "cannot open %s", profilePath)
	}
	defer f.Close()

	line := fmt.Sprintf("\n%s\neval \"$(%s shellenv)\"\n", shellenvMarker, brewPath)
	if _, err := f.WriteString(line); err != nil {
		return false, errors.Wrapf(err, errors.ErrProfileEdit, "cannot write %s", profilePath)
	}
	return true, nil
}

// Activate injects brew's shellenv into the current process environment.
func Activate(ctx context.Context, runner execx.Runner, brewPath string) error {
	out, err := runner.Output(ctx, brewPath, "shellenv")
	if err != nil {
		return errors.Wrap(err, errors.ErrBrewInstall, "brew shellenv failed")
	}

	for _, kv := range ParseShellenv(string(out)) {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if err := os.Setenv(parts[0], parts[1]); err != nil {
			return errors.Wrapf(err, errors.ErrBrewInstall, "cannot set %s", parts[0])
		}
	}
	return nil
}

// ParseShellenv turns `export KEY="VALUE";` lines from brew shellenv
// into KEY=VALUE pairs, resolving the PATH self-reference brew emits.
func ParseShellenv(out string) []string {
	var pairs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "export ") {
			continue
		}
		line = strings.TrimSuffix(strings.TrimPrefix(line, "export "), ";")

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := parts[0]
		value := strings.Trim(parts[1], `"`)
		value = strings.ReplaceAll(value, "${PATH+:$PATH}", ":"+os.Getenv("PATH"))
		value = os.ExpandEnv(value)

		pairs = append(pairs, key+"="+value)
	}
	return pairs
}

// RenderBrewfile generates Brewfile content from the ordered manifest.
// Duplicate entries are harmless; installs are idempotent at the package
// manager level.
func RenderBrewfile(packages []config.Package) string {
	var b strings.Builder
	b.WriteString("# Generated by dotstrap from dotstrap.toml. Do not edit.\n")

	for _, p := range packages {
		directive := "brew"
		if p.Kind == config.KindCask {
			directive = "cask"
		}
		fmt.Fprintf(&b, "%s %q", directive, p.Name)
		if p.Note != "" {
			fmt.Fprintf(&b, " # %s", p.Note)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Apply writes the rendered Brewfile to a temporary file and applies the
// whole manifest in one batch. The reproducibility lock artifact is
// suppressed.
func Apply(ctx context.Context, runner execx.Runner, brewPath, brewfile string) error {
	logger := logging.GetLogger("brew")

	f, err := os.CreateTemp("", "dotstrap-Brewfile-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrBrewApply, "cannot create Brewfile")
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(brewfile); err != nil {
		f.Close()
		return errors.Wrap(err, errors.ErrBrewApply, "cannot write Brewfile")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrBrewApply, "cannot close Brewfile")
	}

	logger.Info().Str("brewfile", f.Name()).Msg("Applying package manifest")

	bundleRunner := runner.WithEnv("HOMEBREW_BUNDLE_NO_LOCK=1")
	if err := bundleRunner.Run(ctx, brewPath, "bundle", "--file="+f.Name()); err != nil {
		return errors.Wrap(err, errors.ErrBrewApply, "brew bundle failed")
	}
	return nil
}
