// Package theme maintains a local cache of the external theme
// repository and copies its prompt and terminal assets into place.
//
// Asset problems are the pipeline's only soft failures: a theme the
// upstream renamed or a malformed color scheme should never abort a
// machine bootstrap.
package theme

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/gitx"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// Run executes the theme stage: refresh the cache, then copy assets.
func Run(ctx context.Context, rc *bootstrap.RunContext) error {
	logger := logging.GetLogger("theme")

	cfg := rc.Config.Theme
	if cfg.Repo == "" {
		logger.Debug().Msg("No theme repository configured, skipping")
		return nil
	}

	cache := rc.Paths.ThemeCacheDir()
	if rc.DryRun {
		logger.Info().Str("repo", cfg.Repo).Str("cache", cache).Msg("Dry run: would refresh theme cache and copy assets")
		return nil
	}

	if err := EnsureCache(ctx, cfg.Repo, cache); err != nil {
		return err
	}

	promptDir := rc.Paths.PromptThemesDir()
	if cfg.PromptDir != "" {
		promptDir = rc.Paths.Expand(cfg.PromptDir)
	}
	terminalDir := rc.Paths.TerminalThemesDir()
	if cfg.TerminalDir != "" {
		terminalDir = rc.Paths.Expand(cfg.TerminalDir)
	}

	if cfg.PromptAsset != "" {
		copyAsset(filepath.Join(cache, cfg.PromptAsset), promptDir, nil)
	}
	if cfg.TerminalAsset != "" {
		copyAsset(filepath.Join(cache, cfg.TerminalAsset), terminalDir, validateXML)
	}
	return nil
}

// EnsureCache brings the theme cache to a clean, current clone of repo.
// A cache directory that is not a git repository is treated as corrupt
// and replaced with a fresh clone.
func EnsureCache(ctx context.Context, repo, cache string) error {
	logger := logging.GetLogger("theme")

	switch {
	case gitx.IsRepo(cache):
		if err := gitx.PullFastForward(ctx, cache); err != nil {
			return errors.Wrap(err, errors.ErrThemeFetch, "failed to update theme cache")
		}
	case dirExists(cache):
		logger.Warn().Str("cache", cache).Msg("Theme cache is not a repository, refetching")
		if err := os.RemoveAll(cache); err != nil {
			return errors.Wrapf(err, errors.ErrThemeFetch, "cannot discard corrupt cache %s", cache)
		}
		fallthrough
	default:
		if err := gitx.Clone(ctx, repo, cache); err != nil {
			return errors.Wrap(err, errors.ErrThemeFetch, "failed to fetch theme repository")
		}
	}
	return nil
}

// copyAsset copies one asset file into destDir, creating the directory
// as needed. Failures are logged and swallowed.
func copyAsset(src, destDir string, validate func(string) error) {
	logger := logging.GetLogger("theme")

	if _, err := os.Stat(src); err != nil {
		logger.Warn().Str("asset", src).Msg("Theme asset not found, skipping")
		return
	}
	if validate != nil {
		if err := validate(src); err != nil {
			logger.Warn().Err(err).Str("asset", src).Msg("Theme asset failed validation, skipping")
			return
		}
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		logger.Warn().Err(err).Str("dir", destDir).Msg("Cannot create theme directory, skipping asset")
		return
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if err := copyFile(src, dest); err != nil {
		logger.Warn().Err(err).Str("asset", src).Msg("Cannot copy theme asset, skipping")
		return
	}
	logger.Info().Str("asset", filepath.Base(src)).Str("dir", destDir).Msg("Theme asset installed")
}

// validateXML rejects terminal color schemes that are not well-formed
// plist XML before they reach the terminal's import path.
func validateXML(path string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return errors.Wrap(err, errors.ErrThemeFetch, "not well-formed XML")
	}
	if doc.Root() == nil {
		return errors.New(errors.ErrThemeFetch, "XML document has no root element")
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
