// Package preflight verifies the native toolchain is available and
// ensures the run continues from the canonical checkout location.
package preflight

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/gitx"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// SkipEnvVar suppresses the toolchain probe when set to "1". It is set
// for child processes after a relocation so a relaunched instance does
// not probe again.
const SkipEnvVar = "DOTSTRAP_SKIP_PREFLIGHT"

// MsgToolchainMissing is shown when the command-line tools are absent.
// The installer is GUI-driven and asynchronous, so the run cannot wait
// for it.
const MsgToolchainMissing = "Xcode command-line tools are not installed. " +
	"The installer has been launched; rerun dotstrap once it finishes."

// Run executes the preflight stage: toolchain probe, then relocation.
func Run(ctx context.Context, rc *bootstrap.RunContext) error {
	if err := Check(ctx, rc); err != nil {
		return err
	}
	_, err := Relocate(ctx, rc)
	return err
}

// Check probes for the Xcode command-line tools. This is a capability
// probe, not a version check: xcode-select -p succeeding is enough. On a
// miss it triggers the interactive installer and returns a blocking
// error so the operator can rerun after it completes.
func Check(ctx context.Context, rc *bootstrap.RunContext) error {
	logger := logging.GetLogger("preflight")

	if rc.SkipPreflight || os.Getenv(SkipEnvVar) == "1" {
		logger.Debug().Msg("Toolchain probe skipped")
		return nil
	}

	if _, err := rc.Runner.Output(ctx, "xcode-select", "-p"); err == nil {
		logger.Debug().Msg("Toolchain present")
		return nil
	}

	logger.Warn().Msg("Toolchain missing, launching installer")
	// Best effort: the installer pops a GUI dialog and returns
	// immediately. Its exit status carries no useful signal here.
	_ = rc.Runner.Run(ctx, "xcode-select", "--install")

	return errors.New(errors.ErrPreflightBlocked, MsgToolchainMissing)
}

// Relocate ensures the run is rooted at the canonical checkout. When the
// current directory is not the canonical checkout it removes any partial
// prior checkout there, clones fresh if needed, and marks the context so
// the continued run skips the toolchain probe. The historical shell
// re-exec becomes a plain in-process continuation: later stages resolve
// every path through rc.Paths, which already points at the canonical
// root.
func Relocate(ctx context.Context, rc *bootstrap.RunContext) (bool, error) {
	logger := logging.GetLogger("preflight")

	canonical := rc.Paths.CheckoutRoot()
	cwd, err := os.Getwd()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrRelocate, "cannot determine working directory")
	}

	if IsCanonical(cwd, canonical) {
		logger.Debug().Str("checkout", canonical).Msg("Already running from canonical checkout")
		return false, nil
	}

	if !gitx.IsRepo(canonical) {
		if rc.DryRun {
			logger.Info().Str("checkout", canonical).Msg("Dry run: would fetch fresh checkout")
			return true, nil
		}
		// A directory without version-control metadata is a partial
		// prior checkout and gets discarded before the fresh clone.
		if _, statErr := os.Stat(canonical); statErr == nil {
			logger.Warn().Str("checkout", canonical).Msg("Removing partial checkout")
			if err := os.RemoveAll(canonical); err != nil {
				return false, errors.Wrap(err, errors.ErrRelocate, "failed to remove partial checkout")
			}
		}

		repo := rc.Config.Checkout.Repo
		if repo == "" {
			return false, errors.New(errors.ErrRelocate, "checkout.repo is not configured")
		}
		if err := gitx.Clone(ctx, repo, canonical); err != nil {
			return false, err
		}
	}

	rc.SkipPreflight = true
	if err := os.Setenv(SkipEnvVar, "1"); err != nil {
		return false, errors.Wrap(err, errors.ErrRelocate, "failed to set skip flag")
	}

	logger.Info().Str("from", cwd).Str("to", canonical).Msg("Continuing from canonical checkout")
	return true, nil
}

// IsCanonical reports whether dir is the canonical checkout: same
// location and carrying version-control metadata.
func IsCanonical(dir, canonical string) bool {
	if filepath.Clean(dir) != filepath.Clean(canonical) {
		return false
	}
	return gitx.IsRepo(dir)
}
