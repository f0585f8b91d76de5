// Package link materializes managed configuration files at their
// conventional locations. Two interchangeable strategies satisfy the
// same invariant: after a successful run every destination is a symlink
// into the checkout, and any pre-existing real file has been preserved
// in the run's backup directory.
package link

import (
	"context"
	"path/filepath"
	"time"

	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/config"
	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// Strategy deploys the managed links.
type Strategy interface {
	Name() string
	Deploy(ctx context.Context, backup *Backup) error
}

// Run executes the link manager stage with the configured strategy.
func Run(ctx context.Context, rc *bootstrap.RunContext) error {
	logger := logging.GetLogger("link")

	strategy, err := ForConfig(rc)
	if err != nil {
		return err
	}

	backup := NewBackup(rc.Paths.BackupDir(time.Now()))
	logger.Info().Str("strategy", strategy.Name()).Msg("Deploying managed links")

	if err := strategy.Deploy(ctx, backup); err != nil {
		return err
	}

	if backup.Count() > 0 {
		logger.Info().Int("files", backup.Count()).Str("dir", backup.Dir()).Msg("Existing files preserved")
	}
	return nil
}

// ForConfig builds the strategy selected by the configuration.
func ForConfig(rc *bootstrap.RunContext) (Strategy, error) {
	switch rc.Config.Link.Strategy {
	case config.StrategySymlink:
		entries := make([]Entry, 0, len(rc.Config.Link.Entries))
		for _, e := range rc.Config.Link.Entries {
			entries = append(entries, Entry{
				Source: filepath.Join(rc.Paths.CheckoutRoot(), e.Source),
				Target: rc.Paths.Expand(e.Target),
			})
		}
		return &SymlinkStrategy{Entries: entries, DryRun: rc.DryRun}, nil

	case config.StrategyStow:
		conflicts := make([]string, 0, len(rc.Config.Link.Stow.Conflicts))
		for _, c := range rc.Config.Link.Stow.Conflicts {
			conflicts = append(conflicts, rc.Paths.Expand(c))
		}
		return &StowStrategy{
			CheckoutRoot: rc.Paths.CheckoutRoot(),
			TargetDir:    rc.Paths.Home(),
			Packages:     rc.Config.Link.Stow.Packages,
			Conflicts:    conflicts,
			Runner:       rc.Runner,
			DryRun:       rc.DryRun,
		}, nil

	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown link strategy %q", rc.Config.Link.Strategy)
	}
}
