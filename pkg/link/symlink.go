package link

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// Entry is one managed link with both paths already absolute.
type Entry struct {
	Source string
	Target string
}

// SymlinkStrategy creates each link directly. Existing symlinks at the
// target are replaced; existing real files are preserved first.
type SymlinkStrategy struct {
	Entries []Entry
	DryRun  bool
}

func (s *SymlinkStrategy) Name() string { return "symlink" }

func (s *SymlinkStrategy) Deploy(ctx context.Context, backup *Backup) error {
	logger := logging.GetLogger("link.symlink")

	for _, entry := range s.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := os.Stat(entry.Source); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "link source %s is missing", entry.Source)
		}

		if s.DryRun {
			logger.Info().Str("source", entry.Source).Str("target", entry.Target).Msg("Dry run: would link")
			continue
		}

		info, err := os.Lstat(entry.Target)
		switch {
		case err == nil && info.Mode()&os.ModeSymlink != 0:
			// Stale or current link, safe to replace.
			if err := os.Remove(entry.Target); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot remove existing link %s", entry.Target)
			}
		case err == nil:
			if err := backup.Preserve(entry.Target); err != nil {
				return err
			}
		case !os.IsNotExist(err):
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot inspect %s", entry.Target)
		}

		if err := os.MkdirAll(filepath.Dir(entry.Target), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create parent of %s", entry.Target)
		}
		if err := os.Symlink(entry.Source, entry.Target); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", entry.Target)
		}
		logger.Info().Str("target", entry.Target).Str("source", entry.Source).Msg("Linked")
	}
	return nil
}
