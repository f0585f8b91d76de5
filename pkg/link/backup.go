package link

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// Backup receives real files that would otherwise be overwritten by
// link deployment. One backup directory exists per run, created lazily
// on the first preserved file so an idempotent rerun leaves nothing
// behind. Backup directories are never cleaned automatically.
type Backup struct {
	dir   string
	count int
}

// NewBackup prepares a backup rooted at dir without creating it.
func NewBackup(dir string) *Backup {
	return &Backup{dir: dir}
}

// Preserve moves path into the backup directory. Name collisions get a
// numeric suffix so nothing is ever overwritten inside the backup.
func (b *Backup) Preserve(path string) error {
	logger := logging.GetLogger("link.backup")

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "cannot create backup directory %s", b.dir)
	}

	dest := filepath.Join(b.dir, filepath.Base(path))
	for i := 1; ; i++ {
		if _, err := os.Lstat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(b.dir, fmt.Sprintf("%s.%d", filepath.Base(path), i))
	}

	if err := os.Rename(path, dest); err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "cannot move %s to backup", path)
	}

	b.count++
	logger.Info().Str("from", path).Str("to", dest).Msg("Preserved existing file")
	return nil
}

// Dir returns the backup directory path.
func (b *Backup) Dir() string { return b.dir }

// Count returns how many files were preserved this run.
func (b *Backup) Count() int { return b.count }
