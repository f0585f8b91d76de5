package link

import (
	"context"
	"os"

	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/execx"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// StowStrategy delegates link layout to GNU stow, one invocation per
// package. Stow refuses to overwrite real files, so the declared
// conflict paths are preserved up front.
type StowStrategy struct {
	CheckoutRoot string
	TargetDir    string
	Packages     []string
	Conflicts    []string
	Runner       execx.Runner
	DryRun       bool
}

func (s *StowStrategy) Name() string { return "stow" }

func (s *StowStrategy) Deploy(ctx context.Context, backup *Backup) error {
	logger := logging.GetLogger("link.stow")

	if _, ok := s.Runner.LookPath("stow"); !ok {
		return errors.New(errors.ErrStowInvoke, "stow is not installed, add it to the package manifest")
	}

	if !s.DryRun {
		for _, conflict := range s.Conflicts {
			info, err := os.Lstat(conflict)
			if err != nil {
				continue
			}
			if info.Mode()&os.ModeSymlink != 0 {
				continue
			}
			if err := backup.Preserve(conflict); err != nil {
				return err
			}
		}
	}

	for _, pkg := range s.Packages {
		args := []string{"--dir", s.CheckoutRoot, "--target", s.TargetDir, "--restow", pkg}
		if s.DryRun {
			args = append([]string{"--simulate"}, args...)
		}
		logger.Info().Str("package", pkg).Msg("Stowing package")
		if err := s.Runner.Run(ctx, "stow", args...); err != nil {
			return errors.Wrapf(err, errors.ErrStowInvoke, "stow failed for package %s", pkg)
		}
	}
	return nil
}
