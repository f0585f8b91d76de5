// Package gitx wraps the go-git operations shared by the bootstrap
// stages: fresh clones, fast-forward-only updates, and repository
// detection.
package gitx

import (
	"context"
	"os"

	git "github.com/go-git/go-git/v5"

	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// IsRepo reports whether dir contains a usable git repository.
func IsRepo(dir string) bool {
	_, err := git.PlainOpen(dir)
	return err == nil
}

// Clone performs a fresh clone of url into dir.
func Clone(ctx context.Context, url, dir string) error {
	logger := logging.GetLogger("gitx")
	logger.Info().Str("url", url).Str("dir", dir).Msg("Cloning repository")

	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      url,
		Progress: os.Stderr,
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitClone, "failed to clone %s", url)
	}
	return nil
}

// PullFastForward updates the repository at dir from origin. go-git
// pulls are fast-forward only; a divergent remote fails loudly instead
// of producing a merge, which is exactly what we want for a cache that
// may have been corrupted locally.
func PullFastForward(ctx context.Context, dir string) error {
	logger := logging.GetLogger("gitx")

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitPull, "failed to open repository at %s", dir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitPull, "failed to open worktree at %s", dir)
	}

	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: "origin",
		Progress:   os.Stderr,
	})
	if err == git.NoErrAlreadyUpToDate {
		logger.Debug().Str("dir", dir).Msg("Repository already up to date")
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitPull, "failed to fast-forward %s", dir)
	}

	logger.Info().Str("dir", dir).Msg("Repository updated")
	return nil
}
