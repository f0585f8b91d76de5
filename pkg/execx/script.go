package execx

import (
	"context"
	"os"

	"github.com/arthur-debert/dotstrap/pkg/errors"
)

// RunRemoteScript fetches a script into a temporary file and executes
// it with the given shell. A multi-line script cannot ride inside a -c
// argument: the inner shell would substitute and word-split it into one
// bogus command instead of executing it, so the script must run from a
// file.
func RunRemoteScript(ctx context.Context, runner Runner, shell, url string, args ...string) error {
	f, err := os.CreateTemp("", "dotstrap-install-*.sh")
	if err != nil {
		return errors.Wrap(err, errors.ErrCommandRun, "cannot create script file")
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrCommandRun, "cannot close %s", path)
	}
	defer os.Remove(path)

	if err := runner.Run(ctx, "curl", "-fsSL", url, "-o", path); err != nil {
		return errors.Wrapf(err, errors.ErrCommandRun, "cannot fetch %s", url)
	}
	return runner.Run(ctx, shell, append([]string{path}, args...)...)
}
