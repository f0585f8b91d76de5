// Package execx runs the external tools dotstrap orchestrates (brew,
// stow, xcode-select, the remote install scripts). The Runner interface
// exists so stages can be exercised in tests without touching the real
// system.
package execx

import (
	"context"
	"os"
	"os/exec"

	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/logging"
)

// Runner executes external commands.
type Runner interface {
	// Run executes a command with stdio inherited from the process, so
	// interactive installers can talk to the operator.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes a command and captures its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// WithEnv returns a Runner whose commands see the extra KEY=VALUE
	// pairs on top of the current environment.
	WithEnv(kv ...string) Runner
	// LookPath reports where a binary resolves on the runner's PATH, if
	// anywhere.
	LookPath(name string) (string, bool)
}

type systemRunner struct {
	extraEnv []string
}

// New returns a Runner backed by os/exec.
func New() Runner {
	return &systemRunner{}
}

func (r *systemRunner) Run(ctx context.Context, name string, args ...string) error {
	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), r.extraEnv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrCommandRun, "%s failed", name)
	}
	return nil
}

func (r *systemRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), r.extraEnv...)
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return out, errors.Wrapf(err, errors.ErrCommandRun, "%s failed", name)
	}
	return out, nil
}

func (r *systemRunner) WithEnv(kv ...string) Runner {
	merged := make([]string, 0, len(r.extraEnv)+len(kv))
	merged = append(merged, r.extraEnv...)
	merged = append(merged, kv...)
	return &systemRunner{extraEnv: merged}
}

func (r *systemRunner) LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	return path, err == nil
}
