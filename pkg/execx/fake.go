package execx

import (
	"context"
	"strings"

	"github.com/arthur-debert/dotstrap/pkg/errors"
)

// Call records one command executed through a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a single command line, handy for
// assertions.
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// FakeRunner is a Runner for tests. Outputs maps a command line (as
// produced by Call.String) to canned stdout; Errors maps a command line
// to a failure. Unlisted commands succeed with empty output.
type FakeRunner struct {
	Calls   []Call
	Outputs map[string]string
	Errors  map[string]error
	Env     []string
	Paths   map[string]string
}

// NewFake returns an empty FakeRunner.
func NewFake() *FakeRunner {
	return &FakeRunner{
		Outputs: make(map[string]string),
		Errors:  make(map[string]error),
		Paths:   make(map[string]string),
	}
}

func (f *FakeRunner) record(name string, args []string) Call {
	call := Call{Name: name, Args: args}
	f.Calls = append(f.Calls, call)
	return call
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	call := f.record(name, args)
	if err, ok := f.Errors[call.String()]; ok {
		return errors.Wrapf(err, errors.ErrCommandRun, "%s failed", name)
	}
	return nil
}

func (f *FakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := f.record(name, args)
	if err, ok := f.Errors[call.String()]; ok {
		return nil, errors.Wrapf(err, errors.ErrCommandRun, "%s failed", name)
	}
	return []byte(f.Outputs[call.String()]), nil
}

func (f *FakeRunner) WithEnv(kv ...string) Runner {
	f.Env = append(f.Env, kv...)
	return f
}

func (f *FakeRunner) LookPath(name string) (string, bool) {
	path, ok := f.Paths[name]
	return path, ok
}

// CommandLines returns every recorded call as a command line string.
func (f *FakeRunner) CommandLines() []string {
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.String()
	}
	return lines
}
