// Package prompt implements the line-oriented interactive prompts used
// by the identity configurator. Reads and writes go through injected
// streams so flows are fully testable.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/style"
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints the label and returns the entered line, trimmed. An empty
// answer is returned as-is; whether blank values are acceptable is the
// caller's decision.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s ", style.Bold(label))

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "failed to read input")
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question, returning def when the operator just
// presses enter.
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.out, "%s %s ", style.Bold(label), style.Muted("["+hint+"]"))

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, errors.ErrInvalidInput, "failed to read input")
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	case "":
		return def, nil
	default:
		return def, nil
	}
}

// Say prints an informational line to the prompt's output stream.
func (p *Prompter) Say(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}
