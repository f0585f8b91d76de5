// Package identity manages the machine-local git identity file. The
// shared checkout's gitconfig includes this file, so name, email and
// signing key stay per-machine while everything else is portable.
package identity

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gopasspw/gitconfig"

	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/errors"
	"github.com/arthur-debert/dotstrap/pkg/logging"
	"github.com/arthur-debert/dotstrap/pkg/prompt"
	"github.com/arthur-debert/dotstrap/pkg/style"
)

// Identity holds the three per-machine git settings.
type Identity struct {
	Name       string
	Email      string
	SigningKey string
}

// Load reads the identity file at path. The second return value reports
// whether the file exists at all.
func Load(path string) (*Identity, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrIdentityRead, "cannot inspect %s", path)
	}

	cfg, err := gitconfig.LoadConfig(path)
	if err != nil {
		// Mirror LoadAll's behavior: an unreadable or malformed file
		// yields empty values rather than an error.
		return &Identity{}, true, nil
	}

	name, _ := cfg.Get("user.name")
	email, _ := cfg.Get("user.email")
	signingKey, _ := cfg.Get("user.signingkey")

	return &Identity{
		Name:       name,
		Email:      email,
		SigningKey: signingKey,
	}, true, nil
}

// Render produces the identity file content. The output is
// deterministic: identical identities always render byte-for-byte the
// same file. A signing key pulls in the two companion settings that
// make git actually sign; without one, no signing lines appear at all.
func (i *Identity) Render() string {
	var b strings.Builder
	b.WriteString("[user]\n")
	fmt.Fprintf(&b, "\tname = %s\n", i.Name)
	fmt.Fprintf(&b, "\temail = %s\n", i.Email)
	if i.SigningKey != "" {
		fmt.Fprintf(&b, "\tsigningkey = %s\n", i.SigningKey)
		b.WriteString("[commit]\n\tgpgsign = true\n")
		b.WriteString("[tag]\n\tgpgsign = true\n")
	}
	return b.String()
}

// Save writes the rendered identity to path, replacing any previous
// content wholesale.
func (i *Identity) Save(path string) error {
	if err := os.WriteFile(path, []byte(i.Render()), 0600); err != nil {
		return errors.Wrapf(err, errors.ErrIdentityWrite, "cannot write %s", path)
	}
	return nil
}

// Run executes the identity stage. A missing file prompts for all
// three values; an existing one is shown and only replaced wholesale
// after explicit confirmation. Entered values are not validated, blank
// answers are written as-is.
func Run(ctx context.Context, rc *bootstrap.RunContext) error {
	logger := logging.GetLogger("identity")
	path := rc.Paths.IdentityFile()

	current, exists, err := Load(path)
	if err != nil {
		return err
	}

	if exists {
		rc.Prompter.Say("%s", style.Title("Current git identity"))
		rc.Prompter.Say("  name:        %s", display(current.Name))
		rc.Prompter.Say("  email:       %s", display(current.Email))
		rc.Prompter.Say("  signing key: %s", display(current.SigningKey))

		change, err := rc.Prompter.Confirm("Change all three?", false)
		if err != nil {
			return err
		}
		if !change {
			rc.Prompter.Say("Leaving %s untouched. Edit it directly for partial changes.", path)
			return nil
		}
	}

	id, err := ask(rc.Prompter)
	if err != nil {
		return err
	}

	if rc.DryRun {
		logger.Info().Str("file", path).Msg("Dry run: would write git identity")
		return nil
	}
	if err := id.Save(path); err != nil {
		return err
	}
	logger.Info().Str("file", path).Msg("Git identity written")
	return nil
}

func ask(p *prompt.Prompter) (*Identity, error) {
	id := &Identity{}
	var err error

	if id.Name, err = p.Ask("Git name:"); err != nil {
		return nil, err
	}
	if id.Email, err = p.Ask("Git email:"); err != nil {
		return nil, err
	}
	if id.SigningKey, err = p.Ask("Signing key (empty to skip signing):"); err != nil {
		return nil, err
	}
	return id, nil
}

func display(value string) string {
	if value == "" {
		return style.Muted("(unset)")
	}
	return value
}
