package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotstrap/pkg/config"
	"github.com/arthur-debert/dotstrap/pkg/errors"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: MsgInitShort,
		Long: `Writes a commented starter dotstrap.toml to the current directory.
The file belongs at the root of your dotfiles checkout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(config.ConfigFileName); err == nil {
				return errors.Newf(errors.ErrInvalidInput, MsgInitExistsError, config.ConfigFileName)
			}

			content, err := config.Render(config.Starter())
			if err != nil {
				return err
			}
			if err := os.WriteFile(config.ConfigFileName, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "cannot write %s", config.ConfigFileName)
			}

			fmt.Fprintf(cmd.OutOrStdout(), MsgInitDone+"\n", config.ConfigFileName)
			return nil
		},
	}
}
