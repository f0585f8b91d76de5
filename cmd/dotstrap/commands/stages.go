package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/brew"
	"github.com/arthur-debert/dotstrap/pkg/identity"
	"github.com/arthur-debert/dotstrap/pkg/link"
	"github.com/arthur-debert/dotstrap/pkg/preflight"
	"github.com/arthur-debert/dotstrap/pkg/style"
	"github.com/arthur-debert/dotstrap/pkg/theme"
	"github.com/arthur-debert/dotstrap/pkg/zsh"
)

type stageSpec struct {
	name  string
	short string
	fn    func(ctx context.Context, rc *bootstrap.RunContext) error
}

// stageCommands lists the pipeline stages in their canonical order.
// Each one is also invocable on its own.
func stageCommands() []stageSpec {
	return []stageSpec{
		{"preflight", MsgPreflightShort, preflight.Run},
		{"brew", MsgBrewShort, brew.Run},
		{"zsh", MsgZshShort, zsh.Run},
		{"link", MsgLinkShort, link.Run},
		{"theme", MsgThemeShort, theme.Run},
		{"identity", MsgIdentityShort, identity.Run},
	}
}

func newStageCmd(spec stageSpec, newRunContext func() (*bootstrap.RunContext, error)) *cobra.Command {
	return &cobra.Command{
		Use:   spec.name,
		Short: spec.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRunContext()
			if err != nil {
				return err
			}
			if err := spec.fn(cmd.Context(), rc); err != nil {
				return err
			}
			if rc.DryRun {
				fmt.Fprintln(cmd.OutOrStdout(), MsgDryRunNotice)
			}
			return nil
		},
	}
}

func newUpCmd(newRunContext func() (*bootstrap.RunContext, error)) *cobra.Command {
	return &cobra.Command{
		Use:     "up",
		Short:   MsgUpShort,
		Example: MsgUpExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRunContext()
			if err != nil {
				return err
			}

			stages := make([]bootstrap.Stage, 0, len(stageCommands()))
			for _, spec := range stageCommands() {
				stages = append(stages, bootstrap.StageFunc{StageName: spec.name, Fn: spec.fn})
			}

			if err := bootstrap.NewPipeline(stages...).Run(cmd.Context(), rc); err != nil {
				return err
			}
			if rc.DryRun {
				fmt.Fprintln(cmd.OutOrStdout(), MsgDryRunNotice)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), style.Success(MsgUpDone))
			return nil
		},
	}
}
