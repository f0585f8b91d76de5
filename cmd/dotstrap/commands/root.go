package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotstrap/internal/version"
	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/config"
	"github.com/arthur-debert/dotstrap/pkg/execx"
	"github.com/arthur-debert/dotstrap/pkg/logging"
	"github.com/arthur-debert/dotstrap/pkg/paths"
	"github.com/arthur-debert/dotstrap/pkg/preflight"
	"github.com/arthur-debert/dotstrap/pkg/prompt"
)

// NewRootCmd builds the dotstrap command tree.
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		dryRun     bool
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:   "dotstrap",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", MsgFlagConfig)

	newRunContext := func() (*bootstrap.RunContext, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		p, err := paths.New(cfg.Checkout.Path)
		if err != nil {
			return nil, err
		}
		return &bootstrap.RunContext{
			Config:        cfg,
			Paths:         p,
			Runner:        execx.New(),
			Prompter:      prompt.New(os.Stdin, os.Stdout),
			DryRun:        dryRun,
			SkipPreflight: os.Getenv(preflight.SkipEnvVar) == "1",
		}, nil
	}

	rootCmd.AddCommand(newUpCmd(newRunContext))
	for _, stage := range stageCommands() {
		rootCmd.AddCommand(newStageCmd(stage, newRunContext))
	}
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newGuideCmd())
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: MsgVersionShort,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dotstrap version %s\n", version.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(dotstrap completion bash)

Zsh:
  $ dotstrap completion zsh > "${fpath[1]}/_dotstrap"

Fish:
  $ dotstrap completion fish | source

PowerShell:
  PS> dotstrap completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}
