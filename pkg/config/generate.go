package config

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dotstrap/pkg/errors"
)

const starterHeader = `# dotstrap configuration
#
# Lives at the root of your dotfiles checkout. Run "dotstrap up" to apply
# everything, or the individual subcommands for single stages.

`

// Starter returns a populated example configuration used by
// "dotstrap init".
func Starter() *Config {
	return &Config{
		Checkout: CheckoutConfig{
			Repo: "https://github.com/you/dotfiles.git",
			Path: "~/.dotfiles",
		},
		Packages: []Package{
			{Name: "git", Kind: KindFormula, Note: "version control"},
			{Name: "ripgrep", Kind: KindFormula, Note: "fast recursive grep"},
			{Name: "iterm2", Kind: KindCask, Note: "terminal emulator"},
		},
		Zsh: ZshConfig{
			Plugins: []string{"git", "zsh-autosuggestions", "zsh-syntax-highlighting"},
		},
		Link: LinkConfig{
			Strategy: StrategySymlink,
			Entries: []LinkEntry{
				{Source: "zsh/zshrc", Target: "~/.zshrc"},
				{Source: "git/gitconfig", Target: "~/.gitconfig"},
			},
			Stow: StowConfig{
				Packages:  []string{"zsh", "git"},
				Conflicts: []string{"~/.zshrc", "~/.gitconfig"},
			},
		},
		Theme: ThemeConfig{
			Repo:          "https://github.com/dracula/zsh.git",
			PromptAsset:   "dracula.zsh-theme",
			TerminalAsset: "Dracula.itermcolors",
		},
	}
}

// Render serializes a configuration to TOML, prefixed with a short
// explanatory header.
func Render(cfg *Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return starterHeader + string(out), nil
}
