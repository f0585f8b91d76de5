// Package paths centralizes every filesystem location dotstrap touches:
// the canonical checkout, the per-run backup directory, the zsh framework
// directories, the theme cache, and the local identity file.
//
// Keeping the layout in one place means the stages never build paths from
// ambient state on their own.
package paths

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/dotstrap/pkg/errors"
)

// BackupDirPrefix is the leading component of per-run backup directories
// created in the user's home.
const BackupDirPrefix = ".dotfiles-backup-"

// backupTimestampLayout produces names like .dotfiles-backup-20260830-151405
const backupTimestampLayout = "20060102-150405"

// Paths resolves the well-known locations used by the bootstrap stages.
type Paths struct {
	home     string
	checkout string
}

// New creates a Paths instance rooted at the given checkout location.
// The checkout may use a leading ~ which is expanded against the user's
// home directory.
func New(checkout string) (*Paths, error) {
	home := os.Getenv("HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "cannot determine home directory")
		}
	}

	p := &Paths{home: home}
	if checkout == "" {
		return nil, errors.New(errors.ErrInvalidInput, "checkout path must not be empty")
	}
	p.checkout = p.Expand(checkout)
	return p, nil
}

// Home returns the user's home directory.
func (p *Paths) Home() string {
	return p.home
}

// CheckoutRoot returns the canonical dotfiles checkout location.
func (p *Paths) CheckoutRoot() string {
	return p.checkout
}

// ConfigFile returns the path of the checkout's dotstrap.toml.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.checkout, "dotstrap.toml")
}

// BackupDir returns the per-run backup directory name for the given
// timestamp. The directory is not created here; backups are lazy so a
// clean rerun leaves no empty directories behind.
func (p *Paths) BackupDir(ts time.Time) string {
	return filepath.Join(p.home, BackupDirPrefix+ts.Format(backupTimestampLayout))
}

// ZshHome returns the oh-my-zsh installation directory, honoring $ZSH.
func (p *Paths) ZshHome() string {
	if zsh := os.Getenv("ZSH"); zsh != "" {
		return zsh
	}
	return filepath.Join(p.home, ".oh-my-zsh")
}

// ZshCustom returns the oh-my-zsh custom-extensions directory, honoring
// $ZSH_CUSTOM.
func (p *Paths) ZshCustom() string {
	if custom := os.Getenv("ZSH_CUSTOM"); custom != "" {
		return custom
	}
	return filepath.Join(p.ZshHome(), "custom")
}

// BuiltinPluginsDir returns the directory holding the framework's
// built-in plugins.
func (p *Paths) BuiltinPluginsDir() string {
	return filepath.Join(p.ZshHome(), "plugins")
}

// CustomPluginsDir returns the directory third-party plugins are cloned
// into.
func (p *Paths) CustomPluginsDir() string {
	return filepath.Join(p.ZshCustom(), "plugins")
}

// PromptThemesDir returns the directory shell-prompt themes are copied
// into.
func (p *Paths) PromptThemesDir() string {
	return filepath.Join(p.ZshCustom(), "themes")
}

// TerminalThemesDir returns the directory terminal color schemes are
// copied into for manual import.
func (p *Paths) TerminalThemesDir() string {
	return filepath.Join(xdg.DataHome, "dotstrap", "terminal-themes")
}

// ThemeCacheDir returns the clone location for the external theme
// repository, under the XDG cache directory.
func (p *Paths) ThemeCacheDir() string {
	return filepath.Join(xdg.CacheHome, "dotstrap", "theme")
}

// IdentityFile returns the path of the machine-local git identity file.
// It lives outside the managed checkout so the shared configuration stays
// portable while identity remains per-machine.
func (p *Paths) IdentityFile() string {
	return filepath.Join(p.home, ".gitconfig.local")
}

// ZProfile returns the login-shell profile that receives the package
// manager activation line.
func (p *Paths) ZProfile() string {
	return filepath.Join(p.home, ".zprofile")
}

// Expand resolves a leading ~ against the home directory and expands
// environment variable references.
func (p *Paths) Expand(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" {
		return p.home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(p.home, path[2:])
	}
	return path
}
