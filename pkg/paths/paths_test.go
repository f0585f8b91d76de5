package paths

import (
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaths(t *testing.T) *Paths {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ZSH", "")
	t.Setenv("ZSH_CUSTOM", "")

	p, err := New("~/.dotfiles")
	require.NoError(t, err)
	return p
}

func TestNewExpandsCheckout(t *testing.T) {
	p := newTestPaths(t)
	assert.Equal(t, filepath.Join(p.Home(), ".dotfiles"), p.CheckoutRoot())
	assert.Equal(t, filepath.Join(p.CheckoutRoot(), "dotstrap.toml"), p.ConfigFile())
}

func TestNewRejectsEmptyCheckout(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := New("")
	assert.Error(t, err)
}

func TestBackupDirNaming(t *testing.T) {
	p := newTestPaths(t)

	ts := time.Date(2026, 8, 30, 15, 14, 5, 0, time.UTC)
	dir := p.BackupDir(ts)

	assert.Equal(t, filepath.Join(p.Home(), ".dotfiles-backup-20260830-151405"), dir)
	assert.Regexp(t, regexp.MustCompile(`\.dotfiles-backup-\d{8}-\d{6}$`), dir)
}

func TestZshDirsDefault(t *testing.T) {
	p := newTestPaths(t)

	assert.Equal(t, filepath.Join(p.Home(), ".oh-my-zsh"), p.ZshHome())
	assert.Equal(t, filepath.Join(p.ZshHome(), "custom"), p.ZshCustom())
	assert.Equal(t, filepath.Join(p.ZshHome(), "plugins"), p.BuiltinPluginsDir())
	assert.Equal(t, filepath.Join(p.ZshHome(), "custom", "plugins"), p.CustomPluginsDir())
	assert.Equal(t, filepath.Join(p.ZshHome(), "custom", "themes"), p.PromptThemesDir())
}

func TestZshDirsHonorEnv(t *testing.T) {
	p := newTestPaths(t)
	t.Setenv("ZSH", "/opt/omz")
	t.Setenv("ZSH_CUSTOM", "/opt/omz-custom")

	assert.Equal(t, "/opt/omz", p.ZshHome())
	assert.Equal(t, "/opt/omz-custom", p.ZshCustom())
	assert.Equal(t, filepath.Join("/opt/omz-custom", "plugins"), p.CustomPluginsDir())
}

func TestExpand(t *testing.T) {
	p := newTestPaths(t)

	assert.Equal(t, p.Home(), p.Expand("~"))
	assert.Equal(t, filepath.Join(p.Home(), ".zshrc"), p.Expand("~/.zshrc"))
	assert.Equal(t, "/absolute/path", p.Expand("/absolute/path"))
}

func TestIdentityAndProfileLocations(t *testing.T) {
	p := newTestPaths(t)

	assert.Equal(t, filepath.Join(p.Home(), ".gitconfig.local"), p.IdentityFile())
	assert.Equal(t, filepath.Join(p.Home(), ".zprofile"), p.ZProfile())
}
