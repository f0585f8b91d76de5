package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/config"
	"github.com/arthur-debert/dotstrap/pkg/paths"
)

const validColors = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
  <dict>
    <key>Ansi 0 Color</key>
    <dict><key>Red Component</key><real>0.0</real></dict>
  </dict>
</plist>
`

// newThemeRepo builds a local repository standing in for the theme's
// remote, with the given files committed.
func newThemeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func newThemeRunContext(t *testing.T, repo string) *bootstrap.RunContext {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("ZSH", "")
	t.Setenv("ZSH_CUSTOM", "")
	xdg.Reload()

	p, err := paths.New("~/.dotfiles")
	require.NoError(t, err)

	return &bootstrap.RunContext{
		Config: &config.Config{
			Theme: config.ThemeConfig{
				Repo:          repo,
				PromptAsset:   "dracula.zsh-theme",
				TerminalAsset: "Dracula.itermcolors",
			},
		},
		Paths: p,
	}
}

func TestRunFreshCloneCopiesAssets(t *testing.T) {
	repo := newThemeRepo(t, map[string]string{
		"dracula.zsh-theme":   "# prompt theme\n",
		"Dracula.itermcolors": validColors,
	})
	rc := newThemeRunContext(t, repo)

	require.NoError(t, Run(context.Background(), rc))

	assert.FileExists(t, filepath.Join(rc.Paths.PromptThemesDir(), "dracula.zsh-theme"))
	assert.FileExists(t, filepath.Join(rc.Paths.TerminalThemesDir(), "Dracula.itermcolors"))
}

func TestRunMissingAssetIsSoftFailure(t *testing.T) {
	repo := newThemeRepo(t, map[string]string{
		"dracula.zsh-theme": "# prompt theme\n",
	})
	rc := newThemeRunContext(t, repo)

	require.NoError(t, Run(context.Background(), rc))

	assert.FileExists(t, filepath.Join(rc.Paths.PromptThemesDir(), "dracula.zsh-theme"))
	assert.NoFileExists(t, filepath.Join(rc.Paths.TerminalThemesDir(), "Dracula.itermcolors"))
}

func TestRunMalformedTerminalAssetIsSkipped(t *testing.T) {
	repo := newThemeRepo(t, map[string]string{
		"dracula.zsh-theme":   "# prompt theme\n",
		"Dracula.itermcolors": "<plist><dict>",
	})
	rc := newThemeRunContext(t, repo)

	require.NoError(t, Run(context.Background(), rc))

	assert.FileExists(t, filepath.Join(rc.Paths.PromptThemesDir(), "dracula.zsh-theme"))
	assert.NoFileExists(t, filepath.Join(rc.Paths.TerminalThemesDir(), "Dracula.itermcolors"))
}

func TestEnsureCacheReplacesNonRepoDirectory(t *testing.T) {
	repo := newThemeRepo(t, map[string]string{"dracula.zsh-theme": "# theme\n"})
	cache := filepath.Join(t.TempDir(), "theme")

	// Simulate a corrupt cache: files but no repository.
	require.NoError(t, os.MkdirAll(cache, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cache, "stale"), []byte("junk"), 0644))

	require.NoError(t, EnsureCache(context.Background(), repo, cache))

	assert.NoFileExists(t, filepath.Join(cache, "stale"))
	assert.FileExists(t, filepath.Join(cache, "dracula.zsh-theme"))
}

func TestEnsureCachePullsExistingRepo(t *testing.T) {
	repo := newThemeRepo(t, map[string]string{"dracula.zsh-theme": "# theme\n"})
	cache := filepath.Join(t.TempDir(), "theme")

	require.NoError(t, EnsureCache(context.Background(), repo, cache))
	// Second call is an up-to-date fast-forward pull.
	require.NoError(t, EnsureCache(context.Background(), repo, cache))
	assert.FileExists(t, filepath.Join(cache, "dracula.zsh-theme"))
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	repo := newThemeRepo(t, map[string]string{"dracula.zsh-theme": "# theme\n"})
	rc := newThemeRunContext(t, repo)
	rc.DryRun = true

	require.NoError(t, Run(context.Background(), rc))
	assert.NoDirExists(t, rc.Paths.ThemeCacheDir())
}

func TestRunNoRepoConfiguredIsNoop(t *testing.T) {
	rc := newThemeRunContext(t, "")
	require.NoError(t, Run(context.Background(), rc))
	assert.NoDirExists(t, rc.Paths.ThemeCacheDir())
}

func TestValidateXML(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.itermcolors")
	require.NoError(t, os.WriteFile(good, []byte(validColors), 0644))
	assert.NoError(t, validateXML(good))

	bad := filepath.Join(dir, "bad.itermcolors")
	require.NoError(t, os.WriteFile(bad, []byte("not xml at all <"), 0644))
	assert.Error(t, validateXML(bad))
}
