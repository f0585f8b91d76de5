package brew

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstrap/pkg/bootstrap"
	"github.com/arthur-debert/dotstrap/pkg/config"
	"github.com/arthur-debert/dotstrap/pkg/execx"
	"github.com/arthur-debert/dotstrap/pkg/paths"
	"github.com/arthur-debert/dotstrap/pkg/prompt"
)

func TestRenderBrewfile(t *testing.T) {
	packages := []config.Package{
		{Name: "git", Kind: config.KindFormula, Note: "version control"},
		{Name: "ripgrep", Kind: config.KindFormula},
		{Name: "iterm2", Kind: config.KindCask, Note: "terminal emulator"},
	}

	out := RenderBrewfile(packages)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `brew "git" # version control`, lines[1])
	assert.Equal(t, `brew "ripgrep"`, lines[2])
	assert.Equal(t, `cask "iterm2" # terminal emulator`, lines[3])
}

func TestRenderBrewfilePreservesOrder(t *testing.T) {
	packages := []config.Package{
		{Name: "zzz", Kind: config.KindFormula},
		{Name: "aaa", Kind: config.KindFormula},
	}

	out := RenderBrewfile(packages)
	assert.Less(t, strings.Index(out, "zzz"), strings.Index(out, "aaa"))
}

func TestDetectIn(t *testing.T) {
	dir := t.TempDir()
	brewBin := filepath.Join(dir, "brew")
	require.NoError(t, os.WriteFile(brewBin, []byte("#!/bin/sh\n"), 0755))

	path, found := detectIn([]string{filepath.Join(dir, "missing"), brewBin})
	assert.True(t, found)
	assert.Equal(t, brewBin, path)

	_, found = detectIn([]string{filepath.Join(dir, "missing")})
	assert.False(t, found)
}

func TestInstallFetchesAndRunsScript(t *testing.T) {
	runner := execx.NewFake()

	require.NoError(t, Install(context.Background(), runner))

	// Fetch to a file, then execute that file. The multi-line installer
	// cannot be passed inside a -c argument.
	require.Len(t, runner.Calls, 2)
	fetch := runner.Calls[0]
	assert.Equal(t, "curl", fetch.Name)
	assert.Contains(t, fetch.Args, installScriptURL)

	install := runner.Calls[1]
	assert.Equal(t, "/bin/bash", install.Name)
	assert.Equal(t, []string{fetch.Args[3]}, install.Args)
}

func TestEnsureShellenvLineCreatesAndAppends(t *testing.T) {
	profile := filepath.Join(t.TempDir(), ".zprofile")

	added, err := EnsureShellenvLine(profile, "/opt/homebrew/bin/brew")
	require.NoError(t, err)
	assert.True(t, added)

	content, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Contains(t, string(content), shellenvMarker)
	assert.Contains(t, string(content), `eval "$(/opt/homebrew/bin/brew shellenv)"`)
}

func TestEnsureShellenvLineIdempotent(t *testing.T) {
	profile := filepath.Join(t.TempDir(), ".zprofile")

	added, err := EnsureShellenvLine(profile, "/opt/homebrew/bin/brew")
	require.NoError(t, err)
	require.True(t, added)

	first, err := os.ReadFile(profile)
	require.NoError(t, err)

	added, err = EnsureShellenvLine(profile, "/opt/homebrew/bin/brew")
	require.NoError(t, err)
	assert.False(t, added)

	second, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Equal(t, first, second, "second run must not change the profile")
}

func TestEnsureShellenvLinePreservesExistingContent(t *testing.T) {
	profile := filepath.Join(t.TempDir(), ".zprofile")
	require.NoError(t, os.WriteFile(profile, []byte("export EDITOR=vim\n"), 0644))

	_, err := EnsureShellenvLine(profile, "/opt/homebrew/bin/brew")
	require.NoError(t, err)

	content, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "export EDITOR=vim\n"))
}

func TestParseShellenv(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")

	out := `export HOMEBREW_PREFIX="/opt/homebrew";
export HOMEBREW_CELLAR="/opt/homebrew/Cellar";
export PATH="/opt/homebrew/bin:/opt/homebrew/sbin${PATH+:$PATH}";
`
	pairs := ParseShellenv(out)

	assert.Contains(t, pairs, "HOMEBREW_PREFIX=/opt/homebrew")
	assert.Contains(t, pairs, "HOMEBREW_CELLAR=/opt/homebrew/Cellar")
	assert.Contains(t, pairs, "PATH=/opt/homebrew/bin:/opt/homebrew/sbin:/usr/bin")
}

func TestParseShellenvIgnoresNonExportLines(t *testing.T) {
	out := "fpath[1,0]=\"/opt/homebrew/share/zsh/site-functions\";\n"
	assert.Empty(t, ParseShellenv(out))
}

func TestApplyInvokesBundleWithoutLock(t *testing.T) {
	runner := execx.NewFake()

	err := Apply(context.Background(), runner, "/opt/homebrew/bin/brew", "brew \"git\"\n")
	require.NoError(t, err)

	require.Len(t, runner.Calls, 1)
	call := runner.Calls[0]
	assert.Equal(t, "/opt/homebrew/bin/brew", call.Name)
	assert.Equal(t, "bundle", call.Args[0])
	assert.True(t, strings.HasPrefix(call.Args[1], "--file="))
	assert.Contains(t, runner.Env, "HOMEBREW_BUNDLE_NO_LOCK=1")
}

func TestRunWithBrewPresent(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HOMEBREW_PREFIX", "")

	brewBin := filepath.Join(t.TempDir(), "brew")
	require.NoError(t, os.WriteFile(brewBin, []byte("#!/bin/sh\n"), 0755))

	orig := brewLocations
	brewLocations = []string{brewBin}
	t.Cleanup(func() { brewLocations = orig })

	p, err := paths.New("~/.dotfiles")
	require.NoError(t, err)

	runner := execx.NewFake()
	runner.Outputs[brewBin+" shellenv"] = "export HOMEBREW_PREFIX=\"/opt/test\";\n"

	rc := &bootstrap.RunContext{
		Config: &config.Config{
			Packages: []config.Package{{Name: "git", Kind: config.KindFormula}},
		},
		Paths:  p,
		Runner: runner,
	}

	require.NoError(t, Run(context.Background(), rc))

	lines := runner.CommandLines()
	assert.Contains(t, lines, brewBin+" shellenv")
	assert.Contains(t, lines, brewBin+" update")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], brewBin+" bundle --file="))

	assert.Equal(t, "/opt/test", os.Getenv("HOMEBREW_PREFIX"))
	assert.FileExists(t, p.ZProfile())
}

func TestRunDryRunExecutesNothing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	brewBin := filepath.Join(t.TempDir(), "brew")
	require.NoError(t, os.WriteFile(brewBin, []byte("#!/bin/sh\n"), 0755))

	orig := brewLocations
	brewLocations = []string{brewBin}
	t.Cleanup(func() { brewLocations = orig })

	p, err := paths.New("~/.dotfiles")
	require.NoError(t, err)

	runner := execx.NewFake()
	out := &bytes.Buffer{}
	rc := &bootstrap.RunContext{
		Config: &config.Config{
			Packages: []config.Package{{Name: "git", Kind: config.KindFormula}},
		},
		Paths:    p,
		Runner:   runner,
		Prompter: prompt.New(strings.NewReader(""), out),
		DryRun:   true,
	}

	require.NoError(t, Run(context.Background(), rc))

	assert.Empty(t, runner.Calls)
	assert.Contains(t, out.String(), `brew "git"`)
}

func TestRunDryRunWithoutBrewSkipsInstall(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	orig := brewLocations
	brewLocations = []string{filepath.Join(t.TempDir(), "missing")}
	t.Cleanup(func() { brewLocations = orig })

	p, err := paths.New("~/.dotfiles")
	require.NoError(t, err)

	runner := execx.NewFake()
	out := &bytes.Buffer{}
	rc := &bootstrap.RunContext{
		Config: &config.Config{
			Packages: []config.Package{{Name: "ripgrep", Kind: config.KindFormula}},
		},
		Paths:    p,
		Runner:   runner,
		Prompter: prompt.New(strings.NewReader(""), out),
		DryRun:   true,
	}

	require.NoError(t, Run(context.Background(), rc))

	assert.Empty(t, runner.Calls, "dry run must not fetch the installer")
	assert.Contains(t, out.String(), `brew "ripgrep"`)
}
