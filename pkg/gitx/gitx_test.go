package gitx

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRepoFalseForPlainDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), []byte("x"), 0644))

	assert.False(t, IsRepo(dir))
}

func TestIsRepoFalseForMissingDir(t *testing.T) {
	assert.False(t, IsRepo(filepath.Join(t.TempDir(), "nope")))
}

func TestIsRepoTrueAfterInit(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	assert.True(t, IsRepo(dir))
}
