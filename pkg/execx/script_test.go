package execx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRemoteScriptFetchesThenExecutes(t *testing.T) {
	runner := NewFake()

	err := RunRemoteScript(context.Background(), runner, "/bin/bash",
		"https://example.com/install.sh", "--unattended")
	require.NoError(t, err)

	require.Len(t, runner.Calls, 2)
	fetch := runner.Calls[0]
	assert.Equal(t, "curl", fetch.Name)
	assert.Equal(t, []string{"-fsSL", "https://example.com/install.sh", "-o", fetch.Args[3]}, fetch.Args)

	run := runner.Calls[1]
	assert.Equal(t, "/bin/bash", run.Name)
	assert.Equal(t, fetch.Args[3], run.Args[0], "executes the fetched file")
	assert.Equal(t, "--unattended", run.Args[1])
}

// A multi-line installer must execute as a script. Passing it through a
// -c argument instead would get it word-split into a single command
// that exits 127 before running a line.
func TestRunRemoteScriptExecutesMultiLineScript(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	source := filepath.Join(dir, "install.sh")
	script := "#!/bin/sh\nset -e\nfirst=line\necho \"$first\" > /dev/null\necho done > \"$1\"\n"
	require.NoError(t, os.WriteFile(source, []byte(script), 0644))

	err := RunRemoteScript(context.Background(), New(), "/bin/sh", "file://"+source, marker)
	require.NoError(t, err)

	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(content))
}
