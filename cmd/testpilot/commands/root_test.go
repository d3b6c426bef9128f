package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/testpilot/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmdHasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["setup"])
	assert.True(t, names["list"])
	assert.True(t, names["docs"])
}

func TestSetupCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, "setup", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, config.FileNameTOML)

	_, statErr := os.Stat(filepath.Join(dir, config.FileNameTOML))
	assert.NoError(t, statErr)
}

func TestSetupCommandRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t, "setup", "--dir", dir)
	require.NoError(t, err)

	_, err = runCommand(t, "setup", "--dir", dir)
	assert.Error(t, err)
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, "setup", "--dir", dir)
	require.NoError(t, err)

	out, err := runCommand(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1. default")
	assert.Contains(t, out, "echo testing file {filename}")
}

func TestDocsCommand(t *testing.T) {
	out, err := runCommand(t, "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "testpilot")
}

func TestListCommandWithoutConfig(t *testing.T) {
	_, err := runCommand(t, "list", "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestRunWithoutConfigFails(t *testing.T) {
	_, err := runCommand(t, "--dir", t.TempDir())
	assert.Error(t, err)
}
