package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getProjectRoot returns the absolute path to the project root.
func getProjectRoot(t *testing.T) string {
	dir, err := os.Getwd()
	require.NoError(t, err)
	// Walk up to find go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	t.Fatal("go.mod not found")
	return ""
}

func buildBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "actlog-test")
	mainDir := filepath.Join(getProjectRoot(t), "cmd", "actlog")

	buildCmd := exec.Command("go", "build", "-o", binPath, ".")
	buildCmd.Dir = mainDir
	output, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(output))
	return binPath
}

// TestExecute verifies that main() builds and executes correctly.
func TestExecute(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping build test in short mode")
	}

	binPath := buildBinary(t)
	info, err := os.Stat(binPath)
	require.NoError(t, err)
	assert.True(t, info.Mode()&0111 != 0, "binary should be executable")
}

// TestMainHelpFlag tests that the help flag works.
func TestMainHelpFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping build test in short mode")
	}

	binPath := buildBinary(t)
	out, err := exec.Command(binPath, "--help").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Actlog")
	assert.Contains(t, string(out), "append-only")
}

// TestMainUnknownCommand tests error handling for unknown commands.
func TestMainUnknownCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping build test in short mode")
	}

	binPath := buildBinary(t)
	out, err := exec.Command(binPath, "definitely-not-a-command").CombinedOutput()
	require.Error(t, err)
	assert.True(t, strings.Contains(string(out), "unknown command"))
}
