package extern

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqclade/vut/internal/model"
)

// TestRunTool verifies stdout capture from a successful tool run.
func TestRunTool(t *testing.T) {
	out, err := runTool(context.Background(), "", "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

// TestRunTool_Failure verifies that a non-zero exit becomes a CLIError
// with ExitToolError, carrying the command line and the tool's stderr.
func TestRunTool_Failure(t *testing.T) {
	_, err := runTool(context.Background(), "", "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitToolError, cliErr.Code)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "sh -c")
}

// TestRunTool_MissingBinary verifies a nonexistent tool is reported as a
// tool error rather than a panic or a bare exec error.
func TestRunTool_MissingBinary(t *testing.T) {
	_, err := runTool(context.Background(), "", "definitely-not-a-real-tool-xyz")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitToolError, cliErr.Code)
}

// TestRunTool_LogTee verifies that stdout and stderr both land in the
// log file when a log path is given (the treetime.log contract).
func TestRunTool_LogTee(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "treetime.log")

	out, err := runTool(context.Background(), logPath, "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, "out\n", out)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "out")
	assert.Contains(t, string(logged), "err")
}

// TestLookPath verifies the preflight check for installed tools.
func TestLookPath(t *testing.T) {
	assert.NoError(t, LookPath("sh"))

	err := LookPath("definitely-not-a-real-tool-xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in PATH")
}
