package extern

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/seqclade/vut/internal/model"
)

// stderrTailLimit bounds how much tool stderr is copied into an error
// message. treetime in particular prints long tracebacks.
const stderrTailLimit = 2000

// runTool executes an external tool and returns its stdout.
//
// When logPath is non-empty, stdout and stderr are additionally teed
// into that file, giving each tree a persistent record of what the tool
// printed (treetime.log). On a non-zero exit the returned error is a
// CLIError with ExitToolError carrying the full command line and the
// tail of stderr.
func runTool(ctx context.Context, logPath, tool string, args ...string) (string, error) {
	// #nosec G204 — tool names are fixed constants and args are built
	// from validated accessions and layout paths, not raw user input.
	cmd := exec.CommandContext(ctx, tool, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if logPath != "" {
		logFile, err := os.Create(logPath)
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to create log file %s", logPath), err)
		}
		defer logFile.Close()
		cmd.Stdout = io.MultiWriter(&stdout, logFile)
		cmd.Stderr = io.MultiWriter(&stderr, logFile)
	}

	if err := cmd.Run(); err != nil {
		message := fmt.Sprintf("%s %s failed", tool, strings.Join(args, " "))
		if tail := tailOf(stderr.String()); tail != "" {
			message = fmt.Sprintf("%s: %s", message, tail)
		}
		return "", model.WrapCLIError(model.ExitToolError, message, err)
	}

	return stdout.String(), nil
}

// tailOf returns the trimmed last stderrTailLimit bytes of s.
func tailOf(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTailLimit {
		s = "..." + s[len(s)-stderrTailLimit:]
	}
	return s
}

// LookPath verifies a tool is installed, returning a CLIError that names
// it when not. Commands call this before starting multi-step pipelines
// so a missing binary fails fast instead of mid-run.
func LookPath(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return model.WrapCLIError(model.ExitToolError,
			fmt.Sprintf("%s not found in PATH", tool), err)
	}
	return nil
}
