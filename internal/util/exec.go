package util

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pentafan/pentafan/internal/ui"
)

// SafeCmdExecution runs executable with args and returns its trimmed stdout.
// The executable has to pass CheckFilePermissionsForExecution and is killed after timeout.
func SafeCmdExecution(executable string, args []string, timeout time.Duration) (string, error) {
	path, err := exec.LookPath(executable)
	if err != nil {
		return "", fmt.Errorf("cannot find %s: %w", executable, err)
	}
	if _, err := CheckFilePermissionsForExecution(path); err != nil {
		return "", fmt.Errorf("cannot execute %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	out, err := cmd.Output()

	if ctx.Err() == context.DeadlineExceeded {
		ui.Warning("Command timed out: %s", path)
		return "", ctx.Err()
	}

	if err != nil {
		ui.Debug("Command failed to execute: %s %s: %v", path, strings.Join(args, " "), err)
		return string(out), err
	}

	return strings.Trim(string(out), "\n"), nil
}
