// Package hook runs the local commands the poller attaches to timer transitions.
package hook

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// WaitDelay is how long Run waits for the output pipes to close after the
// command was killed; grandchildren may still hold them open.
const WaitDelay = time.Second

// Run executes argv and waits for it, killing it if ctx ends first.
// An empty argv is a no-op.
func Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return nil
	}

	//nolint:gosec // Commands come from the operator's settings file.
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.WaitDelay = WaitDelay

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("run %q: %w: %s", strings.Join(argv, " "), err, strings.TrimSpace(string(output)))
	}

	return nil
}
