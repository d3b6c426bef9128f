// Package executor launches resolved shell commands. Launches are
// fire-and-forget: the subprocess inherits the bridge's stdin, stdout
// and stderr and runs to completion on its own, so a new request can be
// handled while a previous command is still running. Two quick
// successive requests may therefore interleave their output; there is no
// queue, no timeout and no cancellation.
package executor

import (
	"os"
	"os/exec"

	"github.com/arthur-debert/testpilot/pkg/logging"
	"github.com/rs/zerolog"
)

// ShellLauncher spawns commands through `sh -c`
type ShellLauncher struct {
	logger zerolog.Logger
}

// NewShellLauncher creates a launcher spawning real shell processes
func NewShellLauncher() *ShellLauncher {
	return &ShellLauncher{
		logger: logging.GetLogger("executor"),
	}
}

// Launch starts the command and returns as soon as the process is
// running. The exit status is only logged; a failing test command is not
// an error of the bridge.
func (l *ShellLauncher) Launch(command string) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return err
	}

	l.logger.Debug().Int("pid", cmd.Process.Pid).Str("command", command).Msg("command started")

	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Debug().Err(err).Str("command", command).Msg("command exited non-zero")
		} else {
			l.logger.Debug().Str("command", command).Msg("command completed")
		}
	}()

	return nil
}
