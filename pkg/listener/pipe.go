// Package listener owns the named pipe that editor plugins write
// requests into, and turns pipe lines into events on a channel.
package listener

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/testpilot/pkg/errors"
	"github.com/arthur-debert/testpilot/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// PipeName is the request pipe's filename inside the working directory
const PipeName = ".testpilot.pipe"

// Event is one occurrence on the request pipe: either a line written by
// an editor plugin, or a terminal read failure
type Event struct {
	Line string
	Err  error
}

// Pipe is the named pipe the bridge listens on
type Pipe struct {
	path   string
	logger zerolog.Logger
}

// InDir constructs the request pipe for the given directory
func InDir(dir string) *Pipe {
	return &Pipe{
		path:   filepath.Join(dir, PipeName),
		logger: logging.GetLogger("listener"),
	}
}

// Path returns the pipe's filesystem path
func (p *Pipe) Path() string {
	return p.path
}

// Exists reports whether the pipe file is already present. A leftover
// pipe usually means another instance is running (or crashed without
// cleaning up).
func (p *Pipe) Exists() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// Create makes the FIFO, readable only by the owning user
func (p *Pipe) Create() error {
	if err := unix.Mkfifo(p.path, 0o600); err != nil {
		return errors.Wrapf(err, errors.ErrPipeCreate, "cannot create pipe %s", p.path)
	}
	p.logger.Debug().Str("path", p.path).Msg("pipe created")
	return nil
}

// Delete removes the pipe file
func (p *Pipe) Delete() error {
	if err := os.Remove(p.path); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot delete pipe %s", p.path)
	}
	return nil
}

// Listen reads the pipe on its own goroutine and emits one Event per
// line. A FIFO signals EOF whenever the last writer hangs up, so the
// pipe is reopened after every drained reader. The goroutine stops when
// the context is cancelled or the pipe becomes unreadable; its last
// event then carries the error.
func (p *Pipe) Listen(ctx context.Context, events chan<- Event) {
	go func() {
		for {
			if ctx.Err() != nil {
				return
			}

			// blocks until a writer opens the pipe
			file, err := os.Open(p.path)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				events <- Event{Err: errors.Wrapf(err, errors.ErrPipeRead, "cannot open pipe %s", p.path)}
				return
			}

			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := scanner.Text()
				if line == "" {
					continue
				}
				p.logger.Trace().Str("line", line).Msg("pipe line received")
				events <- Event{Line: line}
			}
			readErr := scanner.Err()
			_ = file.Close()

			if readErr != nil {
				events <- Event{Err: errors.Wrapf(readErr, errors.ErrPipeRead, "error reading pipe %s", p.path)}
				return
			}
		}
	}()
}
