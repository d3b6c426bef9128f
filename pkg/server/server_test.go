package server_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/testpilot/pkg/config"
	"github.com/arthur-debert/testpilot/pkg/errors"
	"github.com/arthur-debert/testpilot/pkg/listener"
	"github.com/arthur-debert/testpilot/pkg/server"
	"github.com/arthur-debert/testpilot/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncLauncher records commands across goroutines
type syncLauncher struct {
	mu       sync.Mutex
	commands []string
}

func (l *syncLauncher) Launch(command string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commands = append(l.commands, command)
	return nil
}

func (l *syncLauncher) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.commands...)
}

const serverConfig = `
[[actionSets]]
name = "default"

[[actionSets.rules]]
command = "mocha {filename}"

[actionSets.rules.match]
filename = '\.spec\.js$'
`

func startServer(t *testing.T, dir string) (*syncLauncher, func()) {
	t.Helper()

	launcher := &syncLauncher{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, server.Options{
			Dir:      dir,
			NoWatch:  true,
			Launcher: launcher,
			Notifier: ui.NewPlainNotifier(os.Stderr),
		})
	}()

	// wait for the pipe to appear
	pipePath := filepath.Join(dir, listener.PipeName)
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(pipePath); err == nil {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("server did not create the pipe")
		}
		time.Sleep(10 * time.Millisecond)
	}

	return launcher, func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	}
}

func sendLine(t *testing.T, dir, line string) {
	t.Helper()
	writer, err := os.OpenFile(filepath.Join(dir, listener.PipeName), os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = writer.WriteString(line + "\n")
	require.NoError(t, err)
	require.NoError(t, writer.Close())
}

func waitForCommands(t *testing.T, launcher *syncLauncher, count int) []string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		commands := launcher.snapshot()
		if len(commands) >= count {
			return commands
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d launched commands, have %v", count, commands)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunDispatchesPipeRequests(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileNameTOML), []byte(serverConfig), 0644))

	launcher, shutdown := startServer(t, dir)
	defer shutdown()

	sendLine(t, dir, `{"filename": "a.spec.js"}`)
	sendLine(t, dir, `{"operation": "repeatLastTest"}`)

	commands := waitForCommands(t, launcher, 2)
	assert.Equal(t, []string{"mocha a.spec.js", "mocha a.spec.js"}, commands)
}

func TestRunSurvivesMalformedRequests(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileNameTOML), []byte(serverConfig), 0644))

	launcher, shutdown := startServer(t, dir)
	defer shutdown()

	sendLine(t, dir, `this is not json`)
	sendLine(t, dir, `{"filename": "b.spec.js"}`)

	commands := waitForCommands(t, launcher, 1)
	assert.Equal(t, []string{"mocha b.spec.js"}, commands)
}

func TestRunRemovesPipeOnShutdown(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileNameTOML), []byte(serverConfig), 0644))

	_, shutdown := startServer(t, dir)
	shutdown()

	_, err := os.Stat(filepath.Join(dir, listener.PipeName))
	assert.True(t, os.IsNotExist(err), "pipe must be removed on shutdown")
}

func TestRunRefusesStalePipe(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileNameTOML), []byte(serverConfig), 0644))

	pipe := listener.InDir(dir)
	require.NoError(t, pipe.Create())

	err := server.Run(context.Background(), server.Options{
		Dir:      dir,
		NoWatch:  true,
		Launcher: &syncLauncher{},
		Notifier: ui.NewPlainNotifier(os.Stderr),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPipeExists))
}

func TestRunRequiresConfiguration(t *testing.T) {
	err := server.Run(context.Background(), server.Options{
		Dir:      t.TempDir(),
		NoWatch:  true,
		Launcher: &syncLauncher{},
		Notifier: ui.NewPlainNotifier(os.Stderr),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
