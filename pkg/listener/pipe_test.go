package listener

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeCreate(t *testing.T) {
	dir := t.TempDir()
	pipe := InDir(dir)

	require.NoError(t, pipe.Create())

	// ensure it created only the pipe
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, PipeName, entries[0].Name())
	assert.Equal(t, os.ModeNamedPipe, entries[0].Type()&os.ModeNamedPipe)
}

func TestPipeExists(t *testing.T) {
	pipe := InDir(t.TempDir())

	assert.False(t, pipe.Exists())
	require.NoError(t, pipe.Create())
	assert.True(t, pipe.Exists())
}

func TestPipeDelete(t *testing.T) {
	pipe := InDir(t.TempDir())

	require.NoError(t, pipe.Create())
	require.NoError(t, pipe.Delete())
	assert.False(t, pipe.Exists())
}

func TestPipePath(t *testing.T) {
	dir := t.TempDir()
	pipe := InDir(dir)
	assert.Equal(t, filepath.Join(dir, PipeName), pipe.Path())
}

func TestListenDeliversLines(t *testing.T) {
	pipe := InDir(t.TempDir())
	require.NoError(t, pipe.Create())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 16)
	pipe.Listen(ctx, events)

	writer, err := os.OpenFile(pipe.Path(), os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = writer.WriteString(`{"filename": "a.spec.js"}` + "\n" + `{"operation": "repeatLastTest"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	assert.Equal(t, `{"filename": "a.spec.js"}`, receiveLine(t, events))
	assert.Equal(t, `{"operation": "repeatLastTest"}`, receiveLine(t, events))
}

func TestListenSurvivesWriterHangup(t *testing.T) {
	pipe := InDir(t.TempDir())
	require.NoError(t, pipe.Create())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 16)
	pipe.Listen(ctx, events)

	// two separate writers, with a full open/close cycle in between
	for _, line := range []string{`{"actionSet": 1}`, `{"actionSet": 2}`} {
		writer, err := os.OpenFile(pipe.Path(), os.O_WRONLY, 0)
		require.NoError(t, err)
		_, err = writer.WriteString(line + "\n")
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		assert.Equal(t, line, receiveLine(t, events))
	}
}

func receiveLine(t *testing.T, events <-chan Event) string {
	t.Helper()
	select {
	case event := <-events:
		require.NoError(t, event.Err)
		return event.Line
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for pipe event")
		return ""
	}
}
