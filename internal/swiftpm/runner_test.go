package swiftpm

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("runner tests use sh")
	}
}

func TestRunnerRunSuccess(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner([]string{"PATH=/usr/bin:/bin"}, false)
	require.NoError(t, r.Run(context.Background(), []string{"sh", "-c", "exit 0"}, nil))
}

func TestRunnerRunFailureCarriesArgv(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner([]string{"PATH=/usr/bin:/bin"}, false)
	argv := []string{"sh", "-c", "exit 3"}
	err := r.Run(context.Background(), argv, nil)
	require.Error(t, err)

	var ce *CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, argv, ce.Argv)
	assert.Contains(t, ce.Error(), "exit status 3")
}

func TestRunnerOutputTrimsAndMergesOverlay(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner([]string{"PATH=/usr/bin:/bin"}, false)
	out, err := r.Output(context.Background(), []string{"sh", "-c", `printf "%s\n" "$GREETING"`}, map[string]string{"GREETING": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRunnerOverlayDoesNotLeakBetweenCalls(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner([]string{"PATH=/usr/bin:/bin"}, false)

	out, err := r.Output(context.Background(), []string{"sh", "-c", `printf "%s" "$ONCE"`}, map[string]string{"ONCE": "set"})
	require.NoError(t, err)
	assert.Equal(t, "set", out)

	out, err = r.Output(context.Background(), []string{"sh", "-c", `printf "%s" "$ONCE"`}, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunnerVerboseEchoesCommand(t *testing.T) {
	skipOnWindows(t)
	var stdout bytes.Buffer
	r := NewRunner([]string{"PATH=/usr/bin:/bin"}, true)
	r.Stdout = &stdout
	require.NoError(t, r.Run(context.Background(), []string{"sh", "-c", "exit 0"}, nil))
	assert.Contains(t, stdout.String(), "sh -c \"exit 0\"")
}

func TestRunnerEmptyCommand(t *testing.T) {
	r := NewRunner(nil, false)
	require.Error(t, r.Run(context.Background(), nil, nil))
}
