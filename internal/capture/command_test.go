package capture

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Script tests run serially: executing a freshly written file while another
// test forks can fail with ETXTBSY.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "snap")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestCommandCameraWritesPhoto(t *testing.T) {
	script := writeScript(t, `touch "$1"`)
	out := t.TempDir()
	cam := NewCommandCamera(script, []string{OutPlaceholder}, out, PermissionGranted, zaptest.NewLogger(t))
	cam.now = func() time.Time { return time.UnixMilli(42) }

	ref, err := cam.Request(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref.String(), "file://"))
	require.True(t, strings.HasSuffix(ref.String(), "photo-42.jpg"))
	_, err = os.Stat(filepath.Join(out, "photo-42.jpg"))
	require.NoError(t, err)
}

func TestCommandCameraDeniedPermission(t *testing.T) {
	cam := NewCommandCamera("definitely-not-run", nil, t.TempDir(), PermissionDenied, nil)
	_, err := cam.Request(context.Background())
	require.ErrorIs(t, err, ErrDeclined)
}

func TestCommandCameraMissingBinary(t *testing.T) {
	cam := NewCommandCamera("stockpile-no-such-camera", nil, t.TempDir(), PermissionGranted, nil)
	_, err := cam.Request(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCommandCameraInterrupted(t *testing.T) {
	script := writeScript(t, "exit 130")
	cam := NewCommandCamera(script, []string{OutPlaceholder}, t.TempDir(), PermissionGranted, nil)
	_, err := cam.Request(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
}

func TestCommandCameraNoPhotoWritten(t *testing.T) {
	script := writeScript(t, "exit 0")
	cam := NewCommandCamera(script, []string{OutPlaceholder}, t.TempDir(), PermissionGranted, nil)
	_, err := cam.Request(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
}

func TestCommandCameraIgnoresLeftoverPhoto(t *testing.T) {
	script := writeScript(t, "exit 0")
	out := t.TempDir()
	leftover := filepath.Join(out, "photo-42.jpg")
	require.NoError(t, os.WriteFile(leftover, []byte("old"), 0o600))

	cam := NewCommandCamera(script, []string{OutPlaceholder}, out, PermissionGranted, nil)
	cam.now = func() time.Time { return time.UnixMilli(42) }

	_, err := cam.Request(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
	require.NoFileExists(t, leftover)
}

func TestCommandCameraFailure(t *testing.T) {
	script := writeScript(t, "echo 'no device' >&2; exit 3")
	cam := NewCommandCamera(script, []string{OutPlaceholder}, t.TempDir(), PermissionGranted, zaptest.NewLogger(t))
	_, err := cam.Request(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCancelled)
	require.NotErrorIs(t, err, ErrUnavailable)
	require.NotErrorIs(t, err, ErrDeclined)
}

func TestCommandCameraHonoursCancellation(t *testing.T) {
	script := writeScript(t, "exec sleep 5")
	cam := NewCommandCamera(script, []string{OutPlaceholder}, t.TempDir(), PermissionGranted, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := cam.Request(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
