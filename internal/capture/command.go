package capture

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// OutPlaceholder is substituted in CommandCamera.Args with the output file path.
const OutPlaceholder = "{out}"

// exitInterrupted is the conventional status of a program stopped with Ctrl+C.
const exitInterrupted = 130

// CommandCamera takes a photo by running an external snapshot program such as
// fswebcam or termux-camera-photo. The program must write the image to the
// path given in place of OutPlaceholder.
type CommandCamera struct {
	Command    string
	Args       []string
	OutputDir  string
	Permission Permission
	Log        *zap.Logger

	now      func() time.Time
	lookPath func(string) (string, error)
}

// NewCommandCamera returns a camera that runs command with args.
func NewCommandCamera(command string, args []string, outputDir string, perm Permission, log *zap.Logger) *CommandCamera {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandCamera{
		Command:    command,
		Args:       append([]string(nil), args...),
		OutputDir:  outputDir,
		Permission: perm,
		Log:        log,
		now:        time.Now,
		lookPath:   exec.LookPath,
	}
}

// Request runs the snapshot program once.
func (c *CommandCamera) Request(ctx context.Context) (ImageRef, error) {
	if c.Permission == PermissionDenied {
		return "", ErrDeclined
	}
	bin, err := c.lookPath(strings.TrimSpace(c.Command))
	if err != nil {
		c.Log.Debug("camera binary not found", zap.String("command", c.Command), zap.Error(err))
		return "", fmt.Errorf("capture: %s: %w", c.Command, ErrUnavailable)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("capture: mkdir output dir: %w", err)
	}

	out := filepath.Join(c.OutputDir, fmt.Sprintf("photo-%d.jpg", c.now().UnixMilli()))
	// Only a file the program writes on this run counts as a photo.
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("capture: clear stale photo: %w", err)
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = strings.ReplaceAll(a, OutPlaceholder, out)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("capture: %w", ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitInterrupted {
			return "", ErrCancelled
		}
		c.Log.Warn("camera command failed",
			zap.String("command", bin),
			zap.Strings("args", args),
			zap.ByteString("output", output),
			zap.Error(err),
		)
		return "", fmt.Errorf("capture: run %s: %w", filepath.Base(bin), err)
	}

	if _, err := os.Stat(out); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("capture: stat photo: %w", err)
	}
	c.Log.Info("photo captured", zap.String("path", out))
	return ImageRef((&url.URL{Scheme: "file", Path: filepath.ToSlash(out)}).String()), nil
}
