// Package capture models the photo-capture capability: an external collaborator
// that either hands back a reference to a captured image or fails with one of a
// few well-known outcomes.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ImageRef is an opaque handle to a captured image. The zero value means "no photo".
type ImageRef string

// Empty reports whether the reference is absent.
func (r ImageRef) Empty() bool { return strings.TrimSpace(string(r)) == "" }

func (r ImageRef) String() string { return string(r) }

var (
	// ErrDeclined is returned when the user refused camera access.
	ErrDeclined = errors.New("camera permission declined")
	// ErrUnavailable is returned when no camera can be used at all.
	ErrUnavailable = errors.New("camera unavailable")
	// ErrCancelled is returned when the user closed the camera without taking a photo.
	ErrCancelled = errors.New("capture cancelled")
)

// Capability acquires one image. Implementations must honour ctx cancellation.
type Capability interface {
	Request(ctx context.Context) (ImageRef, error)
}

// Func adapts a plain function to Capability.
type Func func(ctx context.Context) (ImageRef, error)

func (f Func) Request(ctx context.Context) (ImageRef, error) { return f(ctx) }

// Offline is a capability with no camera behind it. It always reports
// ErrUnavailable, which callers turn into a placeholder photo.
type Offline struct{}

func (Offline) Request(ctx context.Context) (ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrUnavailable
}

const placeholderFormat = "https://placehold.co/160x160/06b6d4/white?text=Product+%d"

// Placeholder returns the stand-in image used when no camera is available.
// The reference depends only on t.
func Placeholder(t time.Time) ImageRef {
	return ImageRef(fmt.Sprintf(placeholderFormat, t.UnixMilli()))
}

// IsPlaceholder reports whether ref was produced by Placeholder.
func IsPlaceholder(ref ImageRef) bool {
	return strings.HasPrefix(string(ref), "https://placehold.co/160x160/06b6d4/white?text=Product+")
}

// Permission is the user's camera access decision.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission accepts "granted" or "denied" (case-insensitive). Empty means granted.
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PermissionGranted):
		return PermissionGranted, nil
	case string(PermissionDenied):
		return PermissionDenied, nil
	default:
		return "", fmt.Errorf("capture: unknown permission %q", s)
	}
}
