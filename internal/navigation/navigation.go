// Package navigation owns the active screen. There are exactly two screens and
// every transition between them is allowed; the controller never moves on its own.
package navigation

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/stockpile/internal/observe"
)

// Screen selects the mutually exclusive UI mode.
type Screen int

const (
	List Screen = iota
	Capture
)

func (s Screen) String() string {
	switch s {
	case List:
		return "list"
	case Capture:
		return "capture"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Valid reports whether s is one of the declared screens.
func (s Screen) Valid() bool { return s == List || s == Capture }

// ParseScreen is the inverse of Screen.String.
func ParseScreen(name string) (Screen, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "list":
		return List, nil
	case "capture":
		return Capture, nil
	default:
		return 0, fmt.Errorf("navigation: unknown screen %q", name)
	}
}

// InvalidScreenError reports a navigation target outside the enumeration. It
// always indicates a programming error.
type InvalidScreenError struct {
	Screen Screen
}

func (e *InvalidScreenError) Error() string {
	return fmt.Sprintf("navigation: invalid screen %d", int(e.Screen))
}

// Change is published after every successful GoTo.
type Change struct {
	From Screen
	To   Screen
}

// Controller holds the current screen. The zero value is not usable; call New.
type Controller struct {
	current Screen
	log     *zap.Logger
	changes observe.Hub[Change]
}

// New returns a controller showing the List screen.
func New(log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{current: List, log: log}
}

// Current returns the active screen.
func (c *Controller) Current() Screen { return c.current }

// GoTo makes s the active screen. Observers are notified even when s is
// already active.
func (c *Controller) GoTo(s Screen) error {
	if !s.Valid() {
		return &InvalidScreenError{Screen: s}
	}
	from := c.current
	c.current = s
	c.log.Debug("navigate", zap.Stringer("from", from), zap.Stringer("to", s))
	c.changes.Publish(Change{From: from, To: s})
	return nil
}

// MustGoTo is GoTo for callers that only ever pass declared screens. It
// panics with *InvalidScreenError otherwise.
func (c *Controller) MustGoTo(s Screen) {
	if err := c.GoTo(s); err != nil {
		panic(err)
	}
}

// Subscribe registers fn for screen changes.
func (c *Controller) Subscribe(fn func(Change)) func() {
	return c.changes.Subscribe(fn)
}
