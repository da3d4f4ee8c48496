// Package presenter mediates between user intents and the two stores. Presenters
// hold only view-local state (the capture draft, a pending delete confirmation,
// the list filter) and expose read-only projections for rendering.
package presenter

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jask/stockpile/internal/capture"
	"github.com/jask/stockpile/internal/catalog"
	"github.com/jask/stockpile/internal/navigation"
)

var (
	// ErrIncomplete is returned by Save when the draft lacks a name or description.
	ErrIncomplete = errors.New("presenter: name and description are required")
	// ErrCaptureInProgress is returned by CapturePhoto while a capture is running.
	ErrCaptureInProgress = errors.New("presenter: a capture is already running")
)

// DefaultCaptureTimeout bounds a capture when CaptureDeps.Timeout is zero.
const DefaultCaptureTimeout = 30 * time.Second

// Draft is the unsaved input on the capture screen.
type Draft struct {
	Name        string
	Description string
	Image       capture.ImageRef
}

// Complete reports whether both text fields are non-blank.
func (d Draft) Complete() bool {
	return strings.TrimSpace(d.Name) != "" && strings.TrimSpace(d.Description) != ""
}

// NoticeKind grades a notice for display.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeWarning
	NoticeError
)

// Notice is a recoverable message for the user.
type Notice struct {
	Kind  NoticeKind
	Title string
	Text  string
}

// CaptureDeps wires a CaptureForm.
type CaptureDeps struct {
	Store   *catalog.Store
	Nav     *navigation.Controller
	Camera  capture.Capability
	Timeout time.Duration
	Now     func() time.Time
	Log     *zap.Logger
}

// CaptureForm owns the draft for a new product and the photo capture that may
// feed it. At most one capture runs per form.
type CaptureForm struct {
	store   *catalog.Store
	nav     *navigation.Controller
	camera  capture.Capability
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger

	draft  Draft
	task   *capture.Task
	notice *Notice
	unsub  func()
}

// NewCaptureForm builds a form and subscribes it to navigation: entering the
// capture screen resets the draft and leaving it abandons a running capture.
func NewCaptureForm(deps CaptureDeps) *CaptureForm {
	f := &CaptureForm{
		store:   deps.Store,
		nav:     deps.Nav,
		camera:  deps.Camera,
		timeout: deps.Timeout,
		now:     deps.Now,
		log:     deps.Log,
	}
	if f.camera == nil {
		f.camera = capture.Offline{}
	}
	if f.timeout <= 0 {
		f.timeout = DefaultCaptureTimeout
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}
	f.unsub = f.nav.Subscribe(f.onNavigate)
	return f
}

func (f *CaptureForm) onNavigate(ch navigation.Change) {
	switch {
	case ch.To == navigation.Capture && ch.From != navigation.Capture:
		f.reset()
	case ch.From == navigation.Capture && ch.To != navigation.Capture:
		f.abandon()
	}
}

// Draft returns the current draft.
func (f *CaptureForm) Draft() Draft { return f.draft }

// SetName replaces the draft name, cut to catalog.MaxNameLength characters.
func (f *CaptureForm) SetName(name string) {
	if utf8.RuneCountInString(name) > catalog.MaxNameLength {
		name = string([]rune(name)[:catalog.MaxNameLength])
	}
	f.draft.Name = name
}

// SetDescription replaces the draft description.
func (f *CaptureForm) SetDescription(description string) {
	f.draft.Description = description
}

// CanSave reports whether Save would be accepted.
func (f *CaptureForm) CanSave() bool { return f.draft.Complete() }

// Capturing reports whether a capture is in flight.
func (f *CaptureForm) Capturing() bool { return f.task != nil }

// Notice returns the pending notice, if any.
func (f *CaptureForm) Notice() (Notice, bool) {
	if f.notice == nil {
		return Notice{}, false
	}
	return *f.notice, true
}

// DismissNotice clears the pending notice.
func (f *CaptureForm) DismissNotice() { f.notice = nil }

// CapturePhoto starts the camera. The caller waits on the returned task and
// hands the result back through CompleteCapture.
func (f *CaptureForm) CapturePhoto(ctx context.Context) (*capture.Task, error) {
	if f.task != nil {
		return nil, ErrCaptureInProgress
	}
	f.task = capture.Start(ctx, f.camera, f.timeout, f.now())
	f.log.Debug("capture started", zap.Uint64("task", f.task.ID()))
	return f.task, nil
}

// CompleteCapture applies the result of task. Results from a task the form no
// longer waits on (after save, cancel or navigation away) are dropped and
// false is returned.
func (f *CaptureForm) CompleteCapture(task *capture.Task, res capture.Result) bool {
	if task == nil || task != f.task {
		if task != nil {
			f.log.Debug("stale capture result discarded", zap.Uint64("task", task.ID()))
		}
		return false
	}
	f.task = nil

	switch err := res.Err; {
	case err == nil && !res.Ref.Empty():
		f.draft.Image = res.Ref
		f.notice = &Notice{Kind: NoticeInfo, Title: "Photo", Text: "Image ready to save."}
	case err == nil, errors.Is(err, capture.ErrCancelled), errors.Is(err, context.Canceled):
		// The user closed the camera; nothing to report.
	case errors.Is(err, capture.ErrDeclined):
		f.notice = &Notice{Kind: NoticeWarning, Title: "Permission required", Text: "Camera access is needed to take a product photo."}
	case errors.Is(err, capture.ErrUnavailable):
		f.draft.Image = capture.Placeholder(task.InvokedAt())
		f.notice = &Notice{Kind: NoticeInfo, Title: "Simulation", Text: "A test image was loaded. Use a device with a camera for real photos."}
	default:
		f.log.Error("capture failed", zap.Uint64("task", task.ID()), zap.Error(err))
		f.notice = &Notice{Kind: NoticeError, Title: "Camera error", Text: "There was a problem opening the camera."}
	}
	return true
}

// Save commits the draft to the catalog and returns to the list.
func (f *CaptureForm) Save(ctx context.Context) (catalog.Product, error) {
	if !f.CanSave() {
		return catalog.Product{}, ErrIncomplete
	}
	p, err := f.store.Add(ctx, f.draft.Name, f.draft.Description, f.draft.Image)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			f.notice = &Notice{Kind: NoticeError, Title: "Error", Text: "Please check: " + strings.Join(verr.Fields(), ", ") + "."}
		}
		return catalog.Product{}, err
	}
	f.reset()
	f.nav.MustGoTo(navigation.List)
	return p, nil
}

// Cancel discards the draft and returns to the list.
func (f *CaptureForm) Cancel() {
	f.reset()
	f.nav.MustGoTo(navigation.List)
}

// Close detaches the form from navigation and stops any running capture.
func (f *CaptureForm) Close() {
	if f.unsub != nil {
		f.unsub()
		f.unsub = nil
	}
	f.abandon()
}

func (f *CaptureForm) reset() {
	f.abandon()
	f.draft = Draft{}
	f.notice = nil
}

func (f *CaptureForm) abandon() {
	if f.task == nil {
		return
	}
	f.log.Debug("capture abandoned", zap.Uint64("task", f.task.ID()))
	f.task.Cancel()
	f.task = nil
}
