// Package tui renders the catalog presenters as a Bubble Tea program and turns
// key presses into presenter intents.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/jask/stockpile/internal/capture"
	"github.com/jask/stockpile/internal/catalog"
	"github.com/jask/stockpile/internal/navigation"
	"github.com/jask/stockpile/internal/presenter"
)

// Deps are the collaborators the UI drives. The caller owns and closes them.
type Deps struct {
	Nav  *navigation.Controller
	List *presenter.ListView
	Form *presenter.CaptureForm
	Log  *zap.Logger
}

// App is the root model.
type App struct {
	ctx  context.Context
	nav  *navigation.Controller
	list *presenter.ListView
	form *presenter.CaptureForm
	log  *zap.Logger
	keys keyMap

	items     []catalog.Product
	cursor    int
	stale     bool
	filtering bool
	filterIn  textinput.Model

	nameIn textinput.Model
	descIn textarea.Model
	focus  formField

	status    string
	statusErr bool
	width     int
	height    int

	unsubs []func()
}

type formField int

const (
	fieldName formField = iota
	fieldDescription
)

type captureDoneMsg struct {
	task   *capture.Task
	result capture.Result
}

// New builds the root model and subscribes it to navigation and list changes.
func New(ctx context.Context, deps Deps) *App {
	a := &App{
		ctx:  ctx,
		nav:  deps.Nav,
		list: deps.List,
		form: deps.Form,
		log:  deps.Log,
		keys: defaultKeys(),
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}

	a.filterIn = textinput.New()
	a.filterIn.Prompt = "/ "
	a.filterIn.Placeholder = "name or description"
	a.filterIn.Cursor.SetMode(cursor.CursorStatic)

	a.nameIn = textinput.New()
	a.nameIn.Prompt = ""
	a.nameIn.Placeholder = "Product name"
	a.nameIn.CharLimit = catalog.MaxNameLength
	a.nameIn.Cursor.SetMode(cursor.CursorStatic)

	a.descIn = textarea.New()
	a.descIn.Placeholder = "Description"
	a.descIn.ShowLineNumbers = false
	a.descIn.SetHeight(4)
	a.descIn.Cursor.SetMode(cursor.CursorStatic)

	a.unsubs = append(a.unsubs,
		a.nav.Subscribe(a.onNavigate),
		a.list.Subscribe(func() { a.stale = true }),
	)
	if a.nav.Current() == navigation.Capture {
		a.resetInputs()
	}
	a.refresh()
	return a
}

// Close drops the subscriptions taken in New.
func (a *App) Close() {
	for _, u := range a.unsubs {
		u()
	}
	a.unsubs = nil
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) onNavigate(ch navigation.Change) {
	switch {
	case ch.To == navigation.Capture && ch.From != navigation.Capture:
		a.resetInputs()
	case ch.To == navigation.List:
		a.nameIn.Blur()
		a.descIn.Blur()
		a.stale = true
	}
}

func (a *App) resetInputs() {
	a.nameIn.Reset()
	a.descIn.Reset()
	a.focusField(fieldName)
}

func (a *App) focusField(f formField) {
	a.focus = f
	if f == fieldName {
		a.nameIn.Focus()
		a.descIn.Blur()
		return
	}
	a.nameIn.Blur()
	a.descIn.Focus()
}

// refresh reloads the visible products. Store reads stay on the update loop.
func (a *App) refresh() {
	a.stale = false
	items, err := a.list.Items(a.ctx)
	if err != nil {
		a.setError(err)
		return
	}
	a.items = items
	if a.cursor >= len(a.items) {
		a.cursor = max(0, len(a.items)-1)
	}
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(err error) {
	a.status = "error: " + err.Error()
	a.statusErr = true
}

// recoverFromPanic returns the UI to the list after a recovered panic.
func (a *App) recoverFromPanic() {
	if err := a.nav.GoTo(navigation.List); err != nil {
		a.log.Error("reset to list failed", zap.Error(err))
	}
	a.filtering = false
	a.filterIn.Blur()
	a.status = panicNotice
	a.statusErr = true
	a.stale = true
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.nameIn.Width = max(10, m.Width-8)
		a.filterIn.Width = max(10, m.Width-8)
		a.descIn.SetWidth(max(10, m.Width-6))
	case tea.KeyMsg:
		cmd = a.handleKey(m)
	case captureDoneMsg:
		if a.form.CompleteCapture(m.task, m.result) {
			a.setStatus("")
		}
	}
	if a.stale {
		a.refresh()
	}
	return a, cmd
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if key.Matches(m, a.keys.ForceQ) {
		return tea.Quit
	}
	if _, open := a.list.PendingDelete(); open {
		return a.handleConfirmKey(m)
	}
	if a.nav.Current() == navigation.Capture {
		if _, open := a.form.Notice(); open {
			if key.Matches(m, a.keys.Dismiss) {
				a.form.DismissNotice()
			}
			return nil
		}
		return a.handleCaptureKey(m)
	}
	if a.filtering {
		return a.handleFilterKey(m)
	}
	return a.handleListKey(m)
}

func (a *App) handleConfirmKey(m tea.KeyMsg) tea.Cmd {
	var confirmed bool
	switch {
	case key.Matches(m, a.keys.Yes):
		confirmed = true
	case key.Matches(m, a.keys.No):
	default:
		return nil
	}
	pending, _ := a.list.PendingDelete()
	removed, err := a.list.ResolveDelete(a.ctx, confirmed)
	switch {
	case err != nil:
		a.setError(err)
	case removed:
		a.setStatus(fmt.Sprintf("Deleted %s", pending.Name))
	default:
		a.setStatus("Delete cancelled")
	}
	return nil
}

func (a *App) handleListKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Add):
		a.list.RequestAdd()
		a.setStatus("")
	case key.Matches(m, a.keys.Delete):
		if len(a.items) == 0 {
			return nil
		}
		ok, err := a.list.RequestDelete(a.ctx, a.items[a.cursor].ID)
		if err != nil {
			a.setError(err)
		} else if !ok {
			a.stale = true
		}
	case key.Matches(m, a.keys.Filter):
		a.filtering = true
		a.filterIn.SetValue(a.list.Filter())
		a.filterIn.CursorEnd()
		return a.filterIn.Focus()
	case key.Matches(m, a.keys.Clear):
		if a.list.Filter() != "" {
			a.list.SetFilter("")
			a.cursor = 0
		}
	}
	return nil
}

func (a *App) handleFilterKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Apply):
		a.filtering = false
		a.filterIn.Blur()
		return nil
	case key.Matches(m, a.keys.Abort):
		a.filtering = false
		a.filterIn.Blur()
		a.filterIn.Reset()
		a.list.SetFilter("")
		a.cursor = 0
		return nil
	}
	var cmd tea.Cmd
	a.filterIn, cmd = a.filterIn.Update(m)
	if a.list.Filter() != strings.TrimSpace(a.filterIn.Value()) {
		a.list.SetFilter(a.filterIn.Value())
		a.cursor = 0
	}
	return cmd
}

func (a *App) handleCaptureKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Cancel):
		a.form.Cancel()
		a.setStatus("Discarded draft")
		return nil
	case key.Matches(m, a.keys.Save):
		return a.save()
	case key.Matches(m, a.keys.Photo):
		return a.takePhoto()
	case key.Matches(m, a.keys.Next), key.Matches(m, a.keys.Prev):
		if a.focus == fieldName {
			a.focusField(fieldDescription)
		} else {
			a.focusField(fieldName)
		}
		return nil
	}

	var cmd tea.Cmd
	if a.focus == fieldName {
		a.nameIn, cmd = a.nameIn.Update(m)
		a.form.SetName(a.nameIn.Value())
	} else {
		a.descIn, cmd = a.descIn.Update(m)
		a.form.SetDescription(a.descIn.Value())
	}
	return cmd
}

func (a *App) save() tea.Cmd {
	if !a.form.CanSave() {
		a.status = "Name and description are required"
		a.statusErr = true
		return nil
	}
	p, err := a.form.Save(a.ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			// The form already raised a notice naming the fields.
			return nil
		}
		a.setError(err)
		return nil
	}
	a.setStatus(fmt.Sprintf("Saved %s", p.Name))
	return nil
}

func (a *App) takePhoto() tea.Cmd {
	task, err := a.form.CapturePhoto(a.ctx)
	if err != nil {
		if errors.Is(err, presenter.ErrCaptureInProgress) {
			a.setStatus("Camera is already open")
			return nil
		}
		a.setError(err)
		return nil
	}
	a.setStatus("Opening camera…")
	return awaitCapture(a.ctx, task)
}

// awaitCapture waits off the update loop. If ctx ends first the task is
// cancelled and the form receives ctx's error, which it treats as the user
// closing the camera.
func awaitCapture(ctx context.Context, task *capture.Task) tea.Cmd {
	return func() tea.Msg {
		res, err := task.Await(ctx)
		if err != nil {
			res = capture.Result{Err: err}
		}
		return captureDoneMsg{task: task, result: res}
	}
}

func (a *App) View() string {
	var body string
	switch a.nav.Current() {
	case navigation.Capture:
		body = a.renderCapture()
	default:
		body = a.renderList()
	}

	parts := []string{body}
	if a.height > 0 {
		// Pin the bars to the bottom of the terminal.
		used := lipgloss.Height(body) + 2
		if pad := a.height - used; pad > 0 {
			parts = append(parts, strings.Repeat("\n", pad-1))
		}
	}
	parts = append(parts, renderStatus(a.status, a.statusErr, a.width), renderFooter(a.footerHints(), a.width))
	screen := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if pending, open := a.list.PendingDelete(); open {
		popup := titleStyle.Render("Delete product") + "\n\n" + pending.Message + "\n\n[y] Yes  [n] No"
		return renderPopup(screen, popup, colorError, a.width, a.height)
	}
	if a.nav.Current() == navigation.Capture {
		if n, open := a.form.Notice(); open {
			title := lipgloss.NewStyle().Bold(true).Foreground(noticeColor(n.Kind)).Render(n.Title)
			popup := title + "\n\n" + n.Text + "\n\n[enter] OK"
			return renderPopup(screen, popup, noticeColor(n.Kind), a.width, a.height)
		}
	}
	return screen
}

func (a *App) footerHints() []hint {
	if _, open := a.list.PendingDelete(); open {
		return hints(a.keys.Yes, a.keys.No)
	}
	if a.nav.Current() == navigation.Capture {
		if _, open := a.form.Notice(); open {
			return hints(a.keys.Dismiss)
		}
		hs := hints(a.keys.Next, a.keys.Photo, a.keys.Save, a.keys.Cancel)
		hs[1].dimmed = a.form.Capturing()
		hs[2].dimmed = !a.form.CanSave()
		return hs
	}
	if a.filtering {
		return hints(a.keys.Apply, a.keys.Abort)
	}
	hs := hints(a.keys.Up, a.keys.Down, a.keys.Add, a.keys.Delete, a.keys.Filter, a.keys.Quit)
	hs[3].dimmed = len(a.items) == 0
	if a.list.Filter() != "" {
		hs = append(hs, hint{binding: a.keys.Clear})
	}
	return hs
}

func (a *App) contentWidth() int {
	if a.width <= 0 {
		return 80
	}
	return a.width
}

func (a *App) renderList() string {
	w := a.contentWidth()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Stockpile"))
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("  %d products", a.list.Count())))
	b.WriteString("\n")

	if a.filtering {
		b.WriteString(a.filterIn.View() + "\n")
	} else if f := a.list.Filter(); f != "" {
		b.WriteString(mutedStyle.Render("filter: "+f) + "\n")
	}
	b.WriteString("\n")

	if a.list.Empty() {
		b.WriteString(mutedStyle.Render(presenter.EmptyPlaceholder))
		return b.String()
	}
	if len(a.items) == 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No products match %q.", a.list.Filter())))
		return b.String()
	}
	for i, p := range a.items {
		b.WriteString(a.renderCard(p, i == a.cursor, w))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// cardDescriptionLines caps the description shown per product in the list.
const cardDescriptionLines = 3

func (a *App) renderCard(p catalog.Product, selected bool, width int) string {
	marker := "  "
	name := nameStyle.Render(p.Name)
	if selected {
		marker = selectedStyle.Render("› ")
		name = selectedStyle.Render(p.Name)
	}
	lines := []string{marker + name + mutedStyle.Render("  "+p.CreatedAt.Local().Format("Jan 2 15:04"))}
	desc := strings.Split(p.Description, "\n")
	if len(desc) > cardDescriptionLines {
		desc = desc[:cardDescriptionLines]
		desc[len(desc)-1] += "…"
	}
	for _, l := range desc {
		lines = append(lines, "    "+l)
	}
	lines = append(lines, "    "+photoLabel(p.Image))
	for i := range lines {
		lines[i] = ansi.Truncate(lines[i], width, "…")
	}
	return strings.Join(lines, "\n")
}

func photoLabel(ref capture.ImageRef) string {
	switch {
	case ref.Empty():
		return mutedStyle.Render("no photo")
	case capture.IsPlaceholder(ref):
		return photoStyle.Render("simulated photo")
	default:
		return photoStyle.Render("photo: " + ref.String())
	}
}

func (a *App) renderCapture() string {
	w := a.contentWidth()
	nameLabel, descLabel := labelStyle, labelStyle
	if a.focus == fieldName {
		nameLabel = focusLabel
	} else {
		descLabel = focusLabel
	}

	draft := a.form.Draft()
	photo := photoLabel(draft.Image)
	if a.form.Capturing() {
		photo = mutedStyle.Render("capturing…")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("New product"))
	b.WriteString("\n\n")
	b.WriteString(nameLabel.Render(fmt.Sprintf("Name (%d/%d)", len([]rune(draft.Name)), catalog.MaxNameLength)))
	b.WriteString("\n" + a.nameIn.View() + "\n\n")
	b.WriteString(descLabel.Render("Description"))
	b.WriteString("\n" + a.descIn.View() + "\n\n")
	b.WriteString(labelStyle.Render("Photo") + "\n")
	b.WriteString(ansi.Truncate(photo, w, "…"))
	return b.String()
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, deps Deps, opts ...tea.ProgramOption) error {
	app := New(ctx, deps)
	defer app.Close()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(wrapSafe(app, app.log, app.recoverFromPanic), opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
