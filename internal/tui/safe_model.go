package tui

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const panicNotice = "Unexpected error (see logs)"

// safeModel keeps a panic in Update or View from tearing down the terminal.
// After a recovered Update panic, reset returns the inner model to a sane state.
type safeModel struct {
	inner tea.Model
	log   *zap.Logger
	reset func()
}

func wrapSafe(m tea.Model, log *zap.Logger, reset func()) safeModel {
	if log == nil {
		log = zap.NewNop()
	}
	if reset == nil {
		reset = func() {}
	}
	return safeModel{inner: m, log: log, reset: reset}
}

func (s safeModel) Init() tea.Cmd {
	return s.inner.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic recovered",
				zap.String("where", "tui.update"),
				zap.String("panic", fmt.Sprint(r)),
				zap.String("msg_type", fmt.Sprintf("%T", msg)),
				zap.ByteString("stack", debug.Stack()),
			)
			s.reset()
			tm = s
			cmd = nil
		}
	}()

	inner, c := s.inner.Update(msg)
	if sm, ok := inner.(safeModel); ok {
		return sm, c
	}
	s.inner = inner
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic recovered",
				zap.String("where", "tui.view"),
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
			)
			out = panicNotice
		}
	}()
	return s.inner.View()
}

var _ tea.Model = safeModel{}
