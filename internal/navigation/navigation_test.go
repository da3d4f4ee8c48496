package navigation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartsOnList(t *testing.T) {
	t.Parallel()
	require.Equal(t, List, New(nil).Current())
}

func TestFullyConnected(t *testing.T) {
	t.Parallel()

	c := New(nil)
	require.NoError(t, c.GoTo(Capture))
	require.Equal(t, Capture, c.Current())
	require.NoError(t, c.GoTo(List))
	require.Equal(t, List, c.Current())
	require.NoError(t, c.GoTo(List))
	require.Equal(t, List, c.Current())
}

func TestInvalidScreen(t *testing.T) {
	t.Parallel()

	c := New(nil)
	calls := 0
	c.Subscribe(func(Change) { calls++ })

	err := c.GoTo(Screen(7))
	var invalid *InvalidScreenError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, Screen(7), invalid.Screen)
	require.Equal(t, List, c.Current())
	require.Zero(t, calls)

	require.PanicsWithError(t, "navigation: invalid screen -1", func() { c.MustGoTo(Screen(-1)) })
}

func TestObserversSeeTransitions(t *testing.T) {
	t.Parallel()

	c := New(nil)
	var got []Change
	unsub := c.Subscribe(func(ch Change) { got = append(got, ch) })

	c.MustGoTo(Capture)
	c.MustGoTo(List)
	unsub()
	c.MustGoTo(Capture)

	require.Equal(t, []Change{{From: List, To: Capture}, {From: Capture, To: List}}, got)
}

func TestParseScreen(t *testing.T) {
	t.Parallel()

	for _, s := range []Screen{List, Capture} {
		got, err := ParseScreen(s.String())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
	_, err := ParseScreen("settings")
	require.Error(t, err)
	require.Equal(t, "screen(9)", Screen(9).String())
}
