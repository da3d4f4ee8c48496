package presenter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/stockpile/internal/capture"
	"github.com/jask/stockpile/internal/catalog"
	"github.com/jask/stockpile/internal/navigation"
)

func answer(d Decision) Confirmer {
	return ConfirmFunc(func(context.Context, string) (Decision, error) { return d, nil })
}

func TestEmptyStateScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newFixture(t, capture.Offline{})
	require.True(t, fx.list.Empty())

	p, err := fx.store.Add(ctx, "Laptop", "Fast laptop", "")
	require.NoError(t, err)
	require.False(t, fx.list.Empty())
	items, err := fx.list.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Laptop", items[0].Name)

	removed, err := fx.list.DeleteWith(ctx, p.ID, answer(Cancelled))
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, 1, fx.list.Count())

	removed, err = fx.list.DeleteWith(ctx, p.ID, answer(Confirmed))
	require.NoError(t, err)
	require.True(t, removed)
	require.True(t, fx.list.Empty())
	items, err = fx.list.Items(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestDeleteGateTwoPhase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newFixture(t, nil)
	p, err := fx.store.Add(ctx, "Keyboard", "Mechanical", "")
	require.NoError(t, err)

	ok, err := fx.list.RequestDelete(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	pending, open := fx.list.PendingDelete()
	require.True(t, open)
	require.Equal(t, p.ID, pending.ID)
	require.Contains(t, pending.Message, "Keyboard")
	require.Equal(t, 1, catalogLen(t, fx.store))

	removed, err := fx.list.ResolveDelete(ctx, false)
	require.NoError(t, err)
	require.False(t, removed)
	_, open = fx.list.PendingDelete()
	require.False(t, open)
	require.Equal(t, 1, catalogLen(t, fx.store))

	removed, err = fx.list.ResolveDelete(ctx, true)
	require.NoError(t, err)
	require.False(t, removed, "nothing pending")

	_, err = fx.list.RequestDelete(ctx, p.ID)
	require.NoError(t, err)
	removed, err = fx.list.ResolveDelete(ctx, true)
	require.NoError(t, err)
	require.True(t, removed)
	require.True(t, fx.list.Empty())
}

func TestRequestDeleteUnknownID(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, nil)
	ok, err := fx.list.RequestDelete(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, ok)
	_, open := fx.list.PendingDelete()
	require.False(t, open)

	called := false
	removed, err := fx.list.DeleteWith(context.Background(), "ghost", ConfirmFunc(func(context.Context, string) (Decision, error) {
		called = true
		return Confirmed, nil
	}))
	require.NoError(t, err)
	require.False(t, removed)
	require.False(t, called)
}

func TestConfirmerErrorCancels(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newFixture(t, nil)
	p, err := fx.store.Add(ctx, "Monitor", "27 inch", "")
	require.NoError(t, err)

	boom := errors.New("dialog closed")
	_, err = fx.list.DeleteWith(ctx, p.ID, ConfirmFunc(func(context.Context, string) (Decision, error) {
		return Confirmed, boom
	}))
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, catalogLen(t, fx.store))
	_, open := fx.list.PendingDelete()
	require.False(t, open)
}

func TestPendingDeleteClearedWhenProductVanishes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newFixture(t, nil)
	p, err := fx.store.Add(ctx, "Cable", "USB-C", "")
	require.NoError(t, err)
	_, err = fx.list.RequestDelete(ctx, p.ID)
	require.NoError(t, err)

	_, err = fx.store.Remove(ctx, p.ID)
	require.NoError(t, err)
	_, open := fx.list.PendingDelete()
	require.False(t, open)
}

func TestRequestAddNavigatesWithoutTouchingDraft(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, nil)
	fx.list.RequestAdd()
	require.Equal(t, navigation.Capture, fx.nav.Current())
	fx.form.SetName("Half typed")

	// Requesting add again while already on Capture keeps the draft.
	fx.list.RequestAdd()
	require.Equal(t, "Half typed", fx.form.Draft().Name)
}

func TestListViewNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newFixture(t, nil)
	calls := 0
	unsub := fx.list.Subscribe(func() { calls++ })

	p, err := fx.store.Add(ctx, "Lamp", "Desk lamp", "")
	require.NoError(t, err)
	_, err = fx.list.RequestDelete(ctx, p.ID)
	require.NoError(t, err)
	fx.list.SetFilter("lamp")
	fx.list.SetFilter("lamp")
	unsub()
	fx.list.SetFilter("")

	require.Equal(t, 3, calls)
}

func TestListViewStartsFromExistingCatalog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := catalog.NewStore(nil)
	_, err := store.Add(ctx, "Pen", "Blue ink", "")
	require.NoError(t, err)

	v, err := NewListView(ctx, ListDeps{Store: store, Nav: navigation.New(nil)})
	require.NoError(t, err)
	defer v.Close()
	require.False(t, v.Empty())
	require.Equal(t, 1, v.Count())
}

func TestFilterNarrowsItems(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newFixture(t, nil)
	for _, p := range [][2]string{{"Laptop", "Fast laptop"}, {"Mouse", "Wireless mouse"}, {"Desk", "Standing desk, oak"}} {
		_, err := fx.store.Add(ctx, p[0], p[1], "")
		require.NoError(t, err)
	}

	fx.list.SetFilter("  MOUSE ")
	require.Equal(t, "MOUSE", fx.list.Filter())
	items, err := fx.list.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Mouse", items[0].Name)

	fx.list.SetFilter("nothing-like-it")
	items, err = fx.list.Items(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
	require.False(t, fx.list.Empty())

	fx.list.SetFilter("")
	items, err = fx.list.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
}
