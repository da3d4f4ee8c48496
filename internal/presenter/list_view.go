package presenter

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/stockpile/internal/catalog"
	"github.com/jask/stockpile/internal/navigation"
	"github.com/jask/stockpile/internal/observe"
)

// EmptyPlaceholder is shown instead of the list while the catalog is empty.
const EmptyPlaceholder = "No products yet. Add one to get started!"

// Decision is the outcome of a confirmation prompt. The zero value cancels.
type Decision int

const (
	Cancelled Decision = iota
	Confirmed
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (Decision, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (Decision, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (Decision, error) {
	return f(ctx, message)
}

// DeleteConfirmation is an open delete prompt.
type DeleteConfirmation struct {
	ID      string
	Name    string
	Message string
}

// ListDeps wires a ListView.
type ListDeps struct {
	Store *catalog.Store
	Nav   *navigation.Controller
	Log   *zap.Logger
}

// ListView presents the catalog and gates deletion behind confirmation.
type ListView struct {
	store *catalog.Store
	nav   *navigation.Controller
	log   *zap.Logger

	count   int
	pending *DeleteConfirmation
	filter  string
	changes observe.Hub[struct{}]
	unsub   func()
}

// NewListView builds a list presenter. It tracks the catalog through store
// events from here on.
func NewListView(ctx context.Context, deps ListDeps) (*ListView, error) {
	v := &ListView{store: deps.Store, nav: deps.Nav, log: deps.Log}
	if v.log == nil {
		v.log = zap.NewNop()
	}
	n, err := v.store.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("presenter: list view: %w", err)
	}
	v.count = n
	v.unsub = v.store.Subscribe(v.onCatalog)
	return v, nil
}

func (v *ListView) onCatalog(e catalog.Event) {
	switch e.Kind {
	case catalog.EventAdded:
		v.count++
	case catalog.EventRemoved:
		v.count--
		if v.pending != nil && v.pending.ID == e.Product.ID {
			v.pending = nil
		}
	}
	v.changes.Publish(struct{}{})
}

// Empty reports whether the catalog has no products, regardless of filter.
func (v *ListView) Empty() bool { return v.count == 0 }

// Count is the catalog size.
func (v *ListView) Count() int { return v.count }

// Items returns the products to show, in insertion order.
func (v *ListView) Items(ctx context.Context) ([]catalog.Product, error) {
	all, err := v.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if v.filter == "" {
		return all, nil
	}
	out := all[:0]
	for _, p := range all {
		if Matches(p, v.filter) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Filter returns the active filter query.
func (v *ListView) Filter() string { return v.filter }

// SetFilter narrows Items to products matching q. An empty q clears it.
func (v *ListView) SetFilter(q string) {
	q = strings.TrimSpace(q)
	if q == v.filter {
		return
	}
	v.filter = q
	v.changes.Publish(struct{}{})
}

// RequestAdd switches to the capture screen.
func (v *ListView) RequestAdd() {
	if v.pending != nil {
		v.pending = nil
		v.changes.Publish(struct{}{})
	}
	v.nav.MustGoTo(navigation.Capture)
}

// RequestDelete opens a confirmation for the product with id. It reports false
// when no such product exists.
func (v *ListView) RequestDelete(ctx context.Context, id string) (bool, error) {
	p, ok, err := v.store.Get(ctx, id)
	if err != nil || !ok {
		return false, err
	}
	v.pending = &DeleteConfirmation{
		ID:      p.ID,
		Name:    p.Name,
		Message: fmt.Sprintf("Are you sure you want to delete the product: %s?", p.Name),
	}
	v.changes.Publish(struct{}{})
	return true, nil
}

// PendingDelete returns the open confirmation, if any.
func (v *ListView) PendingDelete() (DeleteConfirmation, bool) {
	if v.pending == nil {
		return DeleteConfirmation{}, false
	}
	return *v.pending, true
}

// ResolveDelete closes the open confirmation. Only a confirmed prompt removes
// the product; the result reports whether something was removed.
func (v *ListView) ResolveDelete(ctx context.Context, confirmed bool) (bool, error) {
	if v.pending == nil {
		return false, nil
	}
	id := v.pending.ID
	v.pending = nil
	v.changes.Publish(struct{}{})
	if !confirmed {
		v.log.Debug("delete cancelled", zap.String("product_id", id))
		return false, nil
	}
	return v.store.Remove(ctx, id)
}

// DeleteWith runs the whole confirmation gate through c.
func (v *ListView) DeleteWith(ctx context.Context, id string, c Confirmer) (bool, error) {
	ok, err := v.RequestDelete(ctx, id)
	if err != nil || !ok {
		return false, err
	}
	d, err := c.Confirm(ctx, v.pending.Message)
	if err != nil {
		_, _ = v.ResolveDelete(ctx, false)
		return false, fmt.Errorf("presenter: confirm delete: %w", err)
	}
	return v.ResolveDelete(ctx, d == Confirmed)
}

// Subscribe registers fn to run after any projection change.
func (v *ListView) Subscribe(fn func()) func() {
	return v.changes.Subscribe(func(struct{}) { fn() })
}

// Close stops tracking the catalog.
func (v *ListView) Close() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}
