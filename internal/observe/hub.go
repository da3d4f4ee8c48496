// Package observe provides a small subscription hub used by the stores to
// announce state changes.
package observe

// Hub fans a value out to every current subscriber, in subscription order.
// It is not safe for concurrent use; callers run on the UI loop.
type Hub[T any] struct {
	next int
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (h *Hub[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	h.next++
	id := h.next
	h.subs = append(h.subs, subscriber[T]{id: id, fn: fn})
	return func() { h.remove(id) }
}

// Publish delivers v to the subscribers registered when Publish was called.
// Subscribers added or removed during delivery take effect for the next call.
func (h *Hub[T]) Publish(v T) {
	if len(h.subs) == 0 {
		return
	}
	snapshot := make([]subscriber[T], len(h.subs))
	copy(snapshot, h.subs)
	for _, s := range snapshot {
		s.fn(v)
	}
}

func (h *Hub[T]) remove(id int) {
	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}
