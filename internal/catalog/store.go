package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/stockpile/internal/capture"
	"github.com/jask/stockpile/internal/observe"
)

// Backend stores product rows. Implementations keep insertion order and return
// fresh slices from All.
type Backend interface {
	Insert(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) (Product, bool, error)
	All(ctx context.Context) ([]Product, error)
}

// EventKind says what happened to the catalog.
type EventKind int

const (
	EventAdded EventKind = iota + 1
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is published after every successful mutation.
type Event struct {
	Kind    EventKind
	Product Product
}

// maxIDAttempts bounds regeneration when an id has already been handed out.
const maxIDAttempts = 8

// Store is the sole owner of the catalog. It is meant to be driven from a
// single goroutine (the UI loop).
type Store struct {
	backend Backend
	newID   func() (string, error)
	now     func() time.Time
	log     *zap.Logger
	issued  map[string]struct{}
	events  observe.Hub[Event]
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc replaces the id generator.
func WithIDFunc(fn func() (string, error)) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock replaces the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore builds a store over backend. A nil backend means an in-memory one.
func NewStore(backend Backend, opts ...Option) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	s := &Store{
		backend: backend,
		newID:   NewID,
		now:     time.Now,
		log:     zap.NewNop(),
		issued:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a UUIDv7: a millisecond timestamp followed by random bits.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Add validates and appends a new product. Name and description are trimmed.
// On a validation failure the catalog is left untouched and the error is a
// *ValidationError.
func (s *Store) Add(ctx context.Context, name, description string, image capture.ImageRef) (Product, error) {
	p := Product{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Image:       capture.ImageRef(strings.TrimSpace(string(image))),
	}
	if err := Validate(p.Name, p.Description); err != nil {
		s.log.Debug("product rejected", zap.Error(err))
		return Product{}, err
	}

	id, err := s.nextID()
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	p.CreatedAt = s.now()

	if err := s.backend.Insert(ctx, p); err != nil {
		return Product{}, fmt.Errorf("catalog: add: %w", err)
	}
	s.log.Info("product added",
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
		zap.Bool("has_image", p.HasImage()),
	)
	s.events.Publish(Event{Kind: EventAdded, Product: p})
	return p, nil
}

// Remove deletes the product with id. An unknown id is not an error; the
// result simply reports false.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	p, ok, err := s.backend.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("catalog: remove %s: %w", id, err)
	}
	if !ok {
		return false, nil
	}
	s.log.Info("product removed", zap.String("product_id", id))
	s.events.Publish(Event{Kind: EventRemoved, Product: p})
	return true, nil
}

// List returns the catalog in insertion order. The slice belongs to the caller.
func (s *Store) List(ctx context.Context) ([]Product, error) {
	out, err := s.backend.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return out, nil
}

// Get looks a product up by id.
func (s *Store) Get(ctx context.Context, id string) (Product, bool, error) {
	all, err := s.List(ctx)
	if err != nil {
		return Product{}, false, err
	}
	for _, p := range all {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

// Len returns the number of products.
func (s *Store) Len(ctx context.Context) (int, error) {
	all, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// Subscribe registers fn for change events and returns its unsubscribe func.
func (s *Store) Subscribe(fn func(Event)) func() {
	return s.events.Subscribe(fn)
}

func (s *Store) nextID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("catalog: generate id: %w", err)
		}
		if id == "" {
			continue
		}
		if _, seen := s.issued[id]; seen {
			s.log.Warn("regenerating duplicate product id", zap.String("product_id", id))
			continue
		}
		s.issued[id] = struct{}{}
		return id, nil
	}
	return "", errors.New("catalog: generate id: no unique id after retries")
}
