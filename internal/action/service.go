package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository persists items keyed by (analysisID, id).
type Repository interface {
	// List returns every item of an analysis, oldest first.
	List(ctx context.Context, analysisID string) ([]Item, error)
	// FindByID returns ErrNotFound when no item matches.
	FindByID(ctx context.Context, analysisID, id string) (*Item, error)
	Create(ctx context.Context, item Item) error
	// Update fully replaces the stored item.
	Update(ctx context.Context, item Item) error
	// Delete is a no-op when the item does not exist.
	Delete(ctx context.Context, analysisID, id string) error
	// Atomic runs fn against a repository whose operations share one transaction.
	Atomic(ctx context.Context, fn func(Repository) error) error
}

// Service orchestrates validation, merging, guard checks and persistence.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the source of server timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides how new item IDs are produced.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService returns a Service backed by repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all items of an analysis ordered by creation time.
func (s *Service) List(ctx context.Context, analysisID string) ([]Item, error) {
	items, err := s.repo.List(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("action: list %s: %w", analysisID, err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Get returns one item or ErrNotFound.
func (s *Service) Get(ctx context.Context, analysisID, id string) (*Item, error) {
	item, err := s.repo.FindByID(ctx, analysisID, id)
	if err != nil {
		return nil, lookupErr(analysisID, id, err)
	}
	return item, nil
}

// Create validates payload, builds the item with defaults and server
// timestamps, checks its initial status and stores it.
func (s *Service) Create(ctx context.Context, analysisID string, payload []byte) (*Item, error) {
	in, err := ParseCreate(payload)
	if err != nil {
		return nil, err
	}
	now := s.now()
	base := newItem(analysisID, s.newID(), in.CreatedBy, now.UTC())
	item, err := Guard(Transition{
		Candidate:      Merge(base, in.Update),
		CompletedAtSet: in.CompletedAt.Present(),
		Now:            now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("action: create %s: %w", item.ID, err)
	}
	return &item, nil
}

// Update applies a partial payload to an existing item. The read, merge, guard
// and write run in one transaction because the guard depends on the prior state.
func (s *Service) Update(ctx context.Context, analysisID, id string, payload []byte) (*Item, error) {
	var out Item
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		prior, err := repo.FindByID(ctx, analysisID, id)
		if err != nil {
			return lookupErr(analysisID, id, err)
		}
		in, err := ParseUpdate(payload)
		if err != nil {
			return err
		}
		next, err := Guard(Transition{
			Prior:          prior,
			Candidate:      Merge(*prior, in),
			CompletedAtSet: in.CompletedAt.Present(),
			Now:            s.now(),
		})
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, next); err != nil {
			return fmt.Errorf("action: update %s: %w", id, err)
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an item, failing with ErrNotFound when it does not exist.
func (s *Service) Delete(ctx context.Context, analysisID, id string) error {
	return s.repo.Atomic(ctx, func(repo Repository) error {
		if _, err := repo.FindByID(ctx, analysisID, id); err != nil {
			return lookupErr(analysisID, id, err)
		}
		if err := repo.Delete(ctx, analysisID, id); err != nil {
			return fmt.Errorf("action: delete %s: %w", id, err)
		}
		return nil
	})
}

func lookupErr(analysisID, id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("action: get %s/%s: %w", analysisID, id, err)
}
