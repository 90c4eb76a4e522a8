package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/okian/warung/internal/domain/model"
	"github.com/okian/warung/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// MemStore is an ordered, in-memory Store. A single mutex serializes every
// operation, so read-modify-write sequences such as id allocation followed by
// insert, or guard followed by replace, are atomic.
type MemStore struct {
	mu    sync.Mutex
	items []model.MenuItem
	// highWater is the largest numeric id ever held, so deleted ids are not reissued.
	highWater uint64
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty store and applies opts.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	s := &MemStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.highWater = s.nextIDLocked() - 1
	metrics.UpdateMenuItems(len(s.items))
	return s
}

// List returns a copy of all items in insertion order.
func (s *MemStore) List(_ context.Context) []model.MenuItem {
	defer observe("list", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.MenuItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Clone())
	}
	return out
}

// Get returns the item with the exact id.
func (s *MemStore) Get(_ context.Context, id string) (model.MenuItem, error) {
	defer observe("get", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.MenuItem{}, ErrNotFound
	}
	return s.items[i].Clone(), nil
}

// NextID returns max(numeric ids ever held) + 1 as a string, "1" for a fresh store.
func (s *MemStore) NextID(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strconv.FormatUint(s.nextIDLocked(), 10)
}

// Insert appends item under a newly allocated id.
func (s *MemStore) Insert(_ context.Context, item model.MenuItem) model.MenuItem {
	defer observe("insert", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.nextIDLocked()
	item = item.Clone()
	item.ID = strconv.FormatUint(next, 10)
	s.items = append(s.items, item)
	s.highWater = next
	metrics.UpdateMenuItems(len(s.items))
	return item.Clone()
}

// Replace merges patch into the item with id after guard accepts it.
func (s *MemStore) Replace(_ context.Context, id string, patch model.Patch, guard Guard) (model.MenuItem, error) {
	defer observe("replace", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.MenuItem{}, ErrNotFound
	}
	if guard != nil {
		if err := guard(s.items[i].Clone()); err != nil {
			return model.MenuItem{}, err
		}
	}
	s.items[i] = s.items[i].Apply(patch)
	return s.items[i].Clone(), nil
}

// Remove deletes the item with id after guard accepts it.
func (s *MemStore) Remove(_ context.Context, id string, guard Guard) (model.MenuItem, error) {
	defer observe("remove", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.MenuItem{}, ErrNotFound
	}
	removed := s.items[i]
	if guard != nil {
		if err := guard(removed.Clone()); err != nil {
			return model.MenuItem{}, err
		}
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	metrics.UpdateMenuItems(len(s.items))
	return removed, nil
}

// Count returns the number of items held.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *MemStore) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// nextIDLocked ignores ids that are not base-10 unsigned integers.
func (s *MemStore) nextIDLocked() uint64 {
	hi := s.highWater
	for _, it := range s.items {
		if n, err := strconv.ParseUint(it.ID, 10, 64); err == nil && n > hi {
			hi = n
		}
	}
	return hi + 1
}

func observe(op string, start time.Time) {
	metrics.RecordStoreOperation(op, float64(time.Since(start).Nanoseconds())/nanosecondsPerMillisecond)
}
