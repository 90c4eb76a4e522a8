package repository

import "github.com/okian/warung/internal/domain/model"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithSeed preloads the store with items. Their ids are kept as given.
func WithSeed(items []model.MenuItem) Option {
	return func(s *MemStore) {
		for _, it := range items {
			s.items = append(s.items, it.Clone())
		}
	}
}

// WithDefaultMenu preloads the store with DefaultMenu.
func WithDefaultMenu() Option {
	return WithSeed(DefaultMenu())
}
