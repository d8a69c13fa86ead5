package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/bubblechart/pkg/chart"
)

// MemoryStore keeps datasets in process memory. Values are copied on the
// way in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	charts map[string]chart.Dataset
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{charts: make(map[string]chart.Dataset)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (chart.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.charts[id]
	if !ok {
		return chart.Dataset{}, ErrNotFound
	}
	return cloneDataset(ds), nil
}

func (s *MemoryStore) Put(ctx context.Context, id string, ds chart.Dataset) error {
	if err := validate(id); err != nil {
		return err
	}
	s.mu.Lock()
	s.charts[id] = cloneDataset(ds)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.charts[id]; !ok {
		return ErrNotFound
	}
	delete(s.charts, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.charts))
	for id := range s.charts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneDataset(ds chart.Dataset) chart.Dataset {
	return chart.Dataset{Title: ds.Title, Categories: cloneDocs(ds.Categories)}
}

func cloneDocs(docs []chart.CategoryDoc) []chart.CategoryDoc {
	if docs == nil {
		return nil
	}
	out := make([]chart.CategoryDoc, len(docs))
	for i, d := range docs {
		d.Children = cloneDocs(d.Children)
		out[i] = d
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
