// Package store persists chart datasets by ID.
//
// Two backends implement [Store]:
//
//   - [MemoryStore]: process-local, used by tests and by `serve` without
//     --mongo
//   - [MongoStore]: one document per chart in the "charts" collection
//
// Chart IDs are validated with errors.ValidateChartID before they reach a
// backend. [SeedSamples] loads the built-in sample datasets under their
// sample names.
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/bubblechart/pkg/chart"
	bcerrors "github.com/matzehuels/bubblechart/pkg/errors"
)

// ErrNotFound is returned when no chart has the requested ID.
var ErrNotFound = errors.New("chart not found")

// Store is a keyed collection of datasets.
type Store interface {
	// Get returns the dataset stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (chart.Dataset, error)
	// Put creates or replaces the dataset stored under id.
	Put(ctx context.Context, id string, ds chart.Dataset) error
	// Delete removes a dataset. It returns ErrNotFound if none exists.
	Delete(ctx context.Context, id string) error
	// List returns all chart IDs in ascending order.
	List(ctx context.Context) ([]string, error)
	// Close releases backend resources.
	Close() error
}

// SeedSamples stores every built-in sample dataset that is not already
// present. Existing charts are left untouched.
func SeedSamples(ctx context.Context, s Store) error {
	for _, name := range chart.SampleNames() {
		if _, err := s.Get(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		ds, err := chart.Sample(name)
		if err != nil {
			return err
		}
		if err := s.Put(ctx, name, ds); err != nil {
			return err
		}
	}
	return nil
}

func validate(id string) error {
	return bcerrors.ValidateChartID(id)
}
