package popularity

import (
	"context"

	"github.com/pders01/flick/internal/catalog"
)

// NoopStore discards reports and has nothing trending.
type NoopStore struct{}

func (NoopStore) RecordSearch(context.Context, string, catalog.Movie) error { return nil }

func (NoopStore) Trending(context.Context, int) ([]TrendingEntry, error) { return nil, nil }

func (NoopStore) Close() error { return nil }
