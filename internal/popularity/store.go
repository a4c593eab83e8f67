package popularity

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pders01/flick/internal/catalog"
	"github.com/pders01/flick/internal/config"
)

var ErrUnknownBackend = errors.New("unknown popularity backend")

// Store counts searches and ranks the most searched terms.
type Store interface {
	// RecordSearch increments the counter for term, creating it with the
	// given first result when the term has not been seen.
	RecordSearch(ctx context.Context, term string, movie catalog.Movie) error
	// Trending returns up to limit records, most searched first.
	Trending(ctx context.Context, limit int) ([]TrendingEntry, error)
	Close() error
}

// Open builds the backend named by cfg.Backend. imageBase is used to turn a
// movie's poster path into the stored poster URL.
func Open(cfg config.StoreConfig, imageBase string, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendBolt:
		return NewBoltStore(cfg.Path, cfg.Timeout, imageBase)
	case config.BackendAppwrite:
		return NewAppwriteStore(cfg.Appwrite, imageBase, logger), nil
	case config.BackendNone, "":
		return NoopStore{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func recordID(term string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(term)))
}
