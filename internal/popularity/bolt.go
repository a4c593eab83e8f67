package popularity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/flick/internal/catalog"
)

const schemaVersion = "1"

var (
	searchesBucket = []byte("searches")
	metaBucket     = []byte("metadata")
	schemaKey      = []byte("schema_version")
)

// BoltStore keeps search counts in a local bbolt file, keyed by the exact
// search term.
type BoltStore struct {
	db        *bolt.DB
	imageBase string
	now       func() time.Time
}

func NewBoltStore(dbPath string, timeout time.Duration, imageBase string) (*BoltStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("bolt store requires a path")
	}
	if timeout <= 0 {
		timeout = 1 * time.Second
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{searchesBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return tx.Bucket(metaBucket).Put(schemaKey, []byte(schemaVersion))
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db, imageBase: imageBase, now: time.Now}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) RecordSearch(ctx context.Context, term string, movie catalog.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		key := []byte(term)

		var rec Record
		if data := b.Get(key); data != nil {
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("decoding record for %q: %w", term, err)
			}
			rec.Count++
		} else {
			rec = Record{
				ID:         recordID(term),
				SearchTerm: term,
				Count:      1,
				MovieID:    movie.ID,
				PosterURL:  movie.PosterURL(s.imageBase),
				Title:      movie.Title,
			}
		}
		rec.UpdatedAt = s.now()

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

func (s *BoltStore) Trending(ctx context.Context, limit int) ([]TrendingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading searches: %w", err)
	}

	// Most searched first; recently searched wins ties
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return rank(records), nil
}

// Get returns the record for term.
func (s *BoltStore) Get(term string) (*Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(searchesBucket).Get([]byte(term))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
