package popularity

import (
	"time"
)

// Record is one search-count document: how often a term was searched and
// the first result seen the first time it was recorded.
type Record struct {
	ID         string    `json:"id"`
	SearchTerm string    `json:"search_term"`
	Count      int       `json:"count"`
	MovieID    int       `json:"movie_id"`
	PosterURL  string    `json:"poster_url"`
	Title      string    `json:"title"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TrendingEntry is a ranked record for the trending panel. Rank is 1-based
// in the order the store returned it.
type TrendingEntry struct {
	Rank       int
	RecordID   string
	SearchTerm string
	Title      string
	PosterURL  string
	MovieID    int
	Count      int
}

func rank(records []Record) []TrendingEntry {
	entries := make([]TrendingEntry, 0, len(records))
	for i, r := range records {
		entries = append(entries, TrendingEntry{
			Rank:       i + 1,
			RecordID:   r.ID,
			SearchTerm: r.SearchTerm,
			Title:      r.Title,
			PosterURL:  r.PosterURL,
			MovieID:    r.MovieID,
			Count:      r.Count,
		})
	}
	return entries
}
