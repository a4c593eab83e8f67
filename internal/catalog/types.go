package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Movie is a catalog record as returned by the discover and search
// endpoints. Fields are passed through without validation.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
}

// Year returns the release year or "N/A".
func (m Movie) Year() string {
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return "N/A"
}

// Rating returns the vote average with one decimal or "N/A" when unrated.
func (m Movie) Rating() string {
	if m.VoteAverage <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

// Language returns the original language code or "N/A".
func (m Movie) Language() string {
	if m.OriginalLanguage == "" {
		return "N/A"
	}
	return m.OriginalLanguage
}

// PosterURL joins the image base with the poster path. Empty when the movie
// has no poster.
func (m Movie) PosterURL(imageBase string) string {
	if m.PosterPath == "" {
		return ""
	}
	return strings.TrimSuffix(imageBase, "/") + "/" + strings.TrimPrefix(m.PosterPath, "/")
}

// PageURL is the movie's page on the catalog website.
func (m Movie) PageURL(webBase string) string {
	return fmt.Sprintf("%s/%d", strings.TrimSuffix(webBase, "/"), m.ID)
}

// Summary is the one-line card text: rating, language and year.
func (m Movie) Summary() string {
	return fmt.Sprintf("★ %s • %s • %s", m.Rating(), m.Language(), m.Year())
}

// Page is one page of a discover or search listing.
type Page struct {
	Movies       []Movie
	Page         int
	TotalPages   int
	TotalResults int
}

type listResponse struct {
	Page         int          `json:"page"`
	Results      []Movie      `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
	Response     responseFlag `json:"response"`
	Error        string       `json:"Error"`
}

// responseFlag decodes the optional "response" field, which some upstreams
// send as a boolean and others as the strings "True"/"False".
type responseFlag struct {
	set bool
	ok  bool
}

func (f *responseFlag) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		f.set, f.ok = true, b
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("response flag: %w", err)
	}
	f.set = true
	f.ok = !strings.EqualFold(strings.TrimSpace(s), "false")
	return nil
}

func (f responseFlag) failed() bool {
	return f.set && !f.ok
}
