package catalog

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

//go:embed genres.toml
var genresTOML []byte

type genreFile struct {
	Genres []struct {
		ID   int    `toml:"id"`
		Name string `toml:"name"`
	} `toml:"genre"`
}

// Genres resolves genre ids to display names.
type Genres struct {
	byID map[int]string
}

// LoadGenres parses the embedded genre table.
func LoadGenres() (*Genres, error) {
	var f genreFile
	if err := toml.Unmarshal(genresTOML, &f); err != nil {
		return nil, fmt.Errorf("parsing genres.toml: %w", err)
	}

	g := &Genres{byID: make(map[int]string, len(f.Genres))}
	for _, genre := range f.Genres {
		g.byID[genre.ID] = genre.Name
	}
	return g, nil
}

// Name returns the genre name for id, if known.
func (g *Genres) Name(id int) (string, bool) {
	if g == nil {
		return "", false
	}
	name, ok := g.byID[id]
	return name, ok
}

// Names maps ids to names in order, skipping unknown ids.
func (g *Genres) Names(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := g.Name(id); ok {
			names = append(names, name)
		}
	}
	return names
}
