// Package competitions loads the competition and season catalog (YAML/JSON)
// offered by the dashboard.
package competitions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Competition is a selectable competition.
type Competition struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

type catalogFile struct {
	Competitions []Competition `json:"competitions" yaml:"competitions"`
	Seasons      []int         `json:"seasons" yaml:"seasons"`
}

// Catalog is an immutable, validated set of competitions and seasons. The first
// entry of each list is the default selection.
type Catalog struct {
	competitions []Competition
	seasons      []int
	idx          map[string]Competition
}

var defaultCatalog = catalogFile{
	Competitions: []Competition{
		{Code: "PL", Name: "Premier League"},
		{Code: "PD", Name: "La Liga"},
		{Code: "BL1", Name: "Bundesliga"},
	},
	Seasons: []int{2024, 2023, 2022},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := build(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("default competitions catalog: %v", err))
	}
	return c
}

// Load reads the catalog from path, or returns Default when path is empty.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open competitions file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read competitions file: %w", err)
	}

	cf, err := parseCatalog(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return build(cf)
}

func parseCatalog(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var cf catalogFile
		if err := d.fn(data, &cf); err == nil {
			return cf, nil
		}
	}

	return catalogFile{}, errors.New("competitions file format not recognized (expected YAML or JSON)")
}

func build(cf catalogFile) (*Catalog, error) {
	if len(cf.Competitions) == 0 {
		return nil, errors.New("competitions file contains no competitions entries")
	}
	if len(cf.Seasons) == 0 {
		return nil, errors.New("competitions file contains no seasons")
	}

	c := &Catalog{
		competitions: make([]Competition, 0, len(cf.Competitions)),
		seasons:      make([]int, 0, len(cf.Seasons)),
		idx:          make(map[string]Competition, len(cf.Competitions)),
	}
	for i, comp := range cf.Competitions {
		comp.Code = strings.ToUpper(strings.TrimSpace(comp.Code))
		comp.Name = strings.TrimSpace(comp.Name)
		if comp.Code == "" {
			return nil, fmt.Errorf("competitions[%d]: code is required", i)
		}
		if comp.Name == "" {
			return nil, fmt.Errorf("competitions[%d]: name is required for %q", i, comp.Code)
		}
		if _, exists := c.idx[comp.Code]; exists {
			return nil, fmt.Errorf("duplicate competition code %q", comp.Code)
		}
		c.competitions = append(c.competitions, comp)
		c.idx[comp.Code] = comp
	}

	seen := make(map[int]bool, len(cf.Seasons))
	for i, s := range cf.Seasons {
		if s <= 0 {
			return nil, fmt.Errorf("seasons[%d]: invalid season %d", i, s)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		c.seasons = append(c.seasons, s)
	}
	return c, nil
}

// Competitions returns a copy of the configured competitions.
func (c *Catalog) Competitions() []Competition {
	out := make([]Competition, len(c.competitions))
	copy(out, c.competitions)
	return out
}

// Seasons returns a copy of the configured seasons.
func (c *Catalog) Seasons() []int {
	out := make([]int, len(c.seasons))
	copy(out, c.seasons)
	return out
}

// Codes returns the competition codes in catalog order.
func (c *Catalog) Codes() []string {
	out := make([]string, 0, len(c.competitions))
	for _, comp := range c.competitions {
		out = append(out, comp.Code)
	}
	return out
}

// ByCode looks a competition up case-insensitively.
func (c *Catalog) ByCode(code string) (Competition, bool) {
	comp, ok := c.idx[strings.ToUpper(strings.TrimSpace(code))]
	return comp, ok
}

// HasSeason reports whether season is offered.
func (c *Catalog) HasSeason(season int) bool {
	for _, s := range c.seasons {
		if s == season {
			return true
		}
	}
	return false
}

// DefaultCompetition is the first configured competition.
func (c *Catalog) DefaultCompetition() Competition { return c.competitions[0] }

// DefaultSeason is the first configured season.
func (c *Catalog) DefaultSeason() int { return c.seasons[0] }
