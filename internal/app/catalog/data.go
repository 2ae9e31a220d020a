package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// Item is one entry of a category listing. Shapes differ per category, so
// items stay loosely typed.
type Item map[string]any

// Place is a point shown on the district map.
type Place struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	IsAI     bool    `json:"isAI,omitempty"`
}

// Headline is one entry of the news ticker.
type Headline struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Time   string `json:"time"`
	Link   string `json:"link,omitempty"`
}

type bundle struct {
	categories map[domain.Category][]Item
	trains     []domain.Train
	places     []Place
	headlines  []Headline
}

func loadBundle() (*bundle, error) {
	var b bundle

	var raw map[string][]Item
	if err := readJSON("data/categories.json", &raw); err != nil {
		return nil, err
	}
	b.categories = make(map[domain.Category][]Item, len(raw))
	for name, items := range raw {
		cat, err := domain.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("categories.json: %q: %w", name, err)
		}
		b.categories[cat] = items
	}

	if err := readJSON("data/trains.json", &b.trains); err != nil {
		return nil, err
	}
	if err := readJSON("data/places.json", &b.places); err != nil {
		return nil, err
	}
	if err := readJSON("data/headlines.json", &b.headlines); err != nil {
		return nil, err
	}
	return &b, nil
}

func readJSON(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// trainItems renders trains as generic listing items.
func trainItems(trains []domain.Train) []Item {
	items := make([]Item, 0, len(trains))
	for _, t := range trains {
		items = append(items, Item{
			"id":            t.ID,
			"name":          t.Name,
			"route":         t.Route,
			"detailedRoute": t.DetailedRoute,
			"departure":     t.Departure,
			"arrival":       t.Arrival,
			"offDay":        t.OffDay,
			"type":          string(t.Type),
		})
	}
	return items
}
