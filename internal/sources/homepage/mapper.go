package homepage

import (
	"errors"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
)

// ErrNoBookmarks is returned when a file holds no bookmark with an href
var ErrNoBookmarks = errors.New("no bookmarks with an href found")

// Seed is one bookmark to push through ingestion
type Seed struct {
	Category string
	Name     string
	Href     string
}

// Query turns the seed into the same input a share request produces,
// with the bookmark name as title.
func (s Seed) Query() domain.ShareQuery {
	href, name := s.Href, s.Name
	return domain.ShareQuery{URL: &href, Title: &name}
}

// Seeds flattens the config into seeds in file order.
// Keys inside a YAML mapping are sorted so the order is stable across runs.
func Seeds(config BookmarksConfig) ([]Seed, error) {
	seeds := make([]Seed, 0)

	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			for _, bookmarkMap := range category[categoryName] {
				for _, bookmarkName := range sortedKeys(bookmarkMap) {
					entries := bookmarkMap[bookmarkName]
					// Each bookmark has a list with a single entry
					if len(entries) == 0 {
						continue
					}
					href := strings.TrimSpace(entries[0].Href)
					if href == "" {
						continue
					}

					seeds = append(seeds, Seed{
						Category: categoryName,
						Name:     bookmarkName,
						Href:     href,
					})
				}
			}
		}
	}

	if len(seeds) == 0 {
		return nil, ErrNoBookmarks
	}
	return seeds, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
