package homepage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleBookmarks = `---
- Reading:
    - Go Blog:
        - abbr: GB
          href: https://go.dev/blog/
    - Hacker News:
        - abbr: HN
          href: https://news.ycombinator.com/
- Tools:
    - Private:
        - href: {{HOMEPAGE_VAR_PRIVATE_URL}}
    - Empty: []
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	loader := NewLoader(writeFile(t, sampleBookmarks))

	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(config) != 2 {
		t.Fatalf("Load() returned %d categories, want 2", len(config))
	}

	private := config[1]["Tools"][0]["Private"]
	if len(private) != 1 || private[0].Href != "" {
		t.Errorf("template variable should be stripped to an empty href, got %+v", private)
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := loader.Load(); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	loader := NewLoader(writeFile(t, "- Reading: [unclosed"))
	if _, err := loader.Load(); err == nil {
		t.Error("Load() should fail for invalid YAML")
	}
}

func TestDecode(t *testing.T) {
	config, err := Decode(strings.NewReader(sampleBookmarks))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(config) != 2 {
		t.Errorf("Decode() returned %d categories, want 2", len(config))
	}
}

func TestSeeds(t *testing.T) {
	config, err := Parse([]byte(sampleBookmarks))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	seeds, err := Seeds(config)
	if err != nil {
		t.Fatalf("Seeds() error = %v", err)
	}

	want := []Seed{
		{Category: "Reading", Name: "Go Blog", Href: "https://go.dev/blog/"},
		{Category: "Reading", Name: "Hacker News", Href: "https://news.ycombinator.com/"},
	}
	if len(seeds) != len(want) {
		t.Fatalf("Seeds() returned %d seeds, want %d: %+v", len(seeds), len(want), seeds)
	}
	for i := range want {
		if seeds[i] != want[i] {
			t.Errorf("seeds[%d] = %+v, want %+v", i, seeds[i], want[i])
		}
	}
}

func TestSeedsEmpty(t *testing.T) {
	config, err := Parse([]byte("- Tools:\n    - Empty: []\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if _, err := Seeds(config); !errors.Is(err, ErrNoBookmarks) {
		t.Errorf("Seeds() error = %v, want ErrNoBookmarks", err)
	}
}

func TestSeedQuery(t *testing.T) {
	q := Seed{Name: "Go Blog", Href: "https://go.dev/blog/"}.Query()

	if q.URL == nil || *q.URL != "https://go.dev/blog/" {
		t.Errorf("Query().URL = %v, want the href", q.URL)
	}
	if q.Title == nil || *q.Title != "Go Blog" {
		t.Errorf("Query().Title = %v, want the bookmark name", q.Title)
	}
	if q.Text != nil {
		t.Errorf("Query().Text = %v, want nil", q.Text)
	}
}
