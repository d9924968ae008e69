package homepage

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// templateVariable matches Homepage template variables ({{HOMEPAGE_VAR_...}})
var templateVariable = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads a Homepage bookmarks.yaml used to seed keeplater
type Loader struct {
	filePath string
}

// NewLoader creates a new bookmarks loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the bookmarks file
func (l *Loader) Load() (BookmarksConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks file: %w", err)
	}
	return Parse(data)
}

// Decode parses bookmarks from r (used by `keeplater import -`)
func Decode(r io.Reader) (BookmarksConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	return Parse(data)
}

// Parse strips template variables and unmarshals the YAML
func Parse(data []byte) (BookmarksConfig, error) {
	data = templateVariable.ReplaceAll(data, []byte(`""`))

	var config BookmarksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	return config, nil
}
