package source

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

//go:embed sources.yaml
var defaultCatalog string

type CatalogEntry struct {
	Key     string            `yaml:"key"`
	Name    string            `yaml:"name"`
	BaseURL string            `yaml:"base_url"`
	Meta    domain.SourceMeta `yaml:"meta"`
}

type catalogFile struct {
	Kind    string         `yaml:"kind"`
	Version string         `yaml:"version"`
	Sources []CatalogEntry `yaml:"sources"`
}

// Catalog holds display metadata for known providers, in declaration order.
type Catalog struct {
	entries []CatalogEntry
	byKey   map[string]CatalogEntry
}

func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode source catalog: %w", err)
	}
	if file.Kind != "SourceCatalog" {
		return nil, fmt.Errorf("unexpected catalog kind %q", file.Kind)
	}

	c := &Catalog{byKey: make(map[string]CatalogEntry, len(file.Sources))}
	for i, e := range file.Sources {
		if e.Key == "" {
			return nil, fmt.Errorf("catalog entry %d: key is required", i)
		}
		if _, dup := c.byKey[e.Key]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate key %q", i, e.Key)
		}
		if e.Name == "" {
			e.Name = DisplayName(e.Key)
		}
		c.entries = append(c.entries, e)
		c.byKey[e.Key] = e
	}

	return c, nil
}

var defaultCatalogOnce = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(strings.NewReader(defaultCatalog))
})

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	c, err := defaultCatalogOnce()
	if err != nil {
		panic(fmt.Sprintf("embedded source catalog is invalid: %v", err))
	}
	return c
}

func (c *Catalog) Entries() []CatalogEntry {
	return append([]CatalogEntry(nil), c.entries...)
}

// Describe returns the source record to create for key. Keys missing from
// the catalog get a display name derived from the key.
func (c *Catalog) Describe(key string) domain.Source {
	if e, ok := c.byKey[key]; ok {
		return domain.Source{Key: e.Key, Name: e.Name, BaseURL: e.BaseURL, Meta: e.Meta}
	}
	return domain.Source{Key: key, Name: DisplayName(key)}
}

// DisplayName upper-cases the first letter of key.
func DisplayName(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}
