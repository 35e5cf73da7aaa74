// internal/topics/catalog.go
//
// Topic catalog: which Top 100 lists exist and where their entries come from.
//
// The catalog is YAML (see assets/topics.yaml). LoadCatalog reads a file
// when a path is given and falls back to the bundled catalog otherwise.

package topics

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/the100/assets"
	"github.com/robalobadob/the100/internal/game"
)

// ErrUnknownTopic is returned for slugs missing from the catalog.
var ErrUnknownTopic = errors.New("unknown topic")

// Source kinds.
const (
	KindEmbedded  = "embedded"
	KindJSON      = "json"
	KindWikitable = "wikitable"
)

// SourceSpec says where a topic's list is loaded from.
type SourceSpec struct {
	Kind        string `yaml:"kind"`
	Path        string `yaml:"path,omitempty"`
	URL         string `yaml:"url,omitempty"`
	LabelField  string `yaml:"label_field,omitempty"`
	DetailField string `yaml:"detail_field,omitempty"`
}

// Topic is one catalog entry.
type Topic struct {
	Slug        string     `yaml:"slug" json:"slug"`
	Name        string     `yaml:"name" json:"name"`
	Category    string     `yaml:"category" json:"category"`
	Noun        string     `yaml:"noun" json:"noun"`
	DetailLabel string     `yaml:"detail_label" json:"detailLabel"`
	Daily       bool       `yaml:"daily" json:"daily"`
	Source      SourceSpec `yaml:"source" json:"-"`
}

// Meta is the round-facing description of the topic.
func (t Topic) Meta() game.Meta {
	return game.Meta{Slug: t.Slug, Name: t.Name, Noun: t.Noun, DetailLabel: t.DetailLabel}
}

// Catalog is an ordered, validated list of topics.
type Catalog struct {
	Topics []Topic `yaml:"topics"`
	bySlug map[string]int
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Topics) == 0 {
		return nil, errors.New("catalog has no topics")
	}
	c.bySlug = make(map[string]int, len(c.Topics))
	for i, t := range c.Topics {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("topic %d: %w", i, err)
		}
		if _, dup := c.bySlug[t.Slug]; dup {
			return nil, fmt.Errorf("duplicate topic slug %q", t.Slug)
		}
		c.bySlug[t.Slug] = i
	}
	return &c, nil
}

// LoadCatalog reads the catalog at path, or the bundled one if path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = assets.Catalog()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func (t Topic) validate() error {
	if strings.TrimSpace(t.Slug) == "" {
		return errors.New("missing slug")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%s: missing name", t.Slug)
	}
	switch t.Source.Kind {
	case KindEmbedded:
		if t.Source.Path == "" {
			return fmt.Errorf("%s: embedded source needs a path", t.Slug)
		}
	case KindJSON, KindWikitable:
		if t.Source.URL == "" {
			return fmt.Errorf("%s: %s source needs a url", t.Slug, t.Source.Kind)
		}
	default:
		return fmt.Errorf("%s: unknown source kind %q", t.Slug, t.Source.Kind)
	}
	return nil
}

// Get looks up a topic by slug.
func (c *Catalog) Get(slug string) (Topic, error) {
	if i, ok := c.bySlug[slug]; ok {
		return c.Topics[i], nil
	}
	return Topic{}, fmt.Errorf("%w: %s", ErrUnknownTopic, slug)
}

// Daily lists the topics eligible for topic of the day, in catalog order.
func (c *Catalog) Daily() []Topic {
	var out []Topic
	for _, t := range c.Topics {
		if t.Daily {
			out = append(out, t)
		}
	}
	return out
}
