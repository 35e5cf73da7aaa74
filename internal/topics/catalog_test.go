package topics

import (
	"errors"
	"strings"
	"testing"
)

func TestBundledCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog(\"\") error = %v", err)
	}
	if len(c.Daily()) < 2 {
		t.Fatalf("expected at least two daily topics, got %d", len(c.Daily()))
	}
	for _, topic := range c.Daily() {
		if topic.Source.Kind != KindEmbedded {
			t.Errorf("daily topic %s must be bundled, is %s", topic.Slug, topic.Source.Kind)
		}
	}
	if _, err := c.Get("no-such-topic"); !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("Get(unknown) err = %v", err)
	}
}

func TestParseCatalogValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "topics: []", "no topics"},
		{"missing slug", "topics:\n  - name: X\n    source: {kind: embedded, path: a.json}", "missing slug"},
		{"bad kind", "topics:\n  - slug: a\n    name: A\n    source: {kind: ftp}", "unknown source kind"},
		{"json without url", "topics:\n  - slug: a\n    name: A\n    source: {kind: json}", "needs a url"},
		{"duplicate", "topics:\n  - slug: a\n    name: A\n    source: {kind: embedded, path: a.json}\n  - slug: a\n    name: B\n    source: {kind: embedded, path: b.json}", "duplicate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("ParseCatalog() err = %v, want containing %q", err, tc.want)
			}
		})
	}
}
