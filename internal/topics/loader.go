// internal/topics/loader.go
//
// Loads a topic's ranked list.
// Responsibilities:
//   - Build the right Source for a topic (bundled file, JSON endpoint, HTML table).
//   - Retry transient fetch failures with exponential backoff.
//   - Cache successful lists (memory or Redis) for a TTL.
//
// A failed load is reported to the caller as-is; the host shows "failed to load".

package topics

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/the100/assets"
	"github.com/robalobadob/the100/internal/round"
)

const cachePrefix = "the100:topic:"

// LoaderOptions tune fetching and caching. Zero values pick defaults.
type LoaderOptions struct {
	Cache         Cache
	TTL           time.Duration
	Client        *http.Client
	MaxRetries    uint64
	RetryInterval time.Duration
	Assets        fs.FS

	// OnFetch, if set, observes every source fetch (not cache hits).
	OnFetch func(slug string, err error)
}

// Loader resolves topic slugs to ranked entries.
type Loader struct {
	catalog *Catalog
	opts    LoaderOptions
}

func NewLoader(c *Catalog, opts LoaderOptions) *Loader {
	if opts.TTL <= 0 {
		opts.TTL = 6 * time.Hour
	}
	if opts.Cache == nil {
		opts.Cache = NewMemoryCache(opts.TTL)
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 500 * time.Millisecond
	}
	if opts.Assets == nil {
		opts.Assets = assets.FS
	}
	return &Loader{catalog: c, opts: opts}
}

// Catalog returns the loader's catalog.
func (l *Loader) Catalog() *Catalog { return l.catalog }

// Load returns the topic and its entries, ranked by list position.
func (l *Loader) Load(ctx context.Context, slug string) (Topic, []round.RankedEntry, error) {
	t, err := l.catalog.Get(slug)
	if err != nil {
		return Topic{}, nil, err
	}

	key := cachePrefix + slug
	if records, ok, err := l.opts.Cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("topic", slug).Msg("topic cache read failed")
	} else if ok && len(records) > 0 {
		return t, round.NewEntries(records), nil
	}

	records, err := l.fetch(ctx, t)
	if l.opts.OnFetch != nil {
		l.opts.OnFetch(slug, err)
	}
	if err != nil {
		return t, nil, fmt.Errorf("load topic %s: %w", slug, err)
	}
	if err := l.opts.Cache.Set(ctx, key, records, l.opts.TTL); err != nil {
		log.Warn().Err(err).Str("topic", slug).Msg("topic cache write failed")
	}
	log.Info().Str("topic", slug).Int("entries", len(records)).Msg("topic loaded")
	return t, round.NewEntries(records), nil
}

func (l *Loader) fetch(ctx context.Context, t Topic) ([]round.Record, error) {
	src := l.sourceFor(t)

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = l.opts.RetryInterval
	b := backoff.WithContext(backoff.WithMaxRetries(eb, l.opts.MaxRetries), ctx)

	var records []round.Record
	err := backoff.RetryNotify(func() error {
		var err error
		records, err = src.Fetch(ctx)
		return err
	}, b, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("topic", t.Slug).Dur("retryIn", wait).Msg("topic fetch failed")
	})
	return records, err
}

func (l *Loader) sourceFor(t Topic) Source {
	s := t.Source
	switch s.Kind {
	case KindJSON:
		return JSONSource{Client: l.opts.Client, URL: s.URL, LabelField: s.LabelField, DetailField: s.DetailField}
	case KindWikitable:
		return TableSource{Client: l.opts.Client, URL: s.URL}
	default:
		return FileSource{FS: l.opts.Assets, Path: s.Path, LabelField: s.LabelField, DetailField: s.DetailField}
	}
}
