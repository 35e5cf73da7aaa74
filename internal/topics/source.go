package topics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/robalobadob/the100/internal/round"
)

// MaxEntries caps every list; a Top 100 never ranks more.
const MaxEntries = 100

// ErrEmptyList is returned when a source yields no usable records.
var ErrEmptyList = errors.New("topic list is empty")

// Source produces an ordered list of records; index 0 becomes rank 1.
type Source interface {
	Fetch(ctx context.Context) ([]round.Record, error)
}

// FileSource reads a JSON array from a filesystem (the bundled assets).
type FileSource struct {
	FS          fs.FS
	Path        string
	LabelField  string
	DetailField string
}

func (s FileSource) Fetch(ctx context.Context) ([]round.Record, error) {
	data, err := fs.ReadFile(s.FS, s.Path)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("read %s: %w", s.Path, err))
	}
	return decodeRecords(bytes.NewReader(data), s.LabelField, s.DetailField)
}

// JSONSource fetches a JSON array of objects over HTTP.
type JSONSource struct {
	Client      *http.Client
	URL         string
	LabelField  string
	DetailField string
}

func (s JSONSource) Fetch(ctx context.Context) ([]round.Record, error) {
	body, err := get(ctx, s.Client, s.URL, "application/json")
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return decodeRecords(body, s.LabelField, s.DetailField)
}

// statusError is returned for non-200 upstream responses.
type statusError struct {
	URL  string
	Code int
}

func (e *statusError) Error() string { return fmt.Sprintf("GET %s: status %d", e.URL, e.Code) }

// get issues a GET and returns the body of a 200 response.
// 4xx responses are permanent and not retried.
func get(ctx context.Context, client *http.Client, url, accept string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; the100-game)")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		serr := &statusError{URL: url, Code: resp.StatusCode}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(serr)
		}
		return nil, serr
	}
	return resp.Body, nil
}

// decodeRecords reads a JSON array of objects, taking the label and detail
// from the named fields ("label"/"detail" when unset). Objects without a
// label are skipped; the list is capped at MaxEntries.
func decodeRecords(r io.Reader, labelField, detailField string) ([]round.Record, error) {
	if labelField == "" {
		labelField = "label"
	}
	if detailField == "" {
		detailField = "detail"
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode list: %w", err))
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		var upstream struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &upstream) == nil && upstream.Message != "" {
			return nil, fmt.Errorf("upstream error: %s", upstream.Message)
		}
		return nil, backoff.Permanent(fmt.Errorf("decode list: %w", err))
	}

	out := make([]round.Record, 0, min(len(items), MaxEntries))
	for _, it := range items {
		label := strings.TrimSpace(scalar(it[labelField]))
		if label == "" {
			continue
		}
		out = append(out, round.Record{Label: label, Detail: strings.TrimSpace(scalar(it[detailField]))})
		if len(out) == MaxEntries {
			break
		}
	}
	if len(out) == 0 {
		return nil, backoff.Permanent(ErrEmptyList)
	}
	return out, nil
}

// scalar renders a decoded JSON value as display text.
func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return groupThousands(n)
		}
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// groupThousands formats 1409670000 as "1,409,670,000".
func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	s := fmt.Sprint(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
