package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestObserveFetch(t *testing.T) {
	m := New()
	m.ObserveFetch("girl-names-us", nil)
	m.ObserveFetch("girl-names-us", errors.New("boom"))
	m.ObserveFetch("girl-names-us", nil)

	out := scrape(t, m)
	for _, want := range []string{
		`the100_topic_fetches_total{result="ok",topic="girl-names-us"} 2`,
		`the100_topic_fetches_total{result="error",topic="girl-names-us"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestHandlerExposesGameMetrics(t *testing.T) {
	m := New()
	m.Guesses.WithLabelValues("hit").Inc()
	m.RevealEvents.Add(3)

	out := scrape(t, m)
	for _, want := range []string{`the100_guesses_total{outcome="hit"} 1`, "the100_reveal_events_total 3", "go_goroutines"} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
