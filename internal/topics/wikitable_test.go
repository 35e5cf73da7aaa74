package topics

import (
	"errors"
	"strings"
	"testing"
)

const samplePage = `<html><body>
<table class="infobox"><tr><td>ignore</td><td>me</td></tr></table>
<table class="wikitable sortable">
 <tbody>
  <tr><th>Location</th><th>Population</th><th>%</th></tr>
  <tr><td><span class="flag"></span><a href="/wiki/India">India</a></td><td>1,425,775,850<sup>[b]</sup></td><td>17.6%</td></tr>
  <tr><td><a href="/wiki/China">China</a>[c]</td><td>1,409,670,000[d]</td><td>17.4%</td></tr>
  <tr><td>World</td></tr>
  <tr><td>Côte d'Ivoire</td><td>29,389,150</td></tr>
 </tbody>
</table>
<table class="wikitable"><tr><td>Second</td><td>table</td></tr></table>
</body></html>`

func TestParseWikitable(t *testing.T) {
	got, err := parseWikitable(strings.NewReader(samplePage))
	if err != nil {
		t.Fatal(err)
	}
	want := []struct{ label, detail string }{
		{"India", "1,425,775,850"},
		{"China", "1,409,670,000"},
		{"Côte d'Ivoire", "29,389,150"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows: %+v", len(got), got)
	}
	for i, w := range want {
		if got[i].Label != w.label || got[i].Detail != w.detail {
			t.Errorf("row %d = %+v, want %s / %s", i, got[i], w.label, w.detail)
		}
	}
}

func TestParseWikitableMissingTable(t *testing.T) {
	_, err := parseWikitable(strings.NewReader(`<html><body><p>nothing</p></body></html>`))
	if !errors.Is(err, ErrEmptyList) {
		t.Fatalf("err = %v, want ErrEmptyList", err)
	}
}
