package topics

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/robalobadob/the100/internal/round"
)

// TableSource scrapes the first table with class "wikitable" on a page.
// The first cell of each data row is the label, the second the detail.
type TableSource struct {
	Client *http.Client
	URL    string
}

func (s TableSource) Fetch(ctx context.Context) ([]round.Record, error) {
	body, err := get(ctx, s.Client, s.URL, "text/html")
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return parseWikitable(body)
}

var footnote = regexp.MustCompile(`\[[^\]]*\]`)

func parseWikitable(r io.Reader) ([]round.Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	table := findNode(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Table && hasClass(n, "wikitable")
	})
	if table == nil {
		return nil, backoff.Permanent(ErrEmptyList)
	}

	var out []round.Record
	walk(table, func(n *html.Node) bool {
		if n.DataAtom != atom.Tr {
			return true
		}
		if len(out) < MaxEntries {
			if cells := childCells(n, atom.Td); len(cells) >= 2 {
				label := cleanCell(cells[0])
				if label != "" {
					out = append(out, round.Record{Label: label, Detail: cleanCell(cells[1])})
				}
			}
		}
		return false
	})
	if len(out) == 0 {
		return nil, backoff.Permanent(ErrEmptyList)
	}
	return out, nil
}

// walk visits n and its descendants depth-first; visit returns false to skip children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findNode(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func childCells(tr *html.Node, a atom.Atom) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			cells = append(cells, c)
		}
	}
	return cells
}

// cleanCell returns the visible text of a cell without footnote markers.
func cleanCell(n *html.Node) string {
	var b strings.Builder
	walk(n, func(n *html.Node) bool {
		switch {
		case n.Type == html.ElementNode && (n.DataAtom == atom.Sup || n.DataAtom == atom.Style):
			return false
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(footnote.ReplaceAllString(b.String(), "")), " ")
}
