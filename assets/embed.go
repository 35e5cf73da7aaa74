// Package assets bundles the default topic catalog and its ranked lists.
package assets

import "embed"

//go:embed topics.yaml lists/*.json
var FS embed.FS

// CatalogFile is the name of the bundled catalog inside FS.
const CatalogFile = "topics.yaml"

// Catalog returns the raw bundled catalog.
func Catalog() ([]byte, error) {
	return FS.ReadFile(CatalogFile)
}
