// Package textnorm canonicalizes text for comparisons and for diagram node
// identifiers. Titles and keywords extracted from real documents differ in
// accents, case and spacing; every comparison in the analyzer goes through
// Fold so that "Métricas  Generales" and "METRICAS GENERALES" compare equal.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	stripMarks  = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	nonSlugRuns = regexp.MustCompile(`[^A-Z0-9]+`)
)

// Fold returns the canonical comparison form of s: Unicode-decomposed with
// combining marks removed, upper-cased, whitespace runs collapsed to single
// spaces, and trimmed.
func Fold(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the input.
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(stripped)), " ")
}

// Slugify returns an identifier-safe form of s for diagram node names:
// the folded text with every non [A-Z0-9] run replaced by one underscore.
// An empty result falls back to "NODE".
func Slugify(s string) string {
	slug := strings.Trim(nonSlugRuns.ReplaceAllString(Fold(s), "_"), "_")
	if slug == "" {
		return "NODE"
	}
	return slug
}

// CollapseSpace collapses whitespace runs to single spaces and trims,
// without any case or accent folding.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
