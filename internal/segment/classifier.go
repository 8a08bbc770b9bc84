// Package segment turns page lines into a flat, ordered section outline.
// It hosts the heading classifier, the keyword-file protocol, and the
// per-page hierarchy state machine.
package segment

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/deduar/document-analizer/internal/textnorm"
)

// KeywordSet is the external classification vocabulary: exact keywords and
// regex patterns, each split into main-section and subsection variants.
type KeywordSet struct {
	Main        []string
	Subsection  []string
	MainRegex   []string
	SubRegex    []string
}

// DefaultKeywordSet returns the built-in vocabulary used when no keyword
// file is configured.
func DefaultKeywordSet() KeywordSet {
	return KeywordSet{
		Main: []string{
			"INTRODUCCION",
			"NEWSLETTER",
			"PROMOS",
			"METRICAS GENERALES",
			"MÉTRICAS GENERALES",
			"EVOLUTIVOS",
			"CAMPAÑAS",
			"CAMPANAS",
		},
	}
}

// Classifier decides whether a line is a heading and which vocabulary tier
// it belongs to. It layers four signals so classification still works when
// font metadata is absent: exact vocabulary, regex patterns, typographic
// convention (all caps), and relative font size.
type Classifier struct {
	main   map[string]struct{}
	sub    map[string]struct{}
	mainRe []*regexp.Regexp
	subRe  []*regexp.Regexp
}

// NewClassifier compiles a keyword set. Patterns compile case-insensitive
// with search (unanchored) semantics; an invalid pattern is a configuration
// error.
func NewClassifier(ks KeywordSet) (*Classifier, error) {
	c := &Classifier{
		main: make(map[string]struct{}, len(ks.Main)),
		sub:  make(map[string]struct{}, len(ks.Subsection)),
	}
	for _, kw := range ks.Main {
		c.main[textnorm.Fold(kw)] = struct{}{}
	}
	for _, kw := range ks.Subsection {
		c.sub[textnorm.Fold(kw)] = struct{}{}
	}
	var err error
	if c.mainRe, err = compilePatterns(ks.MainRegex); err != nil {
		return nil, err
	}
	if c.subRe, err = compilePatterns(ks.SubRegex); err != nil {
		return nil, err
	}
	return c, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid keyword pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// IsHeading reports whether a line is a heading candidate. Rules are
// evaluated in order, first match wins: minimum length, exact keyword,
// regex pattern, all caps, relative font size.
func (c *Classifier) IsHeading(text string, medianSize float64, avgSize *float64) bool {
	clean := strings.TrimSpace(text)
	if len(clean) < 3 {
		return false
	}
	if c.MatchesVocabulary(clean) {
		return true
	}
	if isAllUpper(clean) && len(clean) <= 120 {
		return true
	}
	return avgSize != nil && *avgSize >= medianSize+2
}

// MatchesVocabulary reports whether a line matches a configured keyword or
// regex pattern (main or subsection), the signal tiers used by keyword
// discovery. Font-size and numeric heuristics are deliberately excluded.
func (c *Classifier) MatchesVocabulary(text string) bool {
	folded := textnorm.Fold(text)
	if _, ok := c.main[folded]; ok {
		return true
	}
	if _, ok := c.sub[folded]; ok {
		return true
	}
	for _, re := range c.mainRe {
		if re.MatchString(text) {
			return true
		}
	}
	for _, re := range c.subRe {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// MatchesSubsection reports whether a heading belongs to the subsection
// tier: an exact subsection keyword or a subsection pattern match.
func (c *Classifier) MatchesSubsection(text string) bool {
	if _, ok := c.sub[textnorm.Fold(text)]; ok {
		return true
	}
	for _, re := range c.subRe {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// KnownKeyword reports whether folded text is already present in either
// keyword tier. Used by discovery to avoid re-appending known headings.
func (c *Classifier) KnownKeyword(folded string) bool {
	if _, ok := c.main[folded]; ok {
		return true
	}
	_, ok := c.sub[folded]
	return ok
}

// isAllUpper mirrors the "entirely upper-case" heuristic: the text must
// contain at least one cased rune and no lower-case rune.
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

var numericRun = regexp.MustCompile(`^[0-9%.,\s]+$`)

func countDigitsLetters(s string) (digits, letters int) {
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
		}
	}
	return digits, letters
}

// IsLooseNumeric is the table-row detector used by the chunker: a run of
// digits/percent/punctuation, or a line dense in digits.
func IsLooseNumeric(text string) bool {
	if numericRun.MatchString(text) {
		return true
	}
	digits, _ := countDigitsLetters(text)
	if digits >= 6 {
		return true
	}
	return strings.Contains(text, "%") && digits >= 2
}

// IsStrictNumeric is the data-row detector used by the hierarchy builder.
// It tolerates a couple of stray letters at most, scaled by digit count.
// Deliberately distinct from IsLooseNumeric; the two thresholds diverge
// and consumers depend on each variant's behavior.
func IsStrictNumeric(text string) bool {
	if numericRun.MatchString(text) {
		return true
	}
	digits, letters := countDigitsLetters(text)
	limit := digits / 3
	if limit < 2 {
		limit = 2
	}
	return digits >= 2 && letters <= limit
}

// IsExcerptNumeric is the variant used for data-excerpt lookup in queries:
// any line starting with a digit counts outright, otherwise the strict rule
// applies.
func IsExcerptNumeric(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if r := []rune(trimmed)[0]; unicode.IsDigit(r) {
		return true
	}
	return IsStrictNumeric(trimmed)
}
