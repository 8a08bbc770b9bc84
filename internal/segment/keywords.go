package segment

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/deduar/document-analizer/internal/document"
	"github.com/deduar/document-analizer/internal/layout"
	"github.com/deduar/document-analizer/internal/textnorm"
)

// discoveredHeader marks the block appended by keyword discovery.
const discoveredHeader = "# Auto-discovered keywords"

// LoadKeywordsFile reads a line-oriented keyword file. Blank lines and `#`
// comments are ignored. Recognized prefixes (case-insensitive): `main:` or a
// bare line for main keywords, `sub:`/`subsection:` for subsection keywords,
// `main_regex:`/`regex:` for main patterns, `sub_regex:` for subsection
// patterns. A missing file is a configuration error.
func LoadKeywordsFile(path string) (KeywordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return KeywordSet{}, fmt.Errorf("open keywords file: %w", err)
	}
	defer f.Close()

	var ks KeywordSet
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prefix, value, found := strings.Cut(line, ":")
		if !found {
			ks.Main = append(ks.Main, line)
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(prefix)) {
		case "main":
			ks.Main = append(ks.Main, value)
		case "sub", "subsection":
			ks.Subsection = append(ks.Subsection, value)
		case "main_regex", "regex":
			ks.MainRegex = append(ks.MainRegex, value)
		case "sub_regex":
			ks.SubRegex = append(ks.SubRegex, value)
		default:
			// Unrecognized prefix: the colon belongs to the keyword itself.
			ks.Main = append(ks.Main, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return KeywordSet{}, fmt.Errorf("read keywords file: %w", err)
	}
	return ks, nil
}

// DiscoverHeadings scans pages for heading candidates not yet present in the
// classifier's vocabulary. Only the vocabulary and all-caps signals apply;
// font-size and numeric heuristics are excluded so data rows never become
// keywords. Candidates are deduplicated by folded text, first occurrence
// wins.
func DiscoverHeadings(pages []document.Page, c *Classifier) []string {
	seen := make(map[string]struct{})
	var candidates []string
	for _, page := range pages {
		for _, line := range layout.AssembleLines(page) {
			text := textnorm.CollapseSpace(line.Text)
			if len(text) < 3 || IsStrictNumeric(text) {
				continue
			}
			if !c.MatchesVocabulary(text) && !(isAllUpper(text) && len(text) <= 120) {
				continue
			}
			folded := textnorm.Fold(text)
			if c.KnownKeyword(folded) {
				continue
			}
			if _, dup := seen[folded]; dup {
				continue
			}
			seen[folded] = struct{}{}
			candidates = append(candidates, text)
		}
	}
	return candidates
}

// UpdateKeywordsFile appends candidates not already present in the file
// under an auto-discovered block, sorted case-insensitively, and returns the
// reloaded keyword set. Candidates matching a configured subsection pattern
// are tagged `sub:` when autoSubsections is set, `main:` otherwise.
// Re-running the update with the same candidates appends nothing further.
func UpdateKeywordsFile(path string, candidates []string, autoSubsections bool) (KeywordSet, error) {
	ks, err := LoadKeywordsFile(path)
	if err != nil {
		return KeywordSet{}, err
	}
	c, err := NewClassifier(ks)
	if err != nil {
		return KeywordSet{}, err
	}

	seen := make(map[string]struct{})
	var fresh []string
	for _, candidate := range candidates {
		folded := textnorm.Fold(candidate)
		if folded == "" || c.KnownKeyword(folded) {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		fresh = append(fresh, candidate)
	}
	if len(fresh) == 0 {
		return ks, nil
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		return strings.ToLower(fresh[i]) < strings.ToLower(fresh[j])
	})

	var block strings.Builder
	block.WriteString("\n" + discoveredHeader + "\n")
	for _, candidate := range fresh {
		tag := "main"
		if autoSubsections && c.MatchesSubsection(candidate) {
			tag = "sub"
		}
		fmt.Fprintf(&block, "%s: %s\n", tag, candidate)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return KeywordSet{}, fmt.Errorf("open keywords file for append: %w", err)
	}
	if _, err := f.WriteString(block.String()); err != nil {
		f.Close()
		return KeywordSet{}, fmt.Errorf("append keywords file: %w", err)
	}
	if err := f.Close(); err != nil {
		return KeywordSet{}, fmt.Errorf("close keywords file: %w", err)
	}
	return LoadKeywordsFile(path)
}
