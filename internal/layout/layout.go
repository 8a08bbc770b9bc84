// Package layout reconstructs visual lines from positioned words and derives
// the per-page font-size statistics that heading detection relies on.
package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/deduar/document-analizer/internal/document"
)

// Line is one visual line of a page. AvgSize is nil when none of the line's
// words carry a font size, or when the line came from the raw-text fallback.
type Line struct {
	Text    string
	AvgSize *float64
}

// AssembleLines groups a page's words into ordered visual lines. Words
// sharing the same rounded vertical coordinate form one line, ordered left
// to right and joined with single spaces. Pages without word data fall back
// to the page text split into raw lines.
func AssembleLines(page document.Page) []Line {
	if len(page.Words) == 0 {
		var lines []Line
		for _, raw := range strings.Split(page.Text, "\n") {
			lines = append(lines, Line{Text: strings.TrimSpace(raw)})
		}
		return lines
	}

	rows := make(map[int][]document.Word)
	var keys []int
	for _, word := range page.Words {
		key := int(math.Round(word.Top))
		if _, seen := rows[key]; !seen {
			keys = append(keys, key)
		}
		rows[key] = append(rows[key], word)
	}
	sort.Ints(keys)

	lines := make([]Line, 0, len(keys))
	for _, key := range keys {
		words := rows[key]
		sort.SliceStable(words, func(i, j int) bool { return words[i].X0 < words[j].X0 })

		parts := make([]string, 0, len(words))
		var sizeSum float64
		var sized int
		for _, word := range words {
			parts = append(parts, strings.TrimSpace(word.Text))
			if word.Size != nil {
				sizeSum += *word.Size
				sized++
			}
		}
		line := Line{Text: strings.TrimSpace(strings.Join(parts, " "))}
		if sized > 0 {
			avg := sizeSum / float64(sized)
			line.AvgSize = &avg
		}
		lines = append(lines, line)
	}
	return lines
}

// MedianFontSize returns the median of all word sizes on the page, taking
// the mean of the two middle values for an even count. It returns 0 when no
// word carries a size.
func MedianFontSize(words []document.Word) float64 {
	var sizes []float64
	for _, word := range words {
		if word.Size != nil {
			sizes = append(sizes, *word.Size)
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 1 {
		return sizes[mid]
	}
	return (sizes[mid-1] + sizes[mid]) / 2
}
