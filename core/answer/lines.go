package answer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	lineBreaks  = regexp.MustCompile(`[\n\r]+`)
	blankRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
	dashes      = strings.NewReplacer("–", "-", "—", "-")
)

// CleanText replaces typographic dashes, collapses runs of blanks
// and limits consecutive newlines to two.
func CleanText(text string) string {
	text = dashes.Replace(text)
	text = blankRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// CollapseWhitespace joins the words of text with single spaces.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SplitLines splits text into whitespace collapsed lines and drops the ones
// that are too short or match a boilerplate pattern.
func (s *Synthesizer) SplitLines(text string) []string {
	var lines []string
	for _, raw := range lineBreaks.Split(text, -1) {
		line := CollapseWhitespace(raw)
		if utf8.RuneCountInString(line) < s.tuning.MinLineLength {
			continue
		}
		if s.isBoilerplate(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (s *Synthesizer) isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, pattern := range s.boilerplate {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

// Score rates how informative a line is by its length.
//
//	60..220          3
//	30..59, 221..320 2
//	otherwise        1
//
// All caps lines score one less.
func Score(line string) int {
	length := utf8.RuneCountInString(line)

	var score int
	switch {
	case length >= 60 && length <= 220:
		score = 3
	case length >= 30 && length < 60:
		score = 2
	case length > 220 && length <= 320:
		score = 2
	default:
		score = 1
	}

	if isUpper(line) {
		score--
	}
	return score
}

// PickInformative returns the k best scoring lines.
// Lines with equal score keep their order.
func PickInformative(lines []string, k int) []string {
	sorted := make([]string, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Score(sorted[i]) > Score(sorted[j])
	})

	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// FirstUsefulLine returns the line that best labels text for display.
//
// This is the first non blank line. If that line is only a section or rule
// number, the next line is appended to it. Without any line containing a
// letter or digit the first fallbackLength characters of the cleaned text are
// returned.
func (s *Synthesizer) FirstUsefulLine(text string) string {
	cleaned := CleanText(text)

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if hasAlphanumeric(line) {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return truncateRunes(CollapseWhitespace(cleaned), s.tuning.FallbackLineLength)
	}

	first := lines[0]
	if s.header != nil {
		if match := s.header.FindString(first); match != "" && match == first && len(lines) > 1 {
			return first + " " + lines[1]
		}
	}
	return first
}

// Compact collapses whitespace and cuts text to limit characters with an ellipsis.
func Compact(text string, limit int) string {
	text = CollapseWhitespace(text)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	return strings.TrimRightFunc(truncateRunes(text, limit), unicode.IsSpace) + "…"
}

func truncateRunes(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

func isUpper(s string) bool {
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

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
