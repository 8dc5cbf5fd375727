package agent

import (
	"regexp"
	"strings"
)

// maxTermWords bounds extracted search terms. Longer spans are almost
// always sentence fragments, not product names.
const maxTermWords = 7

// Extraction rules in priority order, most specific first. The first
// rule whose cleaned capture survives validation wins; precision over
// recall, since a wrong extraction produces a nonsensical search while
// an absent one just falls through to the AI backend.
var termPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:classification of|classify|hts for|tariff code for|code for)\s+(?:the\s+|a\s+|an\s+)?(.+?)(?:\?|$|\s+under\b|\s+in\b)`),
	regexp.MustCompile(`(?i)what is the\s+(?:hts|classification|tariff code|code)\s+(?:of|for)\s+(?:the\s+|a\s+|an\s+)?(.+?)(?:\?|$)`),
	regexp.MustCompile(`(?i)\b(?:hts|classification|classify|tariff code|customs code|heading|subheading|htsus|harmonized code)\s+(?:of|for)?\s*(?:the\s+|a\s+|an\s+)?([\w\s-]+?)(?:\?|$)`),
}

var (
	termPunctExpr = regexp.MustCompile(`[.,;:!?()"']`)
	possessiveEnd = regexp.MustCompile(`(?i)'s$|s'$`)
)

// trailingAuxiliaries are dropped from the end of a captured span.
var trailingAuxiliaries = map[string]struct{}{
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {},
}

// ExtractSearchTerm pulls the candidate product phrase out of a
// classification question. The boolean is false when no rule produced a
// usable phrase; that is a valid outcome, not an error.
func ExtractSearchTerm(message string) (string, bool) {
	if message == "" {
		return "", false
	}

	for _, pattern := range termPatterns {
		match := pattern.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		term := cleanTerm(match[1])
		if term == "" || isClassificationKeyword(term) {
			continue
		}
		if n := len(strings.Fields(term)); n < 1 || n > maxTermWords {
			continue
		}
		return term, true
	}
	return "", false
}

func cleanTerm(raw string) string {
	term := possessiveEnd.ReplaceAllString(strings.TrimSpace(raw), "")
	term = termPunctExpr.ReplaceAllString(term, "")
	term = strings.TrimSpace(term)

	words := strings.Fields(term)
	for len(words) > 0 {
		if _, aux := trailingAuxiliaries[strings.ToLower(words[len(words)-1])]; !aux {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func isClassificationKeyword(term string) bool {
	lower := strings.ToLower(term)
	for _, keyword := range classificationKeywords {
		if lower == keyword {
			return true
		}
	}
	return false
}
