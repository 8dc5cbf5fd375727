// Package agent routes customs questions between the CROSS ruling
// pipeline and the configured AI backend.
package agent

import (
	"regexp"
	"strings"
)

// classificationKeywords mark a message as a classification-style
// question. Matched as whole words so substrings of unrelated words
// ("heading" inside "spreading") do not trigger.
var classificationKeywords = []string{
	"hts",
	"classification",
	"classify",
	"tariff code",
	"customs code",
	"heading",
	"subheading",
	"htsus",
	"harmonized code",
}

var classificationExpr = regexp.MustCompile(`(?i)\b(` + strings.Join(classificationKeywords, "|") + `)\b`)

// IsClassificationQuestion reports whether the message asks for the
// tariff classification of a good. Empty input returns false.
func IsClassificationQuestion(message string) bool {
	if message == "" {
		return false
	}
	return classificationExpr.MatchString(message)
}
