package cross

import (
	"fmt"
	"strings"
)

// NoRulingsSentence is rendered for an empty ruling set so downstream
// consumers never need to special-case absence.
const NoRulingsSentence = "No CROSS rulings were found."

// subjectBudget bounds subject text per entry to keep prompts small.
const subjectBudget = 200

// FormatRulings renders rulings as numbered human-readable entries.
func FormatRulings(rulings []Ruling, maxToFormat int) string {
	if len(rulings) == 0 {
		return NoRulingsSentence
	}
	if maxToFormat <= 0 || maxToFormat > len(rulings) {
		maxToFormat = len(rulings)
	}

	var b strings.Builder
	for i, r := range rulings[:maxToFormat] {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. Ruling %s (%s)\n", i+1, r.Number, dateOrUnknown(r.Date))
		fmt.Fprintf(&b, "   Subject: %s\n", truncateSubject(r.Subject))
		fmt.Fprintf(&b, "   Tariffs: %s\n", tariffsOrNA(r.Tariffs))
		fmt.Fprintf(&b, "   URL: %s\n", r.URL)
	}
	return b.String()
}

// FormatContext renders rulings as the fenced table the prompt-flow
// recognizes and uses directly.
func FormatContext(rulings []Ruling, maxToFormat int) string {
	if len(rulings) == 0 {
		return NoRulingsSentence
	}
	if maxToFormat <= 0 || maxToFormat > len(rulings) {
		maxToFormat = len(rulings)
	}

	var b strings.Builder
	b.WriteString("CROSS_RULINGS_DATA_START\n")
	b.WriteString("| Ruling # | Date | HTS | Subject | URL |\n")
	b.WriteString("|---------|------|-----|---------|-----|\n")
	for _, r := range rulings[:maxToFormat] {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.Number, dateOrUnknown(r.Date), tariffsOrNA(r.Tariffs), truncateSubject(r.Subject), r.URL)
	}
	b.WriteString("CROSS_RULINGS_DATA_END")
	return b.String()
}

func dateOrUnknown(date string) string {
	if date == "" {
		return "unknown"
	}
	return date
}

func tariffsOrNA(tariffs []string) string {
	if len(tariffs) == 0 {
		return "N/A"
	}
	return strings.Join(tariffs, ", ")
}

func truncateSubject(subject string) string {
	if len(subject) <= subjectBudget {
		return subject
	}
	return subject[:subjectBudget] + "..."
}
