package cross

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRulings() []Ruling {
	return []Ruling{
		{
			Number:  "NY N327114",
			Date:    "2022-06-14",
			Subject: "The tariff classification of leather wallets from India",
			Tariffs: []string{"4202.31.6000"},
			URL:     "https://rulings.cbp.gov/ruling/N327114",
		},
		{
			Number:  "HQ H301234",
			Date:    "unknown",
			Subject: strings.Repeat("long subject ", 40),
			Tariffs: nil,
			URL:     "https://rulings.cbp.gov/ruling/H301234",
		},
	}
}

func TestFormatRulings(t *testing.T) {
	out := FormatRulings(sampleRulings(), 3)

	assert.Contains(t, out, "1. Ruling NY N327114 (2022-06-14)")
	assert.Contains(t, out, "2. Ruling HQ H301234 (unknown)")
	assert.Contains(t, out, "Tariffs: 4202.31.6000")
	assert.Contains(t, out, "Tariffs: N/A")
	assert.Contains(t, out, "URL: https://rulings.cbp.gov/ruling/N327114")
}

func TestFormatRulingsTruncatesSubject(t *testing.T) {
	out := FormatRulings(sampleRulings(), 3)
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "Subject:") {
			assert.LessOrEqual(t, len(line), subjectBudget+20)
		}
	}
}

func TestFormatRulingsRespectsMax(t *testing.T) {
	out := FormatRulings(sampleRulings(), 1)
	assert.Contains(t, out, "NY N327114")
	assert.NotContains(t, out, "HQ H301234")
}

func TestFormatRulingsEmpty(t *testing.T) {
	assert.Equal(t, NoRulingsSentence, FormatRulings(nil, 3))
	assert.Equal(t, NoRulingsSentence, FormatRulings([]Ruling{}, 3))
}

func TestFormatRulingsDeterministic(t *testing.T) {
	assert.Equal(t, FormatRulings(sampleRulings(), 3), FormatRulings(sampleRulings(), 3))
}

func TestFormatContext(t *testing.T) {
	out := FormatContext(sampleRulings(), 3)
	assert.True(t, strings.HasPrefix(out, "CROSS_RULINGS_DATA_START"))
	assert.True(t, strings.HasSuffix(out, "CROSS_RULINGS_DATA_END"))
	assert.Contains(t, out, "| NY N327114 | 2022-06-14 | 4202.31.6000 |")
}

func TestFormatContextEmpty(t *testing.T) {
	assert.Equal(t, NoRulingsSentence, FormatContext(nil, 3))
}
