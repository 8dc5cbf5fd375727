package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSearchTerm(t *testing.T) {
	testCases := []struct {
		name    string
		message string
		want    string
		ok      bool
	}{
		{
			name:    "hts code for",
			message: "What is the HTS code for a stainless steel water bottle?",
			want:    "stainless steel water bottle",
			ok:      true,
		},
		{
			name:    "classification of with trailing clause",
			message: "classification of the wooden chair under chapter 94",
			want:    "wooden chair",
			ok:      true,
		},
		{
			name:    "classify verb",
			message: "classify a leather wallet",
			want:    "leather wallet",
			ok:      true,
		},
		{
			name:    "what is the classification for",
			message: "What is the classification for an electric kettle?",
			want:    "electric kettle",
			ok:      true,
		},
		{
			name:    "generic keyword rule",
			message: "subheading ceramic mugs?",
			want:    "ceramic mugs",
			ok:      true,
		},
		{
			name:    "trailing punctuation trimmed",
			message: "classify a wooden chair.",
			want:    "wooden chair",
			ok:      true,
		},
		{
			name:    "possessive trimmed",
			message: "classification of the chair's",
			want:    "chair",
			ok:      true,
		},
		{
			name:    "keyword-only candidate rejected",
			message: "what is the code for the tariff code?",
			ok:      false,
		},
		{
			name:    "over seven words rejected",
			message: "classify a very long and rambling description of many assorted things",
			ok:      false,
		},
		{
			name:    "no trigger phrase",
			message: "How do I track my package?",
			ok:      false,
		},
		{
			name:    "keyword without item",
			message: "What about classification?",
			ok:      false,
		},
		{
			name:    "empty message",
			message: "",
			ok:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			term, ok := ExtractSearchTerm(tc.message)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, term)
			}
		})
	}
}

// Re-running extraction on an extracted term must not change it: the
// term alone either yields itself or nothing at all.
func TestExtractSearchTermIdempotent(t *testing.T) {
	messages := []string{
		"What is the HTS code for a stainless steel water bottle?",
		"classify a leather wallet",
		"classification of the wooden chair under chapter 94",
		"What is the classification for an electric kettle?",
	}
	for _, msg := range messages {
		term, ok := ExtractSearchTerm(msg)
		require.True(t, ok, msg)

		again, ok := ExtractSearchTerm(term)
		if ok {
			assert.Equal(t, term, again)
		}
	}
}
