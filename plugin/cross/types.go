// Package cross retrieves and normalizes CBP CROSS customs rulings.
//
// Two gateway implementations exist: an APIClient for the structured JSON
// search endpoint (primary) and a Scraper that parses the rendered results
// page (degraded fallback). Both honor the same Gateway contract.
package cross

import (
	"context"
	"strings"
)

// Ruling is a normalized prior-ruling record.
type Ruling struct {
	// Number is the ruling identifier, e.g. "NY N327114". Required.
	Number string `json:"rulingNumber"`
	// Date is the ruling date as reported upstream, "unknown" if absent.
	Date string `json:"rulingDate"`
	// Subject is the ruling subject or result snippet, bounded length.
	Subject string `json:"subject"`
	// Tariffs are the HTS codes cited by the ruling, in upstream order.
	Tariffs []string `json:"tariffs"`
	// URL is the absolute link to the ruling. Required.
	URL string `json:"url"`
}

// SearchOptions parameterize a ruling search. Zero values take defaults.
type SearchOptions struct {
	PageSize   int    // default 3
	Page       int    // default 1
	Collection string // default "ALL"
	SortBy     string // default "RELEVANCE"
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.PageSize <= 0 {
		o.PageSize = 3
	}
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.Collection == "" {
		o.Collection = "ALL"
	}
	if o.SortBy == "" {
		o.SortBy = "RELEVANCE"
	}
	return o
}

// Gateway searches CROSS rulings. Results arrive in upstream relevance
// order, capped at SearchOptions.PageSize, and are never re-sorted locally.
type Gateway interface {
	Search(ctx context.Context, term string, opts SearchOptions) ([]Ruling, error)
}

// rulingURLPrefix builds the canonical ruling link when upstream omits one.
const rulingURLPrefix = "https://rulings.cbp.gov/ruling/"

// normalize fills derivable fields and reports whether the record is
// usable. A record without a ruling number cannot be deduplicated or
// cited and is dropped.
func normalize(r *Ruling) bool {
	r.Number = strings.TrimSpace(r.Number)
	if r.Number == "" {
		return false
	}
	r.Date = strings.TrimSpace(r.Date)
	if r.Date == "" {
		r.Date = "unknown"
	}
	r.Subject = strings.TrimSpace(r.Subject)
	if r.URL == "" {
		r.URL = rulingURLPrefix + strings.ReplaceAll(r.Number, " ", "")
	}
	if r.Tariffs == nil {
		r.Tariffs = []string{}
	}
	return true
}
