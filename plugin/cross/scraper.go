package cross

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	apperr "github.com/tariffwise/crossagent/internal/errors"
)

var (
	// Ruling identifiers lead the result title: two or three uppercase
	// letters followed by an alphanumeric code, e.g. "NY N327114".
	rulingNumberExpr = regexp.MustCompile(`^([A-Z]{2,3}\s?[A-Z0-9][A-Z0-9-]*)`)

	// Dates appear in the metadata block as ISO or US format.
	rulingDateExpr = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4}`)

	// HTS codes cited inside the metadata block.
	tariffCodeExpr = regexp.MustCompile(`\d{4}\.\d{2}\.\d{2,4}`)
)

// resultSelectors are tried in order; upstream markup has drifted across
// redesigns, so older structures stay recognized.
var resultSelectors = []string{
	"ol.search-results > li",
	"div.ruling-result",
	"li.ruling-item",
}

// Scraper parses the rendered CROSS results page. Degraded fallback for
// deployments where the JSON search endpoint is not reachable.
type Scraper struct {
	baseURL string
	client  *http.Client
}

// NewScraper wires an HTTP client; a nil client gets a 30s timeout default.
func NewScraper(baseURL string, client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Scraper{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Search fetches the results page for term and extracts up to
// opts.PageSize valid rulings. Items that yield neither a ruling number
// nor a link are skipped silently; partial extraction success is expected
// given upstream markup drift.
func (s *Scraper) Search(ctx context.Context, term string, opts SearchOptions) ([]Ruling, error) {
	opts = opts.withDefaults()

	params := url.Values{}
	params.Set("term", term)
	params.Set("page", strconv.Itoa(opts.Page))

	pageURL := s.baseURL + "/search?" + params.Encode()
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	items := s.findResultItems(doc)
	rulings := make([]Ruling, 0, opts.PageSize)
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		r, ok := s.extractRuling(item)
		if ok {
			rulings = append(rulings, r)
		}
		return len(rulings) < opts.PageSize
	})
	return rulings, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, apperr.Internal("build cross results request", err)
	}
	req.Header.Set("User-Agent", "crossagent/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr("cross results page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperr.UpstreamHTTP("cross results page", resp.StatusCode, string(body))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperr.Parse("parse cross results page", err)
	}
	return doc, nil
}

// findResultItems returns the first selector's matches that yield anything.
func (s *Scraper) findResultItems(doc *goquery.Document) *goquery.Selection {
	for _, selector := range resultSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Find(resultSelectors[0])
}

// extractRuling decomposes one result item: a title link, a metadata block
// holding the date and tariff codes, and a snippet block.
func (s *Scraper) extractRuling(item *goquery.Selection) (Ruling, bool) {
	var r Ruling

	title := item.Find("a").First()
	titleText := strings.TrimSpace(title.Text())
	if m := rulingNumberExpr.FindString(titleText); m != "" {
		r.Number = m
	}

	if href, ok := title.Attr("href"); ok {
		r.URL = s.absoluteURL(href)
	}
	if r.Number == "" && r.URL == "" {
		return Ruling{}, false
	}

	meta := strings.TrimSpace(item.Find(".meta, .result-meta, .details").First().Text())
	if meta == "" {
		meta = titleText
	}
	r.Date = rulingDateExpr.FindString(meta)
	r.Tariffs = tariffCodeExpr.FindAllString(meta, -1)

	snippet := strings.TrimSpace(item.Find(".snippet, .result-snippet, p").First().Text())
	if snippet == "" {
		snippet = titleText
	}
	r.Subject = snippet

	if !normalize(&r) {
		return Ruling{}, false
	}
	return r, true
}

func (s *Scraper) absoluteURL(href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
