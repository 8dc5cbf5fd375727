package cross

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<ol class="search-results">
  <li>
    <a href="/ruling/N327114">NY N327114 - Leather wallets</a>
    <div class="meta">2022-06-14 · 4202.31.6000</div>
    <p class="snippet">The tariff classification of leather wallets from India.</p>
  </li>
  <li>
    <a href="/ruling/H301234">HQ H301234 - Bifold wallets</a>
    <div class="meta">03/15/2019</div>
    <p class="snippet">Revocation of ruling letters relating to bifold wallets.</p>
  </li>
  <li>
    <span>malformed item without a link or number</span>
  </li>
  <li>
    <a href="/ruling/N400001">NY N400001 - Card cases</a>
    <div class="meta">2023-01-02 · 4202.32.1000 · 4202.32.2000</div>
    <p class="snippet">Card cases of plastic sheeting.</p>
  </li>
</ol>
</body></html>`

func TestScraperSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "leather wallet", r.URL.Query().Get("term"))
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, srv.Client())
	rulings, err := s.Search(context.Background(), "leather wallet", SearchOptions{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, rulings, 3) // malformed item skipped, not an error

	assert.Equal(t, "NY N327114", rulings[0].Number)
	assert.Equal(t, "2022-06-14", rulings[0].Date)
	assert.Equal(t, []string{"4202.31.6000"}, rulings[0].Tariffs)
	assert.Equal(t, srv.URL+"/ruling/N327114", rulings[0].URL)
	assert.Contains(t, rulings[0].Subject, "leather wallets")

	assert.Equal(t, "HQ H301234", rulings[1].Number)
	assert.Equal(t, "03/15/2019", rulings[1].Date)
	assert.Empty(t, rulings[1].Tariffs)

	assert.Equal(t, []string{"4202.32.1000", "4202.32.2000"}, rulings[2].Tariffs)
}

func TestScraperStopsAtMax(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, srv.Client())
	rulings, err := s.Search(context.Background(), "wallet", SearchOptions{PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, rulings, 1)
}

func TestScraperEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>No results.</p></body></html>`))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, srv.Client())
	rulings, err := s.Search(context.Background(), "unobtainium", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, rulings)
}

func TestRulingNumberExpr(t *testing.T) {
	cases := map[string]string{
		"NY N327114 - Leather wallets": "NY N327114",
		"HQ H301234":                   "HQ H301234",
		"N327114 plain code":           "",
		"lowercase ny n1":              "",
	}
	for input, want := range cases {
		assert.Equal(t, want, rulingNumberExpr.FindString(input), "input: %s", input)
	}
}
