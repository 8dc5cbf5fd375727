package cross

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperr "github.com/tariffwise/crossagent/internal/errors"
)

// searchPath is the JSON search endpoint under the CROSS base URL.
const searchPath = "/api/search"

// APIClient queries the structured CROSS JSON search endpoint.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient wires an HTTP client; a nil client gets a 30s timeout default.
func NewAPIClient(baseURL string, client *http.Client) *APIClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type searchResponse struct {
	Rulings []Ruling `json:"rulings"`
}

// Search issues a parameterized query and maps the ruling array into
// normalized records. Records without a ruling number are dropped; the
// result is capped at opts.PageSize.
func (c *APIClient) Search(ctx context.Context, term string, opts SearchOptions) ([]Ruling, error) {
	opts = opts.withDefaults()

	params := url.Values{}
	params.Set("term", term)
	params.Set("collection", opts.Collection)
	params.Set("pageSize", strconv.Itoa(opts.PageSize))
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("sortBy", opts.SortBy)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperr.Internal("build cross search request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr("cross search", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperr.UpstreamHTTP("cross search", resp.StatusCode, string(body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.Parse("decode cross search response", err)
	}

	rulings := make([]Ruling, 0, opts.PageSize)
	for _, r := range payload.Rulings {
		if !normalize(&r) {
			continue
		}
		rulings = append(rulings, r)
		if len(rulings) >= opts.PageSize {
			break
		}
	}
	return rulings, nil
}

// classifyTransportErr maps a transport failure to the error taxonomy.
func classifyTransportErr(op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return apperr.UpstreamTimeout(op, err)
	}
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return apperr.UpstreamTimeout(op, err)
	}
	return apperr.UpstreamNetwork(op, err)
}
