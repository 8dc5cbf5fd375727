package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tariffwise/crossagent/plugin/agent"
	"github.com/tariffwise/crossagent/plugin/cross"
)

type stubGateway struct {
	rulings []cross.Ruling
}

func (g stubGateway) Search(context.Context, string, cross.SearchOptions) ([]cross.Ruling, error) {
	return g.rulings, nil
}

func newTestEcho(gw cross.Gateway) *echo.Echo {
	e := echo.New()
	router := agent.NewRouter(gw, nil)
	NewCustomsService(router).RegisterRoutes(e.Group("/api"))
	return e
}

func postAsk(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/customs/ask", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAskReturnsRulings(t *testing.T) {
	gw := stubGateway{rulings: []cross.Ruling{
		{Number: "NY N327114", Date: "2022-06-14", Subject: "Leather wallets", Tariffs: []string{"4202.31.6000"}, URL: "https://rulings.cbp.gov/ruling/N327114"},
	}}
	e := newTestEcho(gw)

	rec := postAsk(e, `{"message": "classify a leather wallet"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "cross_rulings_result", res["kind"])
	assert.Nil(t, res["error"])
	assert.Contains(t, res["result"], "NY N327114")

	rulings, ok := res["cross_rulings"].([]any)
	require.True(t, ok)
	assert.Len(t, rulings, 1)
}

// Internal failures stay in-band: the HTTP status is 200 and the error
// travels in the result object.
func TestAskReportsErrorsInBand(t *testing.T) {
	e := newTestEcho(failingGateway{})

	rec := postAsk(e, `{"message": "classify a leather wallet"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "cross_rulings_result", res["kind"])
	assert.NotNil(t, res["error"])
	assert.Nil(t, res["result"])
}

type failingGateway struct{}

func (failingGateway) Search(context.Context, string, cross.SearchOptions) ([]cross.Ruling, error) {
	return nil, context.DeadlineExceeded
}

func TestAskRejectsEmptyMessage(t *testing.T) {
	e := newTestEcho(stubGateway{})

	rec := postAsk(e, `{"message": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskRejectsMalformedBody(t *testing.T) {
	e := newTestEcho(stubGateway{})

	rec := postAsk(e, `{"message": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
