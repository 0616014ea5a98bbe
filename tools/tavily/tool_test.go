package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srijan-op/Brain-Chain/tools"
)

func TestSearch(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"usa gdp growth","results":[
			{"title":"BEA","url":"https://bea.gov","content":"GDP increased by about three percent","score":0.9},
			{"title":"Trading","url":"https://tradingeconomics.com","content":"growth rate","score":0.8},
			{"title":"Extra","url":"https://extra.example","content":"ignored","score":0.1}
		]}`))
	}))
	defer srv.Close()

	search := New(WithAPIKey("tvly-test"), WithBaseURL(srv.URL))
	out, err := search.Run(context.Background(), &Input{Query: "usa gdp growth"})
	require.NoError(t, err)
	assert.Equal(t, "usa gdp growth", got.Query)
	assert.Equal(t, 2, got.MaxResults)
	require.Len(t, out.Results, 2)
	assert.Equal(t, Result{URL: "https://bea.gov", Content: "GDP increased by about three percent"}, out.Results[0])

	assert.JSONEq(t, `[{"url":"https://bea.gov","content":"GDP increased by about three percent"},{"url":"https://tradingeconomics.com","content":"growth rate"}]`, out.String())
}

func TestSearchUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"error":"Unauthorized: missing or invalid API key."}}`))
	}))
	defer srv.Close()

	tool := tools.Wrap(New(WithAPIKey("bad"), WithBaseURL(srv.URL)))
	_, err := tool.Call(context.Background(), `{"query":"x"}`)
	require.ErrorIs(t, err, tools.ErrToolFailed)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid API key")
}

func TestSearchDefinition(t *testing.T) {
	def := tools.Wrap(New()).Definition()
	assert.Equal(t, "tavily_search_results_json", def.Name)
	assert.NotEmpty(t, def.Description)

	_, err := tools.Wrap(New()).Call(context.Background(), `{}`)
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)
}
