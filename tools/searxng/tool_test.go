package searxng

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

func startSearxngServer(t *testing.T, results *SearchResponse) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(results)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearxngSearchWithCategory(t *testing.T) {
	var gotCategory string
	mockItem := SearchResultItem{
		URL:     "https://example.com/test-category",
		Title:   "Test Result with Category",
		Content: "This is a test result content with category",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategory = r.URL.Query().Get("categories")
		_ = json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResultItem{mockItem}})
	}))
	defer srv.Close()

	tool := New(WithBaseURL(srv.URL + "/"))
	result, err := tool.Run(context.Background(), NewInput(NewsCategory, []string{"test query with category"}))
	require.NoError(t, err)
	assert.Equal(t, NewsCategory, gotCategory)
	require.Len(t, result.Results, 1)

	item := result.Results[0]
	assert.Equal(t, mockItem.Title, item.Title)
	assert.Equal(t, mockItem.URL, item.URL)
	assert.Equal(t, mockItem.Content, item.Content)
	assert.Equal(t, "test query with category", item.Query)
}

func TestSearxngSearchMissingFields(t *testing.T) {
	srv := startSearxngServer(t, &SearchResponse{
		Results: []SearchResultItem{
			{Title: "Result Missing Content", URL: "https://example.com/1"},
			{Content: "Result Missing Title", URL: "https://example.com/2"},
			{Title: "Result Missing URL", Content: "Some content"},
			{Title: "Result Missing Query", Content: "Some content", URL: "https://example.com/4"},
			{Title: "Valid Result", Content: "Some content", URL: "https://example.com/5"},
			{Title: "Duplicate", Content: "Some content", URL: "https://example.com/5"},
		},
	})
	tool := New(WithBaseURL(srv.URL))
	result, err := tool.Run(context.Background(), NewInput(EmptyCategory, []string{"query with missing fields"}))
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "Result Missing Query", result.Results[0].Title)
	assert.Equal(t, "Valid Result", result.Results[1].Title)
}

func TestSearxngSearchWithMaxResults(t *testing.T) {
	srv := startSearxngServer(t, &SearchResponse{
		Results: []SearchResultItem{
			{Title: "Result with Metadata", URL: "https://example.com/metadata", Content: "Content with metadata", Metadata: "2021-01-01"},
			{Title: "Result with Published Date", Content: "Content with published date", URL: "https://example.com/published-data", PublishedDate: "2022-01-01"},
			{Title: "Result without dates", Content: "Content without dates", URL: "https://example.com/no-dates"},
		},
	})
	tool := New(WithBaseURL(srv.URL), WithMaxResults(2))
	result, err := tool.Run(context.Background(), NewInput(EmptyCategory, []string{"q1", "q2"}))
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "2021-01-01", result.Results[0].Metadata)
	assert.Equal(t, "2022-01-01", result.Results[1].PublishedDate)
}

func TestSearxngSearchHTMLSnippet(t *testing.T) {
	srv := startSearxngServer(t, &SearchResponse{
		Results: []SearchResultItem{
			{Title: "Go", URL: "https://go.dev", Content: "<p>The <strong>Go</strong> language</p>"},
		},
	})
	result, err := New(WithBaseURL(srv.URL)).Run(context.Background(), NewInput(GeneralCategory, []string{"golang"}))
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "The **Go** language", result.Results[0].Content)
}

func TestSearxngSearchWithNoResults(t *testing.T) {
	srv := startSearxngServer(t, &SearchResponse{Results: []SearchResultItem{}})
	result, err := New(WithBaseURL(srv.URL)).Run(context.Background(), NewInput(EmptyCategory, []string{"nothing"}))
	require.NoError(t, err)
	assert.Empty(t, result.Results)
}

func TestSearxngSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "engine down", http.StatusBadGateway)
	}))
	defer srv.Close()
	_, err := New(WithBaseURL(srv.URL)).Run(context.Background(), NewInput(EmptyCategory, []string{"q"}))
	require.ErrorIs(t, err, tools.ErrToolFailed)
	assert.Contains(t, err.Error(), "502")
}

func TestSearxngAsTool(t *testing.T) {
	srv := startSearxngServer(t, &SearchResponse{
		Results: []SearchResultItem{{Title: "A", URL: "https://a.example", Content: "alpha"}},
	})
	tool := tools.Wrap(New(WithBaseURL(srv.URL)))
	def := tool.Definition()
	assert.Equal(t, "web_search", def.Name)
	bs, err := json.Marshal(def.Parameters)
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"queries"`)
	assert.Contains(t, string(bs), `"required":["queries"]`)

	ret, err := tool.Call(context.Background(), `{"queries":["alpha"]}`)
	require.NoError(t, err)
	assert.Contains(t, ret, `"title":"A"`)

	_, err = tool.Call(context.Background(), `{"queries":[]}`)
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)
}
