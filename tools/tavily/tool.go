// Package tavily searches the web through the Tavily search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/srijan-op/Brain-Chain/tools"
)

const DefaultBaseURL = "https://api.tavily.com"

// Input is a web search query
type Input struct {
	// Query search query to look up
	Query string `json:"query" jsonschema:"title=query,description=Search query to look up." validate:"required"`
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Result is one search hit
type Result struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Output is the list of search hits fed back to the model
type Output struct {
	Results []Result `json:"results"`
}

func (s Output) String() string {
	bs, _ := json.Marshal(s.Results)
	return string(bs)
}

type searchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth,omitempty"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

type Config struct {
	tools.Config
	apiKey      string
	baseURL     string
	maxResults  int
	searchDepth string
	httpClient  *http.Client
}

// Search is a tool returning web search results from Tavily
type Search struct {
	Config
}

var _ tools.Runner[Input, Output] = (*Search)(nil)

func New(opts ...Option) *Search {
	ret := new(Search)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("tavily_search_results_json")
	}
	if ret.Description() == "" {
		ret.SetDescription("A search engine optimized for comprehensive, accurate, and trusted results. Useful for when you need to answer questions about current events. Input should be a search query.")
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	ret.baseURL = strings.TrimRight(ret.baseURL, "/")
	if ret.maxResults <= 0 {
		ret.maxResults = 2
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

// Run sends the query to Tavily and returns at most maxResults hits
func (t *Search) Run(ctx context.Context, input *Input) (*Output, error) {
	body, err := json.Marshal(searchRequest{
		Query:       input.Query,
		MaxResults:  t.maxResults,
		SearchDepth: t.searchDepth,
	})
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tavily: %w", tools.ErrToolFailed, err)
	}
	defer httpResp.Body.Close()
	if err := tools.CheckResponse("tavily", httpResp); err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decoding tavily response: %w", tools.ErrToolFailed, err)
	}
	out := &Output{Results: make([]Result, 0, len(resp.Results))}
	for _, v := range resp.Results {
		content := v.Content
		if md, err := htmltomarkdown.ConvertString(content); err == nil {
			content = strings.TrimSpace(md)
		}
		out.Results = append(out.Results, Result{URL: v.URL, Content: content})
		if len(out.Results) >= t.maxResults {
			break
		}
	}
	return out, nil
}
