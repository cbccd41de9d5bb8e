package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is one search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Response is the answer plus supporting results for one query.
type Response struct {
	Answer  string   `json:"answer"`
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// Client calls the Tavily search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.tavily.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search runs a web search with answer synthesis enabled. includeDomains may
// be empty; when set, results are restricted to those hosts.
func (c *Client) Search(ctx context.Context, query string, maxResults int, includeDomains []string) (*Response, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	payload := map[string]any{
		"api_key":        c.apiKey,
		"query":          query,
		"search_depth":   "basic",
		"include_answer": true,
		"max_results":    maxResults,
	}
	if len(includeDomains) > 0 {
		payload["include_domains"] = includeDomains
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed Response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
