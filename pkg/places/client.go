package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Review is one review as returned by the Places details endpoint.
type Review struct {
	AuthorName      string  `json:"author_name"`
	Rating          float64 `json:"rating"`
	Text            string  `json:"text"`
	Time            int64   `json:"time"`
	AuthorURL       string  `json:"author_url"`
	RelativeTimeDsc string  `json:"relative_time_description"`
}

type detailsResponse struct {
	Result struct {
		Name    string   `json:"name"`
		Rating  float64  `json:"rating"`
		Reviews []Review `json:"reviews"`
	} `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Client polls the Google Places details API for reviews.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api/place",
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// FetchReviews returns the reviews currently exposed for a place. The API
// caps this at the five most relevant reviews per call.
func (c *Client) FetchReviews(ctx context.Context, placeID string) ([]Review, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "name,rating,reviews")
	q.Set("key", c.apiKey)

	endpoint := c.baseURL + "/details/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API error (%d)", resp.StatusCode)
	}

	var parsed detailsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	if parsed.Status != "OK" {
		return nil, fmt.Errorf("places API status %s: %s", parsed.Status, parsed.ErrorMessage)
	}
	return parsed.Result.Reviews, nil
}
