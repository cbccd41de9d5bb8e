package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Answer is the synthesized response plus its citations.
type Answer struct {
	Text      string
	Citations []string
	Model     string
}

// Client calls the Perplexity chat-completions API for sourced answers.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   "sonar",
		baseURL: "https://api.perplexity.ai",
		httpClient: &http.Client{
			Timeout: 45 * time.Second,
		},
	}
}

// Ask runs one online question and returns the answer with citations.
func (c *Client) Ask(ctx context.Context, question string) (*Answer, error) {
	body, _ := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": question},
		},
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("perplexity API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Model     string   `json:"model"`
		Citations []string `json:"citations"`
		Choices   []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no answer returned")
	}
	return &Answer{
		Text:      parsed.Choices[0].Message.Content,
		Citations: parsed.Citations,
		Model:     parsed.Model,
	}, nil
}
