// Package research is the HTTP adapter to the Mistral-backed research
// agent service. The service runs its own search and crawl internally;
// this client sends one event request and decodes the returned knowledge
// base.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/raceatlas/scout-cli/internal/model"
)

const (
	defaultBaseURL = "https://api.mistral.ai"
	defaultModel   = "mistral-large-latest"
)

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithModel overrides the default model.
func WithModel(m string) Option {
	return func(c *Client) {
		c.model = m
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit caps requests per second against the service.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Client calls the research agent's chat completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a research agent client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http: &http.Client{
			// Research missions crawl and rerank server-side; they are slow.
			Timeout: 10 * time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const missionPrompt = `You are a race research analyst. Research the event below across the
web and return ONLY a JSON object mapping each distinct race variant name
to an object of schema fields, where every field is
{"value": string, "confidence": number 0..1, "sources": [urls], "inferred_by": string}.
Mark cross-referenced values with an inferred_by tag containing "inference".`

// Run implements agent.Agent.
func (c *Client) Run(ctx context.Context, req model.EventRequest) (model.KnowledgeBase, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "research: rate limit wait")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "research: marshal request")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: missionPrompt},
			{Role: "user", Content: string(payload)},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, eris.Wrap(err, "research: marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "research: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrapf(err, "research: mission for %s", req.Festival)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "research: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("research: API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, eris.Wrap(err, "research: unmarshal response")
	}
	if len(chat.Choices) == 0 {
		return nil, eris.New("research: empty completion")
	}

	var kb model.KnowledgeBase
	if err := json.Unmarshal([]byte(stripFences(chat.Choices[0].Message.Content)), &kb); err != nil {
		return nil, eris.Wrapf(err, "research: unmarshal knowledge base for %s", req.Festival)
	}
	return kb, nil
}

// stripFences removes a ```json ... ``` wrapper some models emit despite
// the JSON response format.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
