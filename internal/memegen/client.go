// Package memegen provides a client for the memegen.link template catalog.
package memegen

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the memegen.link API base URL.
const DefaultBaseURL = "https://api.memegen.link"

// ClientOptions configures a new Client.
type ClientOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client wraps a resty client for memegen API calls.
type Client struct {
	http *resty.Client
}

// Template describes a meme template from the API.
type Template struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Lines    int      `json:"lines"`
	Styles   []string `json:"styles"`
	Blank    string   `json:"blank"`
	Keywords []string `json:"keywords"`
}

// Error represents a non-2xx response from the memegen API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("memegen api: %s (HTTP %d)", e.Message, e.StatusCode)
}

// NewClient builds a Client. Zero options fall back to the public API with a
// 10 second timeout.
func NewClient(opts ClientOptions) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "trendmeme/dev"
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetHeader("User-Agent", ua)
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(timeout)

	return &Client{http: client}
}

// ListTemplates fetches all meme templates from GET /templates/.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	var out []Template
	var apiErr struct {
		Error string `json:"error"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(&out).
		SetError(&apiErr).
		Get("/templates/")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return nil, &Error{StatusCode: resp.StatusCode(), Message: msg}
	}

	return out, nil
}

// TemplateIDs returns the canonical ids of all templates, skipping blank ids.
func (c *Client) TemplateIDs(ctx context.Context) ([]string, error) {
	templates, err := c.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(templates))
	for _, t := range templates {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}
