package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// Config captures the runtime settings required to talk to the
// text-generation endpoint.
type Config struct {
	Model          string
	Region         string
	BaseURL        string
	APIKey         string
	MaxTokens      int
	TimeoutSeconds int
}

// Client wraps a hosted text-generation model behind an invoke-style HTTP
// API. The request body shape follows the model family: Claude-family models
// use the chat-style prompt contract, everything else the generic prompt
// contract.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the endpoint base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.cfg.BaseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a text-generation client. It fails when credentials
// are missing so callers can downgrade to local naming at construction time.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			Model:          strings.TrimSpace(cfg.Model),
			Region:         strings.TrimSpace(cfg.Region),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			MaxTokens:      cfg.MaxTokens,
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.Model == "" {
		return nil, errors.New("textgen: model identifier required")
	}
	if client.cfg.APIKey == "" {
		return nil, errors.New("textgen: api key required (set TEXTGEN_API_KEY or naming.api_key)")
	}
	if client.cfg.BaseURL == "" {
		if client.cfg.Region == "" {
			return nil, errors.New("textgen: region or base_url required")
		}
		client.cfg.BaseURL = fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", client.cfg.Region)
	}
	client.endpoint = client.cfg.BaseURL + "/model/" + url.PathEscape(client.cfg.Model) + "/invoke"
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client, nil
}

const promptSampleLimit = 500

// GenerateName asks the model for a short descriptive filename for the given
// content sample. The returned name is cleaned to [A-Za-z0-9_-] with
// whitespace runs collapsed to single underscores; it may be empty when the
// model produced nothing usable.
func (c *Client) GenerateName(ctx context.Context, contentSample string) (string, error) {
	contentSample = strings.TrimSpace(contentSample)
	if contentSample == "" {
		return "", errors.New("textgen generate: content sample required")
	}

	// The HTTP client timeout caps the socket; the context deadline caps the
	// whole call so a stalled endpoint cannot wedge the pipeline.
	timeout := c.httpClient.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := buildPrompt(contentSample)
	encoded, err := json.Marshal(c.requestBody(prompt))
	if err != nil {
		return "", fmt.Errorf("textgen generate: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("textgen generate: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("textgen generate: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("textgen generate: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("textgen generate: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	completion, err := c.parseResponse(body)
	if err != nil {
		return "", err
	}
	return CleanName(completion), nil
}

func buildPrompt(contentSample string) string {
	runes := []rune(contentSample)
	if len(runes) > promptSampleLimit {
		contentSample = string(runes[:promptSampleLimit])
	}
	return "Based on the following text content, generate a short, descriptive filename (3-5 words, no file extension).\n" +
		"Use underscores between words. Only respond with the filename, nothing else.\n\n" +
		"Content:\n" + contentSample + "\n\nFilename:"
}

func (c *Client) claudeFamily() bool {
	return strings.Contains(strings.ToLower(c.cfg.Model), "claude")
}

type claudeRequest struct {
	Prompt            string  `json:"prompt"`
	MaxTokensToSample int     `json:"max_tokens_to_sample"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
}

type genericRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

func (c *Client) requestBody(prompt string) any {
	if c.claudeFamily() {
		return claudeRequest{
			Prompt:            "\n\nHuman: " + prompt + "\n\nAssistant:",
			MaxTokensToSample: c.cfg.MaxTokens,
			Temperature:       0.7,
			TopP:              0.9,
		}
	}
	return genericRequest{
		Prompt:      prompt,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: 0.7,
	}
}

type invokeResponse struct {
	Completion string `json:"completion"`
	Text       string `json:"text"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) parseResponse(body []byte) (string, error) {
	var parsed invokeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("textgen generate: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("textgen generate: api error: %s", strings.TrimSpace(parsed.Error.Message))
	}
	if c.claudeFamily() {
		return parsed.Completion, nil
	}
	return parsed.Text, nil
}

// CleanName normalizes a model completion into a filename candidate: first
// line only, characters outside [A-Za-z0-9_- ] removed, whitespace runs
// collapsed to single underscores.
func CleanName(completion string) string {
	line := completion
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '-' || r == ' ' || r == '\t':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}
