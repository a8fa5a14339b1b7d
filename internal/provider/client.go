// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider talks to OpenAI-compatible chat-completion APIs and
// classifies their failure modes. Both the classification provider and the
// article search providers speak the same envelope; only the prompt, model,
// and a search flag differ.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/markzm/dealio/internal/httputil"
	"github.com/markzm/dealio/pkg/types"
)

// DefaultTimeout bounds each provider call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

const defaultTemperature = 0.3

// Client issues single chat-completion requests against one provider
// endpoint. It is safe for concurrent use.
type Client struct {
	name        string
	baseURL     string
	model       string
	apiKey      string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient builds a Client from configuration. name labels the provider in
// errors and log lines (e.g. "OpenAI", "Grok 3").
func NewClient(name string, cfg types.ProviderConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		name:        name,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		maxTokens:   cfg.MaxTokens,
		temperature: temperature,
		httpClient:  httputil.NewClient(timeout),
		logger:      logger,
	}
}

// Name returns the provider label used in errors and log lines.
func (c *Client) Name() string { return c.name }

// HasKey reports whether the client is configured with an API key.
func (c *Client) HasKey() bool { return c.apiKey != "" }

// Request describes one chat completion.
type Request struct {
	// Prompt is sent as a single user-role message.
	Prompt string
	// JSONObject requests the json_object response format hint.
	JSONObject bool
	// Search enables the provider's live search mode where supported.
	Search bool
}

// Wire types for the chat-completion envelope.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type searchOptions struct {
	Enabled bool `json:"enabled"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float64         `json:"temperature"`
	Search         *searchOptions  `json:"search,omitempty"`
}

type chatResponse struct {
	Error   *apiError `json:"error"`
	Choices []choice  `json:"choices"`
}

type apiError struct {
	Message string `json:"message"`
}

type choice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Complete issues one chat-completion request and returns the content of
// the first choice. Every failure is returned as a classified *Error; the
// call is never retried locally. The raw response is logged for
// operability — logging never alters control flow.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	if req.JSONObject {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	if req.Search {
		body.Search = &searchOptions{Enabled: true}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("provider connection failed", zap.String("provider", c.name), zap.Error(err))
		return "", &Error{
			Provider: c.name,
			Kind:     KindConnection,
			Message:  fmt.Sprintf("failed to connect to %s API: %v", c.name, err),
			Err:      err,
		}
	}

	raw, err := httputil.ReadBody(resp)
	if err != nil {
		return "", &Error{
			Provider: c.name,
			Kind:     KindConnection,
			Message:  fmt.Sprintf("failed to read %s API response: %v", c.name, err),
			Err:      err,
		}
	}

	c.logger.Debug("provider raw response",
		zap.String("provider", c.name),
		zap.String("body", httputil.Truncate(string(raw), 2000)))

	var envelope chatResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", &Error{
			Provider: c.name,
			Kind:     KindMalformed,
			Message:  fmt.Sprintf("invalid response from %s API", c.name),
			Err:      err,
		}
	}

	if envelope.Error != nil {
		return "", &Error{
			Provider: c.name,
			Kind:     KindProvider,
			Message:  fmt.Sprintf("%s API error: %s", c.name, envelope.Error.Message),
		}
	}

	if len(envelope.Choices) == 0 || envelope.Choices[0].Message.Content == "" {
		return "", &Error{
			Provider: c.name,
			Kind:     KindMalformed,
			Message:  fmt.Sprintf("invalid response from %s API", c.name),
		}
	}

	return envelope.Choices[0].Message.Content, nil
}
