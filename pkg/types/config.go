package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "dealio/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProviderConfig holds settings for one chat-completion provider endpoint.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the chat-completions endpoint
	// (e.g. "https://api.openai.com/v1/chat/completions").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the model identifier (e.g. "gpt-4.1-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the bearer token for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens bounds the completion length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature controls sampling variance (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// ExtractorConfig holds settings for the URL content extraction stage.
type ExtractorConfig struct {
	HTTPConfig `yaml:",inline"`
}

// CacheConfig holds settings for the result cache.
type CacheConfig struct {
	// Path is the SQLite database file. Empty selects the in-memory store.
	Path string `json:"path" yaml:"path"`

	// TTL is how long validated results stay fresh (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// ServerConfig holds settings for the HTTP transport boundary.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// RateLimit is the per-client request rate in requests per second.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// RateBurst is the per-client burst allowance.
	RateBurst int `json:"rate_burst" yaml:"rate_burst"`

	// TokenTTL is how long an unredeemed submission token stays valid.
	TokenTTL time.Duration `json:"token_ttl" yaml:"token_ttl"`
}

// Config groups all stage configurations.
type Config struct {
	Classifier ProviderConfig  `json:"classifier" yaml:"classifier"`
	Search     ProviderConfig  `json:"search" yaml:"search"`
	Fallback   ProviderConfig  `json:"fallback" yaml:"fallback"`
	Extractor  ExtractorConfig `json:"extractor" yaml:"extractor"`
	Cache      CacheConfig     `json:"cache" yaml:"cache"`
	Server     ServerConfig    `json:"server" yaml:"server"`
}
