// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/markzm/dealio/internal/analyze"
	"github.com/markzm/dealio/internal/articles"
	"github.com/markzm/dealio/internal/cache"
	"github.com/markzm/dealio/internal/classify"
	"github.com/markzm/dealio/internal/content"
	"github.com/markzm/dealio/internal/provider"
	"github.com/markzm/dealio/internal/secrets"
	"github.com/markzm/dealio/pkg/types"
)

const userAgent = "dealio/0.1"

func setDefaults() {
	viper.SetDefault("classifier.base_url", "https://api.openai.com/v1/chat/completions")
	viper.SetDefault("classifier.model", "gpt-4.1-mini")
	viper.SetDefault("classifier.max_tokens", 500)
	viper.SetDefault("classifier.temperature", 0.3)
	viper.SetDefault("classifier.timeout", 30*time.Second)

	viper.SetDefault("search.base_url", "https://api.x.ai/v1/chat/completions")
	viper.SetDefault("search.model", "grok-3-beta")
	viper.SetDefault("search.max_tokens", 1000)
	viper.SetDefault("search.temperature", 0.3)
	viper.SetDefault("search.timeout", 30*time.Second)

	viper.SetDefault("fallback.base_url", "https://api.openai.com/v1/chat/completions")
	viper.SetDefault("fallback.model", "gpt-4.1-mini")
	viper.SetDefault("fallback.max_tokens", 1000)
	viper.SetDefault("fallback.temperature", 0.3)
	viper.SetDefault("fallback.timeout", 30*time.Second)

	viper.SetDefault("extractor.timeout", 15*time.Second)

	viper.SetDefault("cache.path", "dealio.db")
	viper.SetDefault("cache.ttl", time.Hour)

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.rate_limit", 5.0)
	viper.SetDefault("server.rate_burst", 10)
	viper.SetDefault("server.token_ttl", 15*time.Minute)
}

// buildConfig assembles the runtime configuration from viper and the
// secrets directory. Explicit config values win over secret files.
func buildConfig() types.Config {
	providerCfg := func(prefix, secretKey string) types.ProviderConfig {
		return types.ProviderConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration(prefix + ".timeout"),
				UserAgent: userAgent,
			},
			BaseURL:     viper.GetString(prefix + ".base_url"),
			Model:       viper.GetString(prefix + ".model"),
			APIKey:      keyFor(prefix, secretKey),
			MaxTokens:   viper.GetInt(prefix + ".max_tokens"),
			Temperature: viper.GetFloat64(prefix + ".temperature"),
		}
	}

	return types.Config{
		Classifier: providerCfg("classifier", "openai-api-key"),
		Search:     providerCfg("search", "grok-api-key"),
		Fallback:   providerCfg("fallback", "openai-api-key"),
		Extractor: types.ExtractorConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("extractor.timeout"),
				UserAgent: userAgent,
			},
		},
		Cache: types.CacheConfig{
			Path: viper.GetString("cache.path"),
			TTL:  viper.GetDuration("cache.ttl"),
		},
		Server: types.ServerConfig{
			Addr:      viper.GetString("server.addr"),
			RateLimit: viper.GetFloat64("server.rate_limit"),
			RateBurst: viper.GetInt("server.rate_burst"),
			TokenTTL:  viper.GetDuration("server.token_ttl"),
		},
	}
}

func keyFor(prefix, secretKey string) string {
	explicit := viper.GetString(prefix + ".api_key")
	return secrets.Default(loadedSecrets, secretKey, explicit)
}

// newPipeline wires the cache, provider clients, and finders into an
// Analyzer. The returned store must be closed by the caller.
func newPipeline(cfg types.Config, logger *zap.Logger) (*analyze.Analyzer, cache.Store, error) {
	var store cache.Store
	if cfg.Cache.Path == "" {
		store = cache.NewMemoryStore()
	} else {
		s, err := cache.NewSQLiteStore(cfg.Cache.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		store = s
	}

	classifierClient := provider.NewClient("OpenAI", cfg.Classifier, logger)
	classifier := classify.New(classifierClient, store, cfg.Cache.TTL, logger)

	var finders []articles.Finder
	if cfg.Search.APIKey != "" {
		searchClient := provider.NewClient("Grok 3", cfg.Search, logger)
		finders = append(finders, articles.NewSearchFinder(searchClient, store, cfg.Cache.TTL, logger))
	}
	if cfg.Fallback.APIKey != "" {
		fallbackClient := provider.NewClient("OpenAI", cfg.Fallback, logger)
		finders = append(finders, articles.NewFallbackFinder(fallbackClient, store, cfg.Cache.TTL, logger))
	}

	keys := analyze.Keys{
		ClassificationAPIKey: cfg.Classifier.APIKey,
		SearchAPIKey:         cfg.Search.APIKey,
	}
	extractor := content.NewExtractor(cfg.Extractor, logger)
	analyzer := analyze.New(keys, extractor, classifier, finders, logger)
	return analyzer, store, nil
}
