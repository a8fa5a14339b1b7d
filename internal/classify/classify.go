// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify calls the classification provider and strictly validates
// the JSON verdict it returns. Untrusted provider output is treated as a
// tagged-variant decode: every deviation from the expected six-field shape
// produces a specific error variant, never a generic catch-all.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/markzm/dealio/internal/cache"
	"github.com/markzm/dealio/internal/httputil"
	"github.com/markzm/dealio/internal/provider"
	"github.com/markzm/dealio/pkg/types"
)

// Client abstracts the chat-completion transport so tests can point the
// classifier at an httptest server or substitute a stub.
type Client interface {
	Name() string
	Complete(ctx context.Context, req provider.Request) (string, error)
}

// Classifier produces validated ClassificationResults, consulting the
// result cache before any network call.
type Classifier struct {
	client Client
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// New builds a Classifier. ttl <= 0 selects the default cache TTL.
func New(client Client, store cache.Store, ttl time.Duration, logger *zap.Logger) *Classifier {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// payload is the raw six-field object expected from the provider. Pointer
// fields distinguish absent from zero-valued so missing fields are detected
// exactly.
type payload struct {
	Category                 *string      `json:"category"`
	TruthfulPercentage       *json.Number `json:"truthful_percentage"`
	MisinformationPercentage *json.Number `json:"misinformation_percentage"`
	BiasPercentage           *json.Number `json:"bias_percentage"`
	BiasType                 *string      `json:"bias_type"`
	Reasoning                *string      `json:"reasoning"`
}

// Classify returns the validated verdict for the canonical input. On a
// cache hit no network call is made. Every failure is terminal for this
// call — no local retry, no silent correction of invalid payloads.
func (c *Classifier) Classify(ctx context.Context, input string) (*types.ClassificationResult, error) {
	key := cache.Key(input)
	if raw, ok := c.store.Get(ctx, cache.RoleClassification, key); ok {
		var cached types.ClassificationResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		c.logger.Warn("discarding unreadable cached classification", zap.String("key", key))
	}

	c.logger.Info("classifying input", zap.String("input", httputil.Truncate(input, 100)))

	prompt, err := renderPrompt(input, c.now())
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	content, err := c.client.Complete(ctx, provider.Request{Prompt: prompt, JSONObject: true})
	if err != nil {
		return nil, err
	}

	result, err := c.validate(content)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		c.store.Put(ctx, cache.RoleClassification, key, data, c.ttl)
	}
	return result, nil
}

// validate parses and strictly validates the provider's JSON content,
// then sanitizes each field. Percentages that do not sum to exactly 100
// are a hard validation failure, never silently corrected.
func (c *Classifier) validate(content string) (*types.ClassificationResult, error) {
	var p payload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return nil, &provider.Error{
			Provider: c.client.Name(),
			Kind:     provider.KindMalformed,
			Message:  fmt.Sprintf("invalid JSON content from %s API", c.client.Name()),
			Err:      err,
		}
	}

	if p.Category == nil || p.TruthfulPercentage == nil || p.MisinformationPercentage == nil ||
		p.BiasPercentage == nil || p.BiasType == nil || p.Reasoning == nil {
		return nil, &provider.Error{
			Provider: c.client.Name(),
			Kind:     provider.KindIncomplete,
			Message:  fmt.Sprintf("incomplete analysis from %s API", c.client.Name()),
		}
	}

	truthful, err1 := p.TruthfulPercentage.Float64()
	misinformation, err2 := p.MisinformationPercentage.Float64()
	bias, err3 := p.BiasPercentage.Float64()
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, &provider.Error{
			Provider: c.client.Name(),
			Kind:     provider.KindMalformed,
			Message:  fmt.Sprintf("invalid JSON content from %s API", c.client.Name()),
		}
	}

	// The sum check runs on the raw values. Truncation happens after, so
	// fractional percentages that only sum to 100 once rounded are rejected.
	total := truthful + misinformation + bias
	if truthful < 0 || misinformation < 0 || bias < 0 || total != 100 {
		c.logger.Warn("invalid percentages from provider", zap.Float64("total", total))
		return nil, &provider.Error{
			Provider: c.client.Name(),
			Kind:     provider.KindInvalidPercentages,
			Message:  fmt.Sprintf("invalid percentages from %s API: must sum to 100", c.client.Name()),
		}
	}

	return &types.ClassificationResult{
		Category:                 types.Category(sanitizeLine(*p.Category)),
		TruthfulPercentage:       int(truthful),
		MisinformationPercentage: int(misinformation),
		BiasPercentage:           int(bias),
		BiasType:                 types.BiasType(sanitizeLine(*p.BiasType)),
		Reasoning:                sanitizeText(*p.Reasoning),
	}, nil
}
