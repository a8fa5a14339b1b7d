// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package articles

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/markzm/dealio/internal/cache"
	"github.com/markzm/dealio/internal/httputil"
	"github.com/markzm/dealio/internal/provider"
	"github.com/markzm/dealio/pkg/types"
)

// Client abstracts the chat-completion transport so tests can substitute a
// stub or an httptest-backed client.
type Client interface {
	Name() string
	Complete(ctx context.Context, req provider.Request) (string, error)
}

// ProviderFinder is a Finder backed by one chat-completion provider.
// The two deployed variants differ only in prompt, cache role, and whether
// the provider's live search mode is enabled.
type ProviderFinder struct {
	client     Client
	store      cache.Store
	role       cache.Role
	promptTmpl *template.Template
	search     bool
	jsonObject bool
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewSearchFinder builds the primary finder against the search-capable
// provider. Results cache under the primary-articles role.
func NewSearchFinder(client Client, store cache.Store, ttl time.Duration, logger *zap.Logger) *ProviderFinder {
	return newFinder(client, store, cache.RoleArticlesPrimary, searchPromptTmpl, true, false, ttl, logger)
}

// NewFallbackFinder builds the fallback finder. It has no live search mode
// and caches under the fallback-articles role.
func NewFallbackFinder(client Client, store cache.Store, ttl time.Duration, logger *zap.Logger) *ProviderFinder {
	return newFinder(client, store, cache.RoleArticlesFallback, fallbackPromptTmpl, false, true, ttl, logger)
}

func newFinder(client Client, store cache.Store, role cache.Role, tmpl *template.Template, search, jsonObject bool, ttl time.Duration, logger *zap.Logger) *ProviderFinder {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderFinder{
		client:     client,
		store:      store,
		role:       role,
		promptTmpl: tmpl,
		search:     search,
		jsonObject: jsonObject,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// Name returns the underlying provider's label.
func (f *ProviderFinder) Name() string { return f.client.Name() }

// item is one raw article as returned by the provider. Pointer fields
// distinguish absent from empty so partially-formed entries are detected.
type item struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Publication *string `json:"publication"`
	Date        *string `json:"date"`
	Author      *string `json:"author"`
}

// Find returns up to MaxArticles validated articles for the claim. Every
// failure degrades to an empty slice. Empty result sets are never cached,
// so a transient empty search re-queries on the next identical request.
func (f *ProviderFinder) Find(ctx context.Context, input string) []types.Article {
	key := cache.Key(input)
	if raw, ok := f.store.Get(ctx, f.role, key); ok {
		var cached []types.Article
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached
		}
		f.logger.Warn("discarding unreadable cached articles", zap.String("role", string(f.role)))
	}

	prompt, err := renderPrompt(f.promptTmpl, input, f.now())
	if err != nil {
		f.logger.Error("rendering article prompt", zap.Error(err))
		return nil
	}

	content, err := f.client.Complete(ctx, provider.Request{
		Prompt:     prompt,
		JSONObject: f.jsonObject,
		Search:     f.search,
	})
	if err != nil {
		f.logger.Warn("article search failed",
			zap.String("provider", f.client.Name()), zap.Error(err))
		return nil
	}

	var raw []item
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		f.logger.Warn("article payload is not a JSON array",
			zap.String("provider", f.client.Name()),
			zap.String("content", httputil.Truncate(content, 500)))
		return nil
	}

	found := validItems(raw)
	if len(found) > MaxArticles {
		found = found[:MaxArticles]
	}
	if len(found) == 0 {
		return nil
	}

	if data, err := json.Marshal(found); err == nil {
		f.store.Put(ctx, f.role, key, data, f.ttl)
	}
	return found
}

// validItems keeps only items with all five fields present, in provider
// order. Partial items are silently dropped, never stored as placeholders.
func validItems(raw []item) []types.Article {
	var found []types.Article
	for _, it := range raw {
		if it.Title == nil || it.URL == nil || it.Publication == nil || it.Date == nil || it.Author == nil {
			continue
		}
		found = append(found, types.Article{
			Title:       sanitize(*it.Title),
			URL:         strings.TrimSpace(*it.URL),
			Publication: sanitize(*it.Publication),
			Date:        sanitize(*it.Date),
			Author:      sanitize(*it.Author),
		})
	}
	return found
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// sanitize strips markup and collapses whitespace in a provider-supplied field.
func sanitize(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
