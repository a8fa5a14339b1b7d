// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package articles retrieves bounded lists of supporting news articles from
// search-capable chat-completion providers. Article sourcing is
// supplementary to the verdict, so every failure mode degrades to an empty
// list instead of surfacing an error; the caller interprets empty as "try
// the next source".
package articles

import (
	"context"

	"github.com/markzm/dealio/pkg/types"
)

// MaxArticles bounds each provider's article list.
const MaxArticles = 10

// Finder retrieves supporting articles for a claim. Implementations never
// return an error: transport failures, provider error envelopes, malformed
// payloads, and empty arrays all yield an empty slice.
type Finder interface {
	Name() string
	Find(ctx context.Context, input string) []types.Article
}

// FirstNonEmpty tries each finder in order and returns the first non-empty
// article list, truncated to MaxArticles. Lists are never merged across
// sources. Nil finders are skipped so callers can pass unconfigured slots.
func FirstNonEmpty(ctx context.Context, input string, finders ...Finder) []types.Article {
	for _, f := range finders {
		if f == nil {
			continue
		}
		if found := f.Find(ctx, input); len(found) > 0 {
			if len(found) > MaxArticles {
				found = found[:MaxArticles]
			}
			return found
		}
	}
	return nil
}
