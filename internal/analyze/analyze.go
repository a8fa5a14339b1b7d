// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze orchestrates content extraction, classification, and
// article search into one bounded response. The flow is a linear state
// machine: input validation, key check, content resolution, classification,
// article search, assembly. Each request ends in exactly one of two
// terminal states — a full AggregatedResponse or a single user-facing
// error. No partial or streaming responses.
package analyze

import (
	"context"

	"go.uber.org/zap"

	"github.com/markzm/dealio/internal/articles"
	"github.com/markzm/dealio/internal/content"
	"github.com/markzm/dealio/internal/httputil"
	"github.com/markzm/dealio/pkg/types"
)

// UserError carries the single message rendered to the requester when a
// request fails. Extraction and classification failures surface verbatim;
// article-search failures never produce one.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// Keys is the provider credential configuration injected at construction.
// It is never read from ambient global state.
type Keys struct {
	ClassificationAPIKey string
	SearchAPIKey         string
}

// Configured reports whether any provider key is present.
func (k Keys) Configured() bool {
	return k.ClassificationAPIKey != "" || k.SearchAPIKey != ""
}

// Extractor resolves a URL into article text.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Classifier produces a validated verdict for a canonical input.
type Classifier interface {
	Classify(ctx context.Context, input string) (*types.ClassificationResult, error)
}

// Analyzer runs the analysis pipeline. Calls are strictly sequential per
// request: at most one content fetch, one classification call, and up to
// two article-search calls, in that fixed order.
type Analyzer struct {
	keys       Keys
	extractor  Extractor
	classifier Classifier
	finders    []articles.Finder
	logger     *zap.Logger
}

// New wires the pipeline. finders are tried in order under the
// first-non-empty-wins policy; nil entries are skipped.
func New(keys Keys, extractor Extractor, classifier Classifier, finders []articles.Finder, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		keys:       keys,
		extractor:  extractor,
		classifier: classifier,
		finders:    finders,
		logger:     logger,
	}
}

// Analyze processes one submission. Exactly one of url and rumor may be
// empty; a supplied URL takes precedence over rumor text, and its
// extraction failure is terminal even when a rumor was also supplied.
func (a *Analyzer) Analyze(ctx context.Context, url, rumor string) (*types.AggregatedResponse, error) {
	if url == "" && rumor == "" {
		return nil, &UserError{Message: "Please fill out at least one field."}
	}
	if !a.keys.Configured() {
		return nil, &UserError{Message: "At least one API key (OpenAI or Grok 3) must be configured."}
	}

	input := rumor
	if url != "" {
		text, err := a.extractor.Extract(ctx, url)
		if err != nil {
			return nil, &UserError{Message: err.Error()}
		}
		input = text
	}

	a.logger.Info("input for analysis",
		zap.String("input", httputil.Truncate(input, 100)),
		zap.String("normalized", httputil.Truncate(content.Normalize(input), 100)))

	if a.keys.ClassificationAPIKey == "" {
		return nil, &UserError{Message: "OpenAI API key required for analysis."}
	}

	analysis, err := a.classifier.Classify(ctx, input)
	if err != nil {
		return nil, &UserError{Message: err.Error()}
	}

	found := articles.FirstNonEmpty(ctx, input, a.finders...)

	resp := &types.AggregatedResponse{
		Analysis: analysis,
		Articles: found,
		// The supplementary list stays distinct from the winning source
		// and is never merged into it.
		SupplementaryArticles: nil,
		PieData: types.PieData{
			Truthful:       analysis.TruthfulPercentage,
			Misinformation: analysis.MisinformationPercentage,
			Bias:           analysis.BiasPercentage,
		},
	}

	a.logger.Info("analysis complete",
		zap.String("category", string(analysis.Category)),
		zap.Int("articles", len(resp.Articles)))
	return resp, nil
}
