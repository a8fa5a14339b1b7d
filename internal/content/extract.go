// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content fetches URLs and extracts readable article text.
package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/markzm/dealio/internal/httputil"
	"github.com/markzm/dealio/pkg/types"
)

// DefaultFetchTimeout bounds the URL fetch when no timeout is configured.
const DefaultFetchTimeout = 15 * time.Second

// ErrNoContent reports that the URL was reachable but yielded no
// extractable paragraph text.
var ErrNoContent = errors.New("no readable content found at the provided URL")

// FetchError reports a transport-level failure while fetching the URL.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch URL content: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Extractor fetches a page and extracts its paragraph text.
type Extractor struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewExtractor builds an Extractor from configuration. A nil logger is
// replaced with a no-op logger.
func NewExtractor(cfg types.ExtractorConfig, logger *zap.Logger) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		client:    httputil.NewClient(timeout),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Extract fetches rawURL and returns the concatenated text of every
// paragraph element in document order. Malformed markup does not abort
// extraction; the HTML parser recovers on a best-effort basis. There are
// no retries at this layer — failures surface immediately to the caller.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("url fetch failed", zap.String("url", rawURL), zap.Error(err))
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		e.logger.Warn("html parse failed", zap.String("url", rawURL), zap.Error(err))
		return "", &FetchError{URL: rawURL, Err: err}
	}

	var b strings.Builder
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
		b.WriteString(" ")
	})

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNoContent
	}

	e.logger.Debug("extracted content",
		zap.String("url", rawURL),
		zap.String("input", httputil.Truncate(text, 100)))
	return text, nil
}
